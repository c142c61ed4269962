package main

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/dataset"
	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
	"github.com/ALT-F4-LLC/bbredmine/internal/redmine"
	"github.com/ALT-F4-LLC/bbredmine/internal/render"
)

type columnInfo struct {
	Name   string `json:"name"`
	Filled int    `json:"filled"`
}

type inspectResult struct {
	Path    string       `json:"path"`
	Bytes   int64        `json:"bytes"`
	Rows    int          `json:"rows"`
	Layout  string       `json:"layout"`
	Columns []columnInfo `json:"columns"`
}

// layoutOf names the importer layout a header matches.
func layoutOf(header []string) string {
	switch {
	case slices.Equal(header, redmine.Header(false)):
		return "minimal"
	case slices.Equal(header, redmine.Header(true)):
		return "relations"
	default:
		return "unknown"
	}
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <output.csv>",
	Short: "Summarise a converted CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		path := args[0]

		ds, err := dataset.ReadFile(path)
		if err != nil {
			return failErr(err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return failErr(failure.WithPath(failure.Wrap(failure.ErrInputNotFound, err, "reading file"), path))
		}

		result := inspectResult{
			Path:   path,
			Bytes:  info.Size(),
			Rows:   len(ds.Rows),
			Layout: layoutOf(ds.Header),
		}
		for _, name := range ds.Header {
			filled := 0
			for _, v := range ds.Column(name) {
				if v != "" {
					filled++
				}
			}
			result.Columns = append(result.Columns, columnInfo{Name: name, Filled: filled})
		}

		if result.Layout == "unknown" {
			w.Warn("%s: header does not match a Redmine importer layout", path)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderInspect(path, ds, info.Size())
		}
		w.Success(result, message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
