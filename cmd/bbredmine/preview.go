package main

import (
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/convert"
	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
	"github.com/ALT-F4-LLC/bbredmine/internal/model"
	"github.com/ALT-F4-LLC/bbredmine/internal/render"
)

type previewResult struct {
	Input  string        `json:"input"`
	Stats  convert.Stats `json:"stats"`
	Header []string      `json:"header"`
	Rows   [][]string    `json:"rows"`
}

var previewCmd = &cobra.Command{
	Use:   "preview <input.json>",
	Short: "Show converted issues in the terminal without writing a CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		input := args[0]
		limit, _ := cmd.Flags().GetInt("limit")

		ids, err := loadMapper(cmd)
		if err != nil {
			return err
		}

		doc, err := model.LoadFile(input)
		if err != nil {
			return failErr(err)
		}
		ds, stats, err := convert.Build(doc, ids, conversionOptions(cmd))
		if err != nil {
			return failErr(failure.WithPath(err, input))
		}

		if w.JSONMode {
			rows := ds.Rows
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}
			w.Success(previewResult{Input: input, Stats: stats, Header: ds.Header, Rows: rows}, "")
			return nil
		}

		if len(ds.Rows) == 0 {
			w.Success(nil, render.EmptyState("No issues in "+input+".", ""))
			return nil
		}

		out, err := render.RenderMarkdown(render.PreviewMarkdown(ds, limit))
		if err != nil {
			w.Warn("markdown rendering failed, showing source: %v", err)
		}
		w.Success(nil, out)
		return nil
	},
}

func init() {
	addConversionFlags(previewCmd)
	previewCmd.Flags().IntP("limit", "n", 5, "Number of issues to show (0 for all)")
	rootCmd.AddCommand(previewCmd)
}
