package main

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.json> <output.csv>",
	Short: "Convert one Bitbucket export into a Redmine CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		input, out := args[0], args[1]

		ids, err := loadMapper(cmd)
		if err != nil {
			return err
		}

		ok, err := confirmOverwrite(cmd, w, []string{out})
		if err != nil {
			return err
		}
		if !ok {
			w.Info("Cancelled.")
			return nil
		}

		res, err := convert.File(input, out, ids, conversionOptions(cmd))
		if err != nil {
			return failErr(err)
		}

		if res.Orphans > 0 {
			w.Warn("%s: dropped %d comment(s) that reference unknown issues", input, res.Orphans)
		}

		var message string
		if !w.JSONMode {
			message = fmt.Sprintf("Converted %s → %s (%d issue(s), %d comment(s), %s)",
				input, out, res.Issues, res.Comments, humanize.Bytes(uint64(res.Bytes)))
		}
		w.Success(res, message)
		return nil
	},
}

func init() {
	addConversionFlags(convertCmd)
	addInteractiveFlag(convertCmd)
	rootCmd.AddCommand(convertCmd)
}
