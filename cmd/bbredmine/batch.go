package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/batch"
	"github.com/ALT-F4-LLC/bbredmine/internal/config"
	"github.com/ALT-F4-LLC/bbredmine/internal/convert"
	"github.com/ALT-F4-LLC/bbredmine/internal/output"
	"github.com/ALT-F4-LLC/bbredmine/internal/render"
)

type batchResult struct {
	Root   string          `json:"root"`
	Files  []batch.Outcome `json:"files"`
	Totals batch.Totals    `json:"totals"`
	Counts map[string]int  `json:"counts"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <root-dir>",
	Short: "Convert every export found in the subdirectories of a root directory",
	Long: `Converts each *.json file found in the immediate subdirectories of
<root-dir>. Each CSV is written next to its export with the extension
replaced. A failing export is reported and the remaining ones are still
converted unless --fail-fast is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)
		root := args[0]

		jobsN := flagInt(cmd, config.KeyJobs, cfg.Jobs)
		if jobsN < 1 {
			return cmdErr(fmt.Errorf("--jobs must be at least 1, got %d", jobsN), output.ErrValidation)
		}
		failFast := flagBool(cmd, config.KeyFailFast, cfg.FailFast)

		ids, err := loadMapper(cmd)
		if err != nil {
			return err
		}
		opts := conversionOptions(cmd)

		jobs, err := batch.Discover(root)
		if err != nil {
			return failErr(err)
		}

		outputs := make([]string, len(jobs))
		for i, j := range jobs {
			outputs[i] = j.Output
		}
		ok, err := confirmOverwrite(cmd, w, outputs)
		if err != nil {
			return err
		}
		if !ok {
			w.Info("Cancelled.")
			return nil
		}

		w.Info("Converting %d export(s) under %s, user map: %s", len(jobs), root, ids.Describe())

		done := 0
		rep := batch.Run(cmd.Context(), jobs, func(_ context.Context, job batch.Job) (*convert.Result, error) {
			return convert.File(job.Input, job.Output, ids, opts)
		}, batch.Options{
			FailFast: failFast,
			Jobs:     jobsN,
			OnDone: func(o batch.Outcome) {
				done++
				w.Info("[%d/%d] %s %s", done, len(jobs), o.Status, o.Input)
			},
		})

		result := batchResult{
			Root:   root,
			Files:  rep.Outcomes,
			Totals: rep.Totals(),
			Counts: map[string]int{
				string(batch.StatusOK):      rep.Count(batch.StatusOK),
				string(batch.StatusFailed):  rep.Count(batch.StatusFailed),
				string(batch.StatusSkipped): rep.Count(batch.StatusSkipped),
			},
		}

		failures := rep.Failures()
		if len(failures) == 0 && cmd.Context().Err() == nil {
			var message string
			if !w.JSONMode {
				message = render.RenderBatchReport(root, rep)
			}
			w.Success(result, message)
			return nil
		}

		w.Print(render.RenderBatchReport(root, rep))

		if len(failures) == 0 {
			return &CmdError{Err: fmt.Errorf("interrupted: %w", cmd.Context().Err()), Code: output.ErrPartial, Data: result}
		}
		if failFast {
			first := rep.FirstError()
			return &CmdError{Err: first, Code: output.CodeForError(first), Data: result}
		}
		return &CmdError{
			Err:  fmt.Errorf("%d of %d export(s) failed", len(failures), len(jobs)),
			Code: output.ErrPartial,
			Data: result,
		}
	},
}

func init() {
	addConversionFlags(batchCmd)
	addInteractiveFlag(batchCmd)
	batchCmd.Flags().Bool(config.KeyFailFast, false, "Stop at the first export that fails")
	batchCmd.Flags().IntP(config.KeyJobs, "j", 1, "Number of exports converted in parallel")
	rootCmd.AddCommand(batchCmd)
}
