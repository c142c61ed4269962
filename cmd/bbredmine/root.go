package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/config"
	"github.com/ALT-F4-LLC/bbredmine/internal/output"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type contextKey string

const cfgKey contextKey = "cfg"

// CmdError wraps an error with a machine-readable error code for structured
// output. Data, when set, is attached to the JSON error envelope.
type CmdError struct {
	Err  error
	Code output.ErrorCode
	Data any
}

func (e *CmdError) Error() string { return e.Err.Error() }

func (e *CmdError) Unwrap() error { return e.Err }

func cmdErr(err error, code output.ErrorCode) *CmdError {
	return &CmdError{Err: err, Code: code}
}

// failErr classifies err by its failure kind.
func failErr(err error) *CmdError {
	return cmdErr(err, output.CodeForError(err))
}

var rootCmd = &cobra.Command{
	Use:   "bbredmine",
	Short: "Convert Bitbucket issue exports into Redmine importer CSV",
	Long: `bbredmine turns the JSON issue export of a Bitbucket repository (issues,
comments and watchers) into a CSV file for the Redmine issue importer.
Bitbucket user names can be translated to Redmine logins with a user map.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations["skipConfig"]; ok {
			return nil
		}
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Resolve(path)
		if err != nil {
			return failErr(err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), cfgKey, cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $BBREDMINE_CONFIG or ./"+config.DefaultFile+")")
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func getWriter(cmd *cobra.Command) *output.Writer {
	jsonMode, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return output.New(jsonMode, quietMode)
}

func getCfg(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(cfgKey).(*config.Config)
	return cfg
}

// Execute runs the root command and returns an exit code. An interrupt
// cancels the command's context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		jsonMode, _ := rootCmd.PersistentFlags().GetBool("json")
		quietMode, _ := rootCmd.PersistentFlags().GetBool("quiet")
		w := output.New(jsonMode, quietMode)

		var ce *CmdError
		if errors.As(err, &ce) {
			return w.Fail(ce.Err, ce.Code, ce.Data)
		}
		return w.Error(err, output.ErrGeneral)
	}
	return output.ExitSuccess
}
