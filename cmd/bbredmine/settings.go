package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/config"
	"github.com/ALT-F4-LLC/bbredmine/internal/convert"
	"github.com/ALT-F4-LLC/bbredmine/internal/output"
	"github.com/ALT-F4-LLC/bbredmine/internal/usermap"
)

// addUserMapFlags registers the flags that select and police the user map.
func addUserMapFlags(cmd *cobra.Command) {
	cmd.Flags().String(config.KeyUserMap, "", "User map: CSV (bitbucket_user,redmine_login; spaces after the comma are ignored) or SQLite store")
	cmd.Flags().Bool(config.KeyStrictUsers, false, "Fail on users missing from the user map instead of leaving the field empty")
}

// addConversionFlags registers the flags shared by commands that produce rows.
func addConversionFlags(cmd *cobra.Command) {
	addUserMapFlags(cmd)
	cmd.Flags().Bool(config.KeyIncludeRelations, false, "Add the (always empty) relation, Parent Issue and Id columns")
}

func addInteractiveFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("interactive", "i", false, "Ask before overwriting existing CSV files")
}

// Explicit flags win over the config file and environment.

func flagString(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func flagBool(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return fallback
}

func flagInt(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

// loadMapper builds the user map named by flags or configuration. It is
// loaded once per command and shared by every file the command converts.
func loadMapper(cmd *cobra.Command) (*usermap.Mapper, error) {
	cfg := getCfg(cmd)
	policy := usermap.Permissive
	if flagBool(cmd, config.KeyStrictUsers, cfg.StrictUsers) {
		policy = usermap.Strict
	}
	ids, err := usermap.Load(flagString(cmd, config.KeyUserMap, cfg.UserMap), policy)
	if err != nil {
		return nil, failErr(err)
	}
	return ids, nil
}

func conversionOptions(cmd *cobra.Command) convert.Options {
	cfg := getCfg(cmd)
	return convert.Options{
		IncludeRelations: flagBool(cmd, config.KeyIncludeRelations, cfg.IncludeRelations),
		Vocabulary:       cfg.Vocabulary,
	}
}

// confirmOverwrite asks before replacing existing files when --interactive
// is set. It reports whether the command may go ahead.
func confirmOverwrite(cmd *cobra.Command, w *output.Writer, paths []string) (bool, error) {
	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive || w.JSONMode {
		return true, nil
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return true, nil
	}

	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false, cmdErr(fmt.Errorf("--interactive needs a terminal on stdin"), output.ErrGeneral)
	}

	title := fmt.Sprintf("%s already exists. Overwrite?", existing[0])
	if len(existing) > 1 {
		title = fmt.Sprintf("%d CSV files already exist. Overwrite them?", len(existing))
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(strings.Join(existing, "\n")).
				Affirmative("Overwrite").
				Negative("Cancel").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, cmdErr(fmt.Errorf("interactive form failed: %w", err), output.ErrGeneral)
	}
	return confirmed, nil
}
