package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/config"
	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
	"github.com/ALT-F4-LLC/bbredmine/internal/model"
	"github.com/ALT-F4-LLC/bbredmine/internal/render"
	"github.com/ALT-F4-LLC/bbredmine/internal/usermap"
)

var usersCmd = &cobra.Command{
	Use:   "users <input.json>...",
	Short: "List the Bitbucket users referenced by exports and their Redmine logins",
	Long: `Lists every user name referenced as assignee, reporter, watcher or
comment author, with the Redmine login the user map gives it. --template
writes a user map in which every name maps to itself, ready for editing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		template, _ := cmd.Flags().GetString("template")

		// Unmapped names are reported, never fatal, here.
		ids, err := usermap.Load(flagString(cmd, config.KeyUserMap, getCfg(cmd).UserMap), usermap.Permissive)
		if err != nil {
			return failErr(err)
		}

		lists := make([][]model.Identity, 0, len(args))
		for _, path := range args {
			doc, err := model.LoadFile(path)
			if err != nil {
				return failErr(err)
			}
			lists = append(lists, doc.Identities())
		}
		identities := model.MergeIdentities(lists...)

		rows := make([]render.UserRow, 0, len(identities))
		names := make([]string, 0, len(identities))
		for _, id := range identities {
			row := render.UserRow{Name: id.Name, Count: id.Count, Mapped: ids.Has(id.Name)}
			if row.Mapped {
				row.Login, _ = ids.Lookup(id.Name)
			}
			rows = append(rows, row)
			names = append(names, id.Name)
		}

		if template != "" {
			if err := writeTemplate(template, names); err != nil {
				return failErr(err)
			}
			w.Info("Wrote user map template with %d user(s) to %s", len(names), template)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderUsers(rows)
		}
		w.Success(rows, message)
		return nil
	},
}

func writeTemplate(path string, names []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return failure.WithPath(failure.Wrap(failure.ErrIOWrite, err, "creating template"), path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = failure.WithPath(failure.Wrap(failure.ErrIOWrite, cerr, "closing template"), path)
		}
	}()
	return failure.WithPath(usermap.WriteTemplate(f, names), path)
}

func init() {
	usersCmd.Flags().String(config.KeyUserMap, "", "User map to check the names against (spaces after a CSV comma are ignored)")
	usersCmd.Flags().String("template", "", "Write a CSV user map template to this path")
	rootCmd.AddCommand(usersCmd)
}
