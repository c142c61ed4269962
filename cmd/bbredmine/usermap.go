package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/output"
	"github.com/ALT-F4-LLC/bbredmine/internal/render"
	"github.com/ALT-F4-LLC/bbredmine/internal/usermap"
)

var usermapCmd = &cobra.Command{
	Use:   "usermap",
	Short: "Manage user maps",
}

type usermapImportResult struct {
	Source string `json:"source"`
	Store  string `json:"store"`
	Users  int    `json:"users"`
}

var usermapImportCmd = &cobra.Command{
	Use:   "import <mapping.csv> <store.db>",
	Short: "Store a CSV user map in a SQLite file",
	Long: `Reads a two-column CSV user map and stores it in a SQLite file, replacing
whatever the store held. The store can then be passed to --user-map.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		src, store := args[0], args[1]

		if !usermap.IsStore(store) {
			return cmdErr(fmt.Errorf("%s: store must end in .db, .sqlite or .sqlite3", store), output.ErrValidation)
		}

		m, err := usermap.Load(src, usermap.Permissive)
		if err != nil {
			return failErr(err)
		}
		n, err := usermap.SaveStore(store, m.Mappings())
		if err != nil {
			return failErr(err)
		}

		w.Success(usermapImportResult{Source: src, Store: store, Users: n},
			fmt.Sprintf("Stored %d user(s) from %s in %s", n, src, store))
		return nil
	},
}

var usermapListCmd = &cobra.Command{
	Use:   "list <mapping>",
	Short: "Print a user map (CSV or SQLite)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)

		m, err := usermap.Load(args[0], usermap.Permissive)
		if err != nil {
			return failErr(err)
		}

		mappings := m.Mappings()
		var message string
		if !w.JSONMode {
			message = render.RenderUserMap(mappings)
		}
		w.Success(mappings, message)
		return nil
	},
}

func init() {
	usermapCmd.AddCommand(usermapImportCmd, usermapListCmd)
	rootCmd.AddCommand(usermapCmd)
}
