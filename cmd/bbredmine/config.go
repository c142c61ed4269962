package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/bbredmine/internal/db"
	"github.com/ALT-F4-LLC/bbredmine/internal/render"
	"github.com/ALT-F4-LLC/bbredmine/internal/usermap"
)

type configInfo struct {
	ConfigFile       string `json:"config_file"`
	UserMap          string `json:"user_map"`
	UserMapFound     bool   `json:"user_map_found"`
	UserMapBytes     int64  `json:"user_map_bytes"`
	StoreSchema      int    `json:"store_schema_version,omitempty"`
	IncludeRelations bool   `json:"include_relations"`
	StrictUsers      bool   `json:"strict_users"`
	FailFast         bool   `json:"fail_fast"`
	Jobs             int    `json:"jobs"`
	VocabularyRules  int    `json:"vocabulary_overrides"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the resolved bbredmine configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)

		info := configInfo{
			ConfigFile:       cfg.File,
			UserMap:          cfg.UserMap,
			IncludeRelations: cfg.IncludeRelations,
			StrictUsers:      cfg.StrictUsers,
			FailFast:         cfg.FailFast,
			Jobs:             cfg.Jobs,
			VocabularyRules:  len(cfg.Vocabulary.Priority) + len(cfg.Vocabulary.Tracker) + len(cfg.Vocabulary.Status),
		}

		if cfg.UserMap != "" {
			if stat, err := os.Stat(cfg.UserMap); err == nil {
				info.UserMapFound = true
				info.UserMapBytes = stat.Size()
			} else {
				w.Warn("user map %s not found", cfg.UserMap)
			}
		}
		if info.UserMapFound && usermap.IsStore(cfg.UserMap) {
			if conn, err := db.OpenReadOnly(cfg.UserMap); err == nil {
				info.StoreSchema, _ = db.SchemaVersion(conn)
				conn.Close()
			}
		}

		var message string
		if !w.JSONMode {
			message = formatConfigHuman(info)
		}
		w.Success(info, message)
		return nil
	},
}

func formatEnvValue(val string) string {
	if val == "" {
		return "(not set)"
	}
	return val
}

func configLines(info configInfo) [][2]string {
	userMap := "(none, names are kept as is)"
	if info.UserMap != "" {
		userMap = info.UserMap
		switch {
		case !info.UserMapFound:
			userMap += " (not found)"
		case info.StoreSchema > 0:
			userMap += fmt.Sprintf(" (SQLite, schema v%d, %s)", info.StoreSchema, humanize.Bytes(uint64(info.UserMapBytes)))
		default:
			userMap += fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.UserMapBytes)))
		}
	}

	return [][2]string{
		{"Config file:", formatEnvValue(info.ConfigFile)},
		{"User map:", userMap},
		{"Include relations:", fmt.Sprint(info.IncludeRelations)},
		{"Strict users:", fmt.Sprint(info.StrictUsers)},
		{"Fail fast:", fmt.Sprint(info.FailFast)},
		{"Jobs:", fmt.Sprint(info.Jobs)},
		{"Vocabulary overrides:", fmt.Sprint(info.VocabularyRules)},
		{"BBREDMINE_CONFIG:", formatEnvValue(os.Getenv("BBREDMINE_CONFIG"))},
	}
}

func formatConfigHuman(info configInfo) string {
	lines := configLines(info)
	width := 0
	for _, l := range lines {
		width = max(width, len(l[0]))
	}

	if !render.ColorsEnabled() {
		var b strings.Builder
		for i, l := range lines {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%-*s %s", width, l[0], l[1])
		}
		return b.String()
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("bbredmine configuration"))
	b.WriteString("\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "\n  %s %s", keyStyle.Render(fmt.Sprintf("%-*s", width, l[0])), valStyle.Render(l[1]))
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(configCmd)
}
