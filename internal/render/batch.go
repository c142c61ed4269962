package render

import (
	"fmt"
	"path/filepath"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ALT-F4-LLC/bbredmine/internal/batch"
)

var statusIcons = map[batch.Status]string{
	batch.StatusOK:      "✔",
	batch.StatusFailed:  "✘",
	batch.StatusSkipped: "–",
}

var statusColors = map[batch.Status]lipgloss.Color{
	batch.StatusOK:      greenColor,
	batch.StatusFailed:  redColor,
	batch.StatusSkipped: dimColor,
}

// RenderBatchReport shows the outcome of a batch run grouped by directory,
// followed by a one-line summary.
func RenderBatchReport(root string, rep *batch.Report) string {
	if len(rep.Outcomes) == 0 {
		return EmptyState("No exports found under "+root+".",
			"Each subdirectory of the root is searched for *.json files.")
	}

	var dirs []string
	byDir := make(map[string][]batch.Outcome)
	for _, o := range rep.Outcomes {
		dir := filepath.Dir(o.Input)
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], o)
	}

	var body string
	if ColorsEnabled() {
		t := tree.New().Root(lipgloss.NewStyle().Bold(true).Render(root))
		for _, dir := range dirs {
			node := tree.Root(relDir(root, dir))
			for _, o := range byDir[dir] {
				node.Child(outcomeLine(o))
			}
			t.Child(node)
		}
		body = t.String()
	} else {
		var b strings.Builder
		b.WriteString(root)
		for _, dir := range dirs {
			fmt.Fprintf(&b, "\n  %s", relDir(root, dir))
			for _, o := range byDir[dir] {
				fmt.Fprintf(&b, "\n    %s", outcomeLine(o))
			}
		}
		body = b.String()
	}

	return body + "\n" + batchSummary(rep)
}

func relDir(root, dir string) string {
	if rel, err := filepath.Rel(root, dir); err == nil {
		return rel
	}
	return dir
}

func outcomeLine(o batch.Outcome) string {
	icon := StyledText(statusIcons[o.Status], lipgloss.NewStyle().Foreground(statusColors[o.Status]))
	name := filepath.Base(o.Input)

	switch o.Status {
	case batch.StatusOK:
		return fmt.Sprintf("%s %s → %s (%d issue(s), %d comment(s), %s)",
			icon, name, filepath.Base(o.Output), o.Result.Issues, o.Result.Comments,
			humanize.Bytes(uint64(o.Result.Bytes)))
	case batch.StatusFailed:
		return fmt.Sprintf("%s %s: %s", icon, name,
			StyledText(o.Error, lipgloss.NewStyle().Foreground(redColor)))
	default:
		return fmt.Sprintf("%s %s skipped", icon, name)
	}
}

func batchSummary(rep *batch.Report) string {
	totals := rep.Totals()
	parts := []string{
		fmt.Sprintf("%d converted", rep.Count(batch.StatusOK)),
	}
	if n := rep.Count(batch.StatusFailed); n > 0 {
		parts = append(parts, StyledText(fmt.Sprintf("%d failed", n), lipgloss.NewStyle().Foreground(redColor).Bold(true)))
	}
	if n := rep.Count(batch.StatusSkipped); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	parts = append(parts,
		humanize.Comma(int64(totals.Issues))+" issue(s)",
		humanize.Comma(int64(totals.Comments))+" comment(s)",
		humanize.Bytes(uint64(totals.Bytes)),
	)
	if totals.Orphans > 0 {
		parts = append(parts, StyledText(
			fmt.Sprintf("%d orphan comment(s) dropped", totals.Orphans),
			lipgloss.NewStyle().Foreground(yellowColor)))
	}
	return strings.Join(parts, ", ")
}
