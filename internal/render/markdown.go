package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ALT-F4-LLC/bbredmine/internal/dataset"
	"github.com/ALT-F4-LLC/bbredmine/internal/redmine"
)

// ColorsEnabled reports whether output may be styled. NO_COLOR (any value)
// and TERM=dumb disable styling.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// RenderMarkdown renders markdown for the terminal. Without colors the
// markdown source is returned as is.
func RenderMarkdown(content string) (string, error) {
	if content == "" || !ColorsEnabled() {
		return content, nil
	}

	rendered, err := glamour.RenderWithEnvironmentConfig(content)
	if err != nil {
		return content, err
	}
	return strings.TrimSpace(rendered), nil
}

// previewFields are shown in the attribute table of each previewed issue.
var previewFields = []int{
	redmine.ColTracker, redmine.ColStatus, redmine.ColPriority,
	redmine.ColAuthor, redmine.ColAssignedTo, redmine.ColWatchers,
	redmine.ColFixedVersion, redmine.ColStartDate,
}

// PreviewMarkdown describes the first limit rows of ds, laid out as
// redmine.Header orders them, the way they will appear in Redmine. A limit
// of zero or less shows every row.
func PreviewMarkdown(ds *dataset.Dataset, limit int) string {
	rows := ds.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	get := func(row []string, i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	var b strings.Builder
	for n, row := range rows {
		if n > 0 {
			b.WriteString("\n---\n\n")
		}
		subject := get(row, redmine.ColSubject)
		if subject == "" {
			subject = "(no subject)"
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", n+1, escapeInline(subject))

		b.WriteString("| Field | Value |\n|---|---|\n")
		for _, i := range previewFields {
			if i >= len(ds.Header) {
				continue
			}
			v := get(row, i)
			if v == "" {
				v = "-"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", ds.Header[i], escapeCell(v))
		}

		if desc := get(row, redmine.ColDescription); desc != "" {
			b.WriteString("\n")
			b.WriteString(desc)
			b.WriteString("\n")
		}
	}

	if hidden := len(ds.Rows) - len(rows); hidden > 0 {
		fmt.Fprintf(&b, "\n_%d more issue(s) not shown._\n", hidden)
	}
	return b.String()
}

func escapeInline(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}
