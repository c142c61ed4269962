package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ALT-F4-LLC/bbredmine/internal/dataset"
	"github.com/ALT-F4-LLC/bbredmine/internal/model"
)

const maxCellWidth = 40

var (
	dimColor    = lipgloss.Color("8")
	whiteColor  = lipgloss.Color("15")
	redColor    = lipgloss.Color("9")
	greenColor  = lipgloss.Color("10")
	yellowColor = lipgloss.Color("11")
)

// StyledText applies style when colors are enabled.
func StyledText(text string, style lipgloss.Style) string {
	if ColorsEnabled() {
		return style.Render(text)
	}
	return text
}

// truncate shortens s to maxLen runes, ending in "..." when cut. Newlines
// are flattened first.
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// EmptyState renders a dimmed message with an optional hint.
func EmptyState(message, hint string) string {
	if hint == "" {
		return StyledText(message, lipgloss.NewStyle().Foreground(dimColor))
	}
	return StyledText(message, lipgloss.NewStyle().Foreground(dimColor)) + "\n" +
		StyledText(hint, lipgloss.NewStyle().Foreground(dimColor).Italic(true))
}

// cellStyle picks the style of a body cell; nil means the default.
type cellStyle func(row, col int) *lipgloss.Style

// renderTable draws a bordered lipgloss table, or aligned plain text when
// colors are disabled.
func renderTable(headers []string, rows [][]string, style cellStyle) string {
	if !ColorsEnabled() {
		return renderPlainTable(headers, rows)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dimColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(whiteColor)
			}
			if style != nil {
				if custom := style(row, col); custom != nil {
					return custom.PaddingLeft(1).PaddingRight(1)
				}
			}
			return s
		})
	return t.Render()
}

func renderPlainTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	var b strings.Builder
	line := func(cells []string) {
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(widths)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)+2))
		}
		b.WriteString("\n")
	}

	line(headers)
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(strings.Repeat("-", max(total-2, 0)))
	b.WriteString("\n")
	for _, row := range rows {
		line(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

// UserRow is one line of the users report.
type UserRow struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Login  string `json:"login"`
	Mapped bool   `json:"mapped"`
}

// RenderUsers lists the identities referenced by a set of exports and the
// Redmine login each one resolves to.
func RenderUsers(rows []UserRow) string {
	if len(rows) == 0 {
		return EmptyState("No users referenced.", "")
	}

	cells := make([][]string, 0, len(rows))
	unmapped := 0
	for _, r := range rows {
		login := r.Login
		if !r.Mapped {
			login = "(unmapped)"
			unmapped++
		}
		cells = append(cells, []string{r.Name, humanize.Comma(int64(r.Count)), login})
	}

	out := renderTable([]string{"Bitbucket user", "References", "Redmine login"}, cells,
		func(row, col int) *lipgloss.Style {
			if col != 2 {
				return nil
			}
			s := lipgloss.NewStyle().Foreground(greenColor)
			if !rows[row].Mapped {
				s = lipgloss.NewStyle().Foreground(redColor)
			}
			return &s
		})

	summary := fmt.Sprintf("%s user(s)", humanize.Comma(int64(len(rows))))
	if unmapped > 0 {
		summary += ", " + StyledText(fmt.Sprintf("%d unmapped", unmapped), lipgloss.NewStyle().Foreground(yellowColor))
	}
	return out + "\n" + summary
}

// RenderInspect summarises a converted CSV: one line per column with the
// number of filled cells and a sample value.
func RenderInspect(path string, ds *dataset.Dataset, size int64) string {
	title := fmt.Sprintf("%s: %s row(s), %d column(s), %s",
		path, humanize.Comma(int64(len(ds.Rows))), len(ds.Header), humanize.Bytes(uint64(size)))
	title = StyledText(title, lipgloss.NewStyle().Bold(true))

	cells := make([][]string, 0, len(ds.Header))
	filled := make([]int, len(ds.Header))
	for i, name := range ds.Header {
		sample := ""
		for _, v := range ds.Column(name) {
			if v == "" {
				continue
			}
			filled[i]++
			if sample == "" {
				sample = v
			}
		}
		cells = append(cells, []string{
			fmt.Sprintf("%d", i+1),
			name,
			humanize.Comma(int64(filled[i])),
			truncate(sample, maxCellWidth),
		})
	}

	out := renderTable([]string{"#", "Column", "Filled", "Sample"}, cells,
		func(row, col int) *lipgloss.Style {
			if col != 2 || filled[row] > 0 {
				return nil
			}
			s := lipgloss.NewStyle().Foreground(dimColor)
			return &s
		})
	return title + "\n" + out
}

// RenderUserMap lists mapping entries in file order.
func RenderUserMap(mappings []model.UserMapping) string {
	if len(mappings) == 0 {
		return EmptyState("User map is empty.", "")
	}
	cells := make([][]string, 0, len(mappings))
	for _, m := range mappings {
		cells = append(cells, []string{m.Source, m.Destination})
	}
	return renderTable([]string{"Bitbucket user", "Redmine login"}, cells, nil)
}
