package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ALT-F4-LLC/bbredmine/internal/render"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// writeHumanSuccess prefixes one-line messages with a check mark. Multi-line
// messages such as tables and previews are printed untouched.
func writeHumanSuccess(w io.Writer, message string) {
	switch {
	case message == "":
	case strings.Contains(message, "\n") || !render.ColorsEnabled():
		fmt.Fprintln(w, message)
	default:
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("✔"), message)
	}
}

func writeHumanError(w io.Writer, err error) {
	if !render.ColorsEnabled() {
		fmt.Fprintf(w, "Error: %s\n", err)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", errStyle.Render("✘"), errStyle.Render("Error:"), err)
}

func writeHumanWarn(w io.Writer, msg string) {
	if !render.ColorsEnabled() {
		fmt.Fprintf(w, "Warning: %s\n", msg)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", warnStyle.Render("⚠"), warnStyle.Render("Warning:"), msg)
}

func writeHumanInfo(w io.Writer, msg string) {
	if !render.ColorsEnabled() {
		fmt.Fprintln(w, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", infoStyle.Render("ℹ"), infoStyle.Render(msg))
}
