// Package ui renders espec's terminal output through lipgloss styles.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func ErrLine(w io.Writer, path string) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path)
}

func OkLine(w io.Writer, path string, scenarios int) {
	fmt.Fprintf(w, "%s   %s (%d scenarios)\n", okStyle.Render("ok"), path, scenarios)
}

// ReasonLine prints one parse failure indented under its file line.
func ReasonLine(w io.Writer, msg string) {
	fmt.Fprintln(w, "     "+errStyle.Render(msg))
}

// ScenarioLine prints a scenario newly registered by sync.
func ScenarioLine(w io.Writer, id int64, name string) {
	fmt.Fprintf(w, "     %s %s\n", idStyle.Render(Handle(id)), name)
}

func SummaryLine(w io.Writer, files, scenarios int) {
	fmt.Fprintf(w, "synced %d files, %d scenarios\n", files, scenarios)
}

// Handle formats a catalog scenario ID the way list and show print it.
func Handle(id int64) string {
	return fmt.Sprintf("@sc:%d", id)
}

// ListRow prints one aligned catalog row.
func ListRow(w io.Writer, id int64, file, name, kind string, idWidth, fileWidth, nameWidth int) {
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		idStyle.Render(pad(Handle(id), idWidth)),
		pad(file, fileWidth),
		pad(name, nameWidth),
		trkStyle.Render(kind),
	)
}

// CountRow prints one aligned tag count row.
func CountRow(w io.Writer, tag string, count, tagWidth int) {
	fmt.Fprintf(w, "%s  %d\n", tagStyle.Render(pad(tag, tagWidth)), count)
}

// ShowHeader prints the catalog handle and owning file of a scenario.
func ShowHeader(w io.Writer, id int64, file string) {
	fmt.Fprintf(w, "%s  %s\n", idStyle.Render(Handle(id)), file)
}

// Gherkin prints feature text with keywords, tags and block text
// delimiters styled. Indentation is preserved.
func Gherkin(w io.Writer, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(w, styleLine(line))
	}
}

var keywords = []string{
	"Feature:",
	"Scenario Outline:",
	"Scenario:",
	"Examples:",
	"Given",
	"When",
	"Then",
	"And",
}

func styleLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	switch {
	case strings.HasPrefix(trimmed, "@"):
		return indent + tagStyle.Render(trimmed)
	case strings.HasPrefix(trimmed, `"""`):
		return indent + trkStyle.Render(trimmed)
	}

	for _, kw := range keywords {
		if trimmed == kw {
			return indent + keywordStyle.Render(kw)
		}
		if strings.HasPrefix(trimmed, kw+" ") {
			return indent + keywordStyle.Render(kw) + strings.TrimPrefix(trimmed, kw)
		}
	}
	return indent + trimmed
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
