package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/espec/gherkin"
	"github.com/chriserin/espec/internal/catalog"
	"github.com/chriserin/espec/internal/config"
	"github.com/chriserin/espec/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a cataloged scenario by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, rawID string) error {
	// Strip @sc: prefix if present
	rawID = strings.TrimPrefix(rawID, "@sc:")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scenario ID: %s", rawID)
	}

	if _, err := os.Stat(config.Dir()); os.IsNotExist(err) {
		return fmt.Errorf("run `espec init` first")
	}

	db, err := catalog.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer db.Close()

	var name, path string
	var ordinal int
	err = db.QueryRow(`
		SELECT s.name, s.ordinal, f.path
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&name, &ordinal, &path)
	if err != nil {
		return fmt.Errorf("scenario %d not found", id)
	}

	// The catalog stores positions, not text: re-parse the owning file so
	// the output reflects what is on disk right now.
	feature, _, err := gherkin.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if ordinal >= len(feature.Scenarios) || feature.Scenarios[ordinal].Name() != name {
		return fmt.Errorf("scenario %d not found in %s, run `espec sync`", id, path)
	}

	ui.ShowHeader(w, id, filepath.Base(path))
	fmt.Fprintln(w)
	ui.Gherkin(w, renderScenario(feature.Scenarios[ordinal]))
	return nil
}

// renderScenario rebuilds feature text for one scenario from its parsed
// form, with examples tables re-aligned.
func renderScenario(def gherkin.ScenarioDefinition) string {
	var b strings.Builder

	if tags := def.ScenarioTags(); len(tags) > 0 {
		b.WriteString(strings.Join(tags, " ") + "\n")
	}

	outline, isOutline := def.(gherkin.ScenarioOutline)
	if isOutline {
		fmt.Fprintf(&b, "Scenario Outline: %s\n", def.Name())
	} else {
		fmt.Fprintf(&b, "Scenario: %s\n", def.Name())
	}

	for _, step := range def.ScenarioSteps() {
		fmt.Fprintf(&b, "  %s %s\n", step.Kind, step.Text)
		if step.BlockText != "" {
			b.WriteString("    \"\"\"\n")
			for _, line := range strings.Split(step.BlockText, "\n") {
				b.WriteString("    " + line + "\n")
			}
			b.WriteString("    \"\"\"\n")
		}
	}

	if isOutline {
		b.WriteString("\n  Examples:\n")
		writeExamplesTable(&b, outline)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeExamplesTable(b *strings.Builder, o gherkin.ScenarioOutline) {
	widths := make([]int, len(o.Placeholders))
	rows := 0
	for i, ph := range o.Placeholders {
		widths[i] = len(ph)
		for _, cell := range o.Examples[i] {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		if len(o.Examples[i]) > rows {
			rows = len(o.Examples[i])
		}
	}

	writeRow := func(cell func(i int) string) {
		b.WriteString("    |")
		for i := range o.Placeholders {
			fmt.Fprintf(b, " %-*s |", widths[i], cell(i))
		}
		b.WriteString("\n")
	}

	writeRow(func(i int) string { return o.Placeholders[i] })
	for r := 0; r < rows; r++ {
		writeRow(func(i int) string { return o.Examples[i][r] })
	}
}
