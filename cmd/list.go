package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/espec/internal/catalog"
	"github.com/chriserin/espec/internal/config"
	"github.com/chriserin/espec/internal/ui"
)

var tagFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cataloged scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), tagFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Show only scenarios carrying this exact tag")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id       int64
	fileName string
	name     string
	kind     string
}

func RunList(w io.Writer, tag string) error {
	if _, err := os.Stat(config.Dir()); os.IsNotExist(err) {
		return fmt.Errorf("run `espec init` first")
	}

	db, err := catalog.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer db.Close()

	query := `
		SELECT s.id, f.path, s.name, s.kind
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		ORDER BY f.path, s.ordinal
	`
	var args []any
	if tag != "" {
		query = `
		SELECT s.id, f.path, s.name, s.kind
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE EXISTS (SELECT 1 FROM scenario_tags t WHERE t.scenario_id = s.id AND t.tag = ?)
		ORDER BY f.path, s.ordinal
	`
		args = append(args, tag)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath string
		if err := rows.Scan(&r.id, &filePath, &r.name, &r.kind); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.fileName = filepath.Base(filePath)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, fileWidth, nameWidth := 0, 0, 0
	for _, r := range results {
		if n := len(ui.Handle(r.id)); n > idWidth {
			idWidth = n
		}
		if len(r.fileName) > fileWidth {
			fileWidth = len(r.fileName)
		}
		if len(r.name) > nameWidth {
			nameWidth = len(r.name)
		}
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.fileName, r.name, r.kind, idWidth, fileWidth, nameWidth)
	}

	return nil
}
