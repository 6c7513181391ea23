package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/espec/internal/catalog"
	"github.com/chriserin/espec/internal/config"
	"github.com/chriserin/espec/internal/ui"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag in the catalog with its scenario count",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTags(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func RunTags(w io.Writer) error {
	if _, err := os.Stat(config.Dir()); os.IsNotExist(err) {
		return fmt.Errorf("run `espec init` first")
	}

	db, err := catalog.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT tag, COUNT(*) AS count
		FROM scenario_tags
		GROUP BY tag
		ORDER BY count DESC, tag
	`)
	if err != nil {
		return fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	type tagCount struct {
		tag   string
		count int
	}
	var results []tagCount
	for rows.Next() {
		var tc tagCount
		if err := rows.Scan(&tc.tag, &tc.count); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, tc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	tagWidth := 0
	for _, tc := range results {
		if len(tc.tag) > tagWidth {
			tagWidth = len(tc.tag)
		}
	}

	for _, tc := range results {
		ui.CountRow(w, tc.tag, tc.count, tagWidth)
	}

	return nil
}
