package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chriserin/espec/gherkin"
	"github.com/chriserin/espec/internal/catalog"
	"github.com/chriserin/espec/internal/config"
	"github.com/chriserin/espec/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scan the features directory and update the scenario catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(w io.Writer) error {
	dir := config.Dir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("run `espec init` first")
	}

	db, err := catalog.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer db.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "*.feature"))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(matches)

	files, scenarios := 0, 0
	for _, path := range matches {
		n, err := syncFile(w, db, path)
		if err != nil {
			return err
		}
		files++
		scenarios += n
	}

	ui.SummaryLine(w, files, scenarios)
	return nil
}

// syncFile brings the catalog rows for one feature file up to date with
// its current contents and returns the number of scenarios it now holds.
// Parse failures are recorded, not fatal: a file with a broken scenario
// keeps its well-formed ones.
func syncFile(w io.Writer, db *sql.DB, path string) (int, error) {
	fileID, isNew, err := upsertFile(db, path)
	if err != nil {
		return 0, err
	}

	// this sweep's outcome replaces any previously recorded failures
	if _, err := db.Exec(`DELETE FROM parse_failures WHERE file_id = ?`, fileID); err != nil {
		return 0, fmt.Errorf("clearing failures for %s: %w", path, err)
	}

	feature, parseErrs, err := gherkin.ParseFile(path)
	if err != nil {
		var perr *gherkin.ParseError
		if !errors.As(err, &perr) {
			return 0, err
		}
		// header failure: the file has no usable scenarios in this revision
		ui.ErrLine(w, path)
		ui.ReasonLine(w, perr.Error())
		if err := recordFailure(db, fileID, perr); err != nil {
			return 0, fmt.Errorf("recording failure for %s: %w", path, err)
		}
		if _, err := db.Exec(`DELETE FROM scenarios WHERE file_id = ?`, fileID); err != nil {
			return 0, fmt.Errorf("clearing scenarios for %s: %w", path, err)
		}
		return 0, nil
	}

	switch {
	case len(parseErrs) > 0:
		ui.ErrLine(w, path)
		for _, perr := range parseErrs {
			ui.ReasonLine(w, perr.Error())
			if err := recordFailure(db, fileID, perr); err != nil {
				return 0, fmt.Errorf("recording failure for %s: %w", path, err)
			}
		}
	case isNew:
		ui.NewLine(w, path)
	default:
		ui.TrkLine(w, path)
	}

	for ordinal, def := range feature.Scenarios {
		if err := upsertScenario(w, db, fileID, ordinal, def); err != nil {
			return 0, fmt.Errorf("registering scenarios for %s: %w", path, err)
		}
	}

	// rows past this revision's scenario count are gone from the file
	if _, err := db.Exec(`DELETE FROM scenarios WHERE file_id = ? AND ordinal >= ?`, fileID, len(feature.Scenarios)); err != nil {
		return 0, fmt.Errorf("pruning scenarios for %s: %w", path, err)
	}

	return len(feature.Scenarios), nil
}

func upsertFile(db *sql.DB, path string) (int64, bool, error) {
	var id int64
	err := db.QueryRow(`SELECT id FROM files WHERE path = ?`, path).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := db.Exec(`INSERT INTO files (path) VALUES (?)`, path)
		if err != nil {
			return 0, false, fmt.Errorf("inserting %s: %w", path, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("inserting %s: %w", path, err)
		}
		return id, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying %s: %w", path, err)
	}
	if _, err := db.Exec(`UPDATE files SET updated_at = datetime('now') WHERE id = ?`, id); err != nil {
		return 0, false, fmt.Errorf("updating %s: %w", path, err)
	}
	return id, false, nil
}

func upsertScenario(w io.Writer, db *sql.DB, fileID int64, ordinal int, def gherkin.ScenarioDefinition) error {
	kind := scenarioKind(def)

	var id int64
	err := db.QueryRow(`SELECT id FROM scenarios WHERE file_id = ? AND ordinal = ?`, fileID, ordinal).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := db.Exec(
			`INSERT INTO scenarios (file_id, ordinal, name, kind, step_count) VALUES (?, ?, ?, ?, ?)`,
			fileID, ordinal, def.Name(), kind, len(def.ScenarioSteps()),
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		ui.ScenarioLine(w, id, def.Name())
	} else if err != nil {
		return err
	} else {
		_, err = db.Exec(
			`UPDATE scenarios SET name = ?, kind = ?, step_count = ?, updated_at = datetime('now') WHERE id = ?`,
			def.Name(), kind, len(def.ScenarioSteps()), id,
		)
		if err != nil {
			return err
		}
	}

	if _, err := db.Exec(`DELETE FROM scenario_tags WHERE scenario_id = ?`, id); err != nil {
		return err
	}
	for _, tag := range def.ScenarioTags() {
		if _, err := db.Exec(`INSERT INTO scenario_tags (scenario_id, tag) VALUES (?, ?)`, id, tag); err != nil {
			return err
		}
	}
	return nil
}

func recordFailure(db *sql.DB, fileID int64, perr *gherkin.ParseError) error {
	_, err := db.Exec(
		`INSERT INTO parse_failures (file_id, reason, expected, actual) VALUES (?, ?, ?, ?)`,
		fileID, string(perr.Reason), perr.Expected, perr.Actual,
	)
	return err
}

func scenarioKind(def gherkin.ScenarioDefinition) string {
	if _, ok := def.(gherkin.ScenarioOutline); ok {
		return "outline"
	}
	return "scenario"
}
