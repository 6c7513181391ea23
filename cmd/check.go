package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chriserin/espec/gherkin"
	"github.com/chriserin/espec/internal/config"
	"github.com/chriserin/espec/internal/ui"
)

var strictFlag bool

var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Parse feature files and report failures without touching the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCheck(cmd.OutOrStdout(), args, strictFlag || config.Strict())
	},
}

func init() {
	checkCmd.Flags().BoolVar(&strictFlag, "strict", false, "Treat scenario-level failures as fatal")
	rootCmd.AddCommand(checkCmd)
}

// RunCheck parses each file and reports the outcome. A file whose header
// fails always fails the run; files with malformed scenarios fail it only
// in strict mode. Without explicit paths the features directory is
// scanned.
func RunCheck(w io.Writer, paths []string, strict bool) error {
	if len(paths) == 0 {
		dir := config.Dir()
		matches, err := filepath.Glob(filepath.Join(dir, "*.feature"))
		if err != nil {
			return fmt.Errorf("scanning %s: %w", dir, err)
		}
		sort.Strings(matches)
		paths = matches
	}

	failed := false
	for _, path := range paths {
		feature, parseErrs, err := gherkin.ParseFile(path)
		if err != nil {
			var perr *gherkin.ParseError
			if !errors.As(err, &perr) {
				return err
			}
			ui.ErrLine(w, path)
			ui.ReasonLine(w, perr.Error())
			failed = true
			continue
		}
		if len(parseErrs) > 0 {
			ui.ErrLine(w, path)
			for _, perr := range parseErrs {
				ui.ReasonLine(w, perr.Error())
			}
			if strict {
				failed = true
			}
			continue
		}
		ui.OkLine(w, path, len(feature.Scenarios))
	}

	if failed {
		return fmt.Errorf("feature files failed to parse")
	}
	return nil
}
