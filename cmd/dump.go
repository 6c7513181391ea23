package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/espec/gherkin"
	"github.com/chriserin/espec/internal/config"
)

var formatFlag string

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Parse a feature file and print the document tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := formatFlag
		if format == "" {
			format = config.Format()
		}
		return RunDump(cmd.OutOrStdout(), args[0], format)
	},
}

func init() {
	dumpCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: json or yaml")
	rootCmd.AddCommand(dumpCmd)
}

type dumpError struct {
	Reason   string `json:"reason" yaml:"reason"`
	Expected string `json:"expected" yaml:"expected"`
	Actual   string `json:"actual" yaml:"actual"`
}

type dumpDocument struct {
	Feature *gherkin.Feature `json:"feature" yaml:"feature"`
	Errors  []dumpError      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// RunDump serializes the parsed form of one feature file. Scenario-level
// failures ride along in an errors list rather than failing the dump; a
// header-level failure leaves nothing to serialize and is fatal.
func RunDump(w io.Writer, path, format string) error {
	feature, parseErrs, err := gherkin.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	doc := dumpDocument{Feature: feature}
	for _, perr := range parseErrs {
		doc.Errors = append(doc.Errors, dumpError{
			Reason:   string(perr.Reason),
			Expected: perr.Expected,
			Actual:   perr.Actual,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s (want json or yaml)", format)
	}
}
