// Package gherkin parses a subset of the Gherkin feature-description
// language into an in-memory document tree.
//
// The subset covers a feature header with tags and free-text description,
// scenarios and scenario outlines with examples tables, Given/When/Then/And
// steps, and `"""`-delimited block text attached to the preceding step.
// Background sections, Rules, and keyword localization are outside the
// subset, as is matching steps against executable definitions.
//
// Parsing never panics. Failures are values: the feature header must parse
// for a Feature to be produced at all, while malformed scenarios are
// reported individually alongside the scenarios that did parse, so callers
// choose whether to treat them as fatal.
package gherkin

import (
	"fmt"
	"os"
)

// Parse parses feature source text. A header-level failure returns a nil
// Feature and the failure as err. Otherwise the Feature holds every
// well-formed scenario in source order and errs holds one entry per
// malformed scenario, in the order encountered.
func Parse(src string) (*Feature, []*ParseError, error) {
	feature, errs, hdrErr := parseFeature(newCursor(src))
	if hdrErr != nil {
		return nil, nil, hdrErr
	}
	return feature, errs, nil
}

// ParseFile reads path and parses its contents.
func ParseFile(path string) (*Feature, []*ParseError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data))
}
