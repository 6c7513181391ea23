package gherkin

import (
	"regexp"
	"strings"
)

const blockDelimiter = `"""`

var (
	tagPattern      = regexp.MustCompile(`@[^@\s]+`)
	featurePattern  = regexp.MustCompile(`^Feature: (.*)`)
	outlinePattern  = regexp.MustCompile(`^Scenario Outline: (.*)`)
	scenarioPattern = regexp.MustCompile(`^Scenario: (.*)`)
	wordPattern     = regexp.MustCompile(`\w+`)
)

// parseTags accumulates @tags from consecutive tag lines, left to right.
// The first line carrying no tag token is left for the caller.
func parseTags(cur *cursor) []string {
	var tags []string
	for !cur.exhausted {
		found := tagPattern.FindAllString(cur.current, -1)
		if len(found) == 0 {
			break
		}
		tags = append(tags, found...)
		cur.advance()
	}
	return tags
}

// isConstruct reports whether a trimmed line opens a construct that can
// follow a feature header, ending its free-text description.
func isConstruct(line string) bool {
	return strings.HasPrefix(line, "@") ||
		strings.HasPrefix(line, "Scenario:") ||
		strings.HasPrefix(line, "Scenario Outline:")
}

// parseHeader parses leading tags, the `Feature:` title line, and the
// description lines that follow it. Description collection stops at a
// blank line (consumed), at a tag or scenario line (left for the caller),
// or at end of input.
func parseHeader(cur *cursor) (FeatureHeader, *ParseError) {
	tags := parseTags(cur)

	m := featurePattern.FindStringSubmatch(strings.TrimSpace(cur.current))
	if m == nil {
		return FeatureHeader{}, &ParseError{
			Reason:   UnexpectedConstruct,
			Expected: ExpectedFeature,
			Actual:   ActualScenario,
		}
	}
	header := FeatureHeader{Description: m[1], Tags: tags}
	cur.advance()

	for !cur.exhausted {
		line := strings.TrimSpace(cur.current)
		if line == "" {
			cur.advance()
			break
		}
		if isConstruct(line) {
			break
		}
		header.LongDescription = append(header.LongDescription, line)
		cur.advance()
	}
	return header, nil
}

// parseBlockText consumes a block of literal text starting at the opening
// `"""` line and returns the trimmed inner lines joined by newlines. An
// unterminated block collects to the end of input.
func parseBlockText(cur *cursor) string {
	cur.advance()
	var lines []string
	for !cur.exhausted {
		line := strings.TrimSpace(cur.current)
		if strings.Contains(line, blockDelimiter) {
			cur.advance()
			break
		}
		lines = append(lines, line)
		cur.advance()
	}
	return strings.Join(lines, "\n")
}

// parseSteps runs the step-order state machine over consecutive step
// lines. Given is barred once a When has been seen, Given and When are
// barred once a Then has been seen, and Then is always allowed. An And
// line inherits the preceding step's kind. A `"""` line hands off to
// block-text parsing, attaching the block to the step before it. The
// sequence ends at a blank line (consumed), at end of input, or at the
// first failure.
func parseSteps(cur *cursor) ([]Step, *ParseError) {
	var steps []Step
	allowGiven, allowWhen := true, true

	for !cur.exhausted {
		line := strings.TrimSpace(cur.current)
		switch {
		case line == "":
			cur.advance()
			return steps, nil

		case strings.HasPrefix(line, blockDelimiter):
			text := parseBlockText(cur)
			if len(steps) > 0 {
				steps[len(steps)-1].BlockText = text
			}

		case strings.HasPrefix(line, "Given "):
			if !allowGiven {
				return nil, &ParseError{Reason: BadStepOrder, Expected: ExpectedNotGiven, Actual: ActualGiven}
			}
			steps = append(steps, Step{Kind: Given, Text: strings.TrimPrefix(line, "Given ")})
			cur.advance()

		case strings.HasPrefix(line, "When "):
			if !allowWhen {
				return nil, &ParseError{Reason: BadStepOrder, Expected: ExpectedNotWhen, Actual: ActualWhen}
			}
			allowGiven = false
			steps = append(steps, Step{Kind: When, Text: strings.TrimPrefix(line, "When ")})
			cur.advance()

		case strings.HasPrefix(line, "Then "):
			allowGiven, allowWhen = false, false
			steps = append(steps, Step{Kind: Then, Text: strings.TrimPrefix(line, "Then ")})
			cur.advance()

		case strings.HasPrefix(line, "And "):
			if len(steps) == 0 {
				return nil, &ParseError{Reason: LeadingAnd, Expected: ExpectedSpecificStep, Actual: ActualAndStep}
			}
			steps = append(steps, Step{Kind: steps[len(steps)-1].Kind, Text: strings.TrimPrefix(line, "And ")})
			cur.advance()

		default:
			return nil, &ParseError{Reason: InvalidStep, Expected: ExpectedStepDefinition, Actual: ActualInvalidStepDefinition}
		}
	}
	return steps, nil
}

// splitRow splits a |-delimited table row into trimmed, non-empty cells.
func splitRow(line string) []string {
	var cells []string
	for _, cell := range strings.Split(line, "|") {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

// parseScenario parses one tagged scenario or scenario outline. A failure
// inside the nested step sequence is handed to the caller unchanged.
func parseScenario(cur *cursor) (ScenarioDefinition, *ParseError) {
	tags := parseTags(cur)
	line := strings.TrimSpace(cur.current)

	if m := outlinePattern.FindStringSubmatch(line); m != nil {
		cur.advance()
		steps, err := parseSteps(cur)
		if err != nil {
			return nil, err
		}

		// cursor sits on the `Examples:` line; the placeholder row follows
		cur.advance()
		placeholders := wordPattern.FindAllString(cur.current, -1)
		cur.advance()

		examples := make([][]string, len(placeholders))
		for !cur.exhausted && strings.TrimSpace(cur.current) != "" {
			cells := splitRow(cur.current)
			for i := range placeholders {
				cell := ""
				if i < len(cells) {
					cell = cells[i]
				}
				examples[i] = append(examples[i], cell)
			}
			cur.advance()
		}

		return ScenarioOutline{
			Scenario:     Scenario{Description: m[1], Tags: tags, Steps: steps},
			Placeholders: placeholders,
			Examples:     examples,
		}, nil
	}

	if m := scenarioPattern.FindStringSubmatch(line); m != nil {
		cur.advance()
		steps, err := parseSteps(cur)
		if err != nil {
			return nil, err
		}
		return Scenario{Description: m[1], Tags: tags, Steps: steps}, nil
	}

	return nil, &ParseError{Reason: UnexpectedConstruct, Expected: ExpectedScenario, Actual: ActualInvalidConstruct}
}

// skipBlock advances past the remainder of a malformed block: everything
// up to and including the next blank line, stepping over block text so a
// blank line inside it cannot end the skip early.
func skipBlock(cur *cursor) {
	for !cur.exhausted {
		line := strings.TrimSpace(cur.current)
		if strings.HasPrefix(line, blockDelimiter) {
			parseBlockText(cur)
			continue
		}
		if line == "" {
			cur.advance()
			return
		}
		cur.advance()
	}
}

// parseFeature drives the whole grammar: one header, then scenarios until
// input runs out. A header failure aborts the parse. Malformed scenarios
// do not stop the sweep: each failure is collected, the cursor
// resynchronizes at the end of the offending block, and parsing resumes.
func parseFeature(cur *cursor) (*Feature, []*ParseError, *ParseError) {
	header, err := parseHeader(cur)
	if err != nil {
		return nil, nil, err
	}

	feature := &Feature{Header: header}
	var errs []*ParseError
	for !cur.exhausted {
		if strings.TrimSpace(cur.current) == "" {
			cur.advance()
			continue
		}
		def, err := parseScenario(cur)
		if err != nil {
			errs = append(errs, err)
			skipBlock(cur)
			continue
		}
		feature.Scenarios = append(feature.Scenarios, def)
	}
	return feature, errs, nil
}
