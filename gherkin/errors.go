package gherkin

import "fmt"

// Reason classifies a parse failure.
type Reason string

const (
	// UnexpectedConstruct marks input where the grammar demands one
	// construct and found another.
	UnexpectedConstruct Reason = "unexpected construct"
	// BadStepOrder marks a Given or When step appearing after a step kind
	// that bars it.
	BadStepOrder Reason = "bad step order"
	// LeadingAnd marks an And step with no preceding step to inherit a
	// kind from.
	LeadingAnd Reason = "leading and"
	// InvalidStep marks a line inside a step sequence that matches no
	// recognized form.
	InvalidStep Reason = "invalid step"
)

// Symbolic Expected values carried by ParseError.
const (
	ExpectedFeature        = "feature"
	ExpectedScenario       = "scenario"
	ExpectedNotGiven       = "not given"
	ExpectedNotWhen        = "not when"
	ExpectedSpecificStep   = "specific step"
	ExpectedStepDefinition = "step definition"
)

// Symbolic Actual values carried by ParseError.
const (
	ActualScenario              = "scenario"
	ActualInvalidConstruct      = "invalid construct"
	ActualGiven                 = "given"
	ActualWhen                  = "when"
	ActualAndStep               = "and step"
	ActualInvalidStepDefinition = "invalid step definition"
)

// ParseError describes a parse failure as a symbolic triple. The parser
// carries no line or column information; the category is the whole
// diagnostic.
type ParseError struct {
	Reason   Reason
	Expected string
	Actual   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (expected %s, got %s)", e.Reason, e.Expected, e.Actual)
}
