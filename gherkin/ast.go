package gherkin

// StepKind identifies the clause keyword a step was declared with. And
// lines never produce a kind of their own; they inherit the preceding
// step's kind during parsing.
type StepKind int

const (
	Given StepKind = iota
	When
	Then
)

func (k StepKind) String() string {
	switch k {
	case Given:
		return "Given"
	case When:
		return "When"
	case Then:
		return "Then"
	}
	return "unknown"
}

// MarshalText renders the keyword, so serialized features read naturally.
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Step is one Given/When/Then clause, optionally carrying a block of
// literal text delimited by `"""` lines.
type Step struct {
	Kind      StepKind `json:"kind" yaml:"kind"`
	Text      string   `json:"text" yaml:"text"`
	BlockText string   `json:"blockText,omitempty" yaml:"blockText,omitempty"`
}

// Matches reports whether two steps carry the same text and block text.
// The kind is deliberately ignored: consumers that index or deduplicate
// steps treat `Given a user` and `When a user` as the same clause.
func (s Step) Matches(other Step) bool {
	return s.Text == other.Text && s.BlockText == other.BlockText
}

// FeatureHeader is the feature title line together with the tags above it
// and the free-text description lines below it.
type FeatureHeader struct {
	Description     string   `json:"description" yaml:"description"`
	LongDescription []string `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Tags            []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Scenario is a named, tagged sequence of steps.
type Scenario struct {
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Steps       []Step   `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// ScenarioOutline is a scenario template whose steps reference
// placeholders supplied by an examples table. Examples is
// placeholder-major: Examples[i][j] holds the value of Placeholders[i] in
// the j-th example row, and len(Examples) == len(Placeholders) for every
// parsed outline.
type ScenarioOutline struct {
	Scenario     `yaml:",inline"`
	Placeholders []string   `json:"placeholders" yaml:"placeholders"`
	Examples     [][]string `json:"examples" yaml:"examples"`
}

// ScenarioDefinition is the closed set of scenario shapes a Feature can
// hold: Scenario and ScenarioOutline.
type ScenarioDefinition interface {
	Name() string
	ScenarioTags() []string
	ScenarioSteps() []Step

	definition()
}

var (
	_ ScenarioDefinition = Scenario{}
	_ ScenarioDefinition = ScenarioOutline{}
)

func (s Scenario) Name() string           { return s.Description }
func (s Scenario) ScenarioTags() []string { return s.Tags }
func (s Scenario) ScenarioSteps() []Step  { return s.Steps }
func (s Scenario) definition()            {}

// HasTag reports whether the scenario carries the exact tag.
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Feature is the top-level parsed document: a header plus the scenarios
// in source order.
type Feature struct {
	Header    FeatureHeader        `json:"header" yaml:"header"`
	Scenarios []ScenarioDefinition `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
}

// HasTag reports whether the feature header carries the exact tag.
func (f *Feature) HasTag(tag string) bool {
	for _, t := range f.Header.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
