package gherkin

import "strings"

// cursor is a forward-only cursor over the lines of a source text.
// current holds the line under the cursor. Once input runs out, current
// is empty and exhausted is set; advancing past the end is idempotent.
type cursor struct {
	current   string
	pending   []string
	exhausted bool
}

func newCursor(src string) *cursor {
	lines := strings.Split(src, "\n")
	return &cursor{current: lines[0], pending: lines[1:]}
}

func (c *cursor) advance() {
	if len(c.pending) > 0 {
		c.current = c.pending[0]
		c.pending = c.pending[1:]
		return
	}
	c.current = ""
	c.exhausted = true
}
