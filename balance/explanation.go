package balance

import (
	"fmt"
	"strings"
)

// Explanation accumulates a human-readable breakdown of why a
// reservation check succeeded or failed, per §4.5's "caller-supplied
// explanation structure." Callers that do not need a breakdown may
// pass a nil *Explanation to any operation that accepts one.
type Explanation struct {
	lines []string
}

// NewExplanation returns an empty Explanation ready to be passed to a
// façade operation.
func NewExplanation() *Explanation {
	return &Explanation{}
}

// Addf appends one formatted line. It is a no-op on a nil receiver so
// callers can freely pass a nil *Explanation.
func (e *Explanation) Addf(format string, args ...any) {
	if e == nil {
		return
	}
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

// String renders the accumulated lines, one per line.
func (e *Explanation) String() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.lines, "\n")
}
