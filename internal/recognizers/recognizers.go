// Package recognizers defines the recognizer contract shared by the pattern
// and statistical variants, the Finding span model they produce, and the
// registry the analyzer engine resolves recognizers from.
package recognizers

import "context"

// Finding is a single labeled, scored span produced by one recognizer.
// Offsets are half-open [Start, End) into the original input text and are
// never rebased onto rewritten strings. Findings are immutable once
// produced; the analyzer engine discards them but never mutates them.
type Finding struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
	Source     string  `json:"source"`
}

// Len returns the number of characters the finding covers.
func (f Finding) Len() int { return f.End - f.Start }

// Overlaps reports whether two findings share at least one character offset.
// Touching boundaries (f.End == other.Start) do not overlap.
func (f Finding) Overlaps(other Finding) bool {
	return f.Start < other.End && other.Start < f.End
}

// ValidFor reports whether the finding's span is non-empty and lies within a
// text of the given length: 0 <= Start < End <= textLen.
func (f Finding) ValidFor(textLen int) bool {
	return f.Start >= 0 && f.Start < f.End && f.End <= textLen
}

// Recognizer is the capability contract implemented by the pattern and
// statistical variants. A recognizer scans text and yields candidate
// findings; a nil requested slice means all supported entities.
//
// Recognizers are read-only with respect to the input text and safe for
// concurrent use after construction. A returned error means the recognizer
// contributed nothing to this request; it never aborts the overall analysis.
type Recognizer interface {
	Name() string
	SupportedEntities() []string
	SupportedLanguage() string
	Analyze(ctx context.Context, text string, requested []string) ([]Finding, error)
}

// entityRequested reports whether entity is in the requested set. A nil or
// empty set requests everything.
func entityRequested(requested []string, entity string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, r := range requested {
		if r == entity {
			return true
		}
	}
	return false
}

// intersects reports whether the two entity sets share at least one type.
func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
