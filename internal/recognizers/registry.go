package recognizers

// Registry is an ordered collection of active recognizers, built once at
// startup and read-only afterwards. Registration order matters only as the
// last-resort tie-break input to the analyzer's merge step, never for
// correctness.
type Registry struct {
	recognizers []Recognizer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register appends rec, deduplicating by identity: registering the same
// instance twice is a no-op.
func (r *Registry) Register(rec Recognizer) {
	if rec == nil {
		return
	}
	for _, existing := range r.recognizers {
		if existing == rec {
			return
		}
	}
	r.recognizers = append(r.recognizers, rec)
}

// Lookup returns, in registration order, the recognizers whose declared
// language matches and whose supported entities intersect requested. A nil
// or empty requested set selects all recognizers for the language.
func (r *Registry) Lookup(language string, requested []string) []Recognizer {
	var out []Recognizer
	for _, rec := range r.recognizers {
		if rec.SupportedLanguage() != language {
			continue
		}
		if len(requested) > 0 && !intersects(rec.SupportedEntities(), requested) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// All returns every registered recognizer in registration order.
func (r *Registry) All() []Recognizer {
	out := make([]Recognizer, len(r.recognizers))
	copy(out, r.recognizers)
	return out
}

// Len returns the number of registered recognizers.
func (r *Registry) Len() int { return len(r.recognizers) }
