package recognizers

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/entities"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/ner"
)

// Ensure StatisticalRecognizer implements the Recognizer interface.
var _ Recognizer = (*StatisticalRecognizer)(nil)

// StatisticalRecognizer wraps a token-classification model. The model is
// configured once at construction (aggregation strategy, ignored labels);
// per call it yields native-labeled spans which are mapped through the
// entity taxonomy. Labels without a canonical mapping and labels on the
// ignore list are silently dropped.
type StatisticalRecognizer struct {
	name      string
	language  string
	model     ner.Model
	ignored   map[string]bool
	supported []string
}

// StatisticalOption configures a StatisticalRecognizer.
type StatisticalOption func(*StatisticalRecognizer)

// WithIgnoredLabels replaces the default ignore list (O, MISC).
func WithIgnoredLabels(labels []string) StatisticalOption {
	return func(r *StatisticalRecognizer) {
		r.ignored = make(map[string]bool, len(labels))
		for _, l := range labels {
			r.ignored[l] = true
		}
	}
}

// WithLanguage sets the recognizer's declared language (default "en").
func WithLanguage(lang string) StatisticalOption {
	return func(r *StatisticalRecognizer) { r.language = lang }
}

// NewStatisticalRecognizer wraps model as a recognizer named name.
func NewStatisticalRecognizer(name string, model ner.Model, opts ...StatisticalOption) *StatisticalRecognizer {
	r := &StatisticalRecognizer{
		name:      name,
		language:  DefaultLanguage,
		model:     model,
		ignored:   map[string]bool{"O": true, "MISC": true},
		supported: entities.Statistical(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Name returns the recognizer's unique name.
func (r *StatisticalRecognizer) Name() string { return r.name }

// SupportedEntities returns the canonical types the taxonomy can map the
// model's labels to.
func (r *StatisticalRecognizer) SupportedEntities() []string { return r.supported }

// SupportedLanguage returns the language the model was trained for.
func (r *StatisticalRecognizer) SupportedLanguage() string { return r.language }

// Analyze invokes the model once and converts its spans into findings.
// Malformed input yields no findings; a model failure is returned as an
// error for the engine to isolate.
func (r *StatisticalRecognizer) Analyze(ctx context.Context, text string, requested []string) ([]Finding, error) {
	if text == "" || !utf8.ValidString(text) {
		return nil, nil
	}

	results, err := r.model.Recognize(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("recognizer %s: model inference: %w", r.name, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	var findings []Finding
	for _, e := range results[0] {
		if r.ignored[e.Label] {
			continue
		}
		canonical := entities.Canonical(e.Label)
		if canonical == "" {
			continue
		}
		if !entityRequested(requested, canonical) {
			continue
		}
		f := Finding{
			EntityType: canonical,
			Start:      e.Start,
			End:        e.End,
			Score:      e.Score,
			Source:     r.name,
		}
		if !f.ValidFor(len(text)) {
			continue
		}
		findings = append(findings, f)
	}
	return findings, nil
}
