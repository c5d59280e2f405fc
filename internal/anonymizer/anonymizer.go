// Package anonymizer rewrites text by replacing detected spans with
// placeholder tokens naming their entity type.
package anonymizer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	piiotel "github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/otel"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/recognizers"
)

var tracer = piiotel.Tracer("github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/anonymizer")

// ErrOverlap reports overlapping findings passed to Anonymize. The analyzer
// never produces these; receiving them is a programmer error that cannot be
// resolved safely, so the engine fails fast instead of corrupting output.
var ErrOverlap = errors.New("anonymizer: overlapping findings")

// ErrSpanOutOfRange reports a finding whose span does not fit the text.
var ErrSpanOutOfRange = errors.New("anonymizer: finding span out of range")

// Engine replaces finding spans with "<ENTITY_TYPE>" placeholders.
type Engine struct{}

// New returns an anonymizer engine.
func New() *Engine { return &Engine{} }

// Anonymize returns text with every finding's span replaced by a
// placeholder. Offsets in findings refer to the original text; the output
// is built in one ascending walk so differing placeholder lengths never
// invalidate later offsets. Findings must be non-overlapping.
func (e *Engine) Anonymize(ctx context.Context, text string, findings []recognizers.Finding) (string, error) {
	_, span := tracer.Start(ctx, "anonymizer.anonymize")
	defer span.End()
	span.SetAttributes(attribute.Int("anonymizer.finding_count", len(findings)))

	if len(findings) == 0 {
		return text, nil
	}

	sorted := make([]recognizers.Finding, len(findings))
	copy(sorted, findings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b strings.Builder
	cursor := 0
	for i, f := range sorted {
		if !f.ValidFor(len(text)) {
			return "", fmt.Errorf("%w: [%d,%d) in text of length %d", ErrSpanOutOfRange, f.Start, f.End, len(text))
		}
		if f.Start < cursor && i > 0 {
			return "", fmt.Errorf("%w: [%d,%d) and [%d,%d)",
				ErrOverlap, sorted[i-1].Start, sorted[i-1].End, f.Start, f.End)
		}
		b.WriteString(text[cursor:f.Start])
		b.WriteString("<" + f.EntityType + ">")
		cursor = f.End
	}
	b.WriteString(text[cursor:])

	return b.String(), nil
}
