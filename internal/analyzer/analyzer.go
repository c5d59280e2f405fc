// Package analyzer orchestrates running every applicable recognizer over an
// input text and consolidating their candidate spans into one non-overlapping
// result set.
package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/entities"
	piiotel "github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/otel"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/recognizers"
)

var tracer = piiotel.Tracer("github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/analyzer")

const (
	// DefaultMinScore is the minimum confidence a finding needs to survive,
	// measured after context boosting. Matches Presidio's default threshold.
	DefaultMinScore = 0.5

	// DefaultTimeout bounds one analysis request. Recognizers still running
	// at the deadline are treated as having returned nothing.
	DefaultTimeout = 10 * time.Second
)

// Engine resolves applicable recognizers from the registry, fans the request
// out to them, and merges the candidates. Safe for concurrent use; the
// registry is read-only after startup.
type Engine struct {
	registry        *recognizers.Registry
	minScore        float64
	timeout         time.Duration
	defaultEntities []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinScore overrides the minimum confidence threshold.
func WithMinScore(score float64) Option {
	return func(e *Engine) { e.minScore = score }
}

// WithTimeout overrides the per-request recognizer deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithDefaultEntities overrides the entity set analyzed when the caller
// requests none.
func WithDefaultEntities(ents []string) Option {
	return func(e *Engine) { e.defaultEntities = ents }
}

// New builds an Engine over the given registry.
func New(registry *recognizers.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:        registry,
		minScore:        DefaultMinScore,
		timeout:         DefaultTimeout,
		defaultEntities: entities.Default,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// candidate pairs a finding with the registration order of its recognizer,
// the last-resort merge tie-break.
type candidate struct {
	recognizers.Finding
	order int
}

// Analyze runs every applicable recognizer over text and returns the
// consolidated, non-overlapping findings sorted by ascending start offset
// (ties: longer span first). A nil requested set analyzes the default
// entity set. The result is deterministic regardless of recognizer
// invocation order; unknown requested types simply yield no findings.
//
// Recognizer failures are isolated: a failing or timed-out recognizer
// contributes nothing and the request still succeeds with partial coverage.
func (e *Engine) Analyze(ctx context.Context, text, language string, requested []string) []recognizers.Finding {
	ctx, span := tracer.Start(ctx, "analyzer.analyze")
	defer span.End()

	if len(requested) == 0 {
		requested = e.defaultEntities
	}

	recs := e.registry.Lookup(language, requested)
	span.SetAttributes(
		attribute.Int("analyzer.recognizer_count", len(recs)),
		attribute.String("analyzer.language", language),
	)
	if len(recs) == 0 || text == "" {
		return []recognizers.Finding{}
	}

	// Fan out. Results land in per-recognizer slots so concatenation order
	// is registration order, independent of completion order. The merge
	// below runs only after every recognizer finished or gave up.
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	results := make([][]recognizers.Finding, len(recs))
	var g errgroup.Group
	for i, rec := range recs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Str("recognizer", rec.Name()).
						Interface("panic", r).
						Msg("Recognizer panicked, continuing without its findings")
				}
			}()
			findings, err := rec.Analyze(ctx, text, requested)
			if err != nil {
				log.Warn().
					Err(err).
					Str("recognizer", rec.Name()).
					Msg("Recognizer failed, continuing without its findings")
				return nil
			}
			results[i] = findings
			return nil
		})
	}
	_ = g.Wait()

	requestedSet := make(map[string]bool, len(requested))
	for _, r := range requested {
		requestedSet[r] = true
	}

	var candidates []candidate
	for i, findings := range results {
		for _, f := range findings {
			// Recognizers already filter by requested entities; this
			// guards the contract against a misbehaving implementation.
			if !requestedSet[f.EntityType] {
				continue
			}
			if !f.ValidFor(len(text)) {
				log.Warn().
					Str("recognizer", recs[i].Name()).
					Int("start", f.Start).
					Int("end", f.End).
					Msg("Dropping finding with out-of-range span")
				continue
			}
			if f.Score < e.minScore {
				continue
			}
			candidates = append(candidates, candidate{Finding: f, order: i})
		}
	}

	resolved := resolveConflicts(candidates)
	span.SetAttributes(
		attribute.Int("analyzer.candidate_count", len(candidates)),
		attribute.Int("analyzer.finding_count", len(resolved)),
	)
	return resolved
}

// resolveConflicts discards overlapping candidates with a greedy
// highest-priority-first sweep: sort by descending score, then descending
// span length, then ascending recognizer registration order, and accept a
// candidate only if it overlaps nothing already accepted. Losers are
// discarded whole, never trimmed or split.
func resolveConflicts(candidates []candidate) []recognizers.Finding {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Len() != candidates[j].Len() {
			return candidates[i].Len() > candidates[j].Len()
		}
		return candidates[i].order < candidates[j].order
	})

	accepted := make([]recognizers.Finding, 0, len(candidates))
	for _, c := range candidates {
		conflict := false
		for _, a := range accepted {
			if c.Overlaps(a) {
				conflict = true
				break
			}
		}
		if !conflict {
			accepted = append(accepted, c.Finding)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].Start != accepted[j].Start {
			return accepted[i].Start < accepted[j].Start
		}
		return accepted[i].Len() > accepted[j].Len()
	})
	return accepted
}
