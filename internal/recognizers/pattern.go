package recognizers

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// ContextBoost is the score increase applied when a context word is
	// found near a match. Matches Presidio's default
	// context_similarity_factor.
	ContextBoost = 0.35

	// ContextWindowChars is the number of characters searched before and
	// after a match when looking for context words.
	ContextWindowChars = 100
)

// compiledPattern is one regex with its base confidence score.
type compiledPattern struct {
	name  string
	re    *regexp.Regexp
	score float64
}

// PatternRecognizer detects one entity type through regular expressions
// and/or a deny list, with an optional checksum gate and context-word score
// boosting. Immutable and safe for concurrent use after construction.
type PatternRecognizer struct {
	name         string
	entity       string
	language     string
	patterns     []compiledPattern
	deny         *regexp.Regexp
	denyScore    float64
	contextWords []string
	validation   Validation
}

// NewPatternRecognizer compiles cfg into a runtime recognizer. It fails when
// a regex does not compile; callers decide whether that aborts startup or
// just drops the recognizer.
func NewPatternRecognizer(cfg RecognizerConfig) (*PatternRecognizer, error) {
	r := &PatternRecognizer{
		name:       cfg.Name,
		entity:     cfg.SupportedEntity,
		language:   cfg.language(),
		validation: Validation(cfg.Validation),
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, &CompileError{Recognizer: cfg.Name, Pattern: p.Name, Err: err}
		}
		r.patterns = append(r.patterns, compiledPattern{name: p.Name, re: re, score: p.Score})
	}

	if len(cfg.DenyList) > 0 {
		re, err := compileDenyList(cfg.DenyList)
		if err != nil {
			return nil, &CompileError{Recognizer: cfg.Name, Pattern: "deny_list", Err: err}
		}
		r.deny = re
		r.denyScore = cfg.DenyListScore
		if r.denyScore == 0 {
			r.denyScore = 1.0
		}
	}

	r.contextWords = cfg.contextWords()
	return r, nil
}

// Name returns the recognizer's unique name.
func (r *PatternRecognizer) Name() string { return r.name }

// SupportedEntities returns the single entity type this recognizer emits.
func (r *PatternRecognizer) SupportedEntities() []string { return []string{r.entity} }

// SupportedLanguage returns the language this recognizer was declared for.
func (r *PatternRecognizer) SupportedLanguage() string { return r.language }

// Analyze evaluates all patterns and the deny list against text. Matches
// failing the checksum gate are silently dropped. Malformed input (empty
// text, invalid UTF-8) yields no findings, never an error.
func (r *PatternRecognizer) Analyze(_ context.Context, text string, requested []string) ([]Finding, error) {
	if text == "" || !utf8.ValidString(text) {
		return nil, nil
	}
	if !entityRequested(requested, r.entity) {
		return nil, nil
	}

	var findings []Finding
	for _, p := range r.patterns {
		for _, m := range p.re.FindAllStringIndex(text, -1) {
			value := text[m[0]:m[1]]
			if !r.validation.Accept(value) {
				continue
			}
			findings = append(findings, Finding{
				EntityType: r.entity,
				Start:      m[0],
				End:        m[1],
				Score:      r.boost(text, m[0], p.score),
				Source:     r.name,
			})
		}
	}

	if r.deny != nil {
		for _, m := range r.deny.FindAllStringIndex(text, -1) {
			findings = append(findings, Finding{
				EntityType: r.entity,
				Start:      m[0],
				End:        m[1],
				Score:      r.boost(text, m[0], r.denyScore),
				Source:     r.name,
			})
		}
	}

	return findings, nil
}

// boost raises the base score by ContextBoost when a context word appears
// within ContextWindowChars of the match, bounded at 1.0.
func (r *PatternRecognizer) boost(text string, position int, base float64) float64 {
	if len(r.contextWords) == 0 {
		return base
	}
	start := position - ContextWindowChars
	if start < 0 {
		start = 0
	}
	end := position + ContextWindowChars
	if end > len(text) {
		end = len(text)
	}
	window := strings.ToLower(text[start:end])

	for _, cw := range r.contextWords {
		if strings.Contains(window, strings.ToLower(cw)) {
			boosted := base + ContextBoost
			if boosted > 1.0 {
				boosted = 1.0
			}
			return boosted
		}
	}
	return base
}

// compileDenyList builds one word-boundary alternation from the terms.
func compileDenyList(terms []string) (*regexp.Regexp, error) {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.Compile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// CompileError reports a pattern that failed to compile at startup.
type CompileError struct {
	Recognizer string
	Pattern    string
	Err        error
}

func (e *CompileError) Error() string {
	return "compiling pattern " + e.Pattern + " in recognizer " + e.Recognizer + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error { return e.Err }
