package recognizers

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/patterns"
)

// DefaultLanguage is assumed when a recognizer declares no languages.
const DefaultLanguage = "en"

// RecognizerFile is the top-level YAML structure for a recognizer config
// file, mirroring Presidio's recognizer registry format.
type RecognizerFile struct {
	Recognizers []RecognizerConfig `yaml:"recognizers"`
}

// RecognizerConfig describes one pattern recognizer in YAML. The validation
// field is an extension naming a checksum gate ("luhn", "iban").
type RecognizerConfig struct {
	Name               string            `yaml:"name" json:"name"`
	SupportedEntity    string            `yaml:"supported_entity" json:"supported_entity"`
	Enabled            *bool             `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Validation         string            `yaml:"validation,omitempty" json:"validation,omitempty"`
	Patterns           []PatternConfig   `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	SupportedLanguages []LanguageContext `yaml:"supported_languages,omitempty" json:"supported_languages,omitempty"`
	DenyList           []string          `yaml:"deny_list,omitempty" json:"deny_list,omitempty"`
	DenyListScore      float64           `yaml:"deny_list_score,omitempty" json:"deny_list_score,omitempty"`
}

// PatternConfig is a single regex pattern within a recognizer.
type PatternConfig struct {
	Name  string  `yaml:"name" json:"name"`
	Regex string  `yaml:"regex" json:"regex"`
	Score float64 `yaml:"score" json:"score"`
}

// LanguageContext holds context words for a specific language.
type LanguageContext struct {
	Language string   `yaml:"language" json:"language"`
	Context  []string `yaml:"context,omitempty" json:"context,omitempty"`
}

// isEnabled returns true if the recognizer is enabled (defaults to true).
func (r *RecognizerConfig) isEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// language returns the recognizer's declared language, or DefaultLanguage.
func (r *RecognizerConfig) language() string {
	if len(r.SupportedLanguages) > 0 && r.SupportedLanguages[0].Language != "" {
		return r.SupportedLanguages[0].Language
	}
	return DefaultLanguage
}

// contextWords returns the context words of the first declared language.
func (r *RecognizerConfig) contextWords() []string {
	if len(r.SupportedLanguages) > 0 {
		return r.SupportedLanguages[0].Context
	}
	return nil
}

// DefaultRecognizers returns the built-in recognizer configs parsed from the
// embedded pii_default.yaml. This is the first layer in the merge chain.
func DefaultRecognizers() ([]RecognizerConfig, error) {
	rf, err := ParseRecognizerFile(patterns.PIIDefaultYAML())
	if err != nil {
		return nil, fmt.Errorf("parsing embedded PII patterns: %w", err)
	}
	return rf.Recognizers, nil
}

// ParseRecognizerFile parses recognizer YAML bytes into a RecognizerFile.
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing recognizer YAML: %w", err)
	}
	return &rf, nil
}

// LoadRecognizerFile reads and parses a recognizer YAML file from disk.
// Returns nil (not an error) if the file does not exist, so callers can
// treat a missing operator config as a no-op.
func LoadRecognizerFile(path string) (*RecognizerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading recognizer file %s: %w", path, err)
	}
	return ParseRecognizerFile(data)
}

// MergeRecognizers layers recognizer configs: defaults, then operator
// overrides, then per-call custom definitions. Later layers override earlier
// ones by matching on Name; new recognizers are appended.
func MergeRecognizers(layers ...[]RecognizerConfig) []RecognizerConfig {
	index := make(map[string]int)
	var merged []RecognizerConfig

	for _, layer := range layers {
		for _, rc := range layer {
			if idx, exists := index[rc.Name]; exists {
				merged[idx] = rc
			} else {
				index[rc.Name] = len(merged)
				merged = append(merged, rc)
			}
		}
	}

	return merged
}

// FilterByEntities applies whitelist/blacklist entity filters. A non-empty
// enabled list keeps only matching recognizers; the disabled list then
// removes any remaining matches.
func FilterByEntities(configs []RecognizerConfig, enabled, disabled []string) []RecognizerConfig {
	result := configs

	if len(enabled) > 0 {
		allowed := make(map[string]bool, len(enabled))
		for _, e := range enabled {
			allowed[e] = true
		}
		var filtered []RecognizerConfig
		for _, r := range result {
			if allowed[r.SupportedEntity] {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	if len(disabled) > 0 {
		blocked := make(map[string]bool, len(disabled))
		for _, e := range disabled {
			blocked[e] = true
		}
		var filtered []RecognizerConfig
		for _, r := range result {
			if !blocked[r.SupportedEntity] {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	return result
}

// Compile converts recognizer configs into runtime pattern recognizers.
// Disabled recognizers are skipped. A config whose pattern fails to compile
// is logged and dropped; one bad recognizer never takes down the rest.
func Compile(configs []RecognizerConfig) []*PatternRecognizer {
	var out []*PatternRecognizer
	for _, rc := range configs {
		if !rc.isEnabled() {
			continue
		}
		r, err := NewPatternRecognizer(rc)
		if err != nil {
			log.Warn().Err(err).Str("recognizer", rc.Name).Msg("Dropping recognizer with invalid pattern")
			continue
		}
		out = append(out, r)
	}
	return out
}
