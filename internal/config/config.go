// Package config holds startup configuration for the PII engines.
//
// This is operator-level configuration read once at process start: where the
// statistical model lives, how its predictions aggregate, which entities are
// analyzed by default. It is owned by the deployment boundary; per-request
// options (requested entities, anonymize flag) arrive with each call and
// never live here.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the PII_ prefix
// (e.g. "model_path" → PII_MODEL_PATH) and to a YAML field in
// pii.config.yaml.
const (
	KeyModelPath           = "model_path"
	KeyOnnxFilename        = "onnx_filename"
	KeyPoolSize            = "pool_size"
	KeyAggregationStrategy = "aggregation_strategy"
	KeyIgnoredLabels       = "ignored_labels"
	KeyDefaultEntities     = "default_entities"
	KeyMinScore            = "min_score"
	KeyLanguage            = "language"
	KeyPatternFile         = "pattern_file"
	KeyAnalysisTimeoutMS   = "analysis_timeout_ms"
)

// Defaults. Confidence and aggregation values are tunable operating points,
// not invariants.
const (
	DefaultAggregation       = "simple"
	DefaultMinScore          = 0.5
	DefaultLanguage          = "en"
	DefaultAnalysisTimeoutMS = 10_000
)

// DefaultIgnoredLabels are native model labels dropped before taxonomy
// mapping: outside-entity tokens and the catch-all miscellaneous class.
var DefaultIgnoredLabels = []string{"O", "MISC"}

// Config holds resolved startup configuration.
type Config struct {
	ModelPath           string        // statistical model directory ("" = patterns only)
	OnnxFilename        string        // ONNX file within ModelPath ("" = model.onnx)
	PoolSize            int           // concurrent inference pipelines (0 = NumCPU)
	AggregationStrategy string        // simple | first | average
	IgnoredLabels       []string      // native labels dropped before mapping
	DefaultEntities     []string      // entities analyzed when caller requests none (nil = taxonomy default)
	MinScore            float64       // minimum confidence after context boosting
	Language            string        // language recognizers are resolved for
	PatternFile         string        // optional operator recognizer YAML layered over the defaults
	AnalysisTimeout     time.Duration // per-request recognizer deadline
}

func init() {
	viper.SetEnvPrefix("PII")
	viper.AutomaticEnv()
	viper.SetDefault(KeyAggregationStrategy, DefaultAggregation)
	viper.SetDefault(KeyIgnoredLabels, DefaultIgnoredLabels)
	viper.SetDefault(KeyMinScore, DefaultMinScore)
	viper.SetDefault(KeyLanguage, DefaultLanguage)
	viper.SetDefault(KeyAnalysisTimeoutMS, DefaultAnalysisTimeoutMS)
}

// Load reads configuration from Viper (which merges env vars, config file,
// and defaults) and returns a resolved Config.
func Load() *Config {
	return &Config{
		ModelPath:           viper.GetString(KeyModelPath),
		OnnxFilename:        viper.GetString(KeyOnnxFilename),
		PoolSize:            viper.GetInt(KeyPoolSize),
		AggregationStrategy: viper.GetString(KeyAggregationStrategy),
		IgnoredLabels:       viper.GetStringSlice(KeyIgnoredLabels),
		DefaultEntities:     viper.GetStringSlice(KeyDefaultEntities),
		MinScore:            viper.GetFloat64(KeyMinScore),
		Language:            viper.GetString(KeyLanguage),
		PatternFile:         viper.GetString(KeyPatternFile),
		AnalysisTimeout:     time.Duration(viper.GetInt(KeyAnalysisTimeoutMS)) * time.Millisecond,
	}
}
