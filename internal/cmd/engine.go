package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/analyzer"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/config"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/ner"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/recognizers"
)

// buildRegistry assembles the recognizer registry from the embedded pattern
// defaults, an optional operator pattern file, and the statistical
// recognizer when a model path is configured. Returns the registry and a
// cleanup function releasing model resources.
func buildRegistry(cfg *config.Config) (*recognizers.Registry, func(), error) {
	defaults, err := recognizers.DefaultRecognizers()
	if err != nil {
		return nil, nil, fmt.Errorf("loading default recognizers: %w", err)
	}

	var global []recognizers.RecognizerConfig
	if cfg.PatternFile != "" {
		rf, err := recognizers.LoadRecognizerFile(cfg.PatternFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading pattern file: %w", err)
		}
		if rf != nil {
			global = rf.Recognizers
		}
	}

	merged := recognizers.MergeRecognizers(defaults, global)

	registry := recognizers.NewRegistry()
	for _, r := range recognizers.Compile(merged) {
		registry.Register(r)
	}

	cleanup := func() {}
	if cfg.ModelPath != "" {
		model, err := ner.NewHugotModel(ner.HugotConfig{
			ModelPath:    cfg.ModelPath,
			OnnxFilename: cfg.OnnxFilename,
			PoolSize:     cfg.PoolSize,
			Strategy:     ner.ParseAggregation(cfg.AggregationStrategy),
		})
		if err != nil {
			// Statistical coverage degrades to patterns only; the
			// process still serves requests.
			log.Warn().Err(err).Str("model_path", cfg.ModelPath).
				Msg("Statistical model unavailable, continuing with pattern recognizers only")
		} else {
			cached := ner.NewCachedModel(model, 0)
			registry.Register(recognizers.NewStatisticalRecognizer(
				"StatisticalRecognizer",
				cached,
				recognizers.WithIgnoredLabels(cfg.IgnoredLabels),
				recognizers.WithLanguage(cfg.Language),
			))
			cleanup = func() {
				if err := cached.Close(); err != nil {
					log.Warn().Err(err).Msg("Closing statistical model")
				}
			}
		}
	}

	log.Debug().Int("recognizers", registry.Len()).Msg("Registry built")
	return registry, cleanup, nil
}

// buildAnalyzer builds the analyzer engine over a freshly assembled registry.
func buildAnalyzer(cfg *config.Config) (*analyzer.Engine, func(), error) {
	registry, cleanup, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []analyzer.Option{
		analyzer.WithMinScore(cfg.MinScore),
		analyzer.WithTimeout(cfg.AnalysisTimeout),
	}
	if len(cfg.DefaultEntities) > 0 {
		opts = append(opts, analyzer.WithDefaultEntities(cfg.DefaultEntities))
	}
	return analyzer.New(registry, opts...), cleanup, nil
}
