package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/config"
	piiotel "github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/otel"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/requestctx"
)

var (
	analyzeText     string
	analyzeEntities []string
	analyzeLanguage string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Detect PII in text and print findings as JSON",
	Long: `Analyze runs every applicable recognizer over the input text and prints
the consolidated findings, one JSON array sorted by start offset.

Text is taken from --text, or from stdin when the flag is absent:

  echo "My card is 4095-2609-9393-4932" | pii analyze
  pii analyze --text "David lives in Maine." --entities PERSON,LOCATION`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "analyze")
		defer span.End()
		ctx, requestID := requestctx.Ensure(ctx)

		text, err := inputText(cmd.InOrStdin())
		if err != nil {
			return err
		}

		cfg := config.Load()
		engine, cleanup, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		findings := engine.Analyze(ctx, text, language(cfg), normalizeEntities(analyzeEntities))
		log.Debug().
			Str("request_id", requestID).
			Int("findings", len(findings)).
			Func(piiotel.LogTraceFields(ctx)).
			Msg("Analysis complete")

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(findings)
	},
}

// inputText returns --text, or stdin when the flag is absent. A missing text
// field is a client error; the core never guesses a default.
func inputText(stdin io.Reader) (string, error) {
	if analyzeText != "" {
		return analyzeText, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return "", errors.New("no input text: pass --text or pipe text on stdin")
	}
	return text, nil
}

// language returns the configured analysis language.
func language(cfg *config.Config) string {
	if analyzeLanguage != "" {
		return analyzeLanguage
	}
	return cfg.Language
}

// normalizeEntities upper-cases requested entity names so callers can pass
// "person" for PERSON.
func normalizeEntities(ents []string) []string {
	if len(ents) == 0 {
		return nil
	}
	out := make([]string, len(ents))
	for i, e := range ents {
		out[i] = strings.ToUpper(strings.TrimSpace(e))
	}
	return out
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "text to analyze (default: stdin)")
	analyzeCmd.Flags().StringSliceVar(&analyzeEntities, "entities", nil, "entity types to detect (default: all)")
	analyzeCmd.Flags().StringVar(&analyzeLanguage, "language", "", "analysis language (default: configured language)")
	rootCmd.AddCommand(analyzeCmd)
}
