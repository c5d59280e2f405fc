package cmd

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/anonymizer"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/config"
	piiotel "github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/otel"
	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/requestctx"
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Detect PII in text and print the anonymized string",
	Long: `Anonymize analyzes the input text and replaces every finding with a
placeholder naming its entity type:

  echo "My card is 4095-2609-9393-4932" | pii anonymize
  {"anonymized_text": "My card is <CREDIT_CARD>"}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "anonymize")
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
		anonymized, err := anonymizer.New().Anonymize(ctx, text, findings)
		if err != nil {
			return err
		}

		log.Debug().
			Str("request_id", requestID).
			Int("findings", len(findings)).
			Func(piiotel.LogTraceFields(ctx)).
			Msg("Anonymization complete")

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"anonymized_text": anonymized})
	},
}

func init() {
	anonymizeCmd.Flags().StringVar(&analyzeText, "text", "", "text to anonymize (default: stdin)")
	anonymizeCmd.Flags().StringSliceVar(&analyzeEntities, "entities", nil, "entity types to detect (default: all)")
	anonymizeCmd.Flags().StringVar(&analyzeLanguage, "language", "", "analysis language (default: configured language)")
	rootCmd.AddCommand(anonymizeCmd)
}
