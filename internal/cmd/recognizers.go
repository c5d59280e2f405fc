package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/config"
)

var recognizersCmd = &cobra.Command{
	Use:   "recognizers",
	Short: "List the active recognizers and their supported entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, span := tracer.Start(cmd.Context(), "recognizers")
		defer span.End()

		cfg := config.Load()
		registry, cleanup, err := buildRegistry(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		for _, rec := range registry.All() {
			fmt.Fprintf(out, "%-28s %-6s %s\n",
				rec.Name(),
				rec.SupportedLanguage(),
				strings.Join(rec.SupportedEntities(), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recognizersCmd)
}
