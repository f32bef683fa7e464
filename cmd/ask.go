package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jamolkhon5/portfolio/internal/ai/llm"
	"github.com/Jamolkhon5/portfolio/internal/ai/portfolio/service"
	"github.com/Jamolkhon5/portfolio/internal/catalog"
	"github.com/Jamolkhon5/portfolio/internal/config"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask the portfolio assistant a single question and print the JSON answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}

		model, err := newModel(cmd.Context())
		if err != nil {
			return err
		}

		assistant := service.NewPortfolioAssistant(cat, model, cfg.AssistantTimeout, logger)
		resp, err := assistant.HandleMessage(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func newModel(ctx context.Context) (llm.Model, error) {
	pc := llm.ProviderConfig{
		Provider: cfg.ModelProvider,
		APIKey:   cfg.ModelApiKey(),
		Model:    cfg.GeminiModel,
	}
	if cfg.ModelProvider == config.ProviderMistral {
		pc.Model = cfg.MistralModel
		pc.BaseURL = cfg.MistralBaseURL
	}
	return llm.New(ctx, pc)
}
