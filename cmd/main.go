package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/portfolio/internal/config"
	"github.com/Jamolkhon5/portfolio/internal/logging"
)

var (
	envFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio backend: case study catalog, AI assistant and contact form",
	Long: `portfolio serves the case study catalog, the AI portfolio assistant
and the contact form over HTTP, plus a gRPC health endpoint.

When the model provider is unreachable or no API key is configured the
assistant answers from built-in fallback responses.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Загрузка конфигурации
		var err error
		cfg, err = config.NewConfig(envFile)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.LogLevel, cfg.AppEnv)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file with configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
