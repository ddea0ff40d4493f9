package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/mselser95/predictmarket-mcp/internal/app"
	"github.com/mselser95/predictmarket-mcp/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Starts the federated prediction-market MCP server:
1. Builds one adapter per platform (Manifold, Polymarket, Metaculus, PredictIt, Kalshi)
2. Serves the ops HTTP endpoints (/health, /ready, /metrics, /api/watchlist)
3. Registers the MCP tools and speaks the protocol over stdin/stdout

Logs go to stderr; stdout carries only MCP protocol frames.`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env if present; a missing file is fine
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
