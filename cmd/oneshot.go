package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/mselser95/predictmarket-mcp/internal/app"
	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/mselser95/predictmarket-mcp/pkg/config"
)

// oneShotTimeout bounds a single federated query from the CLI.
const oneShotTimeout = 60 * time.Second

// runOneShot builds the federation service without the MCP and HTTP servers,
// executes a single operation, and prints the result as indented JSON on
// stdout. Shared by the query subcommands.
func runOneShot(run func(ctx context.Context, service *federation.Service) (any, error)) error {
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

	service, store, err := app.NewService(cfg, logger)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	defer func() {
		_ = service.Close()
		if store != nil {
			_ = store.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), oneShotTimeout)
	defer cancel()

	result, err := run(ctx, service)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(encoded))
	return nil
}
