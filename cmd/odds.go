package cmd

import (
	"context"

	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var oddsCmd = &cobra.Command{
	Use:   "odds <platform> <market-id>",
	Short: "Fetch current odds for one market",
	Long: `Fetches a single market from one platform and prints its current state,
including the YES probability, as JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: runOdds,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(oddsCmd)
}

func runOdds(cmd *cobra.Command, args []string) error {
	platform, marketID := args[0], args[1]

	return runOneShot(func(ctx context.Context, service *federation.Service) (any, error) {
		return service.GetMarketOdds(ctx, platform, marketID)
	})
}
