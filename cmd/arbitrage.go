package cmd

import (
	"context"

	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var arbitrageCmd = &cobra.Command{
	Use:   "arbitrage",
	Short: "Find cross-platform arbitrage opportunities",
	Long: `Fetches current markets from every platform, matches equivalent markets
across platforms, and prints pairs whose probability spread meets the
minimum as JSON.`,
	Args: cobra.NoArgs,
	RunE: runArbitrage,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(arbitrageCmd)
	arbitrageCmd.Flags().Float64P("min-spread", "s", federation.DefaultMinSpread, "Minimum probability spread (0..1)")
}

func runArbitrage(cmd *cobra.Command, args []string) error {
	minSpread, _ := cmd.Flags().GetFloat64("min-spread")

	return runOneShot(func(ctx context.Context, service *federation.Service) (any, error) {
		return service.FindArbitrage(ctx, minSpread)
	})
}
