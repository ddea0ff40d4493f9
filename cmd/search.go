package cmd

import (
	"context"

	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search markets across all platforms",
	Long: `Runs a federated market search and prints the aggregated results as JSON.
An empty query lists each platform's current markets. Use --platforms to
restrict the fan-out to a subset of platforms.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringSliceP("platforms", "p", nil, "Restrict to these platforms (e.g. manifold,kalshi)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	platformFilter, _ := cmd.Flags().GetStringSlice("platforms")

	return runOneShot(func(ctx context.Context, service *federation.Service) (any, error) {
		return service.SearchMarkets(ctx, query, platformFilter)
	})
}
