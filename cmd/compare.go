package cmd

import (
	"context"

	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var compareCmd = &cobra.Command{
	Use:   "compare <query>",
	Short: "Compare odds for equivalent markets across platforms",
	Long: `Searches every platform for the query, clusters equivalent markets, and
prints each cluster's per-platform probabilities and maximum spread as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	query := args[0]

	return runOneShot(func(ctx context.Context, service *federation.Service) (any, error) {
		return service.ComparePlatforms(ctx, query)
	})
}
