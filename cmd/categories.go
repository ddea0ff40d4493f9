package cmd

import (
	"context"

	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List available categories across all platforms",
	Long:  `Prints the sorted union of normalized category tags offered by all platforms.`,
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	return runOneShot(func(ctx context.Context, service *federation.Service) (any, error) {
		return service.ListCategories(ctx)
	})
}
