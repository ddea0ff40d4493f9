package cmd

import (
	"context"

	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var browseCmd = &cobra.Command{
	Use:   "browse <category>",
	Short: "Browse markets in a category across all platforms",
	Long: `Fetches markets in one normalized category from every platform, sorts the
aggregate by volume descending, and prints the top markets as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().IntP("limit", "l", federation.DefaultBrowseLimit, "Maximum number of markets to return")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	category := args[0]
	limit, _ := cmd.Flags().GetInt("limit")

	return runOneShot(func(ctx context.Context, service *federation.Service) (any, error) {
		return service.BrowseCategory(ctx, category, limit)
	})
}
