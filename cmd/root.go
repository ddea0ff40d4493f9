package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "predictmarket-mcp",
	Short: "Federated prediction-market MCP server",
	Long: `Federated prediction-market query engine exposed over the Model Context
Protocol. Aggregates Manifold, Polymarket, Metaculus, PredictIt, and Kalshi
behind one set of tools: search, odds lookup, category browsing, market
tracking, cross-platform comparison, and arbitrage detection.

Run "serve" to start the MCP stdio server, or use the one-shot subcommands
(search, odds, categories, browse, arbitrage, compare) to execute a single
federated query and print the result as JSON.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
