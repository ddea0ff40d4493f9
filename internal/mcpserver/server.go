// Package mcpserver exposes the federated query operations as MCP tools
// over stdio. Stdout carries the protocol; all logging goes to stderr.
package mcpserver

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"go.uber.org/zap"
)

// serverName identifies this server to MCP clients.
const serverName = "predictmarket-mcp"

// Federation is the consumer-side contract the tool handlers dispatch to.
type Federation interface {
	SearchMarkets(ctx context.Context, query string, platforms []string) (*federation.SearchResult, error)
	GetMarketOdds(ctx context.Context, platform, marketID string) (*federation.MarketView, error)
	ListCategories(ctx context.Context) (*federation.CategoriesResult, error)
	BrowseCategory(ctx context.Context, category string, limit int) (*federation.BrowseResult, error)
	TrackMarket(ctx context.Context, platform, marketID, alias string) (*federation.TrackResult, error)
	TrackedMarkets(ctx context.Context) (*federation.TrackedResult, error)
	FindArbitrage(ctx context.Context, minSpread float64) (*federation.ArbitrageResult, error)
	ComparePlatforms(ctx context.Context, query string) (*federation.CompareResult, error)
}

// Server wraps the MCP stdio server and its tool registrations.
type Server struct {
	mcpServer  *mcp.Server
	federation Federation
	logger     *zap.Logger
}

// New builds the server and registers the eight tools.
func New(fed Federation, version string, logger *zap.Logger) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version,
		}, nil),
		federation: fed,
		logger:     logger,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp-server-starting", zap.String("server", serverName))
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// SearchArgs are the search_markets tool arguments.
type SearchArgs struct {
	Query     string   `json:"query" jsonschema:"free-text search query; empty lists recent markets"`
	Platforms []string `json:"platforms,omitempty" jsonschema:"optional platform name filter"`
}

// OddsArgs are the get_market_odds tool arguments.
type OddsArgs struct {
	Platform string `json:"platform" jsonschema:"platform name (manifold, polymarket, metaculus, predictit, kalshi)"`
	MarketID string `json:"market_id" jsonschema:"platform-native market id"`
}

// CategoriesArgs are the list_categories tool arguments.
type CategoriesArgs struct{}

// BrowseArgs are the browse_category tool arguments.
type BrowseArgs struct {
	Category string `json:"category" jsonschema:"normalized category tag"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum markets to return, default 20"`
}

// TrackArgs are the track_market tool arguments.
type TrackArgs struct {
	Platform string `json:"platform" jsonschema:"platform name"`
	MarketID string `json:"market_id" jsonschema:"platform-native market id"`
	Alias    string `json:"alias,omitempty" jsonschema:"optional friendly name"`
}

// TrackedArgs are the get_tracked_markets tool arguments.
type TrackedArgs struct{}

// ArbitrageArgs are the find_arbitrage tool arguments. MinSpread is a
// pointer so an explicit 0 (report every matched pair) stays distinguishable
// from an omitted field.
type ArbitrageArgs struct {
	MinSpread *float64 `json:"min_spread,omitempty" jsonschema:"minimum probability spread in [0,1]; omitted uses 0.05"`
}

// CompareArgs are the compare_platforms tool arguments.
type CompareArgs struct {
	Query string `json:"query" jsonschema:"free-text search query to compare across platforms"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_markets",
		Description: "Search prediction markets across all platforms, optionally filtered by platform.",
	}, s.handleSearchMarkets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_market_odds",
		Description: "Get current odds for one market by platform and id.",
	}, s.handleGetMarketOdds)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the normalized market categories available across platforms.",
	}, s.handleListCategories)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "browse_category",
		Description: "Browse markets in a category across platforms, sorted by volume.",
	}, s.handleBrowseCategory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "track_market",
		Description: "Add a market to the tracked watchlist.",
	}, s.handleTrackMarket)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_tracked_markets",
		Description: "List tracked markets with freshly fetched odds.",
	}, s.handleTrackedMarkets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_arbitrage",
		Description: "Scan matched markets across platforms for probability spreads.",
	}, s.handleFindArbitrage)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compare_platforms",
		Description: "Compare odds for equivalent markets side by side across platforms.",
	}, s.handleComparePlatforms)
}

func (s *Server) handleSearchMarkets(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("search_markets", time.Now())

	result, err := s.federation.SearchMarkets(ctx, args.Query, args.Platforms)
	if err != nil {
		return s.toolError("search_markets", err)
	}
	return s.toolResult(result)
}

func (s *Server) handleGetMarketOdds(ctx context.Context, req *mcp.CallToolRequest, args OddsArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("get_market_odds", time.Now())

	result, err := s.federation.GetMarketOdds(ctx, args.Platform, args.MarketID)
	if err != nil {
		return s.toolError("get_market_odds", err)
	}
	return s.toolResult(result)
}

func (s *Server) handleListCategories(ctx context.Context, req *mcp.CallToolRequest, args CategoriesArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("list_categories", time.Now())

	result, err := s.federation.ListCategories(ctx)
	if err != nil {
		return s.toolError("list_categories", err)
	}
	return s.toolResult(result)
}

func (s *Server) handleBrowseCategory(ctx context.Context, req *mcp.CallToolRequest, args BrowseArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("browse_category", time.Now())

	result, err := s.federation.BrowseCategory(ctx, args.Category, args.Limit)
	if err != nil {
		return s.toolError("browse_category", err)
	}
	return s.toolResult(result)
}

func (s *Server) handleTrackMarket(ctx context.Context, req *mcp.CallToolRequest, args TrackArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("track_market", time.Now())

	result, err := s.federation.TrackMarket(ctx, args.Platform, args.MarketID, args.Alias)
	if err != nil {
		return s.toolError("track_market", err)
	}
	return s.toolResult(result)
}

func (s *Server) handleTrackedMarkets(ctx context.Context, req *mcp.CallToolRequest, args TrackedArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("get_tracked_markets", time.Now())

	result, err := s.federation.TrackedMarkets(ctx)
	if err != nil {
		return s.toolError("get_tracked_markets", err)
	}
	return s.toolResult(result)
}

func (s *Server) handleFindArbitrage(ctx context.Context, req *mcp.CallToolRequest, args ArbitrageArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("find_arbitrage", time.Now())

	minSpread := federation.DefaultMinSpread
	if args.MinSpread != nil {
		minSpread = *args.MinSpread
	}

	result, err := s.federation.FindArbitrage(ctx, minSpread)
	if err != nil {
		return s.toolError("find_arbitrage", err)
	}
	return s.toolResult(result)
}

func (s *Server) handleComparePlatforms(ctx context.Context, req *mcp.CallToolRequest, args CompareArgs) (*mcp.CallToolResult, any, error) {
	defer observeTool("compare_platforms", time.Now())

	result, err := s.federation.ComparePlatforms(ctx, args.Query)
	if err != nil {
		return s.toolError("compare_platforms", err)
	}
	return s.toolResult(result)
}

// toolResult serializes a federation result into one indented JSON text
// block.
func (s *Server) toolResult(result any) (*mcp.CallToolResult, any, error) {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, nil, nil
}

// toolError logs and surfaces a failed dispatch. The SDK renders the
// returned error as a tool error for the client.
func (s *Server) toolError(tool string, err error) (*mcp.CallToolResult, any, error) {
	ToolErrorsTotal.WithLabelValues(tool).Inc()
	s.logger.Warn("tool-call-failed",
		zap.String("tool", tool),
		zap.Error(err))
	return nil, nil, err
}

func observeTool(tool string, start time.Time) {
	ToolCallsTotal.WithLabelValues(tool).Inc()
	ToolDurationSeconds.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}
