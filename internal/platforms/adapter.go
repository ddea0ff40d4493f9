package platforms

import (
	"context"
	"time"

	"github.com/mselser95/predictmarket-mcp/internal/ratelimit"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// searchLimit caps the number of markets returned by a single search.
const searchLimit = 20

// Adapter is the contract every platform implements: four read operations,
// an identity tag, and a Close releasing the owned HTTP client.
type Adapter interface {
	// Platform returns the short lowercase platform tag.
	Platform() string

	// GetMarket fetches a single market by its platform-native id.
	GetMarket(ctx context.Context, nativeID string) (*types.Market, error)

	// SearchMarkets returns up to 20 markets matching the query. An empty
	// query returns recent/popular markets.
	SearchMarkets(ctx context.Context, query string) ([]*types.Market, error)

	// ListCategories returns the normalized category tags the platform
	// can serve.
	ListCategories(ctx context.Context) ([]string, error)

	// BrowseCategory returns up to limit markets in a normalized category.
	BrowseCategory(ctx context.Context, category string, limit int) ([]*types.Market, error)

	// Close releases the adapter's HTTP client.
	Close() error
}

// Config holds the shared adapter construction parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
	APIKey  string // bearer token, Kalshi only
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
}

// Compile-time interface checks for the five concrete adapters.
var (
	_ Adapter = (*ManifoldAdapter)(nil)
	_ Adapter = (*PolymarketAdapter)(nil)
	_ Adapter = (*MetaculusAdapter)(nil)
	_ Adapter = (*PredictItAdapter)(nil)
	_ Adapter = (*KalshiAdapter)(nil)
)
