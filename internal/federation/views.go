package federation

import (
	"time"

	"github.com/mselser95/predictmarket-mcp/internal/arbitrage"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
)

// MarketView is the JSON-safe projection of a Market returned by federated
// operations. Built only at this layer; adapters never shape output.
type MarketView struct {
	ID          string   `json:"id"`
	Platform    string   `json:"platform"`
	NativeID    string   `json:"native_id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Probability float64  `json:"probability"`
	Volume      *float64 `json:"volume"`
	Resolved    bool     `json:"resolved"`
	Resolution  *string  `json:"resolution"`
	LastFetched string   `json:"last_fetched"`
}

// NewMarketView projects a Market into its wire form.
func NewMarketView(m *types.Market) MarketView {
	return MarketView{
		ID:          m.ID(),
		Platform:    m.Platform,
		NativeID:    m.NativeID,
		URL:         m.URL,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Probability: m.Probability,
		Volume:      m.Volume,
		Resolved:    m.Resolved,
		Resolution:  m.Resolution,
		LastFetched: m.LastFetched.UTC().Format(time.RFC3339),
	}
}

// PlatformFailure is one platform's error inside an otherwise successful
// federated result.
type PlatformFailure struct {
	Platform string `json:"platform"`
	Error    string `json:"error"`
}

// SearchResult is the aggregate of a federated market search.
type SearchResult struct {
	Markets []MarketView      `json:"markets"`
	Errors  []PlatformFailure `json:"errors"`
}

// CategoriesResult is the sorted union of platform category listings.
type CategoriesResult struct {
	Categories []string          `json:"categories"`
	Errors     []PlatformFailure `json:"errors"`
}

// BrowseResult is the volume-sorted aggregate of a category browse.
type BrowseResult struct {
	Markets []MarketView      `json:"markets"`
	Errors  []PlatformFailure `json:"errors"`
}

// TrackResult confirms a newly tracked market.
type TrackResult struct {
	Status   string     `json:"status"`
	MarketID string     `json:"market_id"`
	Alias    string     `json:"alias,omitempty"`
	Market   MarketView `json:"market"`
}

// TrackedEntry is one watchlist entry with its freshly fetched market.
type TrackedEntry struct {
	Market    MarketView `json:"market"`
	Alias     string     `json:"alias,omitempty"`
	TrackedAt string     `json:"tracked_at"`
}

// EntryFailure is a per-entry refresh failure in a tracked-market listing.
type EntryFailure struct {
	MarketID string `json:"market_id"`
	Error    string `json:"error"`
}

// TrackedResult is the refreshed watchlist.
type TrackedResult struct {
	TrackedMarkets []TrackedEntry `json:"tracked_markets"`
	Errors         []EntryFailure `json:"errors"`
}

// OpportunityView is the wire form of a detected arbitrage opportunity.
type OpportunityView struct {
	ID              string     `json:"id"`
	MarketA         MarketView `json:"market_a"`
	MarketB         MarketView `json:"market_b"`
	Spread          float64    `json:"spread"`
	MatchConfidence float64    `json:"match_confidence"`
	Direction       string     `json:"direction"`
}

// ArbitrageResult is the aggregate of an arbitrage scan.
type ArbitrageResult struct {
	Opportunities []OpportunityView `json:"opportunities"`
	Errors        []PlatformFailure `json:"errors"`
}

// QuoteView is one platform's price in a comparison.
type QuoteView struct {
	Probability float64 `json:"probability"`
	URL         string  `json:"url"`
}

// ComparisonView is one cluster of equivalent markets.
type ComparisonView struct {
	Title     string               `json:"title"`
	Platforms map[string]QuoteView `json:"platforms"`
	MaxSpread float64              `json:"max_spread"`
}

// CompareResult is the aggregate of a cross-platform comparison.
type CompareResult struct {
	Comparisons []ComparisonView  `json:"comparisons"`
	Errors      []PlatformFailure `json:"errors"`
}

// MappingResult confirms a manual mapping add.
type MappingResult struct {
	Status string `json:"status"`
	IDA    string `json:"id_a"`
	IDB    string `json:"id_b"`
}

func newOpportunityView(o *arbitrage.Opportunity) OpportunityView {
	return OpportunityView{
		ID:              o.ID,
		MarketA:         NewMarketView(o.MarketA),
		MarketB:         NewMarketView(o.MarketB),
		Spread:          o.Spread,
		MatchConfidence: o.MatchConfidence,
		Direction:       o.Direction,
	}
}

func newComparisonView(c arbitrage.Comparison) ComparisonView {
	platforms := make(map[string]QuoteView, len(c.Platforms))
	for platform, quote := range c.Platforms {
		platforms[platform] = QuoteView{Probability: quote.Probability, URL: quote.URL}
	}
	return ComparisonView{
		Title:     c.Title,
		Platforms: platforms,
		MaxSpread: c.MaxSpread,
	}
}
