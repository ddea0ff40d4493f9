package platforms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// PlatformPolymarket is the platform tag for Polymarket.
const PlatformPolymarket = "polymarket"

// polymarketCategoryMap maps Polymarket category labels (lowercased) to the
// normalized vocabulary.
//
//nolint:gochecknoglobals // Static upstream mapping
var polymarketCategoryMap = map[string]string{
	"politics":           types.CategoryPolitics,
	"us-current-affairs": types.CategoryPolitics,
	"sports":             types.CategorySports,
	"crypto":             types.CategoryCrypto,
	"ai":                 types.CategoryAI,
	"tech":               types.CategoryTechnology,
	"science":            types.CategoryScience,
	"business":           types.CategoryEconomics,
	"economy":            types.CategoryEconomics,
	"finance":            types.CategoryFinance,
	"pop-culture":        types.CategoryEntertainment,
	"entertainment":      types.CategoryEntertainment,
	"games":              types.CategoryGaming,
	"health":             types.CategoryHealth,
	"coronavirus":        types.CategoryHealth,
}

// PolymarketAdapter serves the Polymarket Gamma REST API. Several fields
// arrive double-encoded (JSON arrays shipped inside JSON strings); the flex
// decoders absorb both shapes.
type PolymarketAdapter struct {
	client *client
	logger *zap.Logger
}

// NewPolymarketAdapter creates a Polymarket adapter.
func NewPolymarketAdapter(cfg Config) *PolymarketAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://gamma-api.polymarket.com"
	}

	return &PolymarketAdapter{
		client: newClient(PlatformPolymarket, cfg),
		logger: cfg.Logger,
	}
}

// Platform returns the platform tag.
func (a *PolymarketAdapter) Platform() string {
	return PlatformPolymarket
}

type polymarketMarket struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Description   string     `json:"description"`
	Slug          string     `json:"slug"`
	Category      string     `json:"category"`
	Outcomes      stringList `json:"outcomes"`
	OutcomePrices floatList  `json:"outcomePrices"`
	Volume        FlexNumber `json:"volume"`
	Liquidity     FlexNumber `json:"liquidity"`
	StartDate     FlexTime   `json:"startDate"`
	EndDate       FlexTime   `json:"endDate"`
	Closed        bool       `json:"closed"`
	Active        *bool      `json:"active"`
}

// GetMarket fetches a single market by id.
func (a *PolymarketAdapter) GetMarket(ctx context.Context, nativeID string) (*types.Market, error) {
	var payload polymarketMarket
	err := a.client.getJSON(ctx, "get_market", "/markets/"+url.PathEscape(nativeID), nil, &payload)
	if err != nil {
		return nil, err
	}

	return a.parseMarket(&payload)
}

// SearchMarkets searches active open markets by title substring.
func (a *PolymarketAdapter) SearchMarkets(ctx context.Context, query string) ([]*types.Market, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(searchLimit))
	if query != "" {
		params.Set("title_like", query)
	}

	var payload []polymarketMarket
	err := a.client.getJSON(ctx, "search_markets", "/markets", params, &payload)
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0, len(payload))
	for i := range payload {
		market, err := a.parseMarket(&payload[i])
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
		if len(markets) >= searchLimit {
			break
		}
	}
	return markets, nil
}

// ListCategories returns the normalized categories Polymarket labels map to.
func (a *PolymarketAdapter) ListCategories(ctx context.Context) ([]string, error) {
	return normalizedValues(polymarketCategoryMap), nil
}

// BrowseCategory lists open markets whose normalized category matches.
func (a *PolymarketAdapter) BrowseCategory(ctx context.Context, category string, limit int) ([]*types.Market, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(browseFetchSize(limit)))

	var payload []polymarketMarket
	err := a.client.getJSON(ctx, "browse_category", "/markets", params, &payload)
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0, limit)
	for i := range payload {
		market, err := a.parseMarket(&payload[i])
		if err != nil {
			return nil, err
		}
		if market.Category == category {
			markets = append(markets, market)
			if len(markets) >= limit {
				break
			}
		}
	}
	return markets, nil
}

// Close releases the HTTP client.
func (a *PolymarketAdapter) Close() error {
	return a.client.close()
}

func (a *PolymarketAdapter) parseMarket(data *polymarketMarket) (*types.Market, error) {
	category := types.CategoryOther
	if mapped, ok := polymarketCategoryMap[strings.ToLower(data.Category)]; ok {
		category = mapped
	}

	// First outcome price is the Yes side on binary markets; default to
	// even odds when prices are missing.
	probability := 0.5
	if len(data.OutcomePrices) > 0 {
		probability = types.ClampProbability(data.OutcomePrices[0])
	}

	var outcomes []types.Outcome
	if len(data.Outcomes) == len(data.OutcomePrices) && len(data.Outcomes) > 0 {
		outcomes = make([]types.Outcome, 0, len(data.Outcomes))
		for i, name := range data.Outcomes {
			p := types.ClampProbability(data.OutcomePrices[i])
			outcomes = append(outcomes, types.Outcome{Name: name, Probability: p})
			// Some payloads order outcomes No-first; the headline
			// probability tracks the Yes side.
			if name == "Yes" {
				probability = p
			}
		}
	} else {
		outcomes = types.BinaryOutcomes(probability)
	}

	var createdAt time.Time
	if data.StartDate.Valid {
		createdAt = data.StartDate.Time
	} else {
		createdAt = time.Now().UTC()
	}

	// closed alone only means trading stopped; a market still flagged active
	// has not resolved yet. Payloads that omit active are treated as active.
	active := true
	if data.Active != nil {
		active = *data.Active
	}

	market := &types.Market{
		Platform:    PlatformPolymarket,
		NativeID:    data.ID,
		URL:         fmt.Sprintf("https://polymarket.com/market/%s", data.Slug),
		Title:       data.Question,
		Description: data.Description,
		Category:    category,
		Probability: probability,
		Outcomes:    outcomes,
		Volume:      data.Volume.Ptr(),
		Liquidity:   data.Liquidity.Ptr(),
		CreatedAt:   createdAt,
		ClosesAt:    data.EndDate.Ptr(),
		Resolved:    data.Closed && !active,
		LastFetched: time.Now().UTC(),
	}

	err := market.Validate()
	if err != nil {
		return nil, err
	}

	return market, nil
}
