package platforms

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// PlatformManifold is the platform tag for Manifold Markets.
const PlatformManifold = "manifold"

// manifoldCategoryMap maps Manifold group slugs to the normalized
// vocabulary. First matching slug wins.
//
//nolint:gochecknoglobals // Static upstream mapping
var manifoldCategoryMap = map[string]string{
	"politics":                types.CategoryPolitics,
	"us-politics":             types.CategoryPolitics,
	"world-politics":          types.CategoryPolitics,
	"sports":                  types.CategorySports,
	"crypto":                  types.CategoryCrypto,
	"bitcoin":                 types.CategoryCrypto,
	"ethereum":                types.CategoryCrypto,
	"ai":                      types.CategoryAI,
	"artificial-intelligence": types.CategoryAI,
	"technology":              types.CategoryTechnology,
	"science":                 types.CategoryScience,
	"economics":               types.CategoryEconomics,
	"finance":                 types.CategoryFinance,
	"stocks":                  types.CategoryFinance,
	"entertainment":           types.CategoryEntertainment,
	"gaming":                  types.CategoryGaming,
	"health":                  types.CategoryHealth,
}

// ManifoldAdapter serves the Manifold Markets v0 API. Markets are
// user-created and binary markets dominate; probability comes straight from
// the `probability` field.
type ManifoldAdapter struct {
	client *client
	logger *zap.Logger
}

// NewManifoldAdapter creates a Manifold adapter.
func NewManifoldAdapter(cfg Config) *ManifoldAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.manifold.markets/v0"
	}

	return &ManifoldAdapter{
		client: newClient(PlatformManifold, cfg),
		logger: cfg.Logger,
	}
}

// Platform returns the platform tag.
func (a *ManifoldAdapter) Platform() string {
	return PlatformManifold
}

type manifoldMarket struct {
	ID          string          `json:"id"`
	Question    string          `json:"question"`
	Description json.RawMessage `json:"description"` // rich-text object or plain string
	URL         string          `json:"url"`
	Probability *float64        `json:"probability"`
	OutcomeType string          `json:"outcomeType"`
	GroupSlugs  []string        `json:"groupSlugs"`
	Volume      FlexNumber      `json:"volume"`
	CreatedTime int64           `json:"createdTime"` // epoch milliseconds
	CloseTime   *int64          `json:"closeTime"`
	IsResolved  bool            `json:"isResolved"`
	Resolution  string          `json:"resolution"`
}

// GetMarket fetches a single market by id.
func (a *ManifoldAdapter) GetMarket(ctx context.Context, nativeID string) (*types.Market, error) {
	var payload manifoldMarket
	err := a.client.getJSON(ctx, "get_market", "/market/"+url.PathEscape(nativeID), nil, &payload)
	if err != nil {
		return nil, err
	}

	return a.parseMarket(&payload)
}

// SearchMarkets searches by free-text term. An empty query lists recent
// markets instead.
func (a *ManifoldAdapter) SearchMarkets(ctx context.Context, query string) ([]*types.Market, error) {
	var payload []manifoldMarket

	if query == "" {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(searchLimit))

		err := a.client.getJSON(ctx, "search_markets", "/markets", params, &payload)
		if err != nil {
			return nil, err
		}
	} else {
		params := url.Values{}
		params.Set("term", query)
		params.Set("limit", strconv.Itoa(searchLimit))

		err := a.client.getJSON(ctx, "search_markets", "/search-markets", params, &payload)
		if err != nil {
			return nil, err
		}
	}

	return a.parseMarkets(payload, searchLimit)
}

// ListCategories returns the normalized categories Manifold groups map to.
func (a *ManifoldAdapter) ListCategories(ctx context.Context) ([]string, error) {
	return normalizedValues(manifoldCategoryMap), nil
}

// BrowseCategory lists open markets whose normalized category matches.
func (a *ManifoldAdapter) BrowseCategory(ctx context.Context, category string, limit int) ([]*types.Market, error) {
	params := url.Values{}
	params.Set("term", "")
	params.Set("filter", "open")
	params.Set("limit", strconv.Itoa(browseFetchSize(limit)))

	var payload []manifoldMarket
	err := a.client.getJSON(ctx, "browse_category", "/search-markets", params, &payload)
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
func (a *ManifoldAdapter) Close() error {
	return a.client.close()
}

func (a *ManifoldAdapter) parseMarkets(payload []manifoldMarket, limit int) ([]*types.Market, error) {
	markets := make([]*types.Market, 0, len(payload))
	for i := range payload {
		market, err := a.parseMarket(&payload[i])
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
		if len(markets) >= limit {
			break
		}
	}
	return markets, nil
}

func (a *ManifoldAdapter) parseMarket(data *manifoldMarket) (*types.Market, error) {
	category := types.CategoryOther
	for _, slug := range data.GroupSlugs {
		if mapped, ok := manifoldCategoryMap[slug]; ok {
			category = mapped
			break
		}
	}

	probability := 0.5
	if data.Probability != nil {
		probability = types.ClampProbability(*data.Probability)
	}

	var outcomes []types.Outcome
	if data.OutcomeType == "BINARY" {
		outcomes = types.BinaryOutcomes(probability)
	}

	var closesAt *time.Time
	if data.CloseTime != nil {
		t := epochMillis(*data.CloseTime)
		closesAt = &t
	}

	// The url field is not officially contracted; fall back to the
	// well-known market page path.
	marketURL := data.URL
	if marketURL == "" {
		marketURL = fmt.Sprintf("https://manifold.markets/market/%s", data.ID)
	}

	var resolution *string
	if data.Resolution != "" {
		resolution = types.StringPtr(data.Resolution)
	}

	var description string
	if s := rawToString(data.Description); s != nil && len(data.Description) > 0 && data.Description[0] == '"' {
		description = *s
	}

	market := &types.Market{
		Platform:    PlatformManifold,
		NativeID:    data.ID,
		URL:         marketURL,
		Title:       data.Question,
		Description: description,
		Category:    category,
		Probability: probability,
		Outcomes:    outcomes,
		Volume:      data.Volume.Ptr(),
		CreatedAt:   epochMillis(data.CreatedTime),
		ClosesAt:    closesAt,
		Resolved:    data.IsResolved,
		Resolution:  resolution,
		LastFetched: time.Now().UTC(),
	}

	err := market.Validate()
	if err != nil {
		return nil, err
	}

	return market, nil
}

// normalizedValues returns the sorted distinct normalized categories of a
// platform category map.
func normalizedValues(m map[string]string) []string {
	seen := make(map[string]struct{}, len(m))
	for _, v := range m {
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// browseFetchSize widens the upstream page so category filtering still has
// enough markets to fill the requested limit.
func browseFetchSize(limit int) int {
	if limit < 50 {
		return 50
	}
	return limit
}
