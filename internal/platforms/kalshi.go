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

// PlatformKalshi is the platform tag for Kalshi.
const PlatformKalshi = "kalshi"

// kalshiCategoryMap maps Kalshi category labels (lowercased) to the
// normalized vocabulary.
//
//nolint:gochecknoglobals // Static upstream mapping
var kalshiCategoryMap = map[string]string{
	"politics":               types.CategoryPolitics,
	"elections":              types.CategoryPolitics,
	"world":                  types.CategoryPolitics,
	"sports":                 types.CategorySports,
	"crypto":                 types.CategoryCrypto,
	"ai":                     types.CategoryAI,
	"science and technology": types.CategoryTechnology,
	"science":                types.CategoryScience,
	"climate and weather":    types.CategoryScience,
	"economics":              types.CategoryEconomics,
	"financials":             types.CategoryFinance,
	"entertainment":          types.CategoryEntertainment,
	"health":                 types.CategoryHealth,
	"covid-19":               types.CategoryHealth,
}

// KalshiAdapter serves the Kalshi trade API. Prices arrive in integer cents;
// the adapter converts to [0,1] probabilities. An API key is optional for
// the public read endpoints but raises the rate ceiling.
type KalshiAdapter struct {
	client *client
	logger *zap.Logger
}

// NewKalshiAdapter creates a Kalshi adapter.
func NewKalshiAdapter(cfg Config) *KalshiAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elections.kalshi.com/trade-api/v2"
	}

	return &KalshiAdapter{
		client: newClient(PlatformKalshi, cfg),
		logger: cfg.Logger,
	}
}

// Platform returns the platform tag.
func (a *KalshiAdapter) Platform() string {
	return PlatformKalshi
}

type kalshiMarket struct {
	Ticker    string     `json:"ticker"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	Category  string     `json:"category"`
	YesAsk    FlexNumber `json:"yes_ask"`    // integer cents
	LastPrice FlexNumber `json:"last_price"` // integer cents
	Volume    FlexNumber `json:"volume"`
	Liquidity FlexNumber `json:"liquidity"`
	OpenTime  FlexTime   `json:"open_time"`
	CloseTime FlexTime   `json:"close_time"`
	Status    string     `json:"status"`
	Result    string     `json:"result"`
}

type kalshiMarketEnvelope struct {
	Market kalshiMarket `json:"market"`
}

type kalshiMarketList struct {
	Markets []kalshiMarket `json:"markets"`
}

// GetMarket fetches a single market by ticker.
func (a *KalshiAdapter) GetMarket(ctx context.Context, nativeID string) (*types.Market, error) {
	var payload kalshiMarketEnvelope
	err := a.client.getJSON(ctx, "get_market", "/markets/"+url.PathEscape(nativeID), nil, &payload)
	if err != nil {
		return nil, err
	}

	return a.parseMarket(&payload.Market)
}

// SearchMarkets lists open markets, optionally narrowed by ticker prefix.
// Kalshi has no free-text search endpoint.
func (a *KalshiAdapter) SearchMarkets(ctx context.Context, query string) ([]*types.Market, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("status", "open")
	if query != "" {
		params.Set("ticker", strings.ToUpper(query))
	}

	var payload kalshiMarketList
	err := a.client.getJSON(ctx, "search_markets", "/markets", params, &payload)
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0, len(payload.Markets))
	for i := range payload.Markets {
		market, err := a.parseMarket(&payload.Markets[i])
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

// ListCategories returns the normalized categories Kalshi labels map to.
func (a *KalshiAdapter) ListCategories(ctx context.Context) ([]string, error) {
	return normalizedValues(kalshiCategoryMap), nil
}

// BrowseCategory lists open markets whose normalized category matches.
func (a *KalshiAdapter) BrowseCategory(ctx context.Context, category string, limit int) ([]*types.Market, error) {
	params := url.Values{}
	params.Set("status", "open")
	params.Set("limit", strconv.Itoa(browseFetchSize(limit)))

	var payload kalshiMarketList
	err := a.client.getJSON(ctx, "browse_category", "/markets", params, &payload)
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0, limit)
	for i := range payload.Markets {
		market, err := a.parseMarket(&payload.Markets[i])
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
func (a *KalshiAdapter) Close() error {
	return a.client.close()
}

func (a *KalshiAdapter) parseMarket(data *kalshiMarket) (*types.Market, error) {
	category := types.CategoryOther
	if mapped, ok := kalshiCategoryMap[strings.ToLower(data.Category)]; ok {
		category = mapped
	}

	// Cents to probability: ask price first, then last trade, then even
	// odds. A null ask with a real last price is common on thin books.
	probability := 0.5
	switch {
	case data.YesAsk.Valid:
		probability = types.ClampProbability(data.YesAsk.Value / 100)
	case data.LastPrice.Valid:
		probability = types.ClampProbability(data.LastPrice.Value / 100)
	}

	var createdAt time.Time
	if data.OpenTime.Valid {
		createdAt = data.OpenTime.Time
	} else {
		createdAt = time.Now().UTC()
	}

	var resolution *string
	if data.Result != "" {
		resolution = types.StringPtr(data.Result)
	}

	market := &types.Market{
		Platform:    PlatformKalshi,
		NativeID:    data.Ticker,
		URL:         fmt.Sprintf("https://kalshi.com/markets/%s", data.Ticker),
		Title:       data.Title,
		Description: data.Subtitle,
		Category:    category,
		Probability: probability,
		Outcomes:    types.BinaryOutcomes(probability),
		Volume:      data.Volume.Ptr(),
		Liquidity:   data.Liquidity.Ptr(),
		CreatedAt:   createdAt,
		ClosesAt:    data.CloseTime.Ptr(),
		Resolved:    strings.EqualFold(data.Status, "finalized") || data.Result != "",
		Resolution:  resolution,
		LastFetched: time.Now().UTC(),
	}

	err := market.Validate()
	if err != nil {
		return nil, err
	}

	return market, nil
}
