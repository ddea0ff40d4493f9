package platforms

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// PlatformPredictIt is the platform tag for PredictIt.
const PlatformPredictIt = "predictit"

// PredictItAdapter serves the PredictIt public API. The API has no search or
// point-read endpoints, only a full dump of open markets; search and get are
// implemented client-side over the dump.
type PredictItAdapter struct {
	client *client
	logger *zap.Logger
}

// NewPredictItAdapter creates a PredictIt adapter.
func NewPredictItAdapter(cfg Config) *PredictItAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.predictit.org/api/marketdata"
	}

	return &PredictItAdapter{
		client: newClient(PlatformPredictIt, cfg),
		logger: cfg.Logger,
	}
}

// Platform returns the platform tag.
func (a *PredictItAdapter) Platform() string {
	return PlatformPredictIt
}

type predictitContract struct {
	Name           string     `json:"name"`
	ShortName      string     `json:"shortName"`
	LastTradePrice FlexNumber `json:"lastTradePrice"`
	BestBuyYesCost FlexNumber `json:"bestBuyYesCost"`
	Status         string     `json:"status"`
	DateEnd        string     `json:"dateEnd"`
}

type predictitMarket struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	ShortName string              `json:"shortName"`
	URL       string              `json:"url"`
	Status    string              `json:"status"`
	Contracts []predictitContract `json:"contracts"`
}

type predictitDump struct {
	Markets []predictitMarket `json:"markets"`
}

// GetMarket fetches a single market by numeric id.
func (a *PredictItAdapter) GetMarket(ctx context.Context, nativeID string) (*types.Market, error) {
	if _, err := strconv.ParseInt(nativeID, 10, 64); err != nil {
		return nil, types.NewPlatformError(PlatformPredictIt, "invalid market id %q", nativeID)
	}

	var payload predictitMarket
	err := a.client.getJSON(ctx, "get_market", "/markets/"+nativeID, nil, &payload)
	if err != nil {
		return nil, err
	}

	return a.parseMarket(&payload)
}

// SearchMarkets fetches the full open-market dump and filters by substring
// over name and short name.
func (a *PredictItAdapter) SearchMarkets(ctx context.Context, query string) ([]*types.Market, error) {
	dump, err := a.fetchAll(ctx, "search_markets")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	markets := make([]*types.Market, 0, searchLimit)
	for i := range dump.Markets {
		m := &dump.Markets[i]
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.Name), needle) &&
			!strings.Contains(strings.ToLower(m.ShortName), needle) {
			continue
		}

		market, err := a.parseMarket(m)
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

// ListCategories returns the single category PredictIt serves. The platform
// is politics-only.
func (a *PredictItAdapter) ListCategories(ctx context.Context) ([]string, error) {
	return []string{types.CategoryPolitics}, nil
}

// BrowseCategory lists open markets for the category. Everything PredictIt
// carries is politics, so any other category yields no markets.
func (a *PredictItAdapter) BrowseCategory(ctx context.Context, category string, limit int) ([]*types.Market, error) {
	if category != types.CategoryPolitics {
		return nil, nil
	}

	dump, err := a.fetchAll(ctx, "browse_category")
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0, limit)
	for i := range dump.Markets {
		market, err := a.parseMarket(&dump.Markets[i])
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

// Close releases the HTTP client.
func (a *PredictItAdapter) Close() error {
	return a.client.close()
}

func (a *PredictItAdapter) fetchAll(ctx context.Context, operation string) (*predictitDump, error) {
	var payload predictitDump
	err := a.client.getJSON(ctx, operation, "/all/", nil, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

func (a *PredictItAdapter) parseMarket(data *predictitMarket) (*types.Market, error) {
	// Price precedence per contract: last trade, then best buy-yes offer,
	// then even odds.
	contractPrice := func(c *predictitContract) float64 {
		if c.LastTradePrice.Valid {
			return types.ClampProbability(c.LastTradePrice.Value)
		}
		return types.ClampProbability(c.BestBuyYesCost.Or(0.5))
	}

	probability := 0.5
	outcomes := make([]types.Outcome, 0, len(data.Contracts))
	var closesAt *time.Time
	for i := range data.Contracts {
		c := &data.Contracts[i]
		price := contractPrice(c)

		name := c.ShortName
		if name == "" {
			name = c.Name
		}
		outcomes = append(outcomes, types.Outcome{Name: name, Probability: price})

		if i == 0 {
			probability = price
		}
		if closesAt == nil && c.DateEnd != "" && c.DateEnd != "NA" {
			if t, err := time.Parse(time.RFC3339, c.DateEnd); err == nil {
				utc := t.UTC()
				closesAt = &utc
			}
		}
	}
	if len(outcomes) == 1 {
		outcomes = types.BinaryOutcomes(probability)
	}

	nativeID := strconv.FormatInt(data.ID, 10)
	marketURL := data.URL
	if marketURL == "" {
		marketURL = fmt.Sprintf("https://www.predictit.org/markets/detail/%s", nativeID)
	}

	market := &types.Market{
		Platform:    PlatformPredictIt,
		NativeID:    nativeID,
		URL:         marketURL,
		Title:       data.Name,
		Category:    types.CategoryPolitics,
		Probability: probability,
		Outcomes:    outcomes,
		CreatedAt:   time.Now().UTC(), // creation time is not exposed by the API
		ClosesAt:    closesAt,
		Resolved:    strings.EqualFold(data.Status, "Closed"),
		LastFetched: time.Now().UTC(),
	}

	err := market.Validate()
	if err != nil {
		return nil, err
	}

	return market, nil
}
