package platforms

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// PlatformMetaculus is the platform tag for Metaculus.
const PlatformMetaculus = "metaculus"

// metaculusCategoryMap maps Metaculus category slugs (prefix match) to the
// normalized vocabulary.
//
//nolint:gochecknoglobals // Static upstream mapping
var metaculusCategoryMap = map[string]string{
	"politics":                types.CategoryPolitics,
	"geopolitics":             types.CategoryPolitics,
	"elections":               types.CategoryPolitics,
	"sports":                  types.CategorySports,
	"cryptocurrencies":        types.CategoryCrypto,
	"artificial-intelligence": types.CategoryAI,
	"computing":               types.CategoryTechnology,
	"technology":              types.CategoryTechnology,
	"natural-sciences":        types.CategoryScience,
	"physics":                 types.CategoryScience,
	"space":                   types.CategoryScience,
	"economy":                 types.CategoryEconomics,
	"economics":               types.CategoryEconomics,
	"finance":                 types.CategoryFinance,
	"entertainment":           types.CategoryEntertainment,
	"health":                  types.CategoryHealth,
	"medicine":                types.CategoryHealth,
}

// MetaculusAdapter serves the Metaculus forecasting API. Probabilities come
// from the community prediction median; questions without one default to
// even odds.
type MetaculusAdapter struct {
	client  *client
	logger  *zap.Logger
	siteURL string
}

// NewMetaculusAdapter creates a Metaculus adapter.
func NewMetaculusAdapter(cfg Config) *MetaculusAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.metaculus.com/api2"
	}

	return &MetaculusAdapter{
		client:  newClient(PlatformMetaculus, cfg),
		logger:  cfg.Logger,
		siteURL: "https://www.metaculus.com",
	}
}

// Platform returns the platform tag.
func (a *MetaculusAdapter) Platform() string {
	return PlatformMetaculus
}

type metaculusQuestion struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	PageURL             string   `json:"page_url"`
	Categories          []string `json:"categories"`
	CommunityPrediction struct {
		Full struct {
			Q2 FlexNumber `json:"q2"`
		} `json:"full"`
	} `json:"community_prediction"`
	PredictionCount FlexNumber      `json:"number_of_predictions"`
	CreatedTime     FlexTime        `json:"created_time"`
	CloseTime       FlexTime        `json:"close_time"`
	ActiveState     string          `json:"active_state"`
	Resolution      json.RawMessage `json:"resolution"`
}

type metaculusQuestionList struct {
	Results []metaculusQuestion `json:"results"`
}

// GetMarket fetches a single question by numeric id.
func (a *MetaculusAdapter) GetMarket(ctx context.Context, nativeID string) (*types.Market, error) {
	if _, err := strconv.ParseInt(nativeID, 10, 64); err != nil {
		return nil, types.NewPlatformError(PlatformMetaculus, "invalid question id %q", nativeID)
	}

	var payload metaculusQuestion
	err := a.client.getJSON(ctx, "get_market", "/questions/"+nativeID+"/", nil, &payload)
	if err != nil {
		return nil, err
	}

	return a.parseQuestion(&payload)
}

// SearchMarkets searches questions by free text.
func (a *MetaculusAdapter) SearchMarkets(ctx context.Context, query string) ([]*types.Market, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(searchLimit))
	if query != "" {
		params.Set("search", query)
	}

	var payload metaculusQuestionList
	err := a.client.getJSON(ctx, "search_markets", "/questions/", params, &payload)
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0, len(payload.Results))
	for i := range payload.Results {
		market, err := a.parseQuestion(&payload.Results[i])
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

// ListCategories returns the normalized categories Metaculus slugs map to.
func (a *MetaculusAdapter) ListCategories(ctx context.Context) ([]string, error) {
	return normalizedValues(metaculusCategoryMap), nil
}

// BrowseCategory lists open questions whose normalized category matches.
func (a *MetaculusAdapter) BrowseCategory(ctx context.Context, category string, limit int) ([]*types.Market, error) {
	params := url.Values{}
	params.Set("status", "open")
	params.Set("limit", strconv.Itoa(browseFetchSize(limit)))

	var payload metaculusQuestionList
	err := a.client.getJSON(ctx, "browse_category", "/questions/", params, &payload)
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0, limit)
	for i := range payload.Results {
		market, err := a.parseQuestion(&payload.Results[i])
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
func (a *MetaculusAdapter) Close() error {
	return a.client.close()
}

func (a *MetaculusAdapter) parseQuestion(data *metaculusQuestion) (*types.Market, error) {
	category := types.CategoryOther
	for _, raw := range data.Categories {
		slug := strings.ToLower(raw)
		if mapped, ok := metaculusCategoryMap[slug]; ok {
			category = mapped
			break
		}
	}

	probability := types.ClampProbability(data.CommunityPrediction.Full.Q2.Or(0.5))

	pageURL := data.PageURL
	if pageURL == "" {
		pageURL = fmt.Sprintf("/questions/%d/", data.ID)
	}
	if strings.HasPrefix(pageURL, "/") {
		pageURL = a.siteURL + pageURL
	}

	var createdAt time.Time
	if data.CreatedTime.Valid {
		createdAt = data.CreatedTime.Time
	} else {
		createdAt = time.Now().UTC()
	}

	resolution := rawToString(data.Resolution)

	market := &types.Market{
		Platform:    PlatformMetaculus,
		NativeID:    strconv.FormatInt(data.ID, 10),
		URL:         pageURL,
		Title:       data.Title,
		Description: data.Description,
		Category:    category,
		Probability: probability,
		Outcomes:    types.BinaryOutcomes(probability),
		Volume:      data.PredictionCount.Ptr(),
		CreatedAt:   createdAt,
		ClosesAt:    data.CloseTime.Ptr(),
		Resolved:    data.ActiveState == "RESOLVED" || resolution != nil,
		Resolution:  resolution,
		LastFetched: time.Now().UTC(),
	}

	err := market.Validate()
	if err != nil {
		return nil, err
	}

	return market, nil
}
