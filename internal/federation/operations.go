package federation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mselser95/predictmarket-mcp/internal/platforms"
	"github.com/mselser95/predictmarket-mcp/internal/storage"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// DefaultBrowseLimit caps browse results when the caller does not specify.
const DefaultBrowseLimit = 20

// SearchMarkets runs a federated search. An empty filter queries every
// platform; unknown filter names are silently ignored.
func (s *Service) SearchMarkets(ctx context.Context, query string, platformFilter []string) (*SearchResult, error) {
	defer observe("search_markets", time.Now())

	markets, failures, err := s.federatedSearch(ctx, query, s.resolvePlatforms(platformFilter))
	if err != nil {
		return nil, err
	}

	views := make([]MarketView, 0, len(markets))
	for _, market := range markets {
		views = append(views, NewMarketView(market))
	}
	return &SearchResult{Markets: views, Errors: failures}, nil
}

// federatedSearch fans SearchMarkets out to the named platforms and flattens
// the union in aggregation order, preserving per-platform result order.
func (s *Service) federatedSearch(ctx context.Context, query string, names []string) ([]*types.Market, []PlatformFailure, error) {
	results := fanOut(ctx, s.adapters, names, func(ctx context.Context, a platforms.Adapter) ([]*types.Market, error) {
		return a.SearchMarkets(ctx, query)
	})
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	values, failures, err := collectFailures(names, results)
	if err != nil {
		return nil, nil, err
	}

	markets := make([]*types.Market, 0)
	for _, name := range names {
		markets = append(markets, values[name]...)
	}
	return markets, failures, nil
}

// GetMarketOdds fetches one market, serving from the cache when fresh.
func (s *Service) GetMarketOdds(ctx context.Context, platform, marketID string) (*MarketView, error) {
	defer observe("get_market_odds", time.Now())

	adapter, ok := s.adapters[platform]
	if !ok {
		return nil, types.NewInvalidArgument("unknown platform %q", platform)
	}

	cacheKey := "odds:" + platform + ":" + marketID
	if s.cacheEnabled() {
		if cached, found := s.cache.Get(cacheKey); found {
			if market, ok := cached.(*types.Market); ok {
				view := NewMarketView(market)
				return &view, nil
			}
		}
	}

	market, err := adapter.GetMarket(ctx, marketID)
	if err != nil {
		return nil, normalizeError(platform, err)
	}

	if s.cacheEnabled() {
		s.cache.Set(cacheKey, market, s.cacheTTL)
	}
	s.persistMarket(ctx, market)

	view := NewMarketView(market)
	return &view, nil
}

// ListCategories returns the sorted union of every platform's categories.
func (s *Service) ListCategories(ctx context.Context) (*CategoriesResult, error) {
	defer observe("list_categories", time.Now())

	const cacheKey = "categories"
	if s.cacheEnabled() {
		if cached, found := s.cache.Get(cacheKey); found {
			if result, ok := cached.(*CategoriesResult); ok {
				return result, nil
			}
		}
	}

	results := fanOut(ctx, s.adapters, s.order, func(ctx context.Context, a platforms.Adapter) ([]string, error) {
		return a.ListCategories(ctx)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, failures, err := collectFailures(s.order, results)
	if err != nil {
		return nil, err
	}

	union := make(map[string]struct{})
	for _, name := range s.order {
		for _, category := range values[name] {
			union[category] = struct{}{}
		}

		if s.store != nil && len(values[name]) > 0 {
			s.persist(ctx, storage.CapsuleCategoryIndex,
				fmt.Sprintf("%s: %v", name, values[name]),
				map[string]string{"platform": name})
		}
	}

	categories := make([]string, 0, len(union))
	for category := range union {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	result := &CategoriesResult{Categories: categories, Errors: failures}
	if s.cacheEnabled() && len(failures) == 0 {
		s.cache.Set(cacheKey, result, s.cacheTTL)
	}
	return result, nil
}

// BrowseCategory aggregates a category browse across platforms, sorts the
// union by volume descending, and truncates to limit.
func (s *Service) BrowseCategory(ctx context.Context, category string, limit int) (*BrowseResult, error) {
	defer observe("browse_category", time.Now())

	if limit == 0 {
		limit = DefaultBrowseLimit
	}
	if limit < 1 {
		return nil, types.NewInvalidArgument("limit must be at least 1, got %d", limit)
	}
	if !types.IsCategory(category) {
		return nil, types.NewInvalidArgument("unknown category %q", category)
	}

	results := fanOut(ctx, s.adapters, s.order, func(ctx context.Context, a platforms.Adapter) ([]*types.Market, error) {
		return a.BrowseCategory(ctx, category, limit)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, failures, err := collectFailures(s.order, results)
	if err != nil {
		return nil, err
	}

	markets := make([]*types.Market, 0)
	for _, name := range s.order {
		markets = append(markets, values[name]...)
	}

	// Missing volume sorts as zero; the sort is stable so platform order
	// breaks ties.
	sort.SliceStable(markets, func(i, j int) bool {
		return volumeOf(markets[i]) > volumeOf(markets[j])
	})
	if len(markets) > limit {
		markets = markets[:limit]
	}

	views := make([]MarketView, 0, len(markets))
	for _, market := range markets {
		views = append(views, NewMarketView(market))
	}
	return &BrowseResult{Markets: views, Errors: failures}, nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}

// persistMarket appends a market observation to the market-cache capsule.
func (s *Service) persistMarket(ctx context.Context, market *types.Market) {
	if s.store == nil {
		return
	}
	s.persist(ctx, storage.CapsuleMarketCache,
		fmt.Sprintf("%s | %s", market.ID(), market.Title),
		map[string]string{
			"platform":    market.Platform,
			"native_id":   market.NativeID,
			"category":    market.Category,
			"probability": fmt.Sprintf("%.4f", market.Probability),
			"url":         market.URL,
		})
	s.logger.Debug("market-persisted", zap.String("id", market.ID()))
}

func volumeOf(m *types.Market) float64 {
	if m.Volume == nil {
		return 0
	}
	return *m.Volume
}
