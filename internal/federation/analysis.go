package federation

import (
	"context"
	"time"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// DefaultMinSpread is the arbitrage threshold when the caller does not
// specify one.
const DefaultMinSpread = 0.05

// FindArbitrage pools recent markets from every platform and scans matched
// pairs for probability spreads of at least minSpread. A zero minSpread is
// honored and reports every matched pair; callers that want the default
// threshold pass DefaultMinSpread.
func (s *Service) FindArbitrage(ctx context.Context, minSpread float64) (*ArbitrageResult, error) {
	defer observe("find_arbitrage", time.Now())

	if minSpread < 0 || minSpread > 1 {
		return nil, types.NewInvalidArgument("min spread %f outside [0,1]", minSpread)
	}

	markets, failures, err := s.federatedSearch(ctx, "", s.order)
	if err != nil {
		return nil, err
	}

	opportunities := s.detector.FindArbitrage(markets, minSpread)
	s.logger.Info("arbitrage-scan-complete",
		zap.Int("pool", len(markets)),
		zap.Int("opportunities", len(opportunities)))

	views := make([]OpportunityView, 0, len(opportunities))
	for _, opp := range opportunities {
		views = append(views, newOpportunityView(opp))
	}
	return &ArbitrageResult{Opportunities: views, Errors: failures}, nil
}

// ComparePlatforms searches every platform for the query and clusters the
// union into side-by-side comparisons.
func (s *Service) ComparePlatforms(ctx context.Context, query string) (*CompareResult, error) {
	defer observe("compare_platforms", time.Now())

	markets, failures, err := s.federatedSearch(ctx, query, s.order)
	if err != nil {
		return nil, err
	}

	comparisons := s.detector.ComparePlatforms(markets)

	views := make([]ComparisonView, 0, len(comparisons))
	for _, comparison := range comparisons {
		views = append(views, newComparisonView(comparison))
	}
	return &CompareResult{Comparisons: views, Errors: failures}, nil
}
