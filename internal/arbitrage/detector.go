// Package arbitrage finds probability spreads between markets that describe
// the same question on different platforms.
package arbitrage

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/predictmarket-mcp/internal/matching"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// Trade directions. "a" and "b" refer to the opportunity's market pair.
const (
	DirectionBuyASellB = "buy_a_sell_b"
	DirectionBuyBSellA = "buy_b_sell_a"
)

// Opportunity is one detected cross-platform spread.
type Opportunity struct {
	ID              string
	MarketA         *types.Market
	MarketB         *types.Market
	Spread          float64
	MatchConfidence float64
	Direction       string
	DetectedAt      time.Time
}

// String renders a short log form.
func (o *Opportunity) String() string {
	return fmt.Sprintf("arb %s: %s vs %s spread=%.4f direction=%s confidence=%.2f",
		o.ID, o.MarketA.ID(), o.MarketB.ID(), o.Spread, o.Direction, o.MatchConfidence)
}

// Comparison is one cluster of equivalent markets with per-platform quotes.
type Comparison struct {
	Title     string
	Platforms map[string]Quote
	MaxSpread float64
}

// Quote is a platform's price for a compared market.
type Quote struct {
	Probability float64
	URL         string
}

// Detector scans pooled markets for arbitrage opportunities and builds
// side-by-side platform comparisons.
type Detector struct {
	matcher            *matching.Matcher
	minMatchConfidence float64
	logger             *zap.Logger
}

// NewDetector creates a Detector over a matcher. minMatchConfidence gates
// which text matches count as the same question.
func NewDetector(matcher *matching.Matcher, minMatchConfidence float64, logger *zap.Logger) *Detector {
	return &Detector{
		matcher:            matcher,
		minMatchConfidence: minMatchConfidence,
		logger:             logger,
	}
}

// FindArbitrage returns every unique matched pair whose probability spread
// is at least minSpread, sorted by spread descending.
func (d *Detector) FindArbitrage(markets []*types.Market, minSpread float64) []*Opportunity {
	start := time.Now()

	seen := make(map[[2]string]struct{})
	opportunities := make([]*Opportunity, 0)

	for _, market := range markets {
		matches := d.matcher.FindMatches(market, markets, d.minMatchConfidence)
		for _, match := range matches {
			key := pairKey(market.ID(), match.Market.ID())
			if _, done := seen[key]; done {
				continue
			}
			seen[key] = struct{}{}

			spread := math.Abs(market.Probability - match.Market.Probability)
			if spread < minSpread {
				continue
			}

			direction := DirectionBuyBSellA
			if market.Probability < match.Market.Probability {
				direction = DirectionBuyASellB
			}

			opp := &Opportunity{
				ID:              uuid.NewString(),
				MarketA:         market,
				MarketB:         match.Market,
				Spread:          spread,
				MatchConfidence: match.Confidence,
				Direction:       direction,
				DetectedAt:      time.Now().UTC(),
			}
			opportunities = append(opportunities, opp)

			OpportunitiesTotal.Inc()
			SpreadHistogram.Observe(spread)
			d.logger.Info("arbitrage-opportunity", zap.String("detail", opp.String()))
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Spread > opportunities[j].Spread
	})

	DetectionDurationSeconds.Observe(time.Since(start).Seconds())
	return opportunities
}

// ComparePlatforms clusters equivalent markets greedily and reports one
// comparison per cluster that has at least one cross-market match.
func (d *Detector) ComparePlatforms(markets []*types.Market) []Comparison {
	start := time.Now()

	processed := make(map[string]struct{})
	comparisons := make([]Comparison, 0)

	for _, market := range markets {
		if _, done := processed[market.ID()]; done {
			continue
		}
		processed[market.ID()] = struct{}{}

		remaining := make([]*types.Market, 0, len(markets))
		for _, candidate := range markets {
			if _, done := processed[candidate.ID()]; !done {
				remaining = append(remaining, candidate)
			}
		}

		matches := d.matcher.FindMatches(market, remaining, d.minMatchConfidence)
		if len(matches) == 0 {
			continue
		}

		platforms := map[string]Quote{
			market.Platform: {Probability: market.Probability, URL: market.URL},
		}
		minProb, maxProb := market.Probability, market.Probability
		for _, match := range matches {
			processed[match.Market.ID()] = struct{}{}
			platforms[match.Market.Platform] = Quote{
				Probability: match.Market.Probability,
				URL:         match.Market.URL,
			}
			minProb = math.Min(minProb, match.Market.Probability)
			maxProb = math.Max(maxProb, match.Market.Probability)
		}

		comparisons = append(comparisons, Comparison{
			Title:     market.Title,
			Platforms: platforms,
			MaxSpread: maxProb - minProb,
		})
		ComparisonsTotal.Inc()
	}

	ComparisonDurationSeconds.Observe(time.Since(start).Seconds())
	return comparisons
}

// pairKey builds the order-independent dedupe key for a market pair.
func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
