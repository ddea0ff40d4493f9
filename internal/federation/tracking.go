package federation

import (
	"context"
	"sync"
	"time"

	"github.com/mselser95/predictmarket-mcp/internal/storage"
	"github.com/mselser95/predictmarket-mcp/internal/watchlist"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// TrackMarket verifies a market exists, then records it on the watchlist.
// The verification fetch bypasses the cache so a stale entry cannot confirm
// a dead market.
func (s *Service) TrackMarket(ctx context.Context, platform, marketID, alias string) (*TrackResult, error) {
	defer observe("track_market", time.Now())

	adapter, ok := s.adapters[platform]
	if !ok {
		return nil, types.NewInvalidArgument("unknown platform %q", platform)
	}

	market, err := adapter.GetMarket(ctx, marketID)
	if err != nil {
		return nil, normalizeError(platform, err)
	}

	fullID := market.ID()
	s.watchlist.Track(fullID, alias)
	s.persist(ctx, storage.CapsuleTrackedMarkets, fullID+" | "+market.Title,
		map[string]string{"market_id": fullID, "alias": alias})

	s.logger.Info("market-tracked",
		zap.String("market_id", fullID),
		zap.String("alias", alias))

	return &TrackResult{
		Status:   "tracked",
		MarketID: fullID,
		Alias:    alias,
		Market:   NewMarketView(market),
	}, nil
}

// Untrack removes a watchlist entry. Returns false when the id was not
// tracked.
func (s *Service) Untrack(fullID string) bool {
	return s.watchlist.Untrack(fullID)
}

// TrackedMarkets re-fetches every watchlist entry concurrently. Each fetch
// bypasses the cache; per-entry failures are reported without aborting the
// listing. Entry order follows the watchlist.
func (s *Service) TrackedMarkets(ctx context.Context) (*TrackedResult, error) {
	defer observe("get_tracked_markets", time.Now())

	entries := s.watchlist.Entries()

	type slot struct {
		market *types.Market
		err    error
	}
	slots := make([]slot, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry watchlist.Entry) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slots[i] = slot{err: types.NewPlatformError("federation", "internal: %v", r)}
				}
			}()

			platform, nativeID, err := s.splitFullID(entry.FullID)
			if err != nil {
				slots[i] = slot{err: err}
				return
			}

			market, err := s.adapters[platform].GetMarket(ctx, nativeID)
			if err != nil {
				slots[i] = slot{err: normalizeError(platform, err)}
				return
			}
			market.AppendPrice(market.LastFetched, market.Probability)
			slots[i] = slot{market: market}
		}(i, entry)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracked := make([]TrackedEntry, 0, len(entries))
	failures := make([]EntryFailure, 0)
	for i, entry := range entries {
		if slots[i].err != nil {
			failures = append(failures, EntryFailure{
				MarketID: entry.FullID,
				Error:    slots[i].err.Error(),
			})
			continue
		}

		s.persistMarket(ctx, slots[i].market)
		tracked = append(tracked, TrackedEntry{
			Market:    NewMarketView(slots[i].market),
			Alias:     entry.Alias,
			TrackedAt: entry.TrackedAt.UTC().Format(time.RFC3339),
		})
	}

	return &TrackedResult{TrackedMarkets: tracked, Errors: failures}, nil
}

// AddManualMapping records that two federation ids describe the same
// question. Both ids must name known platforms.
func (s *Service) AddManualMapping(ctx context.Context, idA, idB string) (*MappingResult, error) {
	defer observe("add_manual_mapping", time.Now())

	if _, _, err := s.splitFullID(idA); err != nil {
		return nil, err
	}
	if _, _, err := s.splitFullID(idB); err != nil {
		return nil, err
	}
	if idA == idB {
		return nil, types.NewInvalidArgument("cannot map %q to itself", idA)
	}

	s.matcher.AddManualMapping(idA, idB)
	s.persist(ctx, storage.CapsuleMappings, idA+" <-> "+idB,
		map[string]string{"id_a": idA, "id_b": idB})

	return &MappingResult{Status: "added", IDA: idA, IDB: idB}, nil
}
