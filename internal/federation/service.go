// Package federation orchestrates the platform adapters: concurrent fan-out,
// aggregation with partial-failure semantics, matching, arbitrage detection,
// and the tracked-market registry.
package federation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mselser95/predictmarket-mcp/internal/arbitrage"
	"github.com/mselser95/predictmarket-mcp/internal/matching"
	"github.com/mselser95/predictmarket-mcp/internal/platforms"
	"github.com/mselser95/predictmarket-mcp/internal/storage"
	"github.com/mselser95/predictmarket-mcp/internal/watchlist"
	"github.com/mselser95/predictmarket-mcp/pkg/cache"
	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// platformOrder fixes the cross-platform aggregation order so federated
// results are deterministic.
//
//nolint:gochecknoglobals // Static ordering
var platformOrder = []string{
	platforms.PlatformManifold,
	platforms.PlatformPolymarket,
	platforms.PlatformMetaculus,
	platforms.PlatformPredictIt,
	platforms.PlatformKalshi,
}

// Config holds the Service construction parameters. Cache and Store are
// optional; a nil cache or zero TTL disables caching, a nil store disables
// persistence.
type Config struct {
	Adapters  []platforms.Adapter
	Matcher   *matching.Matcher
	Detector  *arbitrage.Detector
	Watchlist *watchlist.Watchlist
	Cache     cache.Cache
	CacheTTL  time.Duration
	Store     storage.Store
	Logger    *zap.Logger
}

// Service owns the adapter set and implements every federated operation.
type Service struct {
	adapters  map[string]platforms.Adapter
	order     []string
	matcher   *matching.Matcher
	detector  *arbitrage.Detector
	watchlist *watchlist.Watchlist
	cache     cache.Cache
	cacheTTL  time.Duration
	store     storage.Store
	logger    *zap.Logger
}

// New creates a Service over the given adapters. Adapter iteration follows
// the fixed platform order; adapters for unknown platforms are appended
// after it.
func New(cfg Config) *Service {
	adapters := make(map[string]platforms.Adapter, len(cfg.Adapters))
	for _, adapter := range cfg.Adapters {
		adapters[adapter.Platform()] = adapter
	}

	order := make([]string, 0, len(adapters))
	for _, name := range platformOrder {
		if _, ok := adapters[name]; ok {
			order = append(order, name)
		}
	}
	for _, adapter := range cfg.Adapters {
		known := false
		for _, name := range platformOrder {
			if adapter.Platform() == name {
				known = true
				break
			}
		}
		if !known {
			order = append(order, adapter.Platform())
		}
	}

	return &Service{
		adapters:  adapters,
		order:     order,
		matcher:   cfg.Matcher,
		detector:  cfg.Detector,
		watchlist: cfg.Watchlist,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		store:     cfg.Store,
		logger:    cfg.Logger,
	}
}

// Platforms returns the active platform names in aggregation order.
func (s *Service) Platforms() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Entries returns the current watchlist entries. Exposed for the ops HTTP
// server's watchlist endpoint.
func (s *Service) Entries() []watchlist.Entry {
	return s.watchlist.Entries()
}

// Close closes every adapter and the cache. The store is owned by the
// application and closed there.
func (s *Service) Close() error {
	var errs []error
	for _, name := range s.order {
		if err := s.adapters[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s adapter: %w", name, err))
		}
	}
	if s.cache != nil {
		s.cache.Close()
	}
	return errors.Join(errs...)
}

// outcome is one platform's slot in a fan-out.
type outcome[T any] struct {
	value T
	err   error
}

// fanOut invokes call once per named adapter concurrently and joins the
// results. Panics and untyped errors surface as internal PlatformErrors; a
// cancelled ctx yields the ctx error in every unfinished slot.
func fanOut[T any](
	ctx context.Context,
	adapters map[string]platforms.Adapter,
	names []string,
	call func(context.Context, platforms.Adapter) (T, error),
) map[string]outcome[T] {
	results := make(map[string]outcome[T], len(names))
	slots := make([]outcome[T], len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		adapter := adapters[name]

		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slots[i] = outcome[T]{err: types.NewPlatformError(name, "internal: %v", r)}
				}
			}()

			value, err := call(ctx, adapter)
			if err != nil {
				slots[i] = outcome[T]{err: normalizeError(name, err)}
				return
			}
			slots[i] = outcome[T]{value: value}
		}(i, name)
	}
	wg.Wait()

	for i, name := range names {
		results[name] = slots[i]
	}
	return results
}

// normalizeError guarantees that everything crossing the adapter boundary is
// a typed error. Typed errors pass through; anything else becomes an
// internal PlatformError.
func normalizeError(platform string, err error) error {
	var platformErr *types.PlatformError
	var invalidArg *types.InvalidArgumentError
	var invariant *types.InvariantViolation
	if errors.As(err, &platformErr) || errors.As(err, &invalidArg) || errors.As(err, &invariant) {
		return err
	}
	return types.NewPlatformError(platform, "internal: %v", err)
}

// collectFailures splits fan-out outcomes into ordered successes and
// failures. An InvariantViolation aborts the whole operation.
func collectFailures[T any](order []string, results map[string]outcome[T]) (map[string]T, []PlatformFailure, error) {
	values := make(map[string]T, len(results))
	failures := make([]PlatformFailure, 0)

	for _, name := range order {
		result, ok := results[name]
		if !ok {
			continue
		}
		if result.err != nil {
			var invariant *types.InvariantViolation
			if errors.As(result.err, &invariant) {
				return nil, nil, result.err
			}
			PartialFailuresTotal.WithLabelValues(name).Inc()
			failures = append(failures, PlatformFailure{Platform: name, Error: result.err.Error()})
			continue
		}
		values[name] = result.value
	}
	return values, failures, nil
}

// resolvePlatforms maps a caller-supplied platform filter onto the active
// set. Unknown names are silently dropped; an empty filter selects all.
func (s *Service) resolvePlatforms(filter []string) []string {
	if len(filter) == 0 {
		return s.order
	}

	wanted := make(map[string]struct{}, len(filter))
	for _, name := range filter {
		wanted[strings.ToLower(name)] = struct{}{}
	}

	names := make([]string, 0, len(filter))
	for _, name := range s.order {
		if _, ok := wanted[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// splitFullID validates and splits a "{platform}:{native_id}" federation id.
func (s *Service) splitFullID(fullID string) (platform, nativeID string, err error) {
	idx := strings.Index(fullID, ":")
	if idx <= 0 || idx == len(fullID)-1 {
		return "", "", types.NewInvalidArgument("market id %q is not platform:native_id", fullID)
	}

	platform = fullID[:idx]
	nativeID = fullID[idx+1:]
	if _, ok := s.adapters[platform]; !ok {
		return "", "", types.NewInvalidArgument("unknown platform %q", platform)
	}
	return platform, nativeID, nil
}

// persist appends a capsule record, logging failures instead of propagating
// them. Persistence never affects operation results.
func (s *Service) persist(ctx context.Context, capsule, content string, metadata map[string]string) {
	if s.store == nil {
		return
	}
	if err := s.store.Store(ctx, capsule, content, metadata); err != nil {
		s.logger.Warn("capsule-write-failed",
			zap.String("capsule", capsule),
			zap.Error(err))
	}
}

// Rehydrate restores manual mappings and watchlist entries from the capsule
// store. Called once at startup when a store is configured.
func (s *Service) Rehydrate(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	mappings, err := s.store.Recent(ctx, storage.CapsuleMappings, rehydrateLimit)
	if err != nil {
		return fmt.Errorf("load mappings: %w", err)
	}
	for _, record := range mappings {
		idA, idB := record.Metadata["id_a"], record.Metadata["id_b"]
		if idA != "" && idB != "" {
			s.matcher.AddManualMapping(idA, idB)
		}
	}

	tracked, err := s.store.Recent(ctx, storage.CapsuleTrackedMarkets, rehydrateLimit)
	if err != nil {
		return fmt.Errorf("load tracked markets: %w", err)
	}
	// Recent returns newest first; walk backwards to restore insertion
	// order.
	for i := len(tracked) - 1; i >= 0; i-- {
		fullID := tracked[i].Metadata["market_id"]
		if fullID == "" {
			continue
		}
		if _, _, err := s.splitFullID(fullID); err != nil {
			continue
		}
		s.watchlist.Track(fullID, tracked[i].Metadata["alias"])
	}

	s.logger.Info("federation-rehydrated",
		zap.Int("mappings", len(mappings)),
		zap.Int("tracked", len(tracked)))
	return nil
}

const rehydrateLimit = 1000
