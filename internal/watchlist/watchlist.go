package watchlist

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one tracked market. Entries never store the market snapshot;
// reads re-fetch through the owning adapter.
type Entry struct {
	FullID    string    `json:"market_id"`
	Alias     string    `json:"alias,omitempty"`
	TrackedAt time.Time `json:"tracked_at"`
}

// Watchlist is the in-memory tracked-market registry. Iteration follows
// insertion order; re-tracking an id updates the entry in place.
type Watchlist struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
	logger  *zap.Logger
}

// New creates an empty watchlist.
func New(logger *zap.Logger) *Watchlist {
	return &Watchlist{
		entries: make(map[string]*Entry),
		logger:  logger,
	}
}

// Track registers a market by its full id ("{platform}:{native_id}"). The
// caller is responsible for verifying the market exists first.
func (w *Watchlist) Track(fullID string, alias string) Entry {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now().UTC()

	if existing, ok := w.entries[fullID]; ok {
		existing.Alias = alias
		existing.TrackedAt = now

		w.logger.Debug("watchlist-entry-updated",
			zap.String("market-id", fullID),
			zap.String("alias", alias))

		return *existing
	}

	entry := &Entry{
		FullID:    fullID,
		Alias:     alias,
		TrackedAt: now,
	}
	w.entries[fullID] = entry
	w.order = append(w.order, fullID)

	w.logger.Info("watchlist-entry-added",
		zap.String("market-id", fullID),
		zap.String("alias", alias))

	return *entry
}

// Untrack removes a market. Returns false when the id was not tracked.
func (w *Watchlist) Untrack(fullID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entries[fullID]; !ok {
		return false
	}

	delete(w.entries, fullID)
	for i, id := range w.order {
		if id == fullID {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	w.logger.Info("watchlist-entry-removed", zap.String("market-id", fullID))

	return true
}

// Entries returns a snapshot of all entries in insertion order.
func (w *Watchlist) Entries() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entries := make([]Entry, 0, len(w.order))
	for _, id := range w.order {
		entries = append(entries, *w.entries[id])
	}
	return entries
}

// Contains reports whether a market id is tracked.
func (w *Watchlist) Contains(fullID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.entries[fullID]
	return ok
}

// Len returns the number of tracked markets.
func (w *Watchlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.entries)
}
