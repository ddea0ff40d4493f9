package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/mselser95/predictmarket-mcp/internal/watchlist"
	"go.uber.org/zap"
)

// WatchlistProvider exposes the current tracked-market entries. This endpoint
// reports registry state only; it never re-fetches markets.
type WatchlistProvider interface {
	Entries() []watchlist.Entry
}

// WatchlistHandler serves the tracked-market registry for inspection.
type WatchlistHandler struct {
	watchlist WatchlistProvider
	logger    *zap.Logger
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(wl WatchlistProvider, logger *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		watchlist: wl,
		logger:    logger,
	}
}

type watchlistResponse struct {
	Count   int               `json:"count"`
	Entries []watchlist.Entry `json:"entries"`
}

// HandleWatchlist returns all tracked markets as JSON.
func (h *WatchlistHandler) HandleWatchlist(w http.ResponseWriter, r *http.Request) {
	entries := h.watchlist.Entries()

	resp := watchlistResponse{
		Count:   len(entries),
		Entries: entries,
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		h.logger.Error("watchlist-encode-error", zap.Error(err))
	}
}
