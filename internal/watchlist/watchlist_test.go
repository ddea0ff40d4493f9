package watchlist

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestWatchlist() *Watchlist {
	logger, _ := zap.NewDevelopment()
	return New(logger)
}

func TestWatchlist_Track(t *testing.T) {
	wl := newTestWatchlist()

	entry := wl.Track("manifold:m1", "election-market")

	if entry.FullID != "manifold:m1" {
		t.Errorf("expected full id manifold:m1, got %s", entry.FullID)
	}

	if entry.Alias != "election-market" {
		t.Errorf("expected alias election-market, got %s", entry.Alias)
	}

	if time.Since(entry.TrackedAt) > time.Second {
		t.Errorf("tracked_at too old: %v", entry.TrackedAt)
	}

	if !wl.Contains("manifold:m1") {
		t.Error("expected watchlist to contain tracked id")
	}

	if wl.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", wl.Len())
	}
}

func TestWatchlist_RetrackKeepsPosition(t *testing.T) {
	wl := newTestWatchlist()

	wl.Track("manifold:m1", "")
	wl.Track("kalshi:T1", "")
	wl.Track("manifold:m1", "renamed")

	entries := wl.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Re-tracking updates the alias but not the position.
	if entries[0].FullID != "manifold:m1" || entries[0].Alias != "renamed" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}

	if entries[1].FullID != "kalshi:T1" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestWatchlist_Untrack(t *testing.T) {
	wl := newTestWatchlist()

	wl.Track("predictit:7890", "")

	if !wl.Untrack("predictit:7890") {
		t.Error("expected untrack to succeed")
	}

	if wl.Contains("predictit:7890") {
		t.Error("expected entry to be removed")
	}

	if wl.Untrack("predictit:7890") {
		t.Error("expected second untrack to return false")
	}
}

func TestWatchlist_EntriesInsertionOrder(t *testing.T) {
	wl := newTestWatchlist()

	ids := []string{"manifold:a", "polymarket:b", "metaculus:c", "kalshi:d"}
	for _, id := range ids {
		wl.Track(id, "")
	}

	wl.Untrack("polymarket:b")

	entries := wl.Entries()
	want := []string{"manifold:a", "metaculus:c", "kalshi:d"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}

	for i, id := range want {
		if entries[i].FullID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, entries[i].FullID)
		}
	}
}

func TestWatchlist_SnapshotIsolation(t *testing.T) {
	wl := newTestWatchlist()
	wl.Track("manifold:m1", "original")

	entries := wl.Entries()
	entries[0].Alias = "mutated"

	// Mutating the snapshot must not touch the registry.
	fresh := wl.Entries()
	if fresh[0].Alias != "original" {
		t.Errorf("snapshot mutation leaked into registry: %s", fresh[0].Alias)
	}
}

func TestWatchlist_ConcurrentAccess(t *testing.T) {
	wl := newTestWatchlist()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			wl.Track(fmt.Sprintf("manifold:m%d", n), "")
		}(i)
		go func() {
			defer wg.Done()
			wl.Entries()
		}()
	}
	wg.Wait()

	if wl.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", wl.Len())
	}
}
