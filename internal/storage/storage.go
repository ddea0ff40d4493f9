// Package storage provides the optional capsule store: append-only records
// grouped into named capsules with text, full-text, and recency retrieval.
package storage

import (
	"context"
	"time"
)

// Capsule names. Each groups one kind of federation record.
const (
	CapsuleMarketCache    = "market-cache"
	CapsuleTrackedMarkets = "tracked-markets"
	CapsuleMappings       = "market-mappings"
	CapsuleCategoryIndex  = "category-index"
)

// Record is one stored entry.
type Record struct {
	ID        string
	Capsule   string
	Content   string
	Metadata  map[string]string
	CreatedAt time.Time
}

// Store is the capsule persistence contract. Implementations are safe for
// concurrent use.
type Store interface {
	// Store appends a record to a capsule.
	Store(ctx context.Context, capsule, content string, metadata map[string]string) error

	// SemanticSearch returns up to k records ranked by relevance to the
	// query, best first.
	SemanticSearch(ctx context.Context, capsule, query string, k int) ([]Record, error)

	// TextSearch returns up to k records containing the query as a
	// substring, newest first.
	TextSearch(ctx context.Context, capsule, query string, k int) ([]Record, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, capsule string, limit int) ([]Record, error)

	// Close releases the backing connection.
	Close() error
}
