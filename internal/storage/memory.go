package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryStore keeps capsule records in process memory. Used for
// STORAGE_MODE=memory and as the reference implementation in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	capsules map[string][]Record
	logger   *zap.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	logger.Info("memory-store-initialized")
	return &MemoryStore{
		capsules: make(map[string][]Record),
		logger:   logger,
	}
}

// Store appends a record to a capsule.
func (s *MemoryStore) Store(ctx context.Context, capsule, content string, metadata map[string]string) error {
	record := Record{
		ID:        uuid.NewString(),
		Capsule:   capsule,
		Content:   content,
		Metadata:  cloneMetadata(metadata),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.capsules[capsule] = append(s.capsules[capsule], record)
	s.mu.Unlock()

	return nil
}

// SemanticSearch ranks records by token overlap with the query.
func (s *MemoryStore) SemanticSearch(ctx context.Context, capsule, query string, k int) ([]Record, error) {
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return []Record{}, nil
	}

	s.mu.RLock()
	records := s.capsules[capsule]

	type scored struct {
		record Record
		score  int
	}
	candidates := make([]scored, 0, len(records))
	for _, record := range records {
		overlap := 0
		for token := range tokenSet(record.Content) {
			if _, ok := queryTokens[token]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{record: record, score: overlap})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].record.CreatedAt.After(candidates[j].record.CreatedAt)
	})

	out := make([]Record, 0, k)
	for _, c := range candidates {
		out = append(out, c.record)
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

// TextSearch returns records containing the query substring, newest first.
func (s *MemoryStore) TextSearch(ctx context.Context, capsule, query string, k int) ([]Record, error) {
	needle := strings.ToLower(query)

	s.mu.RLock()
	records := s.capsules[capsule]

	matched := make([]Record, 0, k)
	for i := len(records) - 1; i >= 0 && len(matched) < k; i-- {
		if strings.Contains(strings.ToLower(records[i].Content), needle) {
			matched = append(matched, records[i])
		}
	}
	s.mu.RUnlock()

	return matched, nil
}

// Recent returns the newest records first.
func (s *MemoryStore) Recent(ctx context.Context, capsule string, limit int) ([]Record, error) {
	s.mu.RLock()
	records := s.capsules[capsule]

	out := make([]Record, 0, limit)
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, records[i])
	}
	s.mu.RUnlock()

	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	s.logger.Info("closing-memory-store")
	return nil
}

func cloneMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(text)) {
		tokens[token] = struct{}{}
	}
	return tokens
}

// Compile-time interface checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
