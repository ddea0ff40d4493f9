// Package matching decides whether markets on different platforms describe
// the same underlying question, combining operator-curated manual mappings
// with title-token similarity.
package matching

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

// Match type tags.
const (
	MatchTypeManual = "manual"
	MatchTypeText   = "text"
)

// stopwords are dropped before computing title similarity; they carry no
// signal in prediction-market phrasing ("Will X happen by Y?").
//
//nolint:gochecknoglobals // Static token set
var stopwords = map[string]struct{}{
	"will": {}, "the": {}, "a": {}, "an": {}, "by": {},
	"in": {}, "on": {}, "to": {}, "be": {}, "is": {}, "of": {},
}

// Match pairs a candidate market with the confidence that it describes the
// same question as the target.
type Match struct {
	Market     *types.Market
	Confidence float64
	Type       string // manual or text
}

// Matcher holds the manual-mapping relation and scores candidate markets
// against a target. Safe for concurrent use.
type Matcher struct {
	mu       sync.RWMutex
	mappings map[string]map[string]struct{}
	logger   *zap.Logger
}

// New creates an empty Matcher.
func New(logger *zap.Logger) *Matcher {
	return &Matcher{
		mappings: make(map[string]map[string]struct{}),
		logger:   logger,
	}
}

// AddManualMapping records that two federation ids describe the same
// question. The relation is symmetric and never expires; it is not
// transitive.
func (m *Matcher) AddManualMapping(idA, idB string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insert(idA, idB)
	m.insert(idB, idA)

	m.logger.Info("manual-mapping-added",
		zap.String("id_a", idA),
		zap.String("id_b", idB))
}

func (m *Matcher) insert(from, to string) {
	set, ok := m.mappings[from]
	if !ok {
		set = make(map[string]struct{})
		m.mappings[from] = set
	}
	set[to] = struct{}{}
}

// HasMapping reports whether the two ids are manually mapped.
func (m *Matcher) HasMapping(idA, idB string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.mappings[idA][idB]
	return ok
}

// Mappings returns a snapshot of the relation for persistence and
// diagnostics.
func (m *Matcher) Mappings() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]string, len(m.mappings))
	for id, set := range m.mappings {
		ids := make([]string, 0, len(set))
		for other := range set {
			ids = append(ids, other)
		}
		sort.Strings(ids)
		out[id] = ids
	}
	return out
}

// FindMatches scores every candidate against the target and returns matches
// sorted by confidence descending, with manual matches ahead of text matches
// at equal confidence. A manual mapping scores 1.0 and bypasses the
// threshold; otherwise the title similarity must reach minConfidence.
// Self-matches (same federation id) are excluded.
func (m *Matcher) FindMatches(target *types.Market, candidates []*types.Market, minConfidence float64) []Match {
	targetID := target.ID()

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID() == targetID {
			continue
		}

		if m.HasMapping(targetID, candidate.ID()) {
			matches = append(matches, Match{
				Market:     candidate,
				Confidence: 1.0,
				Type:       MatchTypeManual,
			})
			continue
		}

		score := TextSimilarity(target.Title, candidate.Title)
		if score >= minConfidence {
			matches = append(matches, Match{
				Market:     candidate,
				Confidence: score,
				Type:       MatchTypeText,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		// An operator-curated mapping outranks a title that merely
		// tokenizes the same.
		return matches[i].Type == MatchTypeManual && matches[j].Type == MatchTypeText
	})
	return matches
}

// TextSimilarity returns the Jaccard similarity of two title token sets in
// [0,1]. Titles are lowercased, non-word runes stripped, split on
// whitespace, and stopwords removed; if either side is empty after
// normalization the score is 0.
func TextSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			intersection++
		}
	}

	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}

func tokenize(title string) map[string]struct{} {
	// Strip punctuation outright so "100k?" and "100k" tokenize alike.
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			b.WriteRune(r)
		}
	}

	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(b.String()) {
		if _, skip := stopwords[token]; skip {
			continue
		}
		tokens[token] = struct{}{}
	}
	return tokens
}
