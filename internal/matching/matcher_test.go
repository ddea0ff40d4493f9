package matching

import (
	"math"
	"testing"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
	"go.uber.org/zap"
)

func testMarket(platform, nativeID, title string, probability float64) *types.Market {
	return &types.Market{
		Platform:    platform,
		NativeID:    nativeID,
		Title:       title,
		Category:    types.CategoryOther,
		Probability: probability,
	}
}

func TestTextSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			// {trump, win, 2024} vs {trump, wins, 2024}: 2 shared of 4.
			name: "partial overlap",
			a:    "Will Trump win 2024?",
			b:    "Trump wins 2024",
			want: 0.5,
		},
		{
			name: "identical titles",
			a:    "Bitcoin above 100k before July",
			b:    "Bitcoin above 100k before July",
			want: 1.0,
		},
		{
			name: "no overlap",
			a:    "Bitcoin price",
			b:    "Senate election",
			want: 0.0,
		},
		{
			name: "stopword only left side",
			a:    "will the be",
			b:    "Bitcoin price",
			want: 0.0,
		},
		{
			name: "punctuation ignored",
			a:    "BTC 100k?",
			b:    "btc 100k",
			want: 1.0,
		},
		{
			name: "empty strings",
			a:    "",
			b:    "",
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TextSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("similarity = %f, want %f", got, tt.want)
			}

			reversed := TextSimilarity(tt.b, tt.a)
			if got != reversed {
				t.Fatalf("similarity not symmetric: %f vs %f", got, reversed)
			}
			if got < 0 || got > 1 {
				t.Fatalf("similarity %f outside [0,1]", got)
			}
		})
	}
}

func TestManualMappingSymmetric(t *testing.T) {
	m := New(zap.NewNop())
	m.AddManualMapping("manifold:a", "polymarket:b")

	marketA := testMarket("manifold", "a", "completely different title", 0.4)
	marketB := testMarket("polymarket", "b", "nothing in common", 0.6)

	forward := m.FindMatches(marketA, []*types.Market{marketB}, 0.5)
	if len(forward) != 1 || forward[0].Confidence != 1.0 || forward[0].Type != MatchTypeManual {
		t.Fatalf("forward matches = %+v, want one manual match at 1.0", forward)
	}

	backward := m.FindMatches(marketB, []*types.Market{marketA}, 0.5)
	if len(backward) != 1 || backward[0].Confidence != 1.0 || backward[0].Type != MatchTypeManual {
		t.Fatalf("backward matches = %+v, want one manual match at 1.0", backward)
	}
}

func TestManualMappingNotTransitive(t *testing.T) {
	m := New(zap.NewNop())
	m.AddManualMapping("manifold:a", "polymarket:b")
	m.AddManualMapping("polymarket:b", "kalshi:c")

	if m.HasMapping("manifold:a", "kalshi:c") {
		t.Fatal("mapping should not be transitive")
	}
	if !m.HasMapping("manifold:a", "polymarket:b") || !m.HasMapping("kalshi:c", "polymarket:b") {
		t.Fatal("direct mappings missing")
	}
}

func TestFindMatchesExcludesSelf(t *testing.T) {
	m := New(zap.NewNop())

	market := testMarket("manifold", "a", "Bitcoin above 100k", 0.4)
	same := testMarket("manifold", "a", "Bitcoin above 100k", 0.4)

	matches := m.FindMatches(market, []*types.Market{same}, 0.1)
	if len(matches) != 0 {
		t.Fatalf("matches = %+v, want self-match excluded", matches)
	}
}

func TestFindMatchesThresholdAndOrder(t *testing.T) {
	m := New(zap.NewNop())
	m.AddManualMapping("manifold:a", "kalshi:mapped")

	target := testMarket("manifold", "a", "Will Trump win 2024?", 0.4)
	candidates := []*types.Market{
		testMarket("polymarket", "close", "Trump win 2024", 0.5),       // 1.0 text score (same token set)
		testMarket("metaculus", "partial", "Trump wins 2024", 0.5),     // 0.5 text score
		testMarket("predictit", "unrelated", "Senate majority", 0.5),   // below threshold
		testMarket("kalshi", "mapped", "entirely different text", 0.5), // manual
	}

	matches := m.FindMatches(target, candidates, 0.5)
	if len(matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(matches))
	}

	// The "close" candidate listed first also scores 1.0; the manual mapping
	// must still outrank it.
	if matches[0].Type != MatchTypeManual || matches[0].Market.NativeID != "mapped" {
		t.Errorf("first match = %+v, want the manual mapping", matches[0])
	}
	if matches[1].Type != MatchTypeText || matches[1].Market.NativeID != "close" {
		t.Errorf("second match = %+v, want the full-confidence text match", matches[1])
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Confidence < matches[i].Confidence {
			t.Fatalf("matches not sorted descending: %f then %f",
				matches[i-1].Confidence, matches[i].Confidence)
		}
	}
	for _, match := range matches {
		if match.Market.NativeID == "unrelated" {
			t.Error("below-threshold candidate should be excluded")
		}
	}
}

func TestMappingsSnapshot(t *testing.T) {
	m := New(zap.NewNop())
	m.AddManualMapping("manifold:a", "polymarket:b")
	m.AddManualMapping("manifold:a", "kalshi:c")

	snapshot := m.Mappings()
	if len(snapshot["manifold:a"]) != 2 {
		t.Fatalf("snapshot = %v, want two ids for manifold:a", snapshot)
	}
	if snapshot["manifold:a"][0] != "kalshi:c" || snapshot["manifold:a"][1] != "polymarket:b" {
		t.Fatalf("snapshot ids not sorted: %v", snapshot["manifold:a"])
	}

	// Mutating the snapshot must not affect the matcher.
	snapshot["manifold:a"] = nil
	if !m.HasMapping("manifold:a", "polymarket:b") {
		t.Fatal("snapshot mutation leaked into matcher")
	}
}
