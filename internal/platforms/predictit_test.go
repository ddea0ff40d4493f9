package platforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
)

const predictitDumpFixture = `{"markets": [
	{
		"id": 100,
		"name": "Who will win the 2028 presidential election?",
		"shortName": "2028 President",
		"url": "https://www.predictit.org/markets/detail/100",
		"status": "Open",
		"contracts": [
			{"name": "Candidate A", "shortName": "A", "lastTradePrice": 0.45, "bestBuyYesCost": 0.46, "dateEnd": "2028-11-07T00:00:00Z"},
			{"name": "Candidate B", "shortName": "B", "lastTradePrice": 0.30, "bestBuyYesCost": 0.31}
		]
	},
	{
		"id": 200,
		"name": "Will the Senate flip?",
		"shortName": "Senate flip",
		"status": "Open",
		"contracts": [
			{"name": "Yes", "shortName": "Yes", "lastTradePrice": null, "bestBuyYesCost": 0.62, "dateEnd": "NA"}
		]
	}
]}`

func TestPredictItSearchFiltersBySubstring(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/all/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(predictitDumpFixture))
	}))
	defer server.Close()

	adapter := NewPredictItAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	markets, err := adapter.SearchMarkets(context.Background(), "senate")
	if err != nil {
		t.Fatalf("SearchMarkets failed: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("markets = %d, want 1", len(markets))
	}
	if markets[0].NativeID != "200" {
		t.Errorf("native id = %s, want 200", markets[0].NativeID)
	}
}

func TestPredictItPricePrecedence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(predictitDumpFixture))
	}))
	defer server.Close()

	adapter := NewPredictItAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	markets, err := adapter.SearchMarkets(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchMarkets failed: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("markets = %d, want 2", len(markets))
	}

	// Market 100: first contract has a last trade price.
	if markets[0].Probability != 0.45 {
		t.Errorf("market 100 probability = %f, want 0.45", markets[0].Probability)
	}
	if len(markets[0].Outcomes) != 2 || markets[0].Outcomes[1].Probability != 0.30 {
		t.Errorf("market 100 outcomes = %+v", markets[0].Outcomes)
	}

	// Market 200: null last trade falls back to best buy-yes cost. Its
	// single contract expands to the binary pair.
	if markets[1].Probability != 0.62 {
		t.Errorf("market 200 probability = %f, want 0.62", markets[1].Probability)
	}
	if len(markets[1].Outcomes) != 2 || markets[1].Outcomes[1].Name != "No" {
		t.Errorf("market 200 outcomes = %+v", markets[1].Outcomes)
	}
}

func TestPredictItEverythingIsPolitics(t *testing.T) {
	adapter := NewPredictItAdapter(testConfig(t, "http://unused"))
	defer adapter.Close()

	categories, err := adapter.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 1 || categories[0] != types.CategoryPolitics {
		t.Fatalf("categories = %v, want [politics]", categories)
	}

	markets, err := adapter.BrowseCategory(context.Background(), types.CategorySports, 10)
	if err != nil {
		t.Fatalf("BrowseCategory failed: %v", err)
	}
	if len(markets) != 0 {
		t.Fatalf("sports markets = %d, want 0", len(markets))
	}
}

func TestPredictItBrowsePolitics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(predictitDumpFixture))
	}))
	defer server.Close()

	adapter := NewPredictItAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	markets, err := adapter.BrowseCategory(context.Background(), types.CategoryPolitics, 1)
	if err != nil {
		t.Fatalf("BrowseCategory failed: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("markets = %d, want 1 (limit)", len(markets))
	}
	if markets[0].Category != types.CategoryPolitics {
		t.Errorf("category = %s", markets[0].Category)
	}
}

func TestPredictItRejectsNonNumericID(t *testing.T) {
	adapter := NewPredictItAdapter(testConfig(t, "http://unused"))
	defer adapter.Close()

	_, err := adapter.GetMarket(context.Background(), "abc")
	if err == nil {
		t.Fatal("expected error")
	}
}
