package platforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
)

func TestKalshiGetMarketNullAskFallsBackToLastPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/HIGHTEMP-24" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"market": {
			"ticker": "HIGHTEMP-24",
			"title": "Will 2024 be the hottest year on record?",
			"category": "Science",
			"yes_ask": null,
			"last_price": 50,
			"volume": 1000,
			"open_time": "2024-01-15T00:00:00Z",
			"close_time": "2024-12-31T00:00:00Z",
			"status": "active",
			"result": ""
		}}`))
	}))
	defer server.Close()

	adapter := NewKalshiAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	market, err := adapter.GetMarket(context.Background(), "HIGHTEMP-24")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}

	if market.Probability != 0.50 {
		t.Errorf("probability = %f, want 0.50 from last_price cents", market.Probability)
	}
	if market.Category != types.CategoryScience {
		t.Errorf("category = %s, want science", market.Category)
	}
	if market.URL != "https://kalshi.com/markets/HIGHTEMP-24" {
		t.Errorf("url = %s", market.URL)
	}
	if market.Resolved {
		t.Error("open market should not be resolved")
	}
	if len(market.Outcomes) != 2 || market.Outcomes[0].Probability != 0.50 || market.Outcomes[1].Probability != 0.50 {
		t.Errorf("outcomes = %+v, want even binary pair", market.Outcomes)
	}
}

func TestKalshiAskTakesPrecedence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"market": {
			"ticker": "T1", "title": "Q", "yes_ask": 63, "last_price": 50, "status": "open"
		}}`))
	}))
	defer server.Close()

	adapter := NewKalshiAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	market, err := adapter.GetMarket(context.Background(), "T1")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if market.Probability != 0.63 {
		t.Errorf("probability = %f, want 0.63", market.Probability)
	}
}

func TestKalshiFinalizedIsResolved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"market": {
			"ticker": "T2", "title": "Q", "yes_ask": 99, "status": "finalized", "result": "yes"
		}}`))
	}))
	defer server.Close()

	adapter := NewKalshiAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	market, err := adapter.GetMarket(context.Background(), "T2")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if !market.Resolved {
		t.Error("finalized market should be resolved")
	}
	if market.Resolution == nil || *market.Resolution != "yes" {
		t.Errorf("resolution = %v, want yes", market.Resolution)
	}
}

func TestKalshiSearchMarkets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "open" {
			t.Errorf("status = %q, want open", q.Get("status"))
		}
		if q.Get("ticker") != "FED" {
			t.Errorf("ticker = %q, want FED", q.Get("ticker"))
		}
		_, _ = w.Write([]byte(`{"markets": [
			{"ticker": "FED-25DEC", "title": "Fed cuts in December", "category": "Economics", "yes_ask": 40, "status": "open"}
		]}`))
	}))
	defer server.Close()

	adapter := NewKalshiAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	markets, err := adapter.SearchMarkets(context.Background(), "fed")
	if err != nil {
		t.Fatalf("SearchMarkets failed: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("markets = %d, want 1", len(markets))
	}
	if markets[0].Category != types.CategoryEconomics {
		t.Errorf("category = %s, want economics", markets[0].Category)
	}
}

func TestKalshiAPIKeySentAsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-key" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"markets": []}`))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	cfg.APIKey = "secret-key"

	adapter := NewKalshiAdapter(cfg)
	defer adapter.Close()

	_, err := adapter.SearchMarkets(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchMarkets failed: %v", err)
	}
}
