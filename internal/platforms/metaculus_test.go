package platforms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mselser95/predictmarket-mcp/pkg/types"
)

func TestMetaculusGetMarket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions/12345/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": 12345,
			"title": "Will AGI arrive before 2030?",
			"description": "Resolution criteria...",
			"page_url": "/questions/12345/agi-before-2030/",
			"categories": ["Artificial-Intelligence", "Computing"],
			"community_prediction": {"full": {"q2": 0.27}},
			"number_of_predictions": 4200,
			"created_time": "2023-05-01T00:00:00Z",
			"close_time": "2029-12-31T00:00:00Z",
			"active_state": "OPEN",
			"resolution": null
		}`))
	}))
	defer server.Close()

	adapter := NewMetaculusAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	market, err := adapter.GetMarket(context.Background(), "12345")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}

	if market.ID() != "metaculus:12345" {
		t.Errorf("id = %s", market.ID())
	}
	if market.Probability != 0.27 {
		t.Errorf("probability = %f, want 0.27", market.Probability)
	}
	if market.Category != types.CategoryAI {
		t.Errorf("category = %s, want ai", market.Category)
	}
	if market.URL != "https://www.metaculus.com/questions/12345/agi-before-2030/" {
		t.Errorf("url = %s", market.URL)
	}
	if market.Resolved {
		t.Error("market should not be resolved")
	}
	if market.Volume == nil || *market.Volume != 4200 {
		t.Errorf("volume = %v, want prediction count 4200", market.Volume)
	}
}

func TestMetaculusNumericResolutionStringified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 99,
			"title": "Resolved question",
			"active_state": "RESOLVED",
			"resolution": 0.85
		}`))
	}))
	defer server.Close()

	adapter := NewMetaculusAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	market, err := adapter.GetMarket(context.Background(), "99")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if !market.Resolved {
		t.Error("market should be resolved")
	}
	if market.Resolution == nil || *market.Resolution != "0.85" {
		t.Errorf("resolution = %v, want 0.85", market.Resolution)
	}
}

func TestMetaculusMissingCommunityPredictionDefaultsEven(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "title": "Fresh question"}`))
	}))
	defer server.Close()

	adapter := NewMetaculusAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	market, err := adapter.GetMarket(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if market.Probability != 0.5 {
		t.Errorf("probability = %f, want 0.5", market.Probability)
	}
}

func TestMetaculusRejectsNonNumericID(t *testing.T) {
	adapter := NewMetaculusAdapter(testConfig(t, "http://unused"))
	defer adapter.Close()

	_, err := adapter.GetMarket(context.Background(), "not-a-number")
	if err == nil {
		t.Fatal("expected error")
	}

	var platformErr *types.PlatformError
	if !errors.As(err, &platformErr) {
		t.Fatalf("error type = %T, want PlatformError", err)
	}
}

func TestMetaculusSearchMarketsUnwrapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("search"); got != "agi" {
			t.Errorf("search = %q, want agi", got)
		}
		_, _ = w.Write([]byte(`{"results": [
			{"id": 1, "title": "One"},
			{"id": 2, "title": "Two"}
		]}`))
	}))
	defer server.Close()

	adapter := NewMetaculusAdapter(testConfig(t, server.URL))
	defer adapter.Close()

	markets, err := adapter.SearchMarkets(context.Background(), "agi")
	if err != nil {
		t.Fatalf("SearchMarkets failed: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("markets = %d, want 2", len(markets))
	}
	if markets[0].NativeID != "1" || markets[1].NativeID != "2" {
		t.Errorf("native ids = %s, %s", markets[0].NativeID, markets[1].NativeID)
	}
}
