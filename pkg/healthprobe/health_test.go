package healthprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

//nolint:gochecknoglobals // Shared test fixture
var testPlatforms = []string{"manifold", "polymarket", "metaculus", "predictit", "kalshi"}

func invoke(t *testing.T, handler http.HandlerFunc) (int, HealthResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", ct)
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, body
}

func TestHealthReportsConfiguredPlatforms(t *testing.T) {
	hc := New(testPlatforms)

	status, body := invoke(t, hc.Health())
	if status != http.StatusOK {
		t.Errorf("health status = %d, want 200", status)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %s, want healthy", body.Status)
	}
	if body.Uptime == "" {
		t.Error("uptime missing")
	}

	// Operators read the adapter set off the liveness payload.
	if len(body.Platforms) != len(testPlatforms) {
		t.Fatalf("platforms = %v, want %v", body.Platforms, testPlatforms)
	}
	for i, platform := range testPlatforms {
		if body.Platforms[i] != platform {
			t.Errorf("platforms[%d] = %s, want %s", i, body.Platforms[i], platform)
		}
	}
}

func TestHealthAlwaysOK(t *testing.T) {
	hc := New(testPlatforms)

	for _, ready := range []bool{false, true, false} {
		hc.SetReady(ready)
		if status, _ := invoke(t, hc.Health()); status != http.StatusOK {
			t.Errorf("health status = %d with ready=%v, want 200", status, ready)
		}
	}
}

func TestReadyFollowsState(t *testing.T) {
	hc := New(testPlatforms)

	// Not ready until the app marks itself so.
	status, body := invoke(t, hc.Ready())
	if status != http.StatusServiceUnavailable {
		t.Errorf("initial ready status = %d, want 503", status)
	}
	if body.Status != "not_ready" || body.Message == "" {
		t.Errorf("body = %+v, want not_ready with message", body)
	}

	hc.SetReady(true)
	status, body = invoke(t, hc.Ready())
	if status != http.StatusOK {
		t.Errorf("ready status = %d, want 200", status)
	}
	if body.Status != "ready" || body.Uptime == "" {
		t.Errorf("body = %+v, want ready with uptime", body)
	}

	// Shutdown unreadies again.
	hc.SetReady(false)
	if status, _ = invoke(t, hc.Ready()); status != http.StatusServiceUnavailable {
		t.Errorf("unreadied status = %d, want 503", status)
	}
}

func TestReadyConcurrentToggle(t *testing.T) {
	hc := New(testPlatforms)
	handler := hc.Ready()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hc.SetReady(i%2 == 0)
		}
	}()

	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler(w, req)
	}
	<-done
}
