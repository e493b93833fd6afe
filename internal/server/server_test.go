package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HerbHall/roster/internal/metrics"
	"github.com/HerbHall/roster/internal/testutil"
)

type staticRoutes struct{}

func (staticRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	})
}

func TestHealth_OK(t *testing.T) {
	srv := New(":0", testutil.Logger(), Options{Records: func() int { return 731 }})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if v := w.Header().Get("X-Roster-Version"); v != "dev" {
		t.Errorf("X-Roster-Version = %q, want %q", v, "dev")
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["records"] != float64(731) {
		t.Errorf("records = %v, want 731", body["records"])
	}
}

func TestHealth_Unavailable(t *testing.T) {
	srv := New(":0", testutil.Logger(), Options{Ready: func() error { return errors.New("load failed") }})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "unavailable" {
		t.Errorf("status = %v, want unavailable", body["status"])
	}
}

func TestRegistrarsMounted(t *testing.T) {
	srv := New(":0", testutil.Logger(), Options{}, staticRoutes{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/ping", nil))
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("GET /api/v1/ping = %d %q", w.Code, w.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	srv := New(":0", testutil.Logger(), Options{Metrics: m}, staticRoutes{})
	h := srv.Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/ping", nil))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `roster_http_requests_total{code="200",route="GET /api/v1/ping"} 1`) {
		t.Error("metrics output missing ping request counter")
	}
}

func TestMetricsRoute_AbsentWithoutMetrics(t *testing.T) {
	srv := New(":0", testutil.Logger(), Options{})
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /metrics status = %d, want 404", w.Code)
	}
}
