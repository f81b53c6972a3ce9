package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/mcq-bench/internal/results"
)

func newTestServer(t *testing.T) (*Server, *results.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("MCQ_BENCH_DISABLE_AUTH", "true")
	t.Setenv("MCQ_BENCH_API_KEY", "")

	store, err := results.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	s, err := NewServer(store)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s, store
}

func doRequest(s *Server, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status: %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("health body: %v", body)
	}
}

func TestListBenchmarks(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/benchmarks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", w.Code, w.Body.String())
	}

	var body []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) < 4 {
		t.Fatalf("benchmarks: got %d entries", len(body))
	}
	seen := map[string]bool{}
	for _, b := range body {
		seen[b["name"].(string)] = true
	}
	for _, want := range []string{"mmlu", "hellaswag", "winogrande", "sciq"} {
		if !seen[want] {
			t.Fatalf("missing benchmark %q in %v", want, seen)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	runs := []results.Entry{
		{Model: "model-a", Provider: "logits", Benchmark: "mmlu", Score: 0.60, Examples: 100},
		{Model: "model-b", Provider: "logits", Benchmark: "mmlu", Score: 0.75, Examples: 100},
	}
	for i := range runs {
		if err := store.Save(ctx, &runs[i]); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	w := doRequest(s, http.MethodGet, "/api/leaderboard?benchmark=mmlu", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", w.Code, w.Body.String())
	}

	var entries []results.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 || entries[0].Model != "model-b" {
		t.Fatalf("leaderboard: %+v", entries)
	}

	if w := doRequest(s, http.MethodGet, "/api/leaderboard", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing benchmark param: status %d", w.Code)
	}
	if w := doRequest(s, http.MethodGet, "/api/leaderboard?benchmark=mmlu&limit=zero", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: status %d", w.Code)
	}
}

func TestHistory(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	e := results.Entry{Model: "model-a", Provider: "logits", Benchmark: "sciq", Score: 0.9, Examples: 100}
	if err := store.Save(ctx, &e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := doRequest(s, http.MethodGet, "/api/history?model=model-a&benchmark=sciq", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", w.Code, w.Body.String())
	}
	var entries []results.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 0.9 {
		t.Fatalf("history: %+v", entries)
	}

	if w := doRequest(s, http.MethodGet, "/api/history?model=model-a", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing benchmark: status %d", w.Code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("MCQ_BENCH_API_KEY", "sekrit")
	t.Setenv("MCQ_BENCH_DISABLE_AUTH", "")

	store, err := results.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	s, err := NewServer(store)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	if w := doRequest(s, http.MethodGet, "/api/health", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no key: status %d", w.Code)
	}
	if w := doRequest(s, http.MethodGet, "/api/health", map[string]string{"X-API-Key": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status %d", w.Code)
	}
	if w := doRequest(s, http.MethodGet, "/api/health", map[string]string{"X-API-Key": "sekrit"}); w.Code != http.StatusOK {
		t.Fatalf("right key: status %d", w.Code)
	}
}

func TestAuthRequiredByDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("MCQ_BENCH_API_KEY", "")
	t.Setenv("MCQ_BENCH_DISABLE_AUTH", "")

	store, err := results.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := NewServer(store); err == nil {
		t.Fatal("expected error when neither API key nor auth opt-out is set")
	}
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("MCQ_BENCH_API_KEY", "sekrit")
	t.Setenv("MCQ_BENCH_DISABLE_AUTH", "")

	store, err := results.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	s, err := NewServer(store)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	RecordScore("model-a", "mmlu", 0.5)
	if w := doRequest(s, http.MethodGet, "/metrics", nil); w.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", w.Code)
	}
}
