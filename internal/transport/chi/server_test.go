package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain"
	"github.com/reelfind/reelfind/internal/domain/catalog"
	"github.com/reelfind/reelfind/internal/domain/search/filter"
	"github.com/reelfind/reelfind/internal/metrics"
	healthuc "github.com/reelfind/reelfind/internal/usecase/health"
	searchuc "github.com/reelfind/reelfind/internal/usecase/search"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector, TotalTokens: 3}, nil
}

type mockExtractor struct {
	set filter.Set
}

func (m *mockExtractor) Extract(context.Context, string) filter.Set { return m.set }

type mockHealthChecker struct{ err error }

func (m *mockHealthChecker) HealthCheck(context.Context) error { return m.err }

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	rows := []catalog.Row{
		catalog.NewRow(catalog.Raw{Title: "Dil Se", Genres: "Romantic, Drama", Country: "India",
			ReleaseYear: "2015", Director: "Mani Ratnam", Cast: "Shah Rukh Khan"}),
		catalog.NewRow(catalog.Raw{Title: "Space Saga", Genres: "Sci-Fi", Country: "United States",
			ReleaseYear: "2019"}),
	}
	store, err := catalog.NewStore(rows, [][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return store
}

func newTestServer(t *testing.T, emb *mockEmbedder, ext *mockExtractor) *httptest.Server {
	t.Helper()
	store := testStore(t)
	searchSvc := searchuc.New(store, emb, ext, zap.NewNop())
	healthSvc := healthuc.New(&mockHealthChecker{}, nil)

	r := chirouter.NewRouter()
	NewServer(searchSvc, healthSvc, store, zap.NewNop()).Register(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

// --- Tests ---

func TestSearch_ReturnsMatches(t *testing.T) {
	server := newTestServer(t,
		&mockEmbedder{vector: []float32{1, 0}},
		&mockExtractor{set: filter.New(nil, "", "india", "")},
	)

	resp, err := http.Post(server.URL+"/v1/search", "application/json",
		strings.NewReader(`{"query": "romantic indian movies"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].Title != "Dil Se" {
		t.Errorf("unexpected results: %+v", body.Results)
	}
	if body.Filters.Country != "india" {
		t.Errorf("filters not echoed: %+v", body.Filters)
	}
	if !strings.Contains(body.Response, "**Dil Se**") {
		t.Errorf("rendered text missing the title:\n%s", body.Response)
	}
}

func TestSearch_NoResultsSentinel(t *testing.T) {
	server := newTestServer(t,
		&mockEmbedder{vector: []float32{1, 0}},
		&mockExtractor{set: filter.New([]string{"horror"}, "", "", "")},
	)

	resp, err := http.Post(server.URL+"/v1/search", "application/json",
		strings.NewReader(`{"query": "horror movies"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Response != "No results found." {
		t.Errorf("expected the no-results sentinel, got %q", body.Response)
	}
	if len(body.Results) != 0 {
		t.Errorf("expected empty results, got %+v", body.Results)
	}
}

func TestSearch_InvalidBody(t *testing.T) {
	server := newTestServer(t, &mockEmbedder{vector: []float32{1, 0}}, &mockExtractor{})

	resp, err := http.Post(server.URL+"/v1/search", "application/json",
		strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != ErrorCodeBadRequest {
		t.Errorf("expected %q, got %q", ErrorCodeBadRequest, body.Code)
	}
}

func TestSearch_EmbeddingProviderError(t *testing.T) {
	server := newTestServer(t,
		&mockEmbedder{err: domain.ErrEmbeddingProviderError},
		&mockExtractor{},
	)

	resp, err := http.Post(server.URL+"/v1/search", "application/json",
		strings.NewReader(`{"query": "anything"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != ErrorCodeEmbeddingProviderError {
		t.Errorf("expected %q, got %q", ErrorCodeEmbeddingProviderError, body.Code)
	}
}

func TestCatalogStats(t *testing.T) {
	server := newTestServer(t, &mockEmbedder{vector: []float32{1, 0}}, &mockExtractor{})

	resp, err := http.Get(server.URL + "/v1/catalog/stats")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Rows != 2 || body.Dimensions != 2 {
		t.Errorf("unexpected stats: %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, &mockEmbedder{vector: []float32{1, 0}}, &mockExtractor{})

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" || body.Checks["embedding"] != "ok" {
		t.Errorf("unexpected health report: %+v", body)
	}
}
