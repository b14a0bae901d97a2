package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recommendit/ai/mock"
	"github.com/poiesic/recommendit/core"
	"github.com/poiesic/recommendit/index"
	"github.com/poiesic/recommendit/jdfetch"
	"github.com/poiesic/recommendit/recommend"
	"github.com/poiesic/recommendit/rerank"
	"github.com/poiesic/recommendit/retrieval"
)

type stubFetcher struct {
	text string
	err  error
}

func (f *stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func serverCatalog() []core.CatalogItem {
	return []core.CatalogItem{
		{Name: "Java 8", URL: "https://example.com/java-8", TestType: "K",
			TextBlob: "Java 8 Knowledge & Skills java programming"},
		{Name: "Teamwork Styles", URL: "https://example.com/teamwork", TestType: "P",
			TextBlob: "Teamwork Styles Personality & Behavior collaboration team"},
	}
}

func newTestServer(t *testing.T, fetcher *stubFetcher) *Server {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	idx, err := index.New(t.TempDir(), embedder)
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background(), serverCatalog(), true))

	svc, err := retrieval.NewService(idx, embedder, fetcher)
	require.NoError(t, err)

	reranker, err := rerank.New()
	require.NoError(t, err)

	engine, err := recommend.NewEngine(svc, reranker)
	require.NoError(t, err)

	cfg := DefaultConfig()
	srv, err := New(&cfg, engine, idx)
	require.NoError(t, err)
	return srv
}

func postRecommend(t *testing.T, srv *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/recommend", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, len(serverCatalog()), resp.Indexed)
}

func TestRecommendEndpoint(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		srv := newTestServer(t, &stubFetcher{})
		rec := postRecommend(t, srv, map[string]any{"query": "java developer", "top_k": 2})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recommendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, len(resp.Results), resp.Count)
		assert.NotEmpty(t, resp.Results)
		assert.LessOrEqual(t, resp.Count, 2)
	})

	t.Run("explicit empty query is served", func(t *testing.T) {
		srv := newTestServer(t, &stubFetcher{})
		rec := postRecommend(t, srv, map[string]any{"query": ""})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp recommendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Results)
	})

	t.Run("no input is a bad request", func(t *testing.T) {
		srv := newTestServer(t, &stubFetcher{})
		rec := postRecommend(t, srv, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("top_k above limit is rejected", func(t *testing.T) {
		srv := newTestServer(t, &stubFetcher{})
		rec := postRecommend(t, srv, map[string]any{"query": "java", "top_k": 51})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fetch failure maps to bad gateway", func(t *testing.T) {
		srv := newTestServer(t, &stubFetcher{err: jdfetch.ErrFetch})
		rec := postRecommend(t, srv, map[string]any{"jd_url": "https://example.com/jd"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newTestServer(t, &stubFetcher{})
		req := httptest.NewRequest(http.MethodPost, "/recommend", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Listen)
		assert.Equal(t, "artifacts", cfg.ArtifactDir)
		assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\nembedding_model: custom\n"), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Listen)
		assert.Equal(t, "custom", cfg.EmbeddingModel)
		assert.Equal(t, "artifacts", cfg.ArtifactDir, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("RECOMMENDIT_LISTEN", ":7070")
		t.Setenv("RECOMMENDIT_ARTIFACT_DIR", "/data/artifacts")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Listen)
		assert.Equal(t, "/data/artifacts", cfg.ArtifactDir)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
