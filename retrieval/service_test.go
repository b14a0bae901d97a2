package retrieval

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recommendit/ai/mock"
	"github.com/poiesic/recommendit/core"
	"github.com/poiesic/recommendit/index"
	"github.com/poiesic/recommendit/jdfetch"
)

// stubFetcher returns canned text or a canned error.
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

func testCatalog() []core.CatalogItem {
	return []core.CatalogItem{
		{Name: "Java 8", URL: "https://example.com/java-8", TestType: "K", TextBlob: "Java 8 Knowledge & Skills java programming"},
		{Name: "Teamwork Styles", URL: "https://example.com/teamwork", TestType: "P", TextBlob: "Teamwork Styles Personality & Behavior collaboration"},
		{Name: "Verify Numerical", URL: "https://example.com/numerical", TestType: "C", TextBlob: "Verify Numerical Ability & Aptitude cognitive reasoning"},
	}
}

func newTestService(t *testing.T, fetcher jdfetch.Fetcher) *Service {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	idx, err := index.New(t.TempDir(), embedder)
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background(), testCatalog(), true))

	svc, err := NewService(idx, embedder, fetcher)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx, err := index.New(t.TempDir(), embedder)
	require.NoError(t, err)
	fetcher := jdfetch.NewHTTPFetcher()

	_, err = NewService(nil, embedder, fetcher)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewService(idx, nil, fetcher)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewService(idx, embedder, nil)
	assert.ErrorIs(t, err, ErrFetcherRequired)
}

func ptr(s string) *string { return &s }

func TestNormalizeInput(t *testing.T) {
	ctx := context.Background()

	t.Run("query only", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{})
		text, err := svc.NormalizeInput(ctx, ptr("  java developer  "), nil)
		require.NoError(t, err)
		assert.Equal(t, "java developer", text)
	})

	t.Run("empty query is present not absent", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{})
		text, err := svc.NormalizeInput(ctx, ptr(""), nil)
		require.NoError(t, err)
		assert.Equal(t, "", text)
	})

	t.Run("url only", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{text: "Hiring Java developers"})
		text, err := svc.NormalizeInput(ctx, nil, ptr("https://example.com/jd"))
		require.NoError(t, err)
		assert.Equal(t, "Hiring Java developers", text)
	})

	t.Run("query and url combined", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{text: "Hiring Java developers"})
		text, err := svc.NormalizeInput(ctx, ptr("java developer "), ptr("https://example.com/jd"))
		require.NoError(t, err)
		assert.Equal(t, "java developer\n\nHiring Java developers", text)
	})

	t.Run("empty query with url uses fetched text alone", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{text: "Hiring Java developers"})
		text, err := svc.NormalizeInput(ctx, ptr(""), ptr("https://example.com/jd"))
		require.NoError(t, err)
		assert.Equal(t, "Hiring Java developers", text)
	})

	t.Run("neither input", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{})
		_, err := svc.NormalizeInput(ctx, nil, nil)
		assert.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{err: jdfetch.ErrFetch})
		_, err := svc.NormalizeInput(ctx, ptr("java"), ptr("https://example.com/jd"))
		assert.ErrorIs(t, err, jdfetch.ErrFetch)
	})
}

func TestNormalizeInputRealFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Hiring a Java   developer</p></body></html>"))
	}))
	defer srv.Close()

	svc := newTestService(t, jdfetch.NewHTTPFetcher())
	text, err := svc.NormalizeInput(context.Background(), nil, ptr(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "Hiring a Java developer", text)
}

func TestRetrieveCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("returns scored candidates", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{})
		candidates, err := svc.RetrieveCandidates(ctx, "java programming", 2)
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.GreaterOrEqual(t, candidates[0].RetrievalScore, candidates[1].RetrievalScore)
		for _, c := range candidates {
			assert.NotEmpty(t, c.Item.Name)
		}
	})

	t.Run("topK beyond catalog size", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{})
		candidates, err := svc.RetrieveCandidates(ctx, "anything", 50)
		require.NoError(t, err)
		assert.Len(t, candidates, len(testCatalog()))
	})

	t.Run("exact blob match ranks first", func(t *testing.T) {
		svc := newTestService(t, &stubFetcher{})
		blob := testCatalog()[1].TextBlob
		candidates, err := svc.RetrieveCandidates(ctx, blob, 3)
		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		assert.Equal(t, "Teamwork Styles", candidates[0].Item.Name)
		assert.InDelta(t, 1.0, float64(candidates[0].RetrievalScore), 1e-4)
	})

	t.Run("embedding failure propagates", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		idx, err := index.New(t.TempDir(), embedder)
		require.NoError(t, err)
		require.NoError(t, idx.Build(ctx, testCatalog(), true))

		embedErr := errors.New("embedding service down")
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, embedErr
		}

		svc, err := NewService(idx, embedder, &stubFetcher{})
		require.NoError(t, err)

		_, err = svc.RetrieveCandidates(ctx, "java", 5)
		assert.ErrorIs(t, err, embedErr)
	})
}
