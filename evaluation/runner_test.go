package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recommendit/ai/mock"
	"github.com/poiesic/recommendit/core"
	"github.com/poiesic/recommendit/index"
	"github.com/poiesic/recommendit/recommend"
	"github.com/poiesic/recommendit/rerank"
	"github.com/poiesic/recommendit/retrieval"
)

type noopFetcher struct{}

func (noopFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return "", nil
}

func runnerCatalog() []core.CatalogItem {
	return []core.CatalogItem{
		{Name: "Java 8", URL: "https://example.com/java-8", TestType: "K",
			TextBlob: "Java 8 Knowledge & Skills java programming"},
		{Name: "Teamwork Styles", URL: "https://example.com/teamwork", TestType: "P",
			TextBlob: "Teamwork Styles Personality & Behavior collaboration team"},
		{Name: "Verify Numerical", URL: "https://example.com/numerical", TestType: "C",
			TextBlob: "Verify Numerical Ability & Aptitude cognitive reasoning"},
	}
}

func newTestRunner(t *testing.T, embedder *mock.MockEmbedder) *Runner {
	t.Helper()

	idx, err := index.New(t.TempDir(), embedder)
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background(), runnerCatalog(), true))

	svc, err := retrieval.NewService(idx, embedder, noopFetcher{})
	require.NoError(t, err)

	reranker, err := rerank.New()
	require.NoError(t, err)

	engine, err := recommend.NewEngine(svc, reranker)
	require.NoError(t, err)

	runner, err := NewRunner(engine, WithPoolSize(2))
	require.NoError(t, err)
	return runner
}

func TestNewRunnerRequiresEngine(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, ErrEngineRequired)
}

func TestEvaluate(t *testing.T) {
	runner := newTestRunner(t, mock.NewMockEmbedder())

	labels := &LabelSet{
		Queries: []string{"java programming", "cognitive reasoning"},
		Relevant: map[string]map[string]bool{
			"java programming":    {"https://example.com/java-8": true},
			"cognitive reasoning": {"https://example.com/numerical": true},
		},
	}

	report, err := runner.Evaluate(context.Background(), labels, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, report.K)
	require.Len(t, report.PerQuery, 2)
	assert.Equal(t, "java programming", report.PerQuery[0].Query)
	assert.Equal(t, "cognitive reasoning", report.PerQuery[1].Query)

	// Retrieval pulls the whole 3-item catalog for every query, so each
	// relevant URL is always inside the top 3.
	assert.InDelta(t, 1.0, report.MeanRecall, 1e-9)
	assert.InDelta(t, 1.0/3.0, report.MeanPrecision, 1e-9)
}

func TestEvaluateFailedQueryScoresZero(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "poison") {
			return nil, errors.New("embedding service down")
		}
		return mock.NewMockEmbedder().EmbedText(ctx, text)
	}

	runner := newTestRunner(t, embedder)

	labels := &LabelSet{
		Queries: []string{"poison query", "java programming"},
		Relevant: map[string]map[string]bool{
			"poison query":     {"https://example.com/java-8": true},
			"java programming": {"https://example.com/java-8": true},
		},
	}

	report, err := runner.Evaluate(context.Background(), labels, 3)
	require.NoError(t, err, "one failed query must not abort the batch")

	require.Len(t, report.PerQuery, 2)
	assert.Empty(t, report.PerQuery[0].Predicted)
	assert.Zero(t, report.PerQuery[0].Recall)
	assert.NotEmpty(t, report.PerQuery[1].Predicted)
	assert.InDelta(t, 1.0, report.PerQuery[1].Recall, 1e-9)
}
