package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/recommendit/ai"
	"github.com/poiesic/recommendit/core"
	"github.com/poiesic/recommendit/index"
	"github.com/poiesic/recommendit/jdfetch"
)

// Service normalizes heterogeneous input into one query string, embeds
// it, and retrieves an over-fetched candidate set from the catalog index.
type Service struct {
	index    *index.CatalogIndex
	embedder ai.Embedder
	fetcher  jdfetch.Fetcher
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a retrieval service.
func NewService(
	catalogIndex *index.CatalogIndex,
	embedder ai.Embedder,
	fetcher jdfetch.Fetcher,
	opts ...Option,
) (*Service, error) {
	if catalogIndex == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	s := &Service{
		index:    catalogIndex,
		embedder: embedder,
		fetcher:  fetcher,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NormalizeInput combines the explicit query text and the fetched
// job-description text into the single string that gets embedded.
//
// A nil pointer marks an input as not supplied. A present-but-empty
// query is still a query: it is returned as the empty string and
// embedded as such, never treated as absent. With both inputs, the
// trimmed query comes first, separated from the fetched text by a blank
// line. Only when neither input is supplied is ErrNoInput returned.
func (s *Service) NormalizeInput(ctx context.Context, queryText, jdURL *string) (string, error) {
	hasQuery := queryText != nil
	hasURL := jdURL != nil && *jdURL != ""

	if hasURL {
		s.logger.Info("fetching job description", "url", *jdURL)
		jdText, err := s.fetcher.FetchText(ctx, *jdURL)
		if err != nil {
			return "", err
		}

		if hasQuery && strings.TrimSpace(*queryText) != "" {
			combined := strings.TrimSpace(*queryText) + "\n\n" + jdText
			s.logger.Info("combined query and job description",
				"queryChars", len(*queryText), "jdChars", len(jdText))
			return combined, nil
		}

		s.logger.Info("using fetched job description only", "chars", len(jdText))
		return jdText, nil
	}

	if hasQuery {
		s.logger.Info("using query text", "chars", len(*queryText))
		return strings.TrimSpace(*queryText), nil
	}

	return "", ErrNoInput
}

// RetrieveCandidates embeds the normalized text once and searches the
// index for the topK nearest neighbors, attaching each similarity score
// to its item. An empty index yields an empty list, not an error.
func (s *Service) RetrieveCandidates(ctx context.Context, normalizedText string, topK int) ([]core.Candidate, error) {
	queryVec, err := s.embedder.EmbedText(ctx, normalizedText)
	if err != nil {
		s.logger.Error("error embedding query", "err", err)
		return nil, err
	}

	matches, err := s.index.Search(queryVec, topK)
	if err != nil {
		s.logger.Error("error searching index", "err", err)
		return nil, err
	}

	candidates := make([]core.Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, core.Candidate{
			Item:           m.Item,
			RetrievalScore: m.Score,
		})
	}

	s.logger.Info("retrieved candidates", "count", len(candidates), "topK", topK)
	return candidates, nil
}
