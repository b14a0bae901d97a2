// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package recommend

import (
	"context"
	"log/slog"

	"github.com/poiesic/recommendit/core"
	"github.com/poiesic/recommendit/rerank"
	"github.com/poiesic/recommendit/retrieval"
)

// defaultOverfetch is how many candidates retrieval pulls before
// reranking. Filtering and domain balancing need headroom beyond the
// final topK.
const defaultOverfetch = 50

// Engine runs the full pipeline: normalize input, retrieve candidates,
// rerank, shape the output.
type Engine struct {
	service   *retrieval.Service
	reranker  *rerank.Reranker
	overfetch int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithOverfetch sets the retrieval candidate pool size.
// Default is 50.
func WithOverfetch(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			n = 1
		}
		e.overfetch = n
		return nil
	}
}

// NewEngine creates a recommendation engine.
func NewEngine(service *retrieval.Service, reranker *rerank.Reranker, opts ...Option) (*Engine, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	if reranker == nil {
		return nil, ErrRerankerRequired
	}

	e := &Engine{
		service:   service,
		reranker:  reranker,
		overfetch: defaultOverfetch,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Recommend runs the pipeline for one request. A nil query or jdURL
// marks that input as not supplied; a pointer to the empty string is a
// valid, empty query. retrieval.ErrNoInput is returned only when both
// are nil. The result holds at most topK recommendations, possibly
// fewer after filtering, never an error for an empty result.
func (e *Engine) Recommend(ctx context.Context, query, jdURL *string, topK int) ([]core.Recommendation, error) {
	e.logger.Info("recommendation request",
		"hasQuery", query != nil, "hasURL", jdURL != nil, "topK", topK)

	text, err := e.service.NormalizeInput(ctx, query, jdURL)
	if err != nil {
		return nil, err
	}

	fetchK := e.overfetch
	if topK*2 > fetchK {
		fetchK = topK * 2
	}

	candidates, err := e.service.RetrieveCandidates(ctx, text, fetchK)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		e.logger.Warn("no candidates retrieved")
		return []core.Recommendation{}, nil
	}

	ranked := e.reranker.Rerank(text, candidates, topK)

	recs := make([]core.Recommendation, 0, len(ranked))
	for _, c := range ranked {
		recs = append(recs, core.Recommendation{
			AssessmentName:  c.Item.Name,
			AssessmentURL:   c.Item.URL,
			TestType:        c.Item.TestType,
			DurationMinutes: c.Item.DurationMinutes,
			Category:        c.Item.Category,
			Synthetic:       c.Item.URL == "",
		})
	}

	e.logger.Info("returning recommendations", "count", len(recs))
	return recs, nil
}
