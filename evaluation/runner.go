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

package evaluation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/recommendit/recommend"
)

// QueryResult holds the per-query outcome of an evaluation run.
type QueryResult struct {
	Query     string
	Predicted []string
	Recall    float64
	Precision float64
}

// Report summarizes an evaluation run across all labeled queries.
type Report struct {
	K             int
	MeanRecall    float64
	MeanPrecision float64
	PerQuery      []QueryResult
}

// Runner evaluates the recommendation engine against a labeled query
// set, running queries concurrently on a worker pool.
type Runner struct {
	engine   *recommend.Engine
	poolSize int
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of concurrent query workers.
// Default is 4.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		r.poolSize = size
		return nil
	}
}

// NewRunner creates an evaluation runner.
func NewRunner(engine *recommend.Engine, opts ...Option) (*Runner, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}

	r := &Runner{
		engine:   engine,
		poolSize: 4,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Evaluate generates predictions for every labeled query and computes
// recall and precision at k. One failing query becomes an empty
// prediction list and scores zero; it never aborts the batch. Per-query
// results follow the label file's query order.
func (r *Runner) Evaluate(ctx context.Context, labels *LabelSet, k int) (*Report, error) {
	pool, err := ants.NewPool(r.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	predictions := make([][]string, len(labels.Queries))

	var wg sync.WaitGroup
	for i, query := range labels.Queries {
		i, query := i, query

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			recs, err := r.engine.Recommend(ctx, &query, nil, k)
			if err != nil {
				r.logger.Error("query evaluation failed", "query", query, "err", err)
				predictions[i] = []string{}
				return
			}

			urls := make([]string, 0, len(recs))
			for _, rec := range recs {
				urls = append(urls, rec.AssessmentURL)
			}
			predictions[i] = urls
		})
		if submitErr != nil {
			wg.Done()
			r.logger.Error("failed to submit query", "query", query, "err", submitErr)
			predictions[i] = []string{}
		}
	}
	wg.Wait()

	predictedByQuery := make(map[string][]string, len(labels.Queries))
	perQuery := make([]QueryResult, 0, len(labels.Queries))
	for i, query := range labels.Queries {
		predictedByQuery[query] = predictions[i]
		perQuery = append(perQuery, QueryResult{
			Query:     query,
			Predicted: predictions[i],
			Recall:    RecallAtK(labels.Relevant[query], predictions[i], k),
			Precision: PrecisionAtK(labels.Relevant[query], predictions[i], k),
		})
	}

	report := &Report{
		K:             k,
		MeanRecall:    MeanRecallAtK(labels.Relevant, predictedByQuery, k),
		MeanPrecision: MeanPrecisionAtK(labels.Relevant, predictedByQuery, k),
		PerQuery:      perQuery,
	}

	r.logger.Info("evaluation complete",
		"queries", len(labels.Queries), "k", k,
		"meanRecall", report.MeanRecall, "meanPrecision", report.MeanPrecision)

	return report, nil
}
