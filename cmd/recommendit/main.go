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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/recommendit/ai"
	"github.com/poiesic/recommendit/ai/openai"
	"github.com/poiesic/recommendit/catalog"
	"github.com/poiesic/recommendit/crawler"
	"github.com/poiesic/recommendit/evaluation"
	"github.com/poiesic/recommendit/index"
	"github.com/poiesic/recommendit/jdfetch"
	"github.com/poiesic/recommendit/recommend"
	"github.com/poiesic/recommendit/rerank"
	"github.com/poiesic/recommendit/retrieval"
	"github.com/poiesic/recommendit/server"
)

func main() {
	app := &cli.App{
		Name:  "recommendit",
		Usage: "Assessment recommendation engine over a crawled catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "crawl",
				Usage:  "Crawl the assessment catalog into a snapshot CSV",
				Action: crawlCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Catalog listing URL to start from",
						Value: "https://www.shl.com/solutions/products/product-catalog/",
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Path of the snapshot CSV to write",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Page cache directory (omit for no cache)",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "Pause between network fetches",
						Value: 500 * time.Millisecond,
					},
				},
			},
			{
				Name:   "build",
				Usage:  "Build index artifacts from a catalog snapshot",
				Action: buildCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "snapshot",
						Aliases:  []string{"s"},
						Usage:    "Path to the catalog snapshot CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artifacts",
						Aliases:  []string{"a"},
						Usage:    "Directory for the index artifacts",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to embed per batch",
						Value: 64,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Rebuild even if artifacts already exist",
					},
				),
			},
			{
				Name:   "recommend",
				Usage:  "Run one recommendation query, JSON to stdout",
				Action: recommendCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "artifacts",
						Aliases:  []string{"a"},
						Usage:    "Directory with the index artifacts",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Natural language query text",
					},
					&cli.StringFlag{
						Name:  "jd-url",
						Usage: "Job description URL to fetch",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of recommendations to return",
						Value:   10,
					},
					&cli.DurationFlag{
						Name:  "fetch-timeout",
						Usage: "Timeout for fetching the job description",
						Value: 20 * time.Second,
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Run the recommendation HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to YAML config file (optional)",
					},
				},
			},
			{
				Name:   "evaluate",
				Usage:  "Evaluate recall and precision on a labeled query set",
				Action: evaluateCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "labels",
						Usage:    "Path to the labels CSV (query,assessment_url)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artifacts",
						Aliases:  []string{"a"},
						Usage:    "Directory with the index artifacts",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Evaluation cutoff",
						Value:   10,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func crawlCommand(c *cli.Context) error {
	ctx := c.Context

	opts := []crawler.Option{crawler.WithDelay(c.Duration("delay"))}

	if cacheDir := c.String("cache"); cacheDir != "" {
		cache, err := crawler.OpenPageCache(cacheDir, false)
		if err != nil {
			return fmt.Errorf("failed to open page cache: %w", err)
		}
		defer cache.Close()
		opts = append(opts, crawler.WithCache(cache))
	}

	cr, err := crawler.New(opts...)
	if err != nil {
		return err
	}

	items, err := cr.Crawl(ctx, c.String("url"))
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	out := c.String("out")
	if err := catalog.WriteSnapshot(out, items); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	slog.Info("snapshot written", "path", out, "items", len(items))
	return nil
}

func buildCommand(c *cli.Context) error {
	items, err := catalog.ReadSnapshot(c.String("snapshot"))
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	idx, err := index.New(c.String("artifacts"), embedder,
		index.WithBatchSize(c.Int("batch-size")))
	if err != nil {
		return err
	}

	if err := idx.Build(c.Context, items, c.Bool("force")); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	return nil
}

func recommendCommand(c *cli.Context) error {
	engine, err := newEngine(c, c.Duration("fetch-timeout"))
	if err != nil {
		return err
	}

	var query, jdURL *string
	if c.IsSet("query") {
		v := c.String("query")
		query = &v
	}
	if c.IsSet("jd-url") {
		v := c.String("jd-url")
		jdURL = &v
	}

	recs, err := engine.Recommend(c.Context, query, jdURL, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

func serveCommand(c *cli.Context) error {
	cfg, err := server.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.EmbeddingHost),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	idx, err := index.New(cfg.ArtifactDir, embedder)
	if err != nil {
		return err
	}
	if err := idx.Load(); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	svc, err := retrieval.NewService(idx, embedder,
		jdfetch.NewHTTPFetcher(jdfetch.WithTimeout(cfg.FetchTimeout)))
	if err != nil {
		return err
	}

	reranker, err := rerank.New()
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(svc, reranker)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, engine, idx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}

func evaluateCommand(c *cli.Context) error {
	labels, err := evaluation.ReadLabels(c.String("labels"))
	if err != nil {
		return fmt.Errorf("failed to read labels: %w", err)
	}

	engine, err := newEngine(c, 20*time.Second)
	if err != nil {
		return err
	}

	runner, err := evaluation.NewRunner(engine)
	if err != nil {
		return err
	}

	report, err := runner.Evaluate(c.Context, labels, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	for _, q := range report.PerQuery {
		slog.Info("query result", "query", q.Query,
			"recall", fmt.Sprintf("%.4f", q.Recall),
			"precision", fmt.Sprintf("%.4f", q.Precision))
	}

	fmt.Printf("Mean Recall@%d:    %.4f\n", report.K, report.MeanRecall)
	fmt.Printf("Mean Precision@%d: %.4f\n", report.K, report.MeanPrecision)
	return nil
}

// newEngine assembles the full pipeline over existing index artifacts.
func newEngine(c *cli.Context, fetchTimeout time.Duration) (*recommend.Engine, error) {
	embedder, err := newEmbedder(c)
	if err != nil {
		return nil, err
	}

	idx, err := index.New(c.String("artifacts"), embedder)
	if err != nil {
		return nil, err
	}
	if err := idx.Load(); err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	svc, err := retrieval.NewService(idx, embedder,
		jdfetch.NewHTTPFetcher(jdfetch.WithTimeout(fetchTimeout)))
	if err != nil {
		return nil, err
	}

	reranker, err := rerank.New()
	if err != nil {
		return nil, err
	}

	return recommend.NewEngine(svc, reranker)
}

func newEmbedder(c *cli.Context) (ai.Embedder, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
