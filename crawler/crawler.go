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

package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/recommendit/core"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Crawler walks a product catalog site: listing pages first, then every
// product detail page, producing catalog items ready for a snapshot.
type Crawler struct {
	client      *http.Client
	cache       *PageCache
	logger      *slog.Logger
	delay       time.Duration
	maxAttempts int
	baseDelay   time.Duration
	userAgent   string
}

// Option configures a Crawler.
type Option func(*Crawler) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) Option {
	return func(c *Crawler) error {
		if client != nil {
			c.client = client
		}
		return nil
	}
}

// WithCache sets the page cache. Without one, every page is fetched
// over the network on every crawl.
func WithCache(cache *PageCache) Option {
	return func(c *Crawler) error {
		c.cache = cache
		return nil
	}
}

// WithDelay sets the pause between network fetches. Cache hits do not
// pause. Default is 500ms.
func WithDelay(delay time.Duration) Option {
	return func(c *Crawler) error {
		if delay < 0 {
			delay = 0
		}
		c.delay = delay
		return nil
	}
}

// WithRetry sets the per-page retry policy.
// Default is 3 attempts starting at 2s.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Crawler) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
		return nil
	}
}

// New creates a Crawler.
func New(opts ...Option) (*Crawler, error) {
	c := &Crawler{
		client:      &http.Client{Timeout: 20 * time.Second},
		logger:      slog.Default(),
		delay:       500 * time.Millisecond,
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
		userAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Crawl fetches the listing at catalogURL, follows its pagination, then
// visits every product page found. Items are deduplicated by content ID
// in first-seen order. A detail page that fails all retries is logged
// and skipped so one broken page cannot sink a long crawl.
func (c *Crawler) Crawl(ctx context.Context, catalogURL string) ([]core.CatalogItem, error) {
	c.logger.Info("starting catalog crawl", "url", catalogURL)

	body, _, err := c.fetchPage(ctx, catalogURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListingFetch, catalogURL, err)
	}

	pages, err := parsePaginationLinks(catalogURL, body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("listing pages found", "count", len(pages))

	seenURL := make(map[string]bool)
	var productURLs []string
	for i, page := range pages {
		pageBody := body
		if i > 0 {
			pageBody, _, err = c.fetchPage(ctx, page)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrListingFetch, page, err)
			}
		}

		links, err := parseProductLinks(page, pageBody)
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			if !seenURL[link] {
				seenURL[link] = true
				productURLs = append(productURLs, link)
			}
		}
	}
	c.logger.Info("unique products found", "count", len(productURLs))

	seenID := make(map[core.ID]bool)
	items := make([]core.CatalogItem, 0, len(productURLs))
	for i, productURL := range productURLs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.logger.Info("parsing product", "n", i+1, "total", len(productURLs), "url", productURL)

		detailBody, cached, err := c.fetchPage(ctx, productURL)
		if err != nil {
			c.logger.Error("skipping product page", "url", productURL, "err", err)
			continue
		}

		item, err := parseProductDetail(productURL, detailBody)
		if err != nil {
			c.logger.Error("skipping unparseable product page", "url", productURL, "err", err)
			continue
		}

		if id := item.ID(); !seenID[id] {
			seenID[id] = true
			items = append(items, item)
		}

		if !cached && c.delay > 0 && i < len(productURLs)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}

	c.logger.Info("crawl complete", "items", len(items))
	return items, nil
}

// fetchPage returns the page body, consulting the cache first. Network
// fetches go through the retry policy and land in the cache on success.
func (c *Crawler) fetchPage(ctx context.Context, pageURL string) (body []byte, cached bool, err error) {
	if c.cache != nil {
		page, found, err := c.cache.Get(pageURL)
		if err != nil {
			return nil, false, err
		}
		if found {
			c.logger.Debug("page cache hit", "url", pageURL, "fetchedAt", page.FetchedAt)
			return page.Body, true, nil
		}
	}

	err = RetryWithBackoff(ctx, func() error {
		body, err = c.get(ctx, pageURL)
		return err
	}, c.maxAttempts, c.baseDelay)
	if err != nil {
		return nil, false, err
	}

	if c.cache != nil {
		if err := c.cache.Put(pageURL, body); err != nil {
			c.logger.Warn("failed to cache page", "url", pageURL, "err", err)
		}
	}
	return body, false, nil
}

func (c *Crawler) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	return io.ReadAll(resp.Body)
}
