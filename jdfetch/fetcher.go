package jdfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 20 * time.Second

// Browser-like UA; some job boards reject unidentified clients.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher turns a job-description URL into cleaned plain text.
// Implementations must be thread-safe for concurrent use.
type Fetcher interface {
	// FetchText fetches the URL and returns its visible text content with
	// script/style content removed and whitespace collapsed.
	// Returns an error wrapping ErrFetch if the URL is unreachable or
	// unparsable.
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPFetcher implements Fetcher over net/http.
// A slow or unreachable URL blocks only the request that issued it; the
// client timeout bounds the wait.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the total request timeout.
// Default is 20 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.client.Timeout = timeout
	}
}

// WithClient replaces the underlying HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
	}
}

// NewHTTPFetcher creates a fetcher with a bounded-timeout HTTP client.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchText fetches the URL and extracts its plain-text content.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("job description fetch failed", "url", url, "err", err)
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Error("job description fetch failed", "url", url, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	text := extractText(body)
	f.logger.Debug("fetched job description", "url", url, "chars", len(text))
	return text, nil
}
