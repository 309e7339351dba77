package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	pdferrors "github.com/a3tai/aditamento-extractor/internal/pdf/errors"
)

// Fetcher downloads allow-listed documents from a static file host
type Fetcher struct {
	baseURL     string
	allowed     []string
	maxFileSize int64
	timeout     time.Duration
	client      *http.Client
	logger      *slog.Logger
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithAllowList replaces RemoteFiles as the set of fetchable names
func WithAllowList(names []string) FetcherOption {
	return func(f *Fetcher) {
		f.allowed = slices.Clone(names)
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a fetcher for documents under baseURL
func NewFetcher(baseURL string, maxFileSize int64, opts ...FetcherOption) (*Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https: %s", baseURL)
	}

	f := &Fetcher{
		baseURL:     strings.TrimRight(baseURL, "/"),
		allowed:     slices.Clone(RemoteFiles),
		maxFileSize: maxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}

	return f, nil
}

// BaseURL returns the host prefix documents are fetched from
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// Available returns the allow-listed names in their declared order
func (f *Fetcher) Available() []string {
	return slices.Clone(f.allowed)
}

// IsAllowed reports whether name may be fetched
func (f *Fetcher) IsAllowed(name string) bool {
	return slices.Contains(f.allowed, name)
}

// URL returns the address of a remote document
func (f *Fetcher) URL(name string) string {
	return f.baseURL + "/" + url.PathEscape(name)
}

// Fetch issues GET <base_url>/<name>. Any status other than 200 is a
// FetchError naming the file and status. There are no retries.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if !f.IsAllowed(name) {
		return nil, pdferrors.NewValidationError(name, "document is not in the remote allow-list")
	}

	start := time.Now()
	target := f.URL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pdferrors.NewFetchError(name, 0, fmt.Errorf("build request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("source.fetch.send_error", "file", name, "url", target, "error", err)
		return nil, pdferrors.NewFetchError(name, 0, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			f.logger.Warn("source.fetch.body_close_error", "file", name, "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("source.fetch.status", "file", name, "status", resp.StatusCode)
		return nil, pdferrors.NewFetchError(name, resp.StatusCode, nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxFileSize+1))
	if err != nil {
		return nil, pdferrors.NewFetchError(name, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if int64(len(data)) > f.maxFileSize {
		return nil, pdferrors.NewValidationError(name,
			fmt.Sprintf("file too large: more than %d bytes", f.maxFileSize))
	}

	f.logger.Info("source.fetch.ok",
		"file", name,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return data, nil
}
