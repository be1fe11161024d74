package fetcher

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"webwatch/internal/common"
)

// ErrNotModified is returned when the server answers a conditional request
// with 304 Not Modified.
var ErrNotModified = common.NewError("content not modified")

// Config holds fetcher settings.
type Config struct {
	UserAgent      string
	MaxContentSize int
}

// Fetcher retrieves target content over HTTP with conditional-request
// support. Construct once and reuse across targets.
type Fetcher struct {
	httpClient *http.Client
	logger     zerolog.Logger
	cfg        Config
}

// NewFetcher creates a new Fetcher.
func NewFetcher(client *http.Client, logger zerolog.Logger, cfg Config) *Fetcher {
	return &Fetcher{
		httpClient: client,
		logger:     logger.With().Str("component", "Fetcher").Logger(),
		cfg:        cfg,
	}
}

// FetchInput holds parameters for Fetch.
type FetchInput struct {
	URL                  string
	PreviousETag         string
	PreviousLastModified string
}

// FetchResult holds the outcome of a successful fetch.
type FetchResult struct {
	Content      []byte
	ETag         string
	LastModified string
	StatusCode   int
}

// Fetch retrieves the content of a URL, replaying stored cache validators
// as conditional headers. It returns ErrNotModified on a 304 response, an
// HTTPError on other non-success statuses and a NetworkError on transport
// failures.
func (f *Fetcher) Fetch(ctx context.Context, input FetchInput) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		return nil, common.WrapError(err, "creating request for "+input.URL)
	}

	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	if input.PreviousETag != "" {
		req.Header.Set("If-None-Match", input.PreviousETag)
	}
	if input.PreviousLastModified != "" {
		req.Header.Set("If-Modified-Since", input.PreviousLastModified)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error().Err(err).Str("url", input.URL).Msg("HTTP request failed")
		return nil, common.NewNetworkError(input.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		StatusCode:   resp.StatusCode,
	}

	if resp.StatusCode == http.StatusNotModified {
		f.logger.Debug().Str("url", input.URL).Msg("Content not modified (304)")
		return result, ErrNotModified
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		f.logger.Warn().Str("url", input.URL).Int("status_code", resp.StatusCode).Msg("Received non-success HTTP status")
		return nil, common.NewHTTPError(input.URL, resp.StatusCode, string(bodyBytes))
	}

	if resp.ContentLength > 0 && resp.ContentLength > int64(f.cfg.MaxContentSize) {
		return nil, common.NewError("content too large: %d bytes (max: %d bytes)", resp.ContentLength, f.cfg.MaxContentSize)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.cfg.MaxContentSize)+1))
	if err != nil {
		return nil, common.NewNetworkError(input.URL, "failed to read response body", err)
	}
	if len(bodyBytes) > f.cfg.MaxContentSize {
		return nil, common.NewError("content too large: exceeds %d bytes", f.cfg.MaxContentSize)
	}

	result.Content = bodyBytes

	f.logger.Debug().Str("url", input.URL).Int("size", len(result.Content)).Msg("Content fetched")
	return result, nil
}
