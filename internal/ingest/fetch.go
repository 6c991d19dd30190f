package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/webembed/coverframe/pkg/models"
)

// Fetch limits. The upstream image source is untrusted, so both the request
// duration and the response size are capped.
const (
	DefaultFetchTimeout      = 15 * time.Second
	DefaultMaxThumbnailBytes = 20 << 20 // 20 MiB
)

// Fetcher downloads source thumbnail images over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a Fetcher with the given per-request timeout and
// response size cap. Zero values fall back to the defaults.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxThumbnailBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch issues a single GET to the thumbnail URL and reads the full body
// into memory. A non-2xx response yields a FetchStatusError carrying the
// upstream status. There are no retries.
func (f *Fetcher) Fetch(ctx context.Context, thumbnailURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFetchThumbnail, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFetchThumbnail, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.FetchStatusError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFetchThumbnail, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", models.ErrFetchThumbnail, f.maxBytes)
	}

	return data, nil
}
