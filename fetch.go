package blogtopdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxFetchBodyBytes caps the fetched page size. Article pages beyond
// this are cut off rather than exhausting memory.
const maxFetchBodyBytes = 20 << 20

// Fetcher retrieves the raw markup of a source page. Implementations
// must wrap timeouts in ErrFetchTimeout so the pipeline can surface a
// distinct, non-generic error for slow sources.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (string, error)
}

// httpFetcher is the production Fetcher. A single failure is terminal
// for the request: there is no retry on transient errors.
type httpFetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

// newHTTPFetcher creates a fetcher with a per-request timeout and a
// fixed User-Agent (many publishers reject requests without one).
func newHTTPFetcher(timeout time.Duration, userAgent string) *httpFetcher {
	return &httpFetcher{
		client:    &http.Client{},
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Fetch issues a GET bounded by the fetch timeout and returns the
// response body. Non-2xx/3xx statuses and network failures are
// reported as errors; timeouts wrap ErrFetchTimeout.
func (f *httpFetcher) Fetch(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %s", ErrFetchTimeout, address)
		}
		return "", fmt.Errorf("fetching %s: %w", address, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %d %s", ErrFetchStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %s", ErrFetchTimeout, address)
		}
		return "", fmt.Errorf("reading response body: %w", err)
	}

	return string(body), nil
}

// isTimeout reports whether err is a deadline/timeout class failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ValidateAddress checks that the address is an absolute http(s) URL.
// An empty address is reported as ErrMissingAddress so callers can
// short-circuit before any network activity.
func ValidateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return ErrMissingAddress
	}
	u, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return nil
}
