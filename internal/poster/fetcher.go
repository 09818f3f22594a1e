// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetch errors. HTTPFetcher wraps transport failures with these so callers can
// tell a slow upstream from a broken one.
var (
	ErrFetchTimeout = errors.New("upstream request timed out")
	ErrCircuitOpen  = errors.New("upstream circuit open")
	ErrRateLimited  = errors.New("upstream rate limit wait failed")
	ErrBodyTooLarge = errors.New("upstream response too large")
)

// Response is a fully buffered upstream reply.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher performs a GET and buffers the reply. Non-2xx statuses are returned
// as a Response, not an error; errors are reserved for transport failures.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, rawURL string) (*Response, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	return f(ctx, rawURL)
}

// FetcherConfig tunes an HTTPFetcher.
type FetcherConfig struct {
	// Name labels metrics and the circuit breaker.
	Name string
	// Timeout bounds the whole request including the body read.
	Timeout time.Duration
	// RateLimit is the sustained requests per second; RateBurst the bucket size.
	RateLimit float64
	RateBurst int
	// MaxBodyBytes caps buffered bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// DefaultMaxBodyBytes is large enough for any w500 poster.
const DefaultMaxBodyBytes = 8 << 20

const userAgent = "CineMatch/1.0 (+https://github.com/tomtom215/cinematch)"

// HTTPFetcher is the production Fetcher: net/http behind a rate limiter and a
// circuit breaker.
type HTTPFetcher struct {
	name    string
	client  *http.Client
	timeout time.Duration
	maxBody int64
	limiter *rate.Limiter
	cb      *breaker
}

// NewHTTPFetcher creates a fetcher. A non-positive RateLimit disables limiting.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &HTTPFetcher{
		name: cfg.Name,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          32,
				MaxIdleConnsPerHost:   16,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
		timeout: cfg.Timeout,
		maxBody: maxBody,
		limiter: rate.NewLimiter(limit, burst),
		cb:      newBreaker(cfg.Name),
	}
}

// statusError marks a 5xx reply so the breaker counts it as a failure while
// the caller still receives the response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.code)
}

// Fetch implements Fetcher. ErrCircuitOpen and ErrRateLimited mean the
// request never left the process.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	start := time.Now()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if err := f.limiter.Wait(ctx); err != nil {
		recordFetch(f.name, "rejected", start)
		return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	resp, err := f.cb.execute(func() (*Response, error) {
		return f.do(ctx, rawURL)
	})

	var se *statusError
	switch {
	case err == nil:
		recordFetch(f.name, "success", start)
		return resp, nil
	case errors.As(err, &se):
		recordFetch(f.name, "error", start)
		return resp, nil
	case errors.Is(err, ErrCircuitOpen):
		recordFetch(f.name, "rejected", start)
		return nil, err
	case isTimeout(err):
		recordFetch(f.name, "timeout", start)
		return nil, fmt.Errorf("%w: %w", ErrFetchTimeout, err)
	default:
		recordFetch(f.name, "error", start)
		return nil, err
	}
}

func (f *HTTPFetcher) do(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBody)
	}

	out := &Response{
		StatusCode:  res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        body,
	}
	if res.StatusCode >= http.StatusInternalServerError {
		return out, &statusError{code: res.StatusCode}
	}
	return out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrFetchTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
