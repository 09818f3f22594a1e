// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package poster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Image proxy errors, mapped to 400, 504 and 502 by the HTTP layer.
var (
	ErrHostNotAllowed  = errors.New("only TMDB image URLs are allowed")
	ErrUpstreamTimeout = errors.New("image upstream timed out")
	ErrUpstream        = errors.New("image upstream failed")
)

// DefaultImageHost is the only host the proxy will contact.
const DefaultImageHost = "image.tmdb.org"

// DefaultContentType is used when the upstream omits Content-Type.
const DefaultContentType = "image/jpeg"

// Proxy relays poster images from the allowed host so browsers avoid
// cross-origin and mixed-content issues.
type Proxy struct {
	fetcher Fetcher
	host    string
}

// NewProxy creates a proxy restricted to host.
func NewProxy(fetcher Fetcher, host string) *Proxy {
	if host == "" {
		host = DefaultImageHost
	}
	return &Proxy{fetcher: fetcher, host: host}
}

// Allowed reports whether rawURL may be proxied: https, the exact allowed
// host, no credentials, no explicit port and an absolute path.
func (p *Proxy) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host == p.host && u.User == nil && u.Opaque == "" &&
		strings.HasPrefix(u.Path, "/")
}

// Fetch retrieves rawURL. The returned Response always has a content type.
func (p *Proxy) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if !p.Allowed(rawURL) {
		metrics.RecordImageProxy("rejected")
		return nil, ErrHostNotAllowed
	}

	resp, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if isTimeout(err) {
			metrics.RecordImageProxy("timeout")
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		logging.Ctx(ctx).Debug().Err(err).Msg("Image proxy fetch failed")
		metrics.RecordImageProxy("upstream_error")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordImageProxy("upstream_error")
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if resp.ContentType == "" {
		resp.ContentType = DefaultContentType
	}
	metrics.RecordImageProxy("ok")
	return resp, nil
}
