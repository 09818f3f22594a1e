// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/poster"
	"github.com/tomtom215/cinematch/internal/validation"
)

// imageCacheControl lets browsers and CDNs keep proxied posters for a day.
const imageCacheControl = "public, max-age=86400"

// ImageProxy relays a TMDB poster image.
//
// @Summary Proxy a TMDB image
// @Description Fetches an image from https://image.tmdb.org and returns its bytes with the upstream content type.
// @Tags Movies
// @Produce image/jpeg
// @Param url query string true "Image URL on https://image.tmdb.org"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse "URL is not a TMDB image"
// @Failure 502 {object} ErrorResponse "Upstream failure"
// @Failure 504 {object} ErrorResponse "Upstream timeout"
// @Router /img-proxy [get]
func (h *Handler) ImageProxy(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if verr := validation.ValidateVar("url", rawURL, "required"); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	resp, err := h.images.Fetch(r.Context(), rawURL)
	switch {
	case err == nil:
	case errors.Is(err, poster.ErrHostNotAllowed):
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Only TMDB image URLs are allowed", nil)
		return
	case errors.Is(err, poster.ErrUpstreamTimeout):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeGatewayTimeout, "Image fetch timed out", err)
		return
	default:
		respondError(w, r, http.StatusBadGateway, ErrCodeBadGateway, "Failed to fetch image", err)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.Header().Set("Cache-Control", imageCacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Body); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Client went away during image relay")
	}
}
