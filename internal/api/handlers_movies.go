// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/validation"
)

// Trending returns one page of the catalogue ordered by popularity.
//
// @Summary Trending movies
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, from 1" default(1)
// @Param per_page query int false "Page size, 1 to 50" default(20)
// @Success 200 {object} TrendingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /movies/trending [get]
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	page, verr := intQueryParam(r, "page", 1, "min=1")
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	perPage, verr := intQueryParam(r, "per_page", h.cfg.API.DefaultPerPage, rangeTag(1, h.cfg.API.MaxPerPage))
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	movies := h.catalog.Trending(page, perPage)
	respondJSON(w, http.StatusOK, &TrendingResponse{
		Movies: nonNil(h.posters.Enrich(r.Context(), movies)),
		Page:   page,
	})
}

// Search finds movies by title substring.
//
// @Summary Search movies by title
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param q query string true "Case-insensitive title fragment"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /movies/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if verr := validation.ValidateVar("q", q, "required"); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	movies := h.catalog.Search(q, h.cfg.API.SearchLimit)
	respondJSON(w, http.StatusOK, &SearchResponse{
		Movies: nonNil(h.posters.Enrich(r.Context(), movies)),
		Query:  q,
	})
}

// Recommend returns the movies most similar to the title in the path. The
// title may contain slashes.
//
// @Summary Similar movies
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param title path string true "Source movie title"
// @Param n query int false "Number of results, 1 to 30" default(12)
// @Success 200 {object} RecommendResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown title"
// @Router /movies/recommend/{title} [get]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	title := pathTitle(r)
	n, verr := intQueryParam(r, "n", h.cfg.API.DefaultRecommend, rangeTag(1, h.cfg.API.MaxRecommend))
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	recs := h.catalog.Recommend(title, n)
	if len(recs) == 0 {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound,
			fmt.Sprintf("No recommendations found for '%s'", title), nil)
		return
	}
	respondJSON(w, http.StatusOK, &RecommendResponse{
		SourceMovie:     title,
		Recommendations: h.posters.Enrich(r.Context(), recs),
	})
}

// pathTitle returns the wildcard remainder of the route, decoded once.
// chi matches on the escaped path when one exists, so "%2F" arrives encoded.
func pathTitle(r *http.Request) string {
	title := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return title
	}
	if decoded, err := url.PathUnescape(title); err == nil {
		return decoded
	}
	return title
}

// Poster resolves the poster URL for a title.
//
// @Summary Poster URL for a title
// @Description Looks the title up on TMDB once and caches the answer. An empty poster_url means none was found.
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param title query string true "Movie title"
// @Success 200 {object} PosterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /movies/poster [get]
func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if verr := validation.ValidateVar("title", title, "required"); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	respondJSON(w, http.StatusOK, &PosterResponse{
		Title:     title,
		PosterURL: h.posters.PosterURL(r.Context(), title),
	})
}

// Titles returns every distinct title for autocomplete.
//
// @Summary All movie titles
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TitlesResponse
// @Failure 401 {object} ErrorResponse
// @Router /movies/titles [get]
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	titles := h.catalog.AllTitles(h.cfg.API.TitlesLimit)
	if titles == nil {
		titles = []string{}
	}
	respondJSON(w, http.StatusOK, &TitlesResponse{Titles: titles})
}

// TMDBKey exposes the configured TMDB key so the browser can fetch posters
// directly.
//
// @Summary TMDB API key
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TMDBKeyResponse
// @Failure 401 {object} ErrorResponse
// @Router /tmdb-key [get]
func (h *Handler) TMDBKey(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &TMDBKeyResponse{Key: h.posters.APIKey()})
}

func nonNil(movies []catalog.Movie) []catalog.Movie {
	if movies == nil {
		return []catalog.Movie{}
	}
	return movies
}
