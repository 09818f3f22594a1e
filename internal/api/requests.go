// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/validation"
)

// RegisterRequest is the body of POST /api/register. Minimum lengths are
// enforced by the users service so each rule keeps its own message.
type RegisterRequest struct {
	Username string `json:"username" validate:"max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"max=256"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// TrendingResponse is one page of popular movies.
type TrendingResponse struct {
	Movies []catalog.Movie `json:"movies"`
	Page   int             `json:"page"`
}

// SearchResponse lists movies whose title matched the query.
type SearchResponse struct {
	Movies []catalog.Movie `json:"movies"`
	Query  string          `json:"query"`
}

// RecommendResponse lists the most similar movies to SourceMovie.
type RecommendResponse struct {
	SourceMovie     string          `json:"source_movie"`
	Recommendations []catalog.Movie `json:"recommendations"`
}

// PosterResponse carries a poster URL, empty when none is known.
type PosterResponse struct {
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
}

// TitlesResponse feeds the frontend autocomplete.
type TitlesResponse struct {
	Titles []string `json:"titles"`
}

// TMDBKeyResponse exposes the TMDB key for client-side lookups.
type TMDBKeyResponse struct {
	Key string `json:"key"`
}

// intQueryParam parses an optional integer query parameter and checks it
// against tag. Missing parameters take def.
func intQueryParam(r *http.Request, name string, def int, tag string) (int, *validation.RequestValidationError) {
	raw := r.URL.Query().Get(name)
	v := def
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, validation.NewFieldError(name, "int", name+" must be an integer")
		}
		v = n
	}
	if verr := validation.ValidateVar(name, v, tag); verr != nil {
		return 0, verr
	}
	return v, nil
}

// rangeTag builds a validator tag for lo <= v <= hi.
func rangeTag(lo, hi int) string {
	return fmt.Sprintf("min=%d,max=%d", lo, hi)
}
