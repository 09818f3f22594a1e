// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use. Field names in messages
// come from json or query struct tags, and a "notblank" tag rejects strings
// that are only whitespace.
//
// Request structs in the api package declare their bounds with tags:
//
//	type trendingQuery struct {
//	    Page    int `query:"page" validate:"gte=1"`
//	    PerPage int `query:"per_page" validate:"gte=1,lte=50"`
//	}
//
// Domain rules that need distinct error messages, such as minimum username and
// password lengths, stay in the users package rather than in tags.
package validation
