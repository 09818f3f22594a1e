// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// CineMatch API provides content-based movie recommendations.
//
// @title CineMatch API
// @version 1.0
// @description Content-based movie recommendations over a TF-IDF similarity index, with TMDB posters and JWT accounts.
// @description
// @description ## Authentication
// @description
// @description Movie endpoints require a bearer token. Register with `/api/register`,
// @description then call `/api/login` and send `Authorization: Bearer <token>`.
// @description Tokens are valid for 24 hours.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "detail": "Human-readable error message",
// @description   "code": "ERROR_CODE",
// @description   "request_id": "b5c1..."
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/cinematch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT from /api/login, sent as "Bearer <token>".
//
// @tag.name Core
// @tag.description Health, liveness and readiness
//
// @tag.name Auth
// @tag.description Account registration and login
//
// @tag.name Movies
// @tag.description Recommendations, trending, search, posters and the image proxy
package main
