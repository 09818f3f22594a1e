// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package catalog holds the movie catalogue and its content-based similarity index.

At startup Load reads three artifacts produced by the offline training job:

  - movies.csv: one row per movie with title, overview, genres, tagline,
    vote_average, popularity and a free-text Tags column
  - vectorizer.json: the fitted TF-IDF vocabulary and idf weights
  - indices.json: optional title -> row map, checked against movies.csv

Each row's tags are transformed into an L2-normalized sparse TF-IDF vector, so
the linear kernel between two rows is their cosine similarity. An inverted
index over term columns lets Recommend score only rows that share a term with
the source movie; every other row scores zero and keeps catalogue order.

# Query Semantics

  - ResolveTitle: exact case-insensitive match, then first substring match
  - Recommend: top-n by similarity, source excluded, ties in catalogue order
  - Trending: popularity descending, paged
  - Search: case-insensitive substring match in catalogue order
  - AllTitles: distinct non-empty titles in first-seen order

The Index is read-only after construction and safe for concurrent use.
*/
package catalog
