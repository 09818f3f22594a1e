// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// frontend serves the bundled HTML pages and their assets.
type frontend struct {
	dir    string
	assets http.Handler
}

func newFrontend(dir string) *frontend {
	return &frontend{
		dir:    dir,
		assets: http.StripPrefix("/static/", http.FileServer(noListingFS{http.Dir(dir)})),
	}
}

// page returns a handler for one HTML file in the frontend directory.
func (f *frontend) page(name string) http.HandlerFunc {
	path := filepath.Join(f.dir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not Found", nil)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, path)
	}
}

// noListingFS hides directory listings from http.FileServer.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if stat.IsDir() {
		index := strings.TrimSuffix(name, "/") + "/index.html"
		idx, err := n.fs.Open(index)
		if err != nil {
			_ = f.Close()
			return nil, os.ErrNotExist
		}
		_ = idx.Close()
	}
	return f, nil
}
