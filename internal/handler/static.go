package handler

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// NewStaticHandler serves the frontend from publicDir. A GET for a bare
// extension-less path whose lowercased value names an existing tour is
// answered with viewer.html instead, so /my-house opens the 360° viewer
// for that tour. Everything else falls through to the file server.
func NewStaticHandler(publicDir string, tours TourServicer) http.Handler {
	fileServer := http.FileServer(http.Dir(publicDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			trimmed := strings.Trim(r.URL.Path, "/")
			if trimmed != "" && !strings.Contains(path.Base(trimmed), ".") {
				slug := strings.ToLower(trimmed)
				if ok, err := tours.Exists(r.Context(), slug); err == nil && ok {
					http.ServeFile(w, r, filepath.Join(publicDir, "viewer.html"))
					return
				}
			}
		}
		fileServer.ServeHTTP(w, r)
	})
}

// NewTourFilesHandler serves the stored scene images (and tour.json) under
// /tours/<slug>/<file>, matching the URLs the response formatter emits.
func NewTourFilesHandler(dataDir string) http.Handler {
	root := filepath.Join(dataDir, "tours")
	return http.StripPrefix("/tours/", http.FileServer(http.Dir(root)))
}
