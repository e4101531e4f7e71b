package http

import (
	"io/fs"
	"net/http"
	"strings"
)

// ServeDashboardApp serves the embedded single-page dashboard. Unknown
// non-API paths fall through to index.html so browser refreshes on client
// routes keep working.
func ServeDashboardApp(frontendFS fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(frontendFS))

	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		if _, err := fs.Stat(frontendFS, path); err != nil {
			serveIndex(w, r, frontendFS)
			return
		}

		fileServer.ServeHTTP(w, r)
	}
}

func serveIndex(w http.ResponseWriter, r *http.Request, frontendFS fs.FS) {
	data, err := fs.ReadFile(frontendFS, "index.html")
	if err != nil {
		http.Error(w, "Dashboard UI not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}
