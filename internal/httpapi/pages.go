package httpapi

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// pageHandler serves page routes. With a UI directory it serves its files and
// falls back to index.html so client-side routes resolve. Without one it
// answers with a minimal shell naming the page.
func (s *Server) pageHandler() http.Handler {
	if s.cfg.UIDir == "" {
		return http.HandlerFunc(s.placeholderPage)
	}

	root := os.DirFS(s.cfg.UIDir)
	files := http.FileServerFS(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		name := path.Clean(r.URL.Path)[1:]
		if name != "" {
			if st, err := fs.Stat(root, name); err == nil && !st.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFileFS(w, r, root, "index.html")
	})
}

// staticHandler serves <ui_dir>/static under /static/.
func (s *Server) staticHandler() http.Handler {
	if s.cfg.UIDir == "" {
		return http.NotFoundHandler()
	}
	dir := filepath.Join(s.cfg.UIDir, "static")
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return http.NotFoundHandler()
	}
	return http.StripPrefix("/static/", http.FileServer(http.Dir(dir)))
}

func (s *Server) placeholderPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html>\n<html><head><title>%s</title></head><body data-page=\"%s\"></body></html>\n",
		html.EscapeString(s.cfg.AppName), html.EscapeString(r.URL.Path))
}
