package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// SPAHandler serves a built client from dir. Unknown paths fall back to
// index.html so client-side routes survive a reload.
type SPAHandler struct {
	root  fs.FS
	files http.Handler
}

func NewSPAHandler(dir string) *SPAHandler {
	root := os.DirFS(dir)
	return &SPAHandler{root: root, files: http.FileServer(http.FS(root))}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(h.root, name)
	if err == nil && (!info.IsDir() || hasIndex(h.root, name)) {
		h.files.ServeHTTP(w, r)
		return
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	index, err := fs.ReadFile(h.root, "index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(index)
}

func hasIndex(root fs.FS, dir string) bool {
	_, err := fs.Stat(root, path.Join(dir, "index.html"))
	return err == nil
}
