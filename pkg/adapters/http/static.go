package http

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/aretw0/devcraft/pkg/site"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
)

// Sniffing cannot tell stylesheets and scripts from plain text.
var staticTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".js":  "text/javascript; charset=utf-8",
	".svg": "image/svg+xml",
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean(strings.TrimPrefix(chi.URLParam(r, "*"), "/"))
	if !fs.ValidPath(name) || name == "." {
		s.notFound(w, r)
		return
	}

	data, err := fs.ReadFile(site.Assets(), name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("Failed to read asset", "asset", name, "err", err)
		}
		s.notFound(w, r)
		return
	}

	ctype, ok := staticTypes[path.Ext(name)]
	if !ok {
		ctype = mimetype.Detect(data).String()
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
