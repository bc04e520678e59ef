// Package web serves the browser build of the game as static assets.
package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// entryDocument is what the root path aliases to.
const entryDocument = "index.html"

// contentTypes is the fixed extension table; everything else is served as
// text/plain.
var contentTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".css":  "text/css",
}

// Server bundles the router and the asset root.
type Server struct {
	r    *chi.Mux
	root string
	log  zerolog.Logger
}

// New constructs a Server rooted at dir, installs middleware, and
// registers the asset route.
func New(dir string, log zerolog.Logger) *Server {
	s := &Server{r: chi.NewRouter(), root: dir, log: log}

	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.requestLogger)

	s.r.Get("/*", s.handleAsset)
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleAsset returns the requested file's bytes with a content type from
// the fixed extension table. Missing file maps to 404, any other read
// failure to 500; neither touches game state anywhere.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)
	if p == "/" {
		p = "/" + entryDocument
	}
	name := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(p, "/")))

	body, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("path", p).Msg("failed to read asset")
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		ct = "text/plain"
	}
	w.Header().Set("Content-Type", ct)
	if _, err := w.Write(body); err != nil {
		s.log.Warn().Err(err).Str("path", p).Msg("failed to write response")
	}
}

// requestLogger emits one structured log line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
