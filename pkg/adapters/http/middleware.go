package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the visitor's form session.
const SessionCookie = "devcraft_session"

type sessionKey struct{}

// SessionID returns the form session bound to the request, if any.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// sessionCookie issues a UUIDv7 session cookie when the request has no valid one.
func (s *Server) sessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			fresh, err := uuid.NewV7()
			if err != nil {
				s.logger.Error("Failed to allocate session id", "err", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			id = fresh.String()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

// requestLogger logs each request and feeds the request observer.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := routePattern(r)
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		if s.observe != nil {
			s.observe(route, code, elapsed)
		}
		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", code,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
		)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// newCompressor negotiates brotli first, then chi's gzip and deflate.
func newCompressor() *middleware.Compressor {
	c := middleware.NewCompressor(5,
		"text/html",
		"text/css",
		"text/javascript",
		"application/javascript",
		"application/json",
	)
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}
