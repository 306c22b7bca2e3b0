// Package api exposes the journal over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

// UserHeader selects whose journal a request works on.
const UserHeader = "X-Journal-User"

// Server holds the HTTP handlers.
type Server struct {
	journal     *journal.Journal
	defaultUser string
	log         *zap.Logger
}

func NewServer(j *journal.Journal, defaultUser string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{journal: j, defaultUser: defaultUser, log: log}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "tradejournal"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/entries", s.ListEntries)
		r.Post("/entries", s.CreateEntry)
		r.Get("/entries/{entryID}", s.GetEntry)
		r.Put("/entries/{entryID}", s.UpdateEntry)
		r.Delete("/entries/{entryID}", s.DeleteEntry)

		r.Get("/summary", s.GetSummary)
		r.Get("/lots", s.ListLots)
	})
	return r
}

func (s *Server) user(r *http.Request) string {
	if u := strings.TrimSpace(r.Header.Get(UserHeader)); u != "" {
		return u
	}
	return s.defaultUser
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// fail maps journal errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrInvalidEntry):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, journal.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
