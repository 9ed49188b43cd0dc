// Package http exposes the search pipeline over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fwojciec/websearch"
)

// DefaultRequestTimeout bounds a single API request end to end.
const DefaultRequestTimeout = 120 * time.Second

// ContextProvider is the retrieval-only surface with an optional lexical
// variant that skips the vector store.
type ContextProvider interface {
	Context(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error)
	LexicalContext(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error)
}

// Admin is the maintenance surface backing the admin endpoints.
type Admin interface {
	Stats(ctx context.Context) (*websearch.CollectionStats, error)
	CleanupByAge(ctx context.Context, maxAge time.Duration) (int, error)
}

// Server serves the web search API.
type Server struct {
	Answerer websearch.Answerer
	Contexts ContextProvider
	Admin    Admin
	Logger   *slog.Logger

	Addr           string
	AllowedOrigins []string
	RequestTimeout time.Duration

	srv *http.Server
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout()))

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/web_search", s.handleWebSearch)
		r.Post("/web_search/context", s.handleContext)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats", s.handleStats)
			r.Post("/cleanup", s.handleCleanup)
		})
	})

	return r
}

// ListenAndServe starts the server on Addr and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.requestTimeout() + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWebSearch(w http.ResponseWriter, r *http.Request) {
	var req websearch.Request
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	answer, err := s.Answerer.Answer(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, answer)
}

// contextRequest extends the search request with a retrieval mode. Mode
// "lexical" ranks deduplicated chunks directly instead of querying the
// vector store.
type contextRequest struct {
	websearch.Request
	Mode string `json:"mode"`
}

type contextResponse struct {
	Snippets []websearch.Snippet `json:"snippets"`
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var snippets []websearch.Snippet
	var err error
	switch req.Mode {
	case "", "vector":
		snippets, err = s.Contexts.Context(r.Context(), &req.Request)
	case "lexical":
		snippets, err = s.Contexts.LexicalContext(r.Context(), &req.Request)
	default:
		err = websearch.Errorf(websearch.EINVALID, "unknown context mode %q", req.Mode)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if snippets == nil {
		snippets = []websearch.Snippet{}
	}
	s.writeJSON(w, http.StatusOK, contextResponse{Snippets: snippets})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Admin.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

type cleanupRequest struct {
	MaxAgeHours float64 `json:"max_age_hours"`
}

type cleanupResponse struct {
	Deleted int `json:"deleted"`
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MaxAgeHours <= 0 {
		s.writeError(w, r, websearch.Errorf(websearch.EINVALID, "max_age_hours must be positive"))
		return
	}

	deleted, err := s.Admin.CleanupByAge(r.Context(), time.Duration(req.MaxAgeHours*float64(time.Hour)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cleanupResponse{Deleted: deleted})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return websearch.Errorf(websearch.EINVALID, "invalid request body: %s", err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := websearch.ErrorCode(err)
	status := statusFromCode(code)
	if status >= http.StatusInternalServerError {
		s.logger().Error("http request failed",
			slog.String("path", r.URL.Path),
			slog.String("code", code),
			slog.Any("error", err),
		)
	}
	s.writeJSON(w, status, errorResponse{Error: websearch.ErrorMessage(err), Code: code})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger().Error("encoding response", slog.Any("error", err))
	}
}

func (s *Server) requestTimeout() time.Duration {
	if s.RequestTimeout > 0 {
		return s.RequestTimeout
	}
	return DefaultRequestTimeout
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func statusFromCode(code string) int {
	switch code {
	case websearch.EINVALID:
		return http.StatusBadRequest
	case websearch.ENOTFOUND:
		return http.StatusNotFound
	case websearch.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	case websearch.ETIMEOUT:
		return http.StatusGatewayTimeout
	case websearch.EEMPTY:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
