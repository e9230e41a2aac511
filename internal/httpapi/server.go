// Package httpapi exposes the survey operations over HTTP.
//
// Two endpoints against the submissions table: POST /api/submissions
// (ingest) and GET /api/submissions (retrieve). Every response is
// application/json; operation failures become JSON status bodies with a
// 200, per the front-end contract - the transport never surfaces them as
// HTTP faults.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/surveyforge/surveyd/internal/survey"
)

// maxBodyBytes caps an ingest body. Survey submissions are a few KB; a
// megabyte is generous.
const maxBodyBytes = 1 << 20

// shutdownTimeout bounds graceful shutdown once the serve context ends.
const shutdownTimeout = 5 * time.Second

// Server serves the survey backend API.
type Server struct {
	svc *survey.Service
	log *slog.Logger
}

// NewServer creates a Server over the given service. A nil logger
// discards log output.
func NewServer(svc *survey.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{svc: svc, log: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/submissions", s.handleIngest)
	r.Get("/api/submissions", s.handleRetrieve)

	return r
}

// ListenAndServe serves until the context is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, survey.Status{Status: survey.StatusOK})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, survey.Status{Status: survey.StatusError, Message: "read request body: " + err.Error()})
		return
	}

	outcome, err := s.svc.Ingest(r.Context(), body)
	if err != nil {
		s.writeJSON(w, survey.StatusFor(err))
		return
	}
	s.writeJSON(w, survey.StatusForOutcome(outcome))
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	subs, err := s.svc.Retrieve(r.Context(), action)
	if err != nil {
		s.writeJSON(w, survey.StatusFor(err))
		return
	}
	s.writeJSON(w, subs)
}

// writeJSON writes a 200 application/json response. Errors are carried in
// the body, never the status code.
func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response", "error", err)
	}
}

// requestLogger tags each request with a UUIDv7 id and logs method, path,
// status, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.Must(uuid.NewV7()).String()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}
