// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	blogtopdf "github.com/KaparthyReddy/minimal-blog-to-pdf"
)

// Timeouts for the HTTP server itself. The write timeout must cover a
// full conversion, which can spend a minute inside the browser.
const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// downloadFilename is the attachment name sent with every PDF response.
const downloadFilename = "blog.pdf"

// convertRequest is the JSON body of POST /convert.
type convertRequest struct {
	URL string `json:"url"`
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// Server serves conversion requests from a shared converter pool.
type Server struct {
	pool *blogtopdf.ConverterPool
	log  zerolog.Logger
	http *http.Server
}

// New creates a Server listening on addr, backed by pool.
func New(addr string, pool *blogtopdf.ConverterPool, log zerolog.Logger) *Server {
	s := &Server{
		pool: pool,
		log:  log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/convert", s.handleConvert)
	r.Get("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown is called or
// the listener fails.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("listening")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests, bounded by shutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	conv, err := s.pool.Acquire()
	if err != nil {
		s.log.Error().Err(err).Msg("acquiring converter")
		s.writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	defer s.pool.Release(conv)

	start := time.Now()
	result, err := conv.Convert(r.Context(), req.URL)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("url", req.URL).
			Str("kind", blogtopdf.KindOf(err).String()).
			Msg("conversion failed")
		s.writeError(w, r, statusFor(err), err.Error())
		return
	}

	s.log.Info().
		Str("url", req.URL).
		Str("title", result.Meta.Title).
		Int("bytes", len(result.PDF)).
		Dur("elapsed", time.Since(start)).
		Msg("converted")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PDF)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// statusFor maps a conversion failure to an HTTP status. Address
// problems are the client's fault, a slow source is a gateway timeout,
// a render failure is a bad gateway, everything else is internal.
func statusFor(err error) int {
	switch blogtopdf.KindOf(err) {
	case blogtopdf.KindMissingAddress, blogtopdf.KindFetchFailed:
		return http.StatusBadRequest
	case blogtopdf.KindFetchTimeout:
		return http.StatusGatewayTimeout
	case blogtopdf.KindRenderFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: msg}); err != nil {
		s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("writing error response")
	}
}
