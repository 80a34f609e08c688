package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-feed/internal/domain"
	"github.com/couchcryptid/quake-feed/internal/observability"
)

// maxDisplayBody caps POST /v1/display request bodies.
const maxDisplayBody = 1 << 20

// DisplayBuilder formats one raw earthquake into a display row.
type DisplayBuilder interface {
	Build(raw domain.RawEarthquake) (domain.DisplayEarthquake, error)
}

// Server exposes health, readiness, metrics, and on-demand display endpoints.
type Server struct {
	httpServer *http.Server
	builder    DisplayBuilder
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /v1/display routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, builder DisplayBuilder, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		builder: builder,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/display", s.handleDisplay)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type displayRequest struct {
	Earthquakes []domain.RawEarthquake `json:"earthquakes"`
}

// displayRow carries either a built row or the reason it could not be built.
type displayRow struct {
	Index   int                       `json:"index"`
	Display *domain.DisplayEarthquake `json:"display,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

type displayResponse struct {
	Rows []displayRow `json:"rows"`
}

// handleDisplay builds display rows on demand. Rows come back in request
// order; a record the builder rejects becomes an error row and never fails
// the request as a whole.
func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDisplayBody)

	var req displayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		sharedobs.WriteJSON(w, status, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}

	rows := make([]displayRow, len(req.Earthquakes))
	for i, raw := range req.Earthquakes {
		rows[i].Index = i
		display, err := s.builder.Build(raw)
		if err != nil {
			s.logger.Debug("display row rejected", "index", i, "error", err)
			s.metrics.DisplayCalls.WithLabelValues("invalid").Inc()
			rows[i].Error = err.Error()
			continue
		}
		s.metrics.DisplayCalls.WithLabelValues("success").Inc()
		rows[i].Display = &display
	}

	sharedobs.WriteJSON(w, http.StatusOK, displayResponse{Rows: rows})
}
