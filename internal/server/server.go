package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/rastro/internal/graphql"
	"github.com/tournevent/rastro/internal/telemetry"
	"github.com/tournevent/rastro/pkg/tracking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const requestIDHeader = "X-Request-ID"

// Server is the HTTP server for the tracking service.
type Server struct {
	port     int
	registry *tracking.Registry
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	resolver *graphql.Resolver
}

// Config holds server configuration.
type Config struct {
	Port int

	// Registry receives the service metrics and backs /metrics.
	// Defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// New creates a new server instance.
func New(cfg Config, registry *tracking.Registry, logger *otelzap.Logger) *Server {
	var (
		metrics  *telemetry.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Registry != nil {
		metrics = telemetry.NewMetricsWith(cfg.Registry)
		gatherer = cfg.Registry
	} else {
		metrics = telemetry.NewMetrics()
		gatherer = prometheus.DefaultGatherer
	}

	return &Server{
		port:     cfg.Port,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
		gatherer: gatherer,
		resolver: graphql.NewResolver(registry, logger, metrics),
	}
}

// Handler returns the HTTP handler serving every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.handleGraphQL)

	return s.withRequestID(mux)
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		s.logger.Ctx(r.Context()).Debug("Request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req graphql.Request
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrors(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
		req.OperationName = r.URL.Query().Get("operationName")
		if vars := r.URL.Query().Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				writeErrors(w, http.StatusBadRequest, "Invalid variables: "+err.Error())
				return
			}
		}
	default:
		writeErrors(w, http.StatusMethodNotAllowed, "Method not allowed, use GET or POST")
		return
	}

	if req.Query == "" {
		writeErrors(w, http.StatusBadRequest, "Missing query")
		return
	}

	resp := s.resolver.Execute(r.Context(), req)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Ctx(r.Context()).Error("Failed to encode response", zap.Error(err))
	}
}

func writeErrors(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(graphql.Response{
		Errors: gqlerror.List{{Message: message}},
	})
}
