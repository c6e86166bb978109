// Package api provides the HTTP REST API for lanwatch. It exposes the device
// registry, scan control, the background refresher status and a websocket
// event stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/anstrom/lanwatch/docs/swagger" // registers the swagger spec
	apihandlers "github.com/anstrom/lanwatch/internal/api/handlers"
	"github.com/anstrom/lanwatch/internal/api/middleware"
	"github.com/anstrom/lanwatch/internal/config"
	"github.com/anstrom/lanwatch/internal/events"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/metrics"
)

// Server timeout constants.
const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
	readTimeout            = 15 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
)

// Deps are the engine pieces the server exposes.
type Deps struct {
	Store  apihandlers.DeviceStore
	Engine apihandlers.ScanEngine
	Bus    *events.Bus

	// Refresher is optional.
	Refresher apihandlers.RefreshStatus

	// Metrics is optional. When set, requests are recorded and /metrics
	// serves its registry.
	Metrics *metrics.PrometheusMetrics

	Version string
}

// Server represents the API server.
type Server struct {
	httpServer      *http.Server
	router          *mux.Router
	ws              *apihandlers.WebSocketHandler
	logger          *logging.Logger
	shutdownTimeout time.Duration
}

// New creates a new API server instance.
func New(cfg config.APIConfig, deps Deps, logger *logging.Logger) *Server {
	logger = logger.WithComponent("api")

	s := &Server{
		router:          mux.NewRouter(),
		ws:              apihandlers.NewWebSocketHandler(deps.Bus, cfg.CORSOrigins, logger),
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}

	var recorder metrics.Recorder = metrics.Nop{}
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	s.setupMiddleware(recorder)
	s.setupRoutes(deps)

	var handler http.Handler = s.router
	if len(cfg.CORSOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSOrigins),
			handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
			handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
		)(s.router)
	}

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware(recorder metrics.Recorder) {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.Logging(s.logger))
	s.router.Use(middleware.Metrics(recorder))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.ContentType())
}

func (s *Server) setupRoutes(deps Deps) {
	devices := apihandlers.NewDeviceHandler(deps.Store, s.logger)
	scans := apihandlers.NewScanHandler(deps.Engine, s.logger)
	health := apihandlers.NewHealthHandler(deps.Store, deps.Engine, deps.Refresher, deps.Version, s.logger)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", health.Health).Methods(http.MethodGet)

	api.HandleFunc("/devices", devices.ListDevices).Methods(http.MethodGet)
	api.HandleFunc("/devices", devices.ClearDevices).Methods(http.MethodDelete)
	api.HandleFunc("/devices/{address}", devices.GetDevice).Methods(http.MethodGet)

	api.HandleFunc("/scans", scans.StartScan).Methods(http.MethodPost)
	api.HandleFunc("/scans/current", scans.StopScan).Methods(http.MethodDelete)
	api.HandleFunc("/scans/progress", scans.GetProgress).Methods(http.MethodGet)
	api.HandleFunc("/refresh", scans.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/range-hint", scans.RangeHint).Methods(http.MethodGet)

	api.HandleFunc("/ws", s.ws.ServeWS).Methods(http.MethodGet)

	// A subrouter answers for its whole prefix, so it needs its own handlers.
	api.NotFoundHandler = http.HandlerFunc(s.notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)

	if deps.Metrics != nil {
		s.router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	s.router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
	))
	s.router.HandleFunc("/", s.index).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
}

// Start serves until ctx is done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("API server failed to listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Starting API server", "address", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server failed: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return err
	}
}

// Stop gracefully stops the API server and disconnects websocket clients.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	s.ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped")
	return nil
}

// Handler returns the root handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.httpServer.Addr
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service": "lanwatch",
		"version": "v1",
		"endpoints": map[string]string{
			"health":  "/api/v1/health",
			"devices": "/api/v1/devices",
			"events":  "/api/v1/ws",
			"docs":    "/swagger/index.html",
		},
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, apihandlers.ErrorResponse{
		Error:     fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
		Timestamp: time.Now().UTC(),
		RequestID: w.Header().Get(middleware.RequestIDHeader),
	})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusMethodNotAllowed, apihandlers.ErrorResponse{
		Error:     fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
		Timestamp: time.Now().UTC(),
		RequestID: w.Header().Get(middleware.RequestIDHeader),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}
