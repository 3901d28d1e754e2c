// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/lightswitch/internal/adapters/filestore"
	"github.com/okian/lightswitch/internal/config"
	"github.com/okian/lightswitch/internal/domain/registry"
	"github.com/okian/lightswitch/internal/domain/types"
	"github.com/okian/lightswitch/pkg/logger"
)

// Route paths served by the API.
const (
	RouteStatus      = "/api/status/v2"
	RouteLightswitch = "/api/lightswitch/v2"
	RouteFiles       = "/api/files/v2"
	RouteLaunch      = "/api/launch/v2"
	RouteDownload    = "/api/download/v2"
	RouteEndpoints   = "/api/endpoints"
	RouteRestart     = "/api/restart"
	RouteMetrics     = "/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StartTime() time.Time
	BuildInfo() types.Health
	ListFiles(ctx context.Context) ([]types.FileEntry, error)
	OpenFile(ctx context.Context, name string) (*filestore.File, error)
	Endpoints() []types.EndpointDescriptor
	// ScheduleRestart arms process exit; false means one is already pending.
	ScheduleRestart(ctx context.Context) bool
}

// Server wires HTTP routes for the API.
type Server struct {
	registry *registry.Registry
	policy   string
	logger   logger.Logger

	statusHandler      *StatusHandler
	lightswitchHandler *LightswitchHandler
	filesHandler       *FilesHandler
	launchHandler      *LaunchHandler
	downloadHandler    *DownloadHandler
	endpointsHandler   *EndpointsHandler
	restartHandler     *RestartHandler
	metricsHandler     *MetricsHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRestartEnabled gates POST /api/restart.
func WithRestartEnabled(enabled bool) ServerOption {
	return func(s *Server) {
		s.restartHandler.enabled = enabled
	}
}

// WithRegistrationPolicy selects when descriptors are recorded.
func WithRegistrationPolicy(policy string) ServerOption {
	return func(s *Server) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// WithLogger sets the logger handlers report failures to.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers. Descriptors are
// recorded in reg when routes are registered.
func NewServer(deps Dependencies, reg *registry.Registry, opts ...ServerOption) *Server {
	s := &Server{
		registry:           reg,
		policy:             config.PolicyStartup,
		statusHandler:      NewStatusHandler(deps),
		lightswitchHandler: NewLightswitchHandler(deps),
		filesHandler:       NewFilesHandler(deps),
		launchHandler:      NewLaunchHandler(),
		downloadHandler:    NewDownloadHandler(deps),
		endpointsHandler:   NewEndpointsHandler(deps),
		restartHandler:     NewRestartHandler(deps, true),
		metricsHandler:     NewMetricsHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger != nil {
		s.filesHandler.logger = s.logger
		s.downloadHandler.logger = s.logger
		s.restartHandler.logger = s.logger
	}
	return s
}

// Register attaches all HTTP routes to router, in declaration order. Under
// the startup policy each route is recorded in the registry exactly once per
// call, so Register is meant to run once at startup.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}
	router.NotFoundHandler = http.HandlerFunc(handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	s.route(router, http.MethodGet, RouteStatus, "Get the API start time", "status", s.statusHandler.HandleStatus)
	s.route(router, http.MethodGet, RouteLightswitch, "Get .NET Core version, API creation date, and overall health", "lightswitch", s.lightswitchHandler.HandleLightswitch)
	s.route(router, http.MethodGet, RouteFiles, `List all files in the "Files" directory`, "files", s.filesHandler.HandleListFiles)
	s.route(router, http.MethodGet, RouteLaunch, "Launch the API", "launch", s.launchHandler.HandleLaunch)
	s.route(router, http.MethodGet, RouteDownload, `Download a file from the "Files" directory`, "download", s.downloadHandler.HandleDownload)
	s.route(router, http.MethodGet, RouteEndpoints, "Get the list of all available API endpoints", "endpoints", s.endpointsHandler.HandleEndpoints)
	s.route(router, http.MethodPost, RouteRestart, "Force restart the server", "restart", s.restartHandler.HandleRestart)

	// Operational route, not part of the endpoint directory.
	router.HandleFunc(RouteMetrics, s.metricsHandler.HandleMetrics).Methods(http.MethodGet)
}

// route mounts h for method+path and records its descriptor according to
// the registration policy.
func (s *Server) route(router *mux.Router, method, path, description, name string, h http.HandlerFunc) {
	h = MetricsMiddleware(h, name)
	if s.policy == config.PolicyPerRequest {
		h = RegisterOnRequest(s.registry, method, path, description)(h)
	} else {
		s.registry.Register(method, path, description)
	}
	router.HandleFunc(path, h).Methods(method)
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": <status text>, "message": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrorTitle(w, status, http.StatusText(status), msg)
}

func writeErrorTitle(w http.ResponseWriter, status int, title, msg string) {
	writeJSON(w, status, errorResponse{Error: title, Message: msg})
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
