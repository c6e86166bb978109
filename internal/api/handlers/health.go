package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/scheduler"
)

// Status constants.
const (
	StatusHealthy  = "healthy"
	StatusDisabled = "disabled"
)

// RefreshStatus reports the background refresher. *scheduler.Refresher
// implements it.
type RefreshStatus interface {
	Status() scheduler.Status
}

// HealthHandler handles the health endpoint.
type HealthHandler struct {
	store     DeviceStore
	engine    ScanEngine
	refresher RefreshStatus
	version   string
	logger    *logging.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. refresher may be nil.
func NewHealthHandler(
	store DeviceStore,
	engine ScanEngine,
	refresher RefreshStatus,
	version string,
	logger *logging.Logger,
) *HealthHandler {
	return &HealthHandler{
		store:     store,
		engine:    engine,
		refresher: refresher,
		version:   version,
		logger:    logger.WithFields("handler", "health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Devices    int               `json:"devices"`
	Scanning   bool              `json:"scanning"`
	Refreshing bool              `json:"refreshing"`
	Refresher  *scheduler.Status `json:"refresher,omitempty"`
	Goroutines int               `json:"goroutines"`
	Checks     map[string]string `json:"checks"`
}

// Health handles GET /health.
//
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     StatusHealthy,
		Version:    h.version,
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Devices:    h.store.Len(),
		Scanning:   h.engine.IsScanning(),
		Refreshing: h.engine.IsRefreshing(),
		Goroutines: runtime.NumGoroutine(),
		Checks: map[string]string{
			"registry": "ok",
			"refresher": StatusDisabled,
		},
	}

	if h.refresher != nil {
		st := h.refresher.Status()
		resp.Refresher = &st
		if st.Running {
			resp.Checks["refresher"] = "ok"
		}
		if st.LastError != "" {
			resp.Checks["refresher"] = "last run failed: " + st.LastError
		}
	}

	writeJSON(w, r, h.logger, http.StatusOK, resp)
}
