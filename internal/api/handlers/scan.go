package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/anstrom/lanwatch/internal/coordinator"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/scanning"
)

// ScanHandler controls sweeps and refreshes.
type ScanHandler struct {
	engine ScanEngine
	logger *logging.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(engine ScanEngine, logger *logging.Logger) *ScanHandler {
	return &ScanHandler{
		engine: engine,
		logger: logger.WithFields("handler", "scan"),
	}
}

// ScanStartedResponse is the body of a successful POST /scans.
type ScanStartedResponse struct {
	ScanID  string               `json:"scan_id"`
	Options scanning.ScanOptions `json:"options"`
	Total   int                  `json:"total_addresses"`
}

// ProgressResponse is the body of GET /scans/progress.
type ProgressResponse struct {
	scanning.Progress
	Percent    float64 `json:"percent"`
	Refreshing bool    `json:"refreshing"`
}

// RefreshResponse is the body of POST /refresh.
type RefreshResponse struct {
	Status  string                      `json:"status"`
	Summary *coordinator.RefreshSummary `json:"summary,omitempty"`
}

// StartScan handles POST /scans. The body holds ScanOptions fields that
// override the current defaults; an empty body uses the defaults as is.
//
// @Summary Start a scan
// @Tags Scans
// @Accept json
// @Produce json
// @Param options body scanning.ScanOptions false "Option overrides"
// @Success 202 {object} ScanStartedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /scans [post]
func (h *ScanHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	opts := h.engine.Options()
	if err := parseJSON(r, &opts); err != nil {
		writeError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	scanID, err := h.engine.StartScan(r.Context(), opts)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}

	normalized := opts.Normalized()
	writeJSON(w, r, h.logger, http.StatusAccepted, ScanStartedResponse{
		ScanID:  scanID,
		Options: normalized,
		Total:   scanning.ExpandRange(normalized.Range, normalized.StartAddress, normalized.EndAddress).Total(),
	})
}

// StopScan handles DELETE /scans/current.
//
// @Summary Stop the running scan
// @Tags Scans
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /scans/current [delete]
func (h *ScanHandler) StopScan(w http.ResponseWriter, r *http.Request) {
	if !h.engine.StopScan() {
		writeError(w, r, h.logger, http.StatusNotFound,
			lwerrors.NewScanError(lwerrors.CodeNotFound, "no scan is running"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProgress handles GET /scans/progress.
//
// @Summary Scan progress
// @Tags Scans
// @Produce json
// @Success 200 {object} ProgressResponse
// @Router /scans/progress [get]
func (h *ScanHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p := h.engine.Progress()
	writeJSON(w, r, h.logger, http.StatusOK, ProgressResponse{
		Progress:   p,
		Percent:    p.Percent(),
		Refreshing: h.engine.IsRefreshing(),
	})
}

// Refresh handles POST /refresh. By default the pass runs in the
// background and the call returns 202; with ?wait=true it runs inline and
// returns the summary.
//
// @Summary Refresh known devices
// @Tags Scans
// @Produce json
// @Param wait query bool false "Run inline and return the summary"
// @Success 200 {object} RefreshResponse
// @Success 202 {object} RefreshResponse
// @Failure 409 {object} ErrorResponse
// @Router /refresh [post]
func (h *ScanHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.engine.IsScanning() || h.engine.IsRefreshing() {
		writeEngineError(w, r, h.logger, lwerrors.ErrScanInProgress())
		return
	}

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if wait {
		summary, err := h.engine.RefreshKnownDevices(r.Context())
		if err != nil {
			writeEngineError(w, r, h.logger, err)
			return
		}
		writeJSON(w, r, h.logger, http.StatusOK, RefreshResponse{Status: "completed", Summary: &summary})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.engine.RefreshKnownDevices(ctx); err != nil {
			h.logger.Warn("background refresh ended with error", "error", err)
		}
	}()
	writeJSON(w, r, h.logger, http.StatusAccepted, RefreshResponse{Status: "started"})
}

// RangeHint handles GET /range-hint.
//
// @Summary Local range hint
// @Tags Scans
// @Produce json
// @Success 200 {object} map[string]string
// @Router /range-hint [get]
func (h *ScanHandler) RangeHint(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	writeJSON(w, r, h.logger, http.StatusOK, map[string]string{"range": h.engine.LocalRangeHint(ctx)})
}
