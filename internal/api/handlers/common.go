// Package handlers provides HTTP request handlers for the lanwatch API.
// This file contains the JSON helpers and the engine interfaces shared by
// all handlers.
package handlers

//go:generate mockgen -source=common.go -destination=mocks/mock_handlers.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anstrom/lanwatch/internal/api/middleware"
	"github.com/anstrom/lanwatch/internal/coordinator"
	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/scanning"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// DeviceStore is the registry surface the API reads and clears.
type DeviceStore interface {
	All() []device.Device
	Get(address string) (device.Device, bool)
	Clear()
	Len() int
}

// ScanEngine is the coordinator surface the API drives.
type ScanEngine interface {
	Options() scanning.ScanOptions
	StartScan(ctx context.Context, opts scanning.ScanOptions) (string, error)
	StopScan() bool
	IsScanning() bool
	IsRefreshing() bool
	Progress() scanning.Progress
	RefreshKnownDevices(ctx context.Context) (coordinator.RefreshSummary, error)
	LocalRangeHint(ctx context.Context) string
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *logging.Logger, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *logging.Logger, statusCode int, err error) {
	if statusCode >= http.StatusInternalServerError {
		logger.Error("API error",
			"request_id", middleware.GetRequestID(r),
			"method", r.Method,
			"path", r.URL.Path,
			"status", statusCode,
			"error", err)
	}

	response := ErrorResponse{
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(r),
	}
	if code := lwerrors.GetCode(err); code != lwerrors.CodeUnknown {
		response.Code = string(code)
	}
	writeJSON(w, r, logger, statusCode, response)
}

// writeEngineError maps an engine error code to an HTTP status.
func writeEngineError(w http.ResponseWriter, r *http.Request, logger *logging.Logger, err error) {
	writeError(w, r, logger, statusForError(err), err)
}

func statusForError(err error) int {
	switch lwerrors.GetCode(err) {
	case lwerrors.CodeScanInProgress:
		return http.StatusConflict
	case lwerrors.CodeNotFound:
		return http.StatusNotFound
	case lwerrors.CodeValidation, lwerrors.CodeConfiguration, lwerrors.CodeTargetInvalid:
		return http.StatusBadRequest
	case lwerrors.CodeCanceled, lwerrors.CodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseJSON decodes an optional JSON body into dest. An empty body leaves
// dest untouched.
func parseJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return lwerrors.WrapConfigError(lwerrors.CodeValidation, fmt.Sprintf("invalid JSON: %v", err), err)
	}
	return nil
}
