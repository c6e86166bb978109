package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anstrom/lanwatch/internal/api/handlers/mocks"
	"github.com/anstrom/lanwatch/internal/coordinator"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/scanning"
)

func newScanHandler(t *testing.T) (*ScanHandler, *mocks.MockScanEngine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockScanEngine(ctrl)
	return NewScanHandler(engine, logging.Discard()), engine
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestScanHandler_StartScan(t *testing.T) {
	h, engine := newScanHandler(t)
	defaults := scanning.DefaultOptions()

	engine.EXPECT().Options().Return(defaults)
	engine.EXPECT().StartScan(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts scanning.ScanOptions) (string, error) {
			assert.Equal(t, "10.1", opts.Range)
			assert.Equal(t, 20, opts.EndAddress)
			assert.Equal(t, defaults.PingTimeoutMs, opts.PingTimeoutMs, "unset fields keep defaults")
			return "scan-1", nil
		})

	rec := serve(http.MethodPost, "/scans", h.StartScan,
		jsonRequest(http.MethodPost, "/scans", `{"range": "10.1", "endAddress": 20}`))

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	resp := decode[ScanStartedResponse](t, rec)
	assert.Equal(t, "scan-1", resp.ScanID)
	assert.Equal(t, "10.1", resp.Options.Range)
	assert.Equal(t, 256*20, resp.Total)
}

func TestScanHandler_StartScanErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"already running", `{}`, lwerrors.ErrScanInProgress(), http.StatusConflict},
		{"invalid options", `{"startAddress": 300}`, lwerrors.ErrConfigInvalid("startAddress", 300), http.StatusBadRequest},
		{"malformed body", `{"range":`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, engine := newScanHandler(t)
			engine.EXPECT().Options().Return(scanning.DefaultOptions())
			if tt.err != nil {
				engine.EXPECT().StartScan(gomock.Any(), gomock.Any()).Return("", tt.err)
			}

			rec := serve(http.MethodPost, "/scans", h.StartScan,
				jsonRequest(http.MethodPost, "/scans", tt.body))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestScanHandler_StopScan(t *testing.T) {
	h, engine := newScanHandler(t)
	engine.EXPECT().StopScan().Return(true)
	engine.EXPECT().StopScan().Return(false)

	rec := serve(http.MethodDelete, "/scans/current", h.StopScan,
		httptest.NewRequest(http.MethodDelete, "/scans/current", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(http.MethodDelete, "/scans/current", h.StopScan,
		httptest.NewRequest(http.MethodDelete, "/scans/current", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanHandler_GetProgress(t *testing.T) {
	h, engine := newScanHandler(t)
	engine.EXPECT().Progress().Return(scanning.Progress{
		ScanID:           "scan-9",
		TotalAddresses:   200,
		ScannedAddresses: 50,
		DevicesFound:     3,
		Scanning:         true,
	})
	engine.EXPECT().IsRefreshing().Return(false)

	rec := serve(http.MethodGet, "/scans/progress", h.GetProgress,
		httptest.NewRequest(http.MethodGet, "/scans/progress", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ProgressResponse](t, rec)
	assert.Equal(t, "scan-9", resp.ScanID)
	assert.Equal(t, 50, resp.ScannedAddresses)
	assert.InDelta(t, 25.0, resp.Percent, 0.001)
	assert.True(t, resp.Scanning)
}

func TestScanHandler_RefreshWait(t *testing.T) {
	h, engine := newScanHandler(t)
	engine.EXPECT().IsScanning().Return(false)
	engine.EXPECT().IsRefreshing().Return(false)
	engine.EXPECT().RefreshKnownDevices(gomock.Any()).
		Return(coordinator.RefreshSummary{Checked: 3, Online: 2, Offline: 1}, nil)

	rec := serve(http.MethodPost, "/refresh", h.Refresh,
		httptest.NewRequest(http.MethodPost, "/refresh?wait=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RefreshResponse](t, rec)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 3, resp.Summary.Checked)
}

func TestScanHandler_RefreshBackground(t *testing.T) {
	h, engine := newScanHandler(t)
	called := make(chan struct{})
	engine.EXPECT().IsScanning().Return(false)
	engine.EXPECT().IsRefreshing().Return(false)
	engine.EXPECT().RefreshKnownDevices(gomock.Any()).
		DoAndReturn(func(any) (coordinator.RefreshSummary, error) {
			close(called)
			return coordinator.RefreshSummary{}, nil
		})

	rec := serve(http.MethodPost, "/refresh", h.Refresh,
		httptest.NewRequest(http.MethodPost, "/refresh", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "started", decode[RefreshResponse](t, rec).Status)
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("background refresh did not run")
	}
}

func TestScanHandler_RefreshRejectedWhileScanning(t *testing.T) {
	h, engine := newScanHandler(t)
	engine.EXPECT().IsScanning().Return(true)

	rec := serve(http.MethodPost, "/refresh", h.Refresh,
		httptest.NewRequest(http.MethodPost, "/refresh", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(lwerrors.CodeScanInProgress), decode[ErrorResponse](t, rec).Code)
}

func TestScanHandler_RangeHint(t *testing.T) {
	h, engine := newScanHandler(t)
	engine.EXPECT().LocalRangeHint(gomock.Any()).Return("10.20.30")

	rec := serve(http.MethodGet, "/range-hint", h.RangeHint,
		httptest.NewRequest(http.MethodGet, "/range-hint", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"range": "10.20.30"}, decode[map[string]string](t, rec))
}
