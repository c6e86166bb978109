package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_ScanLifecycle(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.ScanStarted("sweep")
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.activeScans.WithLabelValues("sweep")))

	pm.ScanFinished("sweep", "completed", 3*time.Second, 7)
	assert.Equal(t, 0.0, testutil.ToFloat64(pm.activeScans.WithLabelValues("sweep")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.scansTotal.WithLabelValues("sweep", "completed")))
	assert.Equal(t, 7.0, testutil.ToFloat64(pm.devicesFound.WithLabelValues("sweep")))
}

func TestPrometheusMetrics_HostsAndPorts(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.HostProbed(true, 10*time.Millisecond)
	pm.HostProbed(false, time.Second)
	pm.HostProbed(false, time.Second)
	pm.PortsProbed(50, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(pm.hostsProbed.WithLabelValues("online")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pm.hostsProbed.WithLabelValues("offline")))
	assert.Equal(t, 3.0, testutil.ToFloat64(pm.portsProbed.WithLabelValues("open")))
	assert.Equal(t, 47.0, testutil.ToFloat64(pm.portsProbed.WithLabelValues("closed")))
}

func TestPrometheusMetrics_Registry(t *testing.T) {
	pm := NewPrometheusMetrics()

	pm.RegistrySize(12, 9)
	pm.SnapshotSaved("file", time.Millisecond, nil)
	pm.SnapshotSaved("file", time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 12.0, testutil.ToFloat64(pm.devicesTracked))
	assert.Equal(t, 9.0, testutil.ToFloat64(pm.devicesOnline))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.snapshotSaves.WithLabelValues("file", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.snapshotSaves.WithLabelValues("file", "error")))
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	pm := NewPrometheusMetrics()
	pm.HTTPRequest("GET", "/api/v1/devices", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	pm.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lanwatch_api_requests_total{method="GET",path="/api/v1/devices",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestGlobal_IsSingleton(t *testing.T) {
	assert.Same(t, Global(), Global())
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() {
		r.ScanStarted("sweep")
		r.ScanFinished("sweep", "completed", 0, 0)
		r.HostProbed(true, 0)
		r.PortsProbed(1, 1)
		r.RegistrySize(0, 0)
		r.SnapshotSaved("file", 0, nil)
		r.HTTPRequest("GET", "/", 200, 0)
	})
}
