package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "lanwatch"

	subsystemScan     = "scan"
	subsystemRegistry = "registry"
	subsystemAPI      = "api"
)

// PrometheusMetrics implements Recorder with Prometheus collectors.
type PrometheusMetrics struct {
	scansTotal     *prometheus.CounterVec
	scanDuration   *prometheus.HistogramVec
	activeScans    *prometheus.GaugeVec
	devicesFound   *prometheus.CounterVec
	hostsProbed    *prometheus.CounterVec
	hostDuration   prometheus.Histogram
	portsProbed    *prometheus.CounterVec
	devicesTracked prometheus.Gauge
	devicesOnline  prometheus.Gauge
	snapshotSaves  *prometheus.CounterVec
	snapshotTime   *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec

	registry *prometheus.Registry
}

var _ Recorder = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates collectors on a private registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	pm := &PrometheusMetrics{registry: prometheus.NewRegistry()}

	pm.initScanMetrics()
	pm.initRegistryMetrics()
	pm.initAPIMetrics()
	pm.registerMetrics()

	pm.registry.MustRegister(collectors.NewGoCollector())
	pm.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return pm
}

func (pm *PrometheusMetrics) initScanMetrics() {
	pm.scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystemScan,
		Name:      "total",
		Help:      "Sweeps and refreshes by kind and final status",
	}, []string{"kind", "status"})

	pm.scanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystemScan,
		Name:      "duration_seconds",
		Help:      "Wall time of sweeps and refreshes",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
	}, []string{"kind"})

	pm.activeScans = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystemScan,
		Name:      "active",
		Help:      "Sweeps or refreshes currently running",
	}, []string{"kind"})

	pm.devicesFound = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystemScan,
		Name:      "devices_found_total",
		Help:      "Online devices reported by finished scans",
	}, []string{"kind"})

	pm.hostsProbed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystemScan,
		Name:      "hosts_total",
		Help:      "Host pipelines completed by liveness",
	}, []string{"host_status"})

	pm.hostDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystemScan,
		Name:      "host_duration_seconds",
		Help:      "Time spent on one host pipeline",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	pm.portsProbed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystemScan,
		Name:      "ports_total",
		Help:      "TCP connect attempts by result",
	}, []string{"port_status"})
}

func (pm *PrometheusMetrics) initRegistryMetrics() {
	pm.devicesTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystemRegistry,
		Name:      "devices",
		Help:      "Devices held in the registry",
	})

	pm.devicesOnline = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystemRegistry,
		Name:      "devices_online",
		Help:      "Registry devices currently marked online",
	})

	pm.snapshotSaves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystemRegistry,
		Name:      "snapshot_saves_total",
		Help:      "Snapshot writes by backend and status",
	}, []string{"backend", "status"})

	pm.snapshotTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystemRegistry,
		Name:      "snapshot_save_seconds",
		Help:      "Snapshot write latency",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"backend"})
}

func (pm *PrometheusMetrics) initAPIMetrics() {
	pm.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystemAPI,
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	pm.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystemAPI,
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"method", "path"})
}

func (pm *PrometheusMetrics) registerMetrics() {
	pm.registry.MustRegister(
		pm.scansTotal,
		pm.scanDuration,
		pm.activeScans,
		pm.devicesFound,
		pm.hostsProbed,
		pm.hostDuration,
		pm.portsProbed,
		pm.devicesTracked,
		pm.devicesOnline,
		pm.snapshotSaves,
		pm.snapshotTime,
		pm.httpRequests,
		pm.httpDuration,
	)
}

// Registry returns the underlying Prometheus registry.
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (pm *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// ScanStarted implements Recorder.
func (pm *PrometheusMetrics) ScanStarted(kind string) {
	pm.activeScans.WithLabelValues(kind).Inc()
}

// ScanFinished implements Recorder.
func (pm *PrometheusMetrics) ScanFinished(kind, status string, duration time.Duration, devicesFound int) {
	pm.activeScans.WithLabelValues(kind).Dec()
	pm.scansTotal.WithLabelValues(kind, status).Inc()
	pm.scanDuration.WithLabelValues(kind).Observe(duration.Seconds())
	pm.devicesFound.WithLabelValues(kind).Add(float64(devicesFound))
}

// HostProbed implements Recorder.
func (pm *PrometheusMetrics) HostProbed(online bool, duration time.Duration) {
	status := "offline"
	if online {
		status = "online"
	}
	pm.hostsProbed.WithLabelValues(status).Inc()
	pm.hostDuration.Observe(duration.Seconds())
}

// PortsProbed implements Recorder.
func (pm *PrometheusMetrics) PortsProbed(attempted, open int) {
	pm.portsProbed.WithLabelValues("open").Add(float64(open))
	pm.portsProbed.WithLabelValues("closed").Add(float64(attempted - open))
}

// RegistrySize implements Recorder.
func (pm *PrometheusMetrics) RegistrySize(total, online int) {
	pm.devicesTracked.Set(float64(total))
	pm.devicesOnline.Set(float64(online))
}

// SnapshotSaved implements Recorder.
func (pm *PrometheusMetrics) SnapshotSaved(backend string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	pm.snapshotSaves.WithLabelValues(backend, status).Inc()
	pm.snapshotTime.WithLabelValues(backend).Observe(duration.Seconds())
}

// HTTPRequest implements Recorder.
func (pm *PrometheusMetrics) HTTPRequest(method, path string, status int, duration time.Duration) {
	pm.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	pm.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

var (
	globalMetrics *PrometheusMetrics
	metricsOnce   sync.Once
)

// Global returns the process-wide metrics instance.
func Global() *PrometheusMetrics {
	metricsOnce.Do(func() {
		globalMetrics = NewPrometheusMetrics()
	})
	return globalMetrics
}
