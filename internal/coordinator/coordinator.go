// Package coordinator is the engine's entry point for callers. It owns the
// active scan options, enforces that only one sweep runs at a time and
// provides the low-impact sequential refresh used by background checks.
package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/anstrom/lanwatch/internal/classify"
	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/events"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/lookup"
	"github.com/anstrom/lanwatch/internal/metrics"
	"github.com/anstrom/lanwatch/internal/registry"
	"github.com/anstrom/lanwatch/internal/scanning"
)

// Refresh defaults.
const (
	DefaultRefreshPingTimeoutMs = 1000
	DefaultRefreshPortTimeoutMs = 300
	DefaultDeviceGap            = 100 * time.Millisecond

	// DefaultCloseTimeout bounds how long Close waits for a canceled sweep
	// to hand back its completed hosts.
	DefaultCloseTimeout = 10 * time.Second
)

// Sweeper runs a full parallel sweep. *scanning.Orchestrator implements it.
type Sweeper interface {
	Run(ctx context.Context, scanID string, opts scanning.ScanOptions, hooks scanning.Hooks) ([]device.Device, error)
	Progress() scanning.Progress
}

// Config tunes the refresh path and provides the initial scan options.
type Config struct {
	ScanDefaults         scanning.ScanOptions
	RefreshPingTimeoutMs int
	RefreshPortTimeoutMs int
	DeviceGap            time.Duration
	CloseTimeout         time.Duration
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		ScanDefaults:         scanning.DefaultOptions(),
		RefreshPingTimeoutMs: DefaultRefreshPingTimeoutMs,
		RefreshPortTimeoutMs: DefaultRefreshPortTimeoutMs,
		DeviceGap:            DefaultDeviceGap,
		CloseTimeout:         DefaultCloseTimeout,
	}
}

// RefreshSummary reports what a refresh pass did.
type RefreshSummary struct {
	Checked  int           `json:"checked"`
	Online   int           `json:"online"`
	Offline  int           `json:"offline"`
	Aborted  bool          `json:"aborted"`
	Duration time.Duration `json:"duration"`
}

// Coordinator serializes access to the discovery engine.
type Coordinator struct {
	cfg      Config
	sweeper  Sweeper
	prober   scanning.Prober
	ports    scanning.PortScanner
	registry *registry.Registry
	bus      *events.Bus
	metrics  metrics.Recorder
	logger   *logging.Logger
	hint     func(context.Context) string

	scanning   atomic.Bool
	refreshing atomic.Bool

	mu     sync.Mutex
	opts   scanning.ScanOptions
	cancel context.CancelFunc
	done   chan struct{}

	unsubscribe func()
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMetrics records refresh runs.
func WithMetrics(m metrics.Recorder) Option {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithRangeHint replaces local interface detection.
func WithRangeHint(fn func(context.Context) string) Option {
	return func(c *Coordinator) { c.hint = fn }
}

// New wires a coordinator. Registry mutations are forwarded to bus as
// EventRegistryChanged until Close is called.
func New(
	cfg Config,
	sweeper Sweeper,
	prober scanning.Prober,
	ports scanning.PortScanner,
	reg *registry.Registry,
	bus *events.Bus,
	logger *logging.Logger,
	opts ...Option,
) *Coordinator {
	if cfg.RefreshPingTimeoutMs <= 0 {
		cfg.RefreshPingTimeoutMs = DefaultRefreshPingTimeoutMs
	}
	if cfg.RefreshPortTimeoutMs <= 0 {
		cfg.RefreshPortTimeoutMs = DefaultRefreshPortTimeoutMs
	}
	if cfg.DeviceGap < 0 {
		cfg.DeviceGap = 0
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultCloseTimeout
	}

	c := &Coordinator{
		cfg:      cfg,
		sweeper:  sweeper,
		prober:   prober,
		ports:    ports,
		registry: reg,
		bus:      bus,
		metrics:  metrics.Nop{},
		logger:   logger.WithComponent("coordinator"),
		hint:     lookup.LocalRangeHint,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.opts = cfg.ScanDefaults
	if c.opts.Range == "" {
		c.opts.Range = c.hint(context.Background())
	}

	c.unsubscribe = reg.Subscribe(func(list []device.Device) {
		bus.Publish(events.Event{Type: events.EventRegistryChanged, Data: list})
	})
	return c
}

// Options returns the active scan options.
func (c *Coordinator) Options() scanning.ScanOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// SetOptions replaces the active scan options after validating them.
func (c *Coordinator) SetOptions(opts scanning.ScanOptions) error {
	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()
	return nil
}

// IsScanning reports whether a sweep is in flight.
func (c *Coordinator) IsScanning() bool {
	return c.scanning.Load()
}

// IsRefreshing reports whether a refresh pass is in flight.
func (c *Coordinator) IsRefreshing() bool {
	return c.refreshing.Load()
}

// Progress returns the current or last sweep's progress.
func (c *Coordinator) Progress() scanning.Progress {
	return c.sweeper.Progress()
}

// LocalRangeHint returns the /24 prefix of the first private interface.
func (c *Coordinator) LocalRangeHint(ctx context.Context) string {
	return c.hint(ctx)
}

// StartScan launches a sweep in the background and returns its ID. If a
// sweep is already running the request is rejected with SCAN_IN_PROGRESS
// and nothing changes. The sweep outlives ctx; use StopScan to end it.
func (c *Coordinator) StartScan(ctx context.Context, opts scanning.ScanOptions) (string, error) {
	opts, err := c.prepare(opts)
	if err != nil {
		return "", err
	}
	if !c.scanning.CompareAndSwap(false, true) {
		c.logger.Warn("scan request rejected, a scan is already running")
		return "", lwerrors.ErrScanInProgress()
	}

	scanID := uuid.NewString()
	scanCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		_, _ = c.runSweep(scanCtx, cancel, scanID, opts)
	}()
	return scanID, nil
}

// ScanSync runs a sweep on the caller's goroutine under the same
// single-flight rule as StartScan.
func (c *Coordinator) ScanSync(ctx context.Context, opts scanning.ScanOptions) ([]device.Device, error) {
	opts, err := c.prepare(opts)
	if err != nil {
		return nil, err
	}
	if !c.scanning.CompareAndSwap(false, true) {
		c.logger.Warn("scan request rejected, a scan is already running")
		return nil, lwerrors.ErrScanInProgress()
	}

	scanCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.done = nil
	c.mu.Unlock()

	return c.runSweep(scanCtx, cancel, uuid.NewString(), opts)
}

// StopScan cancels the running sweep. It reports whether one was running.
func (c *Coordinator) StopScan() bool {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel == nil {
		return false
	}
	c.logger.Info("stopping scan")
	cancel()
	return true
}

// Wait blocks until the sweep started by StartScan has finished.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops any sweep, waits up to the configured close timeout for its
// completed hosts to reach the registry and detaches from it. Callers flush
// the registry after Close returns.
func (c *Coordinator) Close() {
	if c.StopScan() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.CloseTimeout)
		if err := c.Wait(ctx); err != nil {
			c.logger.Warn("scan did not stop in time, results may be lost", "error", err)
		}
		cancel()
	}
	c.unsubscribe()
}

func (c *Coordinator) prepare(opts scanning.ScanOptions) (scanning.ScanOptions, error) {
	if opts.Range == "" {
		opts.Range = c.Options().Range
	}
	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (c *Coordinator) runSweep(
	ctx context.Context,
	cancel context.CancelFunc,
	scanID string,
	opts scanning.ScanOptions,
) ([]device.Device, error) {
	log := c.logger.WithScanID(scanID)
	hooks := scanning.Hooks{
		OnProgress: func(p scanning.Progress) {
			c.bus.Publish(events.Event{Type: events.EventProgress, ScanID: scanID, Data: p})
		},
		OnDeviceFound: func(d device.Device) {
			c.bus.Publish(events.Event{Type: events.EventDeviceFound, ScanID: scanID, Data: d})
		},
	}

	results, err := c.sweeper.Run(ctx, scanID, opts, hooks)
	switch {
	case err == nil:
		c.registry.UpdateDevices(results)
	case lwerrors.IsCode(err, lwerrors.CodeCanceled):
		log.Info("scan canceled, keeping completed hosts", "devices", len(results))
		c.registry.MergeDevices(results)
	default:
		log.Error("scan failed", "error", err)
	}

	cancel()
	c.mu.Lock()
	c.cancel = nil
	c.mu.Unlock()
	c.scanning.Store(false)

	if err == nil || lwerrors.IsCode(err, lwerrors.CodeCanceled) {
		c.bus.Publish(events.Event{Type: events.EventScanComplete, ScanID: scanID, Data: c.registry.All()})
	}
	return results, err
}

// RefreshKnownDevices re-probes every registry address one at a time. A
// device that does not answer is marked offline. The pass aborts early when
// a sweep starts or ctx ends.
func (c *Coordinator) RefreshKnownDevices(ctx context.Context) (RefreshSummary, error) {
	var summary RefreshSummary
	if c.IsScanning() {
		return summary, lwerrors.ErrScanInProgress()
	}
	if !c.refreshing.CompareAndSwap(false, true) {
		return summary, lwerrors.ErrScanInProgress().WithContext("reason", "refresh already running")
	}
	defer c.refreshing.Store(false)

	opts := c.Options()
	opts.PingTimeoutMs = c.cfg.RefreshPingTimeoutMs
	opts.PortTimeoutMs = c.cfg.RefreshPortTimeoutMs
	ports := scanning.SelectPorts(opts)
	addresses := c.registry.Addresses()

	start := time.Now()
	refreshID := uuid.NewString()
	progress := scanning.Progress{
		ScanID:         refreshID,
		TotalAddresses: len(addresses),
		Scanning:       true,
		StartTime:      start,
	}
	c.metrics.ScanStarted("refresh")
	c.logger.InfoRefresh("refresh started", "devices", len(addresses))

	for i, addr := range addresses {
		if c.IsScanning() {
			c.logger.InfoRefresh("refresh aborted, a scan started", "checked", summary.Checked)
			summary.Aborted = true
			break
		}
		if i > 0 && !sleepCtx(ctx, c.cfg.DeviceGap) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		progress.CurrentAddress = addr
		progress.CurrentAction = "Checking " + addr
		c.publishProgress(progress)

		d, ok := c.refreshOne(ctx, addr, ports, opts)
		if ctx.Err() != nil {
			break
		}
		summary.Checked++
		progress.ScannedAddresses = summary.Checked
		if !ok {
			c.registry.MarkOffline(addr)
			summary.Offline++
			continue
		}
		c.registry.AddOrUpdate(d)
		summary.Online++
		progress.DevicesFound = summary.Online
		progress.PortsScanned += len(ports)
		c.bus.Publish(events.Event{Type: events.EventDeviceFound, ScanID: refreshID, Data: d})
	}
	summary.Duration = time.Since(start)

	var err error
	status := "completed"
	switch {
	case ctx.Err() != nil:
		status = "canceled"
		summary.Aborted = true
		err = lwerrors.ErrScanCanceled(ctx.Err())
	case summary.Aborted:
		status = "canceled"
	}
	progress.Scanning = false
	progress.CurrentAction = "Refresh " + status
	c.publishProgress(progress)
	c.bus.Publish(events.Event{Type: events.EventScanComplete, ScanID: refreshID, Data: c.registry.All()})

	c.metrics.ScanFinished("refresh", status, summary.Duration, summary.Online)
	c.logger.InfoRefresh("refresh finished",
		"status", status,
		"checked", summary.Checked,
		"online", summary.Online,
		"offline", summary.Offline,
		"duration", summary.Duration)
	return summary, err
}

func (c *Coordinator) publishProgress(p scanning.Progress) {
	c.bus.Publish(events.Event{Type: events.EventProgress, ScanID: p.ScanID, Data: p})
}

func (c *Coordinator) refreshOne(ctx context.Context, addr string, ports []int, opts scanning.ScanOptions) (device.Device, bool) {
	d, err := c.prober.Probe(ctx, addr, opts)
	if err != nil || !d.Online {
		return d, false
	}
	if len(ports) > 0 {
		d.OpenPorts = c.ports.Scan(ctx, addr, ports, opts)
	}
	if d.OpenPorts == nil {
		d.OpenPorts = []device.PortObservation{}
	}
	classify.Classify(&d)
	return d, true
}

// sleepCtx waits for d or until ctx ends. It reports whether the full
// duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
