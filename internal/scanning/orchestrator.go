package scanning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anstrom/lanwatch/internal/classify"
	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/metrics"
)

// Hooks receive notifications while a sweep runs. They are called from
// worker goroutines and must be safe for concurrent use. Nil hooks are
// skipped.
type Hooks struct {
	OnProgress    func(Progress)
	OnDeviceFound func(device.Device)
}

// Orchestrator fans out one probe, port scan and classify pipeline per
// target address, bounded by MaxParallelScans.
type Orchestrator struct {
	prober  Prober
	ports   PortScanner
	tracker *Tracker
	metrics metrics.Recorder
	logger  *logging.Logger
}

// NewOrchestrator creates an orchestrator. A nil recorder disables metrics.
func NewOrchestrator(prober Prober, ports PortScanner, recorder metrics.Recorder, logger *logging.Logger) *Orchestrator {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Orchestrator{
		prober:  prober,
		ports:   ports,
		tracker: NewTracker(),
		metrics: recorder,
		logger:  logger.WithComponent("orchestrator"),
	}
}

// Progress returns the progress of the current or last sweep.
func (o *Orchestrator) Progress() Progress {
	return o.tracker.Snapshot()
}

// Run sweeps the range described by opts and returns the online devices in
// registry order. When ctx is canceled Run stops spawning workers, waits for
// the ones in flight, and returns the hosts that completed before the
// cancellation together with an error coded CANCELED.
//
// There is no overall deadline. A sweep takes at most roughly
// total/MaxParallelScans times the per-host worst case (ping timeout plus
// port timeout plus banner timeout).
func (o *Orchestrator) Run(ctx context.Context, scanID string, opts ScanOptions, hooks Hooks) ([]device.Device, error) {
	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := ExpandRange(opts.Range, opts.StartAddress, opts.EndAddress)
	ports := SelectPorts(opts)
	start := time.Now()
	log := o.logger.WithScanID(scanID)

	o.tracker.Begin(scanID, rng.Total(), start)
	o.metrics.ScanStarted("sweep")
	log.InfoScan("sweep started", rng.String(),
		"addresses", rng.Total(),
		"ports", len(ports),
		"parallel", opts.MaxParallelScans)

	rm := NewFixedResourceManager(opts.MaxParallelScans)
	defer func() { _ = rm.Close() }()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []device.Device
	)

	rng.Each(func(address string) bool {
		if err := rm.Acquire(ctx, address); err != nil {
			return false
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer rm.Release(address)

			d, ok := o.scanHost(ctx, log, address, ports, opts, hooks)
			if !ok {
				return
			}
			mu.Lock()
			results = append(results, d)
			mu.Unlock()
			if hooks.OnDeviceFound != nil {
				hooks.OnDeviceFound(d.Clone())
			}
		}()
		return ctx.Err() == nil
	})
	if ctx.Err() != nil {
		log.Debug("sweep canceled, draining in-flight hosts", "active", rm.ActiveCount())
	}
	wg.Wait()

	device.Sort(results)
	status, action := "completed", "Completed"
	var err error
	if ctxErr := ctx.Err(); ctxErr != nil {
		status, action = "canceled", "Canceled"
		err = lwerrors.ErrScanCanceled(ctxErr)
	}
	o.tracker.Finish(action)
	elapsed := time.Since(start)
	o.metrics.ScanFinished("sweep", status, elapsed, len(results))

	snap := o.tracker.Snapshot()
	log.InfoScan("sweep finished", rng.String(),
		"status", status,
		"scanned", snap.ScannedAddresses,
		"found", len(results),
		"duration", elapsed)
	if hooks.OnProgress != nil {
		hooks.OnProgress(snap)
	}
	return results, err
}

// scanHost runs the pipeline for one address. It reports false when the
// host is offline, failed, or did not finish before cancellation. Panics
// are contained to the host.
func (o *Orchestrator) scanHost(
	ctx context.Context,
	log *logging.Logger,
	address string,
	ports []int,
	opts ScanOptions,
	hooks Hooks,
) (result device.Device, ok bool) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.ErrorScan("host pipeline panicked", address, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	o.tracker.SetAction("Scanning " + address)
	d, err := o.prober.Probe(ctx, address, opts)
	if err != nil {
		if ctx.Err() != nil {
			return device.Device{}, false
		}
		if !lwerrors.IsCode(err, lwerrors.CodeHostUnreachable) {
			log.DebugScan("probe failed", address, "error", err)
		}
		o.hostOffline(address, started, hooks)
		return device.Device{}, false
	}
	if !d.Online {
		o.hostOffline(address, started, hooks)
		return device.Device{}, false
	}
	if ctx.Err() != nil {
		return device.Device{}, false
	}

	if len(ports) > 0 {
		d.OpenPorts = o.ports.Scan(ctx, address, ports, opts)
		if ctx.Err() != nil {
			return device.Device{}, false
		}
		o.metrics.PortsProbed(len(ports), len(d.OpenPorts))
	}
	if d.OpenPorts == nil {
		d.OpenPorts = []device.PortObservation{}
	}
	classify.Classify(&d)

	o.tracker.SetAction("Found device at " + address)
	o.tracker.HostScanned(address)
	o.tracker.DeviceFound(len(ports))
	o.metrics.HostProbed(true, time.Since(started))
	log.DebugScan("host online", address,
		"rtt_ms", d.ResponseTimeMs,
		"open_ports", len(d.OpenPorts),
		"type", d.DeviceType)
	o.publishProgress(hooks)
	return d, true
}

func (o *Orchestrator) hostOffline(address string, started time.Time, hooks Hooks) {
	o.metrics.HostProbed(false, time.Since(started))
	o.tracker.HostScanned(address)
	o.publishProgress(hooks)
}

func (o *Orchestrator) publishProgress(hooks Hooks) {
	if hooks.OnProgress != nil {
		hooks.OnProgress(o.tracker.Snapshot())
	}
}
