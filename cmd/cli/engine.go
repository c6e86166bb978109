package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/anstrom/lanwatch/internal/config"
	"github.com/anstrom/lanwatch/internal/coordinator"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/events"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/lookup"
	"github.com/anstrom/lanwatch/internal/metrics"
	"github.com/anstrom/lanwatch/internal/registry"
	"github.com/anstrom/lanwatch/internal/scanning"
)

// closeTimeout bounds the final registry flush.
const closeTimeout = 15 * time.Second

// engine bundles the pieces every command needs.
type engine struct {
	cfg         *config.Config
	logger      *logging.Logger
	bus         *events.Bus
	registry    *registry.Registry
	coordinator *coordinator.Coordinator
	metrics     *metrics.PrometheusMetrics

	closeStore func() error
}

// openStore returns the configured snapshot store. A nil store means the
// registry is memory only.
func openStore(ctx context.Context, cfg config.StorageConfig) (registry.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return nil, noop, nil
	case config.BackendPostgres:
		store, err := registry.OpenSQLStore(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, store.Close, nil
	default:
		return registry.NewFileStore(cfg.Path), noop, nil
	}
}

// newProber wires the host probe with every configured lookup.
func newProber(cfg *config.Config, logger *logging.Logger) *scanning.HostProbe {
	opts := []scanning.HostProbeOption{
		scanning.WithHostnameResolver(lookup.NewDNSResolver(lookup.DefaultResolvConf, cfg.Lookup.DNSServers...)),
		scanning.WithHardwareResolver(lookup.NewARPTable("")),
		scanning.WithVendorResolver(lookup.NewOUITable(nil)),
	}
	if cfg.Lookup.SNMP.Enabled {
		opts = append(opts, scanning.WithSystemDescriber(
			lookup.NewSNMPDescriber(cfg.Lookup.SNMP.Community, cfg.Lookup.SNMP.Timeout)))
	}
	return scanning.NewHostProbe(scanning.NewICMPPinger(), logger, opts...)
}

// newEngine builds the registry, restores its snapshot and wires a
// coordinator on top. Metrics are only collected when withMetrics is set.
func newEngine(ctx context.Context, cfg *config.Config, logger *logging.Logger, withMetrics bool) (*engine, error) {
	var recorder metrics.Recorder = metrics.Nop{}
	var prom *metrics.PrometheusMetrics
	if withMetrics {
		prom = metrics.Global()
		recorder = prom
	}

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	regOpts := []registry.Option{
		registry.WithSaveDebounce(cfg.Storage.SaveDebounce),
		registry.WithMetrics(recorder),
	}
	if store != nil {
		regOpts = append(regOpts, registry.WithStore(store))
	}
	reg := registry.New(logger, regOpts...)
	if _, err := reg.Load(ctx); err != nil {
		recoverSnapshot(store, err, logger)
	}

	prober := newProber(cfg, logger)
	ports := scanning.NewTCPPortScanner(logger)
	orch := scanning.NewOrchestrator(prober, ports, recorder, logger)
	bus := events.NewBus()

	coord := coordinator.New(cfg.CoordinatorConfig(), orch, prober, ports, reg, bus, logger,
		coordinator.WithMetrics(recorder))

	return &engine{
		cfg:         cfg,
		logger:      logger,
		bus:         bus,
		registry:    reg,
		coordinator: coord,
		metrics:     prom,
		closeStore:  closeStore,
	}, nil
}

// recoverSnapshot handles a snapshot that could not be restored. The engine
// carries on with an empty registry; a corrupt snapshot file is moved aside
// first so the next save does not replace it.
func recoverSnapshot(store registry.Store, loadErr error, logger *logging.Logger) {
	logger.Error("Failed to load device registry, starting empty", "error", loadErr)

	fileStore, ok := store.(*registry.FileStore)
	if !ok || !lwerrors.IsCode(loadErr, lwerrors.CodeSnapshotCorrupt) {
		return
	}
	moved, err := fileStore.Quarantine(time.Now())
	if err != nil {
		logger.Warn("Failed to move corrupt snapshot aside", "error", err)
		return
	}
	logger.Warn("Corrupt snapshot moved aside", "path", moved)
}

// Close stops any sweep, flushes the registry and releases the store. The
// coordinator is closed first so a canceled sweep's completed hosts are in
// the registry before the final flush.
func (e *engine) Close() error {
	e.coordinator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	flushErr := e.registry.Close(ctx)
	if flushErr != nil {
		e.logger.Error("Failed to save device registry", "error", flushErr)
	}
	if err := e.closeStore(); err != nil {
		e.logger.Warn("Failed to close store", "error", err)
	}
	return flushErr
}
