// Package scheduler runs the periodic background refresh of known devices.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anstrom/lanwatch/internal/coordinator"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
)

// Defaults for the background refresh.
const (
	DefaultInterval     = 30 * time.Second
	DefaultInitialDelay = 10 * time.Second
)

// RefreshRunner is the engine surface the refresher drives.
// *coordinator.Coordinator implements it.
type RefreshRunner interface {
	IsScanning() bool
	RefreshKnownDevices(ctx context.Context) (coordinator.RefreshSummary, error)
}

// Config controls the refresh cadence.
type Config struct {
	Enabled      bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Interval     time.Duration `yaml:"interval" json:"interval" mapstructure:"interval"`
	InitialDelay time.Duration `yaml:"initial_delay" json:"initial_delay" mapstructure:"initial_delay"`
}

// DefaultConfig returns the stock cadence.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Interval:     DefaultInterval,
		InitialDelay: DefaultInitialDelay,
	}
}

// Status describes the refresher for health reporting.
type Status struct {
	Running     bool                       `json:"running"`
	Refreshing  bool                       `json:"refreshing"`
	LastRun     time.Time                  `json:"last_run,omitempty"`
	NextRun     time.Time                  `json:"next_run,omitempty"`
	LastSummary coordinator.RefreshSummary `json:"last_summary"`
	LastError   string                     `json:"last_error,omitempty"`
}

// Refresher triggers RefreshKnownDevices on a cron schedule. A run is
// skipped while a sweep is active or the previous refresh is still going.
type Refresher struct {
	cfg    Config
	runner RefreshRunner
	logger *logging.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	delay   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	running bool

	busy atomic.Bool

	statusMu    sync.Mutex
	lastRun     time.Time
	lastSummary coordinator.RefreshSummary
	lastErr     error
}

// NewRefresher creates a stopped refresher.
func NewRefresher(cfg Config, runner RefreshRunner, logger *logging.Logger) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.InitialDelay < 0 {
		cfg.InitialDelay = 0
	}
	return &Refresher{
		cfg:    cfg,
		runner: runner,
		logger: logger.WithComponent("refresher"),
	}
}

// Spec returns the cron schedule expression.
func (r *Refresher) Spec() string {
	return fmt.Sprintf("@every %s", r.cfg.Interval)
}

// Start schedules the first run after InitialDelay and then every Interval.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("refresher is already running")
	}
	if !r.cfg.Enabled {
		r.logger.InfoRefresh("background refresh disabled")
		return nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cronLogger{r.logger})))
	entry, err := c.AddFunc(r.Spec(), r.RunNow)
	if err != nil {
		return lwerrors.WrapConfigError(lwerrors.CodeConfiguration, "invalid refresh schedule", err)
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.cron = c
	r.entry = entry
	r.delay = time.AfterFunc(r.cfg.InitialDelay, r.RunNow)
	c.Start()
	r.running = true

	r.logger.InfoRefresh("background refresh scheduled",
		"schedule", r.Spec(),
		"initial_delay", r.cfg.InitialDelay)
	return nil
}

// Stop cancels any refresh in progress and stops scheduling. The returned
// context is done once running jobs have returned.
func (r *Refresher) Stop() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	r.delay.Stop()
	r.cancel()
	r.running = false
	r.logger.InfoRefresh("background refresh stopped")
	return r.cron.Stop()
}

// RunNow performs one refresh pass unless one is already running or a
// sweep is active.
func (r *Refresher) RunNow() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return
	}

	if r.runner.IsScanning() {
		r.logger.Debug("refresh skipped, a scan is running")
		return
	}
	if !r.busy.CompareAndSwap(false, true) {
		r.logger.Debug("refresh skipped, previous refresh still running")
		return
	}
	defer r.busy.Store(false)

	summary, err := r.runner.RefreshKnownDevices(ctx)
	if err != nil && !lwerrors.IsCode(err, lwerrors.CodeScanInProgress) && !lwerrors.IsCode(err, lwerrors.CodeCanceled) {
		r.logger.Error("background refresh failed", "error", err)
	}

	r.statusMu.Lock()
	r.lastRun = time.Now()
	r.lastSummary = summary
	r.lastErr = err
	r.statusMu.Unlock()
}

// Status reports the last run and the next scheduled one.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	st := Status{Running: r.running}
	if r.running {
		st.NextRun = r.cron.Entry(r.entry).Next
	}
	r.mu.Unlock()

	st.Refreshing = r.busy.Load()
	r.statusMu.Lock()
	st.LastRun = r.lastRun
	st.LastSummary = r.lastSummary
	if r.lastErr != nil {
		st.LastError = r.lastErr.Error()
	}
	r.statusMu.Unlock()
	return st
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
