// Package registry holds every device lanwatch has ever seen, reconciles new
// scan observations with that history and persists it as a snapshot.
package registry

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/metrics"
)

const (
	// DefaultSaveDebounce is the coalescing window for snapshot writes.
	DefaultSaveDebounce = 500 * time.Millisecond

	// saveMaxWaitFactor bounds how long a steady stream of mutations can
	// postpone a save, as a multiple of the debounce window.
	saveMaxWaitFactor = 4

	debouncedSaveTimeout = 10 * time.Second
	flushMaxRetries      = 3
)

// Listener receives the full, sorted device list after every mutation.
type Listener func([]device.Device)

// Registry is the authoritative device table. Mutations are serialized by a
// mutex that is never held across I/O or listener calls. Snapshot writes are
// serialized separately so a debounced save and a flush never interleave.
type Registry struct {
	mu      sync.Mutex
	devices map[string]*device.Device

	subMu     sync.Mutex
	nextSubID uint64
	listeners map[uint64]Listener

	store    Store
	debounce time.Duration
	timerMu  sync.Mutex
	timer    *time.Timer
	pending  time.Time
	closed   bool
	saveMu   sync.Mutex

	metrics metrics.Recorder
	logger  *logging.Logger
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore enables persistence. Without a store the registry is memory only.
func WithStore(s Store) Option {
	return func(r *Registry) { r.store = s }
}

// WithSaveDebounce overrides DefaultSaveDebounce.
func WithSaveDebounce(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// WithMetrics records registry size and snapshot writes.
func WithMetrics(m metrics.Recorder) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New returns an empty registry.
func New(logger *logging.Logger, opts ...Option) *Registry {
	r := &Registry{
		devices:   make(map[string]*device.Device),
		listeners: make(map[uint64]Listener),
		debounce:  DefaultSaveDebounce,
		metrics:   metrics.Nop{},
		logger:    logger.WithComponent("registry"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddOrUpdate merges one observation. An existing record keeps its first
// discovery time and history and has its discovery count incremented; every
// scan-derived field is replaced.
func (r *Registry) AddOrUpdate(d device.Device) {
	r.mu.Lock()
	r.addOrUpdateLocked(d)
	list := r.listLocked()
	r.mu.Unlock()

	r.changed(list)
}

// UpdateDevices merges a full sweep. Known addresses missing from batch are
// marked offline but kept.
func (r *Registry) UpdateDevices(batch []device.Device) {
	r.mu.Lock()
	seen := make(map[string]struct{}, len(batch))
	for _, d := range batch {
		r.addOrUpdateLocked(d)
		seen[d.Address] = struct{}{}
	}
	for addr, d := range r.devices {
		if _, ok := seen[addr]; !ok {
			d.Online = false
		}
	}
	list := r.listLocked()
	r.mu.Unlock()

	r.changed(list)
}

// MergeDevices applies incremental observations. Existing records only have
// their live state refreshed; descriptive fields such as manufacturer and
// operating system are kept. New addresses are inserted as by AddOrUpdate.
func (r *Registry) MergeDevices(batch []device.Device) {
	r.mu.Lock()
	for _, d := range batch {
		existing, ok := r.devices[d.Address]
		if !ok {
			r.addOrUpdateLocked(d)
			continue
		}
		existing.Online = d.Online
		existing.LastSeen = d.LastSeen
		existing.ResponseTimeMs = d.ResponseTimeMs
		existing.Hostname = d.Hostname
		existing.HardwareAddress = d.HardwareAddress
		existing.OpenPorts = slices.Clone(d.OpenPorts)
		existing.DeviceType = d.DeviceType
		existing.RiskLevel = d.RiskLevel
		existing.TTL = d.TTL
		existing.DiscoveryCount++
		if d.Online {
			existing.RecordOnline(r.seenAt(d))
		}
	}
	list := r.listLocked()
	r.mu.Unlock()

	r.changed(list)
}

// MarkOffline flips address to offline. It reports whether the address is
// known.
func (r *Registry) MarkOffline(address string) bool {
	r.mu.Lock()
	d, ok := r.devices[address]
	if !ok {
		r.mu.Unlock()
		return false
	}
	d.Online = false
	list := r.listLocked()
	r.mu.Unlock()

	r.changed(list)
	return true
}

// Clear removes every record.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.devices = make(map[string]*device.Device)
	r.mu.Unlock()

	r.changed([]device.Device{})
}

// All returns a sorted deep copy of every record.
func (r *Registry) All() []device.Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked()
}

// Addresses returns the known addresses in registry order.
func (r *Registry) Addresses() []string {
	list := r.All()
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Address
	}
	return out
}

// Get returns a copy of the record for address.
func (r *Registry) Get(address string) (device.Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[address]
	if !ok {
		return device.Device{}, false
	}
	return d.Clone(), true
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// Subscribe registers fn for future mutations and returns a function that
// removes it. Past mutations are not replayed.
func (r *Registry) Subscribe(fn Listener) func() {
	r.subMu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.listeners[id] = fn
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.listeners, id)
			r.subMu.Unlock()
		})
	}
}

// Load restores the persisted snapshot, replacing the in-memory table. Every
// restored record is marked offline until a scan sees it again. A missing
// snapshot leaves the registry empty and is not an error.
func (r *Registry) Load(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	snap, err := r.store.Load(ctx)
	if err != nil {
		r.logger.ErrorRegistry("failed to load snapshot", err, "backend", r.store.Name())
		return 0, err
	}
	if snap == nil {
		r.logger.InfoRegistry("no snapshot found, starting empty", "backend", r.store.Name())
		return 0, nil
	}

	restored := make(map[string]*device.Device, len(snap.Devices))
	for _, d := range snap.Devices {
		c := d.Clone()
		c.Online = false
		if c.OpenPorts == nil {
			c.OpenPorts = []device.PortObservation{}
		}
		if c.OnlineHistory == nil {
			c.OnlineHistory = []time.Time{}
		}
		restored[c.Address] = &c
	}

	r.mu.Lock()
	r.devices = restored
	list := r.listLocked()
	r.mu.Unlock()

	r.logger.InfoRegistry("snapshot loaded",
		"backend", r.store.Name(),
		"devices", len(list),
		"last_updated", snap.LastUpdated)
	r.notify(list)
	r.recordSize(list)
	return len(list), nil
}

// Flush cancels any pending debounced save and writes the snapshot now,
// retrying transient failures with exponential backoff.
func (r *Registry) Flush(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	r.stopTimer()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(b, flushMaxRetries), ctx)

	return backoff.Retry(func() error {
		err := r.save(ctx)
		if err != nil && lwerrors.IsFatal(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

// Close stops scheduling saves and flushes the current state.
func (r *Registry) Close(ctx context.Context) error {
	r.timerMu.Lock()
	r.closed = true
	r.timerMu.Unlock()
	return r.Flush(ctx)
}

// Snapshot returns the persisted form of the current state.
func (r *Registry) Snapshot() *Snapshot {
	return &Snapshot{
		LastUpdated: r.now(),
		Devices:     r.All(),
	}
}

func (r *Registry) addOrUpdateLocked(d device.Device) {
	next := d.Clone()
	if prev, ok := r.devices[d.Address]; ok {
		next.FirstDiscovered = prev.FirstDiscovered
		next.DiscoveryCount = prev.DiscoveryCount + 1
		next.OnlineHistory = slices.Clone(prev.OnlineHistory)
	} else {
		next.FirstDiscovered = r.now()
		next.DiscoveryCount = 1
	}
	if next.OnlineHistory == nil {
		next.OnlineHistory = []time.Time{}
	}
	if next.OpenPorts == nil {
		next.OpenPorts = []device.PortObservation{}
	}
	if next.Online {
		next.RecordOnline(r.seenAt(next))
	}
	r.devices[d.Address] = &next
}

func (r *Registry) seenAt(d device.Device) time.Time {
	if d.LastSeen.IsZero() {
		return r.now()
	}
	return d.LastSeen
}

func (r *Registry) listLocked() []device.Device {
	list := make([]device.Device, 0, len(r.devices))
	for _, d := range r.devices {
		list = append(list, d.Clone())
	}
	device.Sort(list)
	return list
}

// changed runs the post-mutation work outside the map lock.
func (r *Registry) changed(list []device.Device) {
	r.recordSize(list)
	r.notify(list)
	r.scheduleSave()
}

func (r *Registry) recordSize(list []device.Device) {
	online := 0
	for _, d := range list {
		if d.Online {
			online++
		}
	}
	r.metrics.RegistrySize(len(list), online)
}

func (r *Registry) notify(list []device.Device) {
	r.subMu.Lock()
	ids := make([]uint64, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.listeners[id])
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		out := make([]device.Device, len(list))
		for i, d := range list {
			out[i] = d.Clone()
		}
		fn(out)
	}
}

func (r *Registry) scheduleSave() {
	if r.store == nil {
		return
	}
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.closed {
		return
	}

	now := time.Now()
	if r.pending.IsZero() {
		r.pending = now
	}
	delay := r.debounce
	if left := r.pending.Add(saveMaxWaitFactor * r.debounce).Sub(now); left < delay {
		delay = max(left, 0)
	}

	if r.timer == nil {
		r.timer = time.AfterFunc(delay, r.debouncedSave)
		return
	}
	r.timer.Reset(delay)
}

func (r *Registry) stopTimer() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.pending = time.Time{}
}

func (r *Registry) debouncedSave() {
	r.timerMu.Lock()
	r.pending = time.Time{}
	r.timerMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), debouncedSaveTimeout)
	defer cancel()
	if err := r.save(ctx); err != nil {
		r.logger.ErrorRegistry("snapshot save failed, will retry on next change", err,
			"backend", r.store.Name())
	}
}

// save writes one snapshot. The state is captured under the write gate so
// a later save never persists older data than an earlier one.
func (r *Registry) save(ctx context.Context) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	snap := r.Snapshot()
	start := time.Now()
	err := r.store.Save(ctx, snap)
	r.metrics.SnapshotSaved(r.store.Name(), time.Since(start), err)
	if err != nil {
		return err
	}
	r.logger.Debug("snapshot saved", "backend", r.store.Name(), "devices", len(snap.Devices))
	return nil
}
