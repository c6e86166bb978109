package scanning

import (
	"sync"
	"sync/atomic"
	"time"
)

// Progress is a point-in-time view of a sweep.
type Progress struct {
	ScanID           string    `json:"scanId"`
	TotalAddresses   int       `json:"totalAddresses"`
	ScannedAddresses int       `json:"scannedAddresses"`
	DevicesFound     int       `json:"devicesFound"`
	PortsScanned     int       `json:"portsScanned"`
	CurrentAction    string    `json:"currentAction"`
	CurrentAddress   string    `json:"currentAddress"`
	Scanning         bool      `json:"scanning"`
	StartTime        time.Time `json:"startTime"`
}

// Percent returns the completed share of the sweep in [0,100].
func (p Progress) Percent() float64 {
	if p.TotalAddresses <= 0 {
		return 0
	}
	return float64(p.ScannedAddresses) / float64(p.TotalAddresses) * 100
}

// Elapsed returns the time since the sweep started.
func (p Progress) Elapsed(now time.Time) time.Duration {
	if p.StartTime.IsZero() {
		return 0
	}
	return now.Sub(p.StartTime)
}

// Tracker accumulates progress from many workers. Counters are atomic; the
// descriptive fields are guarded by a mutex.
type Tracker struct {
	scanned atomic.Int64
	found   atomic.Int64
	ports   atomic.Int64

	mu       sync.Mutex
	scanID   string
	total    int
	action   string
	current  string
	scanning bool
	start    time.Time
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin resets the tracker for a new sweep.
func (t *Tracker) Begin(scanID string, total int, start time.Time) {
	t.scanned.Store(0)
	t.found.Store(0)
	t.ports.Store(0)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.scanID = scanID
	t.total = total
	t.start = start
	t.scanning = true
	t.action = "Scanning"
	t.current = ""
}

// HostScanned records a completed host pipeline.
func (t *Tracker) HostScanned(address string) {
	t.scanned.Add(1)
	t.mu.Lock()
	t.current = address
	t.mu.Unlock()
}

// DeviceFound records an online host and the number of ports probed on it.
func (t *Tracker) DeviceFound(portsProbed int) {
	t.found.Add(1)
	t.ports.Add(int64(portsProbed))
}

// SetAction updates the human-readable action.
func (t *Tracker) SetAction(action string) {
	t.mu.Lock()
	t.action = action
	t.mu.Unlock()
}

// Finish marks the sweep as no longer running.
func (t *Tracker) Finish(action string) {
	t.mu.Lock()
	t.scanning = false
	t.action = action
	t.mu.Unlock()
}

// Snapshot returns the current progress.
func (t *Tracker) Snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Progress{
		ScanID:           t.scanID,
		TotalAddresses:   t.total,
		ScannedAddresses: int(t.scanned.Load()),
		DevicesFound:     int(t.found.Load()),
		PortsScanned:     int(t.ports.Load()),
		CurrentAction:    t.action,
		CurrentAddress:   t.current,
		Scanning:         t.scanning,
		StartTime:        t.start,
	}
}
