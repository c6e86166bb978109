// Package metrics records lanwatch's operational metrics.
package metrics

//go:generate mockgen -source=interface.go -destination=mocks/mock_recorder.go -package=mocks

import "time"

// Recorder receives scan, registry and API measurements. Components depend
// on this interface so tests can pass Nop.
type Recorder interface {
	// ScanStarted marks a sweep of the given kind ("sweep" or "refresh") as active.
	ScanStarted(kind string)
	// ScanFinished records the outcome ("completed", "canceled", "failed").
	ScanFinished(kind, status string, duration time.Duration, devicesFound int)
	// HostProbed records one host pipeline.
	HostProbed(online bool, duration time.Duration)
	// PortsProbed records connect attempts on one host.
	PortsProbed(attempted, open int)
	// RegistrySize records the number of tracked and online devices.
	RegistrySize(total, online int)
	// SnapshotSaved records a persistence attempt.
	SnapshotSaved(backend string, duration time.Duration, err error)
	// HTTPRequest records an API request.
	HTTPRequest(method, path string, status int, duration time.Duration)
}

// Nop discards every measurement.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) ScanStarted(string) {}
func (Nop) ScanFinished(string, string, time.Duration, int) {}
func (Nop) HostProbed(bool, time.Duration) {}
func (Nop) PortsProbed(int, int) {}
func (Nop) RegistrySize(int, int) {}
func (Nop) SnapshotSaved(string, time.Duration, error) {}
func (Nop) HTTPRequest(string, string, int, time.Duration) {}
