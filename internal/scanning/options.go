package scanning

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	lwerrors "github.com/anstrom/lanwatch/internal/errors"
)

// Defaults for a sweep.
const (
	DefaultRange              = "192.168.1"
	DefaultStartAddress       = 1
	DefaultEndAddress         = 254
	DefaultPingTimeoutMs      = 1000
	DefaultPortTimeoutMs      = 500
	DefaultMaxParallelScans   = 50
	DefaultMaxPortConcurrency = 64
)

// ScanOptions controls one sweep. A value is treated as immutable once a
// scan has started.
type ScanOptions struct {
	// Range is a loose address prefix such as "192.168.1" or "10.0".
	Range string `yaml:"range" json:"range" mapstructure:"range"`
	// StartAddress and EndAddress bound the host part of each subnet.
	StartAddress int `yaml:"start_address" json:"startAddress" mapstructure:"start_address" validate:"min=0,max=255"`
	EndAddress   int `yaml:"end_address" json:"endAddress" mapstructure:"end_address" validate:"min=0,max=255,gtefield=StartAddress"`
	// PingTimeoutMs bounds the ICMP echo wait.
	PingTimeoutMs int `yaml:"ping_timeout_ms" json:"pingTimeoutMs" mapstructure:"ping_timeout_ms" validate:"min=1,max=60000"`
	// PortTimeoutMs bounds each TCP connect.
	PortTimeoutMs int `yaml:"port_timeout_ms" json:"portTimeoutMs" mapstructure:"port_timeout_ms" validate:"min=1,max=60000"`
	// MaxParallelScans caps concurrently probed hosts.
	MaxParallelScans int `yaml:"max_parallel_scans" json:"maxParallelScans" mapstructure:"max_parallel_scans" validate:"min=1,max=1024"`
	// MaxPortConcurrency caps concurrent connects to a single host.
	MaxPortConcurrency int `yaml:"max_port_concurrency" json:"maxPortConcurrency" mapstructure:"max_port_concurrency" validate:"min=0,max=1024"`
	// ScanPorts enables the port scanner.
	ScanPorts bool `yaml:"scan_ports" json:"scanPorts" mapstructure:"scan_ports"`
	// QuickScan selects CommonPorts instead of ExtendedPorts.
	QuickScan bool `yaml:"quick_scan" json:"quickScan" mapstructure:"quick_scan"`
	// CustomPorts overrides the QuickScan selection when non-empty.
	CustomPorts []int `yaml:"custom_ports" json:"customPorts" mapstructure:"custom_ports" validate:"dive,min=1,max=65535"`
}

// DefaultOptions returns the options used when the caller sets nothing.
func DefaultOptions() ScanOptions {
	return ScanOptions{
		Range:              DefaultRange,
		StartAddress:       DefaultStartAddress,
		EndAddress:         DefaultEndAddress,
		PingTimeoutMs:      DefaultPingTimeoutMs,
		PortTimeoutMs:      DefaultPortTimeoutMs,
		MaxParallelScans:   DefaultMaxParallelScans,
		MaxPortConcurrency: DefaultMaxPortConcurrency,
		ScanPorts:          true,
		QuickScan:          true,
		CustomPorts:        []int{},
	}
}

// PingTimeout returns PingTimeoutMs as a duration.
func (o ScanOptions) PingTimeout() time.Duration {
	return time.Duration(o.PingTimeoutMs) * time.Millisecond
}

// PortTimeout returns PortTimeoutMs as a duration.
func (o ScanOptions) PortTimeout() time.Duration {
	return time.Duration(o.PortTimeoutMs) * time.Millisecond
}

// PortConcurrency returns the per-host connect cap, falling back to the default.
func (o ScanOptions) PortConcurrency() int {
	if o.MaxPortConcurrency <= 0 {
		return DefaultMaxPortConcurrency
	}
	return o.MaxPortConcurrency
}

// Normalized returns a copy with the range cleaned up.
func (o ScanOptions) Normalized() ScanOptions {
	o.Range = NormalizeRange(o.Range)
	if o.CustomPorts == nil {
		o.CustomPorts = []int{}
	}
	return o
}

var validate = validator.New()

// Validate checks option bounds.
func (o ScanOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return lwerrors.WrapConfigError(lwerrors.CodeValidation,
			fmt.Sprintf("invalid scan options for range %q", o.Range), err)
	}
	return nil
}
