package scanning

//go:generate mockgen -source=probe.go -destination=mocks/mock_probe.go -package=mocks

import (
	"context"
	"time"

	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/lookup"
)

// Prober determines whether one address is alive and describes it.
type Prober interface {
	// Probe returns the device with Online set. A host that does not answer
	// yields an error coded HOST_UNREACHABLE and no further work is done.
	Probe(ctx context.Context, address string, opts ScanOptions) (device.Device, error)
}

// HostnameResolver resolves reverse DNS names.
type HostnameResolver interface {
	LookupHostname(ctx context.Context, address string) (string, error)
}

// HardwareResolver maps an address to its hardware address.
type HardwareResolver interface {
	LookupHardwareAddress(address string) (string, error)
}

// VendorResolver maps a hardware address to its manufacturer.
type VendorResolver interface {
	LookupVendor(mac string) (lookup.Vendor, bool)
}

// SystemDescriber queries a host for a description of its operating system.
type SystemDescriber interface {
	DescribeSystem(ctx context.Context, address string) (string, error)
}

// HostProbe is the default Prober.
type HostProbe struct {
	pinger    Pinger
	hostnames HostnameResolver
	hardware  HardwareResolver
	vendors   VendorResolver
	describer SystemDescriber
	logger    *logging.Logger
	now       func() time.Time
}

// HostProbeOption configures a HostProbe.
type HostProbeOption func(*HostProbe)

// WithHostnameResolver sets the reverse DNS resolver.
func WithHostnameResolver(r HostnameResolver) HostProbeOption {
	return func(p *HostProbe) { p.hostnames = r }
}

// WithHardwareResolver sets the neighbor table lookup.
func WithHardwareResolver(r HardwareResolver) HostProbeOption {
	return func(p *HostProbe) { p.hardware = r }
}

// WithVendorResolver sets the OUI lookup.
func WithVendorResolver(r VendorResolver) HostProbeOption {
	return func(p *HostProbe) { p.vendors = r }
}

// WithSystemDescriber enables SNMP operating system enrichment.
func WithSystemDescriber(d SystemDescriber) HostProbeOption {
	return func(p *HostProbe) { p.describer = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) HostProbeOption {
	return func(p *HostProbe) { p.now = now }
}

// NewHostProbe creates a probe around pinger. Resolvers left unset are
// skipped and their fields stay Unknown.
func NewHostProbe(pinger Pinger, logger *logging.Logger, opts ...HostProbeOption) *HostProbe {
	p := &HostProbe{
		pinger: pinger,
		logger: logger.WithComponent("probe"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ Prober = (*HostProbe)(nil)

// Probe implements Prober.
func (p *HostProbe) Probe(ctx context.Context, address string, opts ScanOptions) (device.Device, error) {
	d := device.New(address)

	res, err := p.pinger.Ping(ctx, address, opts.PingTimeout())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return d, lwerrors.ErrScanCanceled(ctxErr)
		}
		unreachable := lwerrors.ErrHostUnreachable(address)
		unreachable.Cause = err
		return d, unreachable
	}

	d.Online = true
	d.LastSeen = p.now()
	d.ResponseTimeMs = res.RTT.Milliseconds()
	d.TTL = res.TTL

	p.resolveNames(ctx, &d)
	return d, nil
}

// resolveNames fills the best-effort fields. Failures leave the sentinel.
func (p *HostProbe) resolveNames(ctx context.Context, d *device.Device) {
	if p.hostnames != nil {
		if name, err := p.hostnames.LookupHostname(ctx, d.Address); err == nil && name != "" {
			d.Hostname = name
		} else if err != nil {
			p.logger.DebugScan("hostname lookup failed", d.Address, "error", err)
		}
	}

	if p.hardware != nil {
		if mac, err := p.hardware.LookupHardwareAddress(d.Address); err == nil && mac != "" {
			d.HardwareAddress = mac
		} else if err != nil {
			p.logger.DebugScan("hardware address lookup failed", d.Address, "error", err)
		}
	}

	if p.vendors != nil && d.HardwareAddress != device.Unknown {
		if v, ok := p.vendors.LookupVendor(d.HardwareAddress); ok {
			d.Manufacturer = v.Name
			if v.Virtual {
				d.ConnectionType = "Virtual"
			}
		}
	}

	if p.describer != nil {
		if descr, err := p.describer.DescribeSystem(ctx, d.Address); err == nil && descr != "" {
			d.OperatingSystem = descr
		}
	}
}
