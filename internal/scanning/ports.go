package scanning

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"
	"net"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anstrom/lanwatch/internal/device"
	"github.com/anstrom/lanwatch/internal/logging"
)

// DefaultBannerTimeout bounds the read after a successful connect.
const DefaultBannerTimeout = 500 * time.Millisecond

// PortScanner probes TCP ports on one host.
type PortScanner interface {
	// Scan connects to every port in ports and returns the open ones in
	// ascending order. Connect and banner failures are not reported.
	Scan(ctx context.Context, address string, ports []int, opts ScanOptions) []device.PortObservation
}

// Dialer opens TCP connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// TCPPortScanner is a connect() scanner with banner capture.
type TCPPortScanner struct {
	dialer        Dialer
	bannerTimeout time.Duration
	logger        *logging.Logger
}

// TCPPortScannerOption configures a TCPPortScanner.
type TCPPortScannerOption func(*TCPPortScanner)

// WithDialer replaces the default net.Dialer.
func WithDialer(d Dialer) TCPPortScannerOption {
	return func(s *TCPPortScanner) { s.dialer = d }
}

// WithBannerTimeout overrides DefaultBannerTimeout.
func WithBannerTimeout(d time.Duration) TCPPortScannerOption {
	return func(s *TCPPortScanner) { s.bannerTimeout = d }
}

// NewTCPPortScanner creates a port scanner.
func NewTCPPortScanner(logger *logging.Logger, opts ...TCPPortScannerOption) *TCPPortScanner {
	s := &TCPPortScanner{
		dialer:        &net.Dialer{},
		bannerTimeout: DefaultBannerTimeout,
		logger:        logger.WithComponent("ports"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ PortScanner = (*TCPPortScanner)(nil)

// Scan implements PortScanner. At most opts.PortConcurrency() connects are
// in flight for the host at any time.
func (s *TCPPortScanner) Scan(ctx context.Context, address string, ports []int, opts ScanOptions) []device.PortObservation {
	if len(ports) == 0 {
		return []device.PortObservation{}
	}

	results := make([]*device.PortObservation, len(ports))
	var g errgroup.Group
	g.SetLimit(opts.PortConcurrency())

	for i, port := range ports {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = s.probePort(ctx, address, port, opts.PortTimeout())
			return nil
		})
	}
	_ = g.Wait()

	open := make([]device.PortObservation, 0, len(ports))
	for _, r := range results {
		if r != nil {
			open = append(open, *r)
		}
	}
	slices.SortFunc(open, func(a, b device.PortObservation) int { return a.Port - b.Port })
	return open
}

// probePort returns nil when the port is closed, filtered or ctx ended.
func (s *TCPPortScanner) probePort(ctx context.Context, address string, port int, timeout time.Duration) *device.PortObservation {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := s.dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil
	}
	defer conn.Close()

	// Unblock a pending banner read when the sweep is canceled.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	obs := &device.PortObservation{
		Port:        port,
		ServiceName: ServiceName(port),
		Protocol:    device.ProtocolTCP,
		IsOpen:      true,
	}

	banner, err := captureBanner(conn, address, port, s.bannerTimeout)
	if err != nil {
		s.logger.DebugScan("banner capture failed", address, "port", port, "error", err)
	}
	obs.Banner = banner
	return obs
}
