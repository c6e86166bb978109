// Package classify derives a device's category, risk posture, uptime trend
// and operating system hint from what a scan observed. Everything here is a
// pure function of its inputs.
package classify

import (
	"strings"

	"github.com/anstrom/lanwatch/internal/device"
)

type portSet map[int]struct{}

func newPortSet(ports []int) portSet {
	s := make(portSet, len(ports))
	for _, p := range ports {
		s[p] = struct{}{}
	}
	return s
}

func (s portSet) any(ports ...int) bool {
	for _, p := range ports {
		if _, ok := s[p]; ok {
			return true
		}
	}
	return false
}

func (s portSet) all(ports ...int) bool {
	for _, p := range ports {
		if _, ok := s[p]; !ok {
			return false
		}
	}
	return true
}

// rule matches a port set to a device type.
type rule struct {
	deviceType device.DeviceType
	match      func(portSet) bool
}

// rules are evaluated in order and the first match wins. A printer with an
// embedded web UI must stay a printer, so the order is significant.
var rules = []rule{
	{device.TypePrinter, func(s portSet) bool { return s.any(9100, 515, 631) }},
	{device.TypeCamera, func(s portSet) bool { return s.any(554) && s.any(80, 8080) }},
	{device.TypeMediaServer, func(s portSet) bool { return s.any(32400, 8096) }},
	{device.TypeSmartHome, func(s portSet) bool { return s.any(1883, 8883) }},
	{device.TypeDatabaseServer, func(s portSet) bool { return s.any(3306, 5432, 1433, 27017) }},
	{device.TypeMailServer, func(s portSet) bool { return s.any(25, 465, 587, 143) }},
	{device.TypeFileServer, func(s portSet) bool { return s.all(445, 139) }},
	{device.TypeComputer, func(s portSet) bool { return s.any(3389, 5900) }},
	{device.TypeRouter, func(s portSet) bool { return s.all(80, 53) }},
	{device.TypePhone, func(s portSet) bool { return s.any(62078, 5353) }},
	{device.TypeSmartTV, func(s portSet) bool { return s.all(8008, 8443) }},
	{device.TypeWebServer, func(s portSet) bool { return s.any(80, 443, 8080) }},
}

// DeviceType returns the category for a set of open ports.
func DeviceType(ports []int) device.DeviceType {
	s := newPortSet(ports)
	for _, r := range rules {
		if r.match(s) {
			return r.deviceType
		}
	}
	return device.TypeUnknown
}

// GuessOS returns a coarse operating system hint. Banner keywords take
// precedence over the initial-TTL heuristic.
func GuessOS(ttl int, banners []string) string {
	for _, b := range banners {
		lower := strings.ToLower(b)
		switch {
		case strings.Contains(lower, "ubuntu"):
			return "Linux (Ubuntu)"
		case strings.Contains(lower, "debian"):
			return "Linux (Debian)"
		case strings.Contains(lower, "raspbian"):
			return "Linux (Raspbian)"
		case strings.Contains(lower, "microsoft") || strings.Contains(lower, "windows"):
			return "Windows"
		case strings.Contains(lower, "freebsd"):
			return "FreeBSD"
		case strings.Contains(lower, "linux"):
			return "Linux"
		}
	}

	switch {
	case ttl <= 0:
		return device.Unknown
	case ttl <= 64:
		return "Linux/Unix"
	case ttl <= 128:
		return "Windows"
	default:
		return "Network Device"
	}
}

// Classify fills the derived fields of d from its open ports, TTL and
// banners. An operating system set by an earlier enrichment is kept.
func Classify(d *device.Device) {
	ports := d.PortNumbers()
	d.DeviceType = DeviceType(ports)
	d.RiskLevel = RiskLevelFor(RiskScore(ports))
	if d.OperatingSystem == "" || d.OperatingSystem == device.Unknown {
		d.OperatingSystem = GuessOS(d.TTL, d.Banners())
	}
}
