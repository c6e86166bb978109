package lookup

import (
	"context"
	"net"
	"slices"
	"strings"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// FallbackRange is returned when no usable interface is found.
const FallbackRange = "192.168.1"

// LocalRangeHint returns the first three octets of the first up,
// non-loopback interface carrying a private IPv4 address.
func LocalRangeHint(ctx context.Context) string {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return FallbackRange
	}
	return rangeFromInterfaces(ifaces)
}

func rangeFromInterfaces(ifaces psnet.InterfaceStatList) string {
	var public string
	for _, iface := range ifaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		for _, addr := range iface.Addrs {
			ip := parseInterfaceAddr(addr.Addr)
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			prefix := threeOctets(ip)
			if ip.IsPrivate() {
				return prefix
			}
			if public == "" {
				public = prefix
			}
		}
	}
	if public != "" {
		return public
	}
	return FallbackRange
}

// parseInterfaceAddr accepts "10.0.0.4/24" or a bare address and returns
// the IPv4 form, or nil.
func parseInterfaceAddr(s string) net.IP {
	host, _, _ := strings.Cut(s, "/")
	ip := net.ParseIP(host)
	if ip == nil {
		return nil
	}
	return ip.To4()
}

func threeOctets(ip net.IP) string {
	full := ip.String()
	return full[:strings.LastIndexByte(full, '.')]
}
