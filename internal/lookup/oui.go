package lookup

import "strings"

// Vendor describes the organisation behind an OUI prefix.
type Vendor struct {
	Name    string
	Virtual bool
}

// OUITable is a small built-in vendor table keyed by the first three bytes
// of a hardware address. It is not meant to be authoritative.
type OUITable struct {
	entries map[string]Vendor
}

var builtinOUI = map[string]Vendor{
	"DC:A6:32": {Name: "Raspberry Pi"},
	"B8:27:EB": {Name: "Raspberry Pi"},
	"E4:5F:01": {Name: "Raspberry Pi"},
	"00:50:56": {Name: "VMware", Virtual: true},
	"00:0C:29": {Name: "VMware", Virtual: true},
	"00:05:69": {Name: "VMware", Virtual: true},
	"52:54:00": {Name: "QEMU/KVM", Virtual: true},
	"08:00:27": {Name: "VirtualBox", Virtual: true},
	"00:15:5D": {Name: "Hyper-V", Virtual: true},
	"02:42:AC": {Name: "Docker", Virtual: true},
	"24:8D:76": {Name: "Espressif"},
	"84:F3:EB": {Name: "Espressif"},
	"24:0A:C4": {Name: "Espressif"},
	"00:11:32": {Name: "Synology"},
	"00:17:88": {Name: "Philips Hue"},
	"F0:9F:C2": {Name: "Ubiquiti"},
	"FC:EC:DA": {Name: "Ubiquiti"},
	"B0:BE:76": {Name: "TP-Link"},
	"50:C7:BF": {Name: "TP-Link"},
	"3C:84:6A": {Name: "TP-Link"},
	"00:1A:11": {Name: "Google"},
	"F4:F5:D8": {Name: "Google"},
	"44:07:0B": {Name: "Google"},
	"18:B4:30": {Name: "Nest Labs"},
	"FC:65:DE": {Name: "Amazon"},
	"68:54:FD": {Name: "Amazon"},
	"00:1E:C2": {Name: "Apple"},
	"3C:22:FB": {Name: "Apple"},
	"F0:18:98": {Name: "Apple"},
	"00:1B:63": {Name: "Apple"},
	"8C:85:90": {Name: "Apple"},
	"00:12:FB": {Name: "Samsung"},
	"3C:D9:2B": {Name: "Hewlett Packard"},
	"00:1E:0B": {Name: "Hewlett Packard"},
	"00:00:48": {Name: "Seiko Epson"},
	"00:80:77": {Name: "Brother"},
	"00:00:85": {Name: "Canon"},
	"74:AC:B9": {Name: "Ubiquiti"},
	"38:10:D5": {Name: "AVM"},
	"00:0E:58": {Name: "Sonos"},
	"48:A6:B8": {Name: "Sonos"},
	"B8:E9:37": {Name: "Sonos"},
	"00:17:F2": {Name: "Apple"},
	"A4:77:33": {Name: "Google"},
	"00:1C:B3": {Name: "Apple"},
	"00:0F:B5": {Name: "Netgear"},
	"A0:40:A0": {Name: "Netgear"},
	"00:14:6C": {Name: "Netgear"},
	"C0:56:27": {Name: "Belkin"},
	"EC:1A:59": {Name: "Belkin"},
	"00:26:B9": {Name: "Dell"},
	"F8:BC:12": {Name: "Dell"},
	"00:21:5A": {Name: "Hewlett Packard"},
	"3C:5A:B4": {Name: "Google"},
	"00:1D:D8": {Name: "Microsoft"},
	"7C:1E:52": {Name: "Microsoft"},
	"00:25:AE": {Name: "Microsoft"},
	"00:09:BF": {Name: "Nintendo"},
	"98:B6:E9": {Name: "Nintendo"},
	"00:D9:D1": {Name: "Sony Interactive"},
	"70:9E:29": {Name: "Sony Interactive"},
}

// NewOUITable returns the built-in table with extra entries merged over it.
func NewOUITable(extra map[string]Vendor) *OUITable {
	entries := make(map[string]Vendor, len(builtinOUI)+len(extra))
	for k, v := range builtinOUI {
		entries[k] = v
	}
	for k, v := range extra {
		entries[normalizePrefix(k)] = v
	}
	return &OUITable{entries: entries}
}

// LookupVendor returns the vendor for a hardware address.
func (t *OUITable) LookupVendor(mac string) (Vendor, bool) {
	v, ok := t.entries[normalizePrefix(mac)]
	return v, ok
}

// normalizePrefix turns "dc-a6-32-xx" or "dca632..." into "DC:A6:32".
func normalizePrefix(mac string) string {
	hex := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'F':
			return r
		case r >= 'a' && r <= 'f':
			return r - 'a' + 'A'
		default:
			return -1
		}
	}, mac)
	if len(hex) < 6 {
		return ""
	}
	return hex[0:2] + ":" + hex[2:4] + ":" + hex[4:6]
}
