// Package device defines the records lanwatch keeps about hosts on the
// local network.
package device

import (
	"slices"
	"time"
)

// Unknown is the sentinel used for fields that could not be resolved.
const Unknown = "Unknown"

// ProtocolTCP is the only protocol the port scanner probes.
const ProtocolTCP = "TCP"

// MaxOnlineHistory caps the rolling list of online sightings per device.
const MaxOnlineHistory = 20

// DeviceType is the heuristic category assigned from a device's open ports.
type DeviceType string

const (
	TypeUnknown        DeviceType = "Unknown"
	TypeRouter         DeviceType = "Router"
	TypeWebServer      DeviceType = "WebServer"
	TypePrinter        DeviceType = "Printer"
	TypeCamera         DeviceType = "Camera"
	TypeFileServer     DeviceType = "FileServer"
	TypeSmartTV        DeviceType = "SmartTV"
	TypeSmartHome      DeviceType = "SmartHome"
	TypeGameConsole    DeviceType = "GameConsole"
	TypePhone          DeviceType = "Phone"
	TypeComputer       DeviceType = "Computer"
	TypeIoTDevice      DeviceType = "IoTDevice"
	TypeDatabaseServer DeviceType = "DatabaseServer"
	TypeMailServer     DeviceType = "MailServer"
	TypeMediaServer    DeviceType = "MediaServer"
)

var typeIcons = map[DeviceType]string{
	TypeRouter:         "🌐",
	TypeWebServer:      "🖥️",
	TypePrinter:        "🖨️",
	TypeCamera:         "📷",
	TypeFileServer:     "📁",
	TypeSmartTV:        "📺",
	TypeSmartHome:      "🏠",
	TypeGameConsole:    "🎮",
	TypePhone:          "📱",
	TypeComputer:       "💻",
	TypeIoTDevice:      "🔌",
	TypeDatabaseServer: "🗄️",
	TypeMailServer:     "📧",
	TypeMediaServer:    "🎬",
}

// Icon returns a glyph for terminal listings.
func (t DeviceType) Icon() string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "❓"
}

// RiskLevel is the banded severity derived from a device's risk score.
type RiskLevel string

const (
	RiskUnknown  RiskLevel = "Unknown"
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// PortObservation is a single open TCP port seen on a device.
type PortObservation struct {
	Port        int    `json:"port"`
	ServiceName string `json:"serviceName"`
	Protocol    string `json:"protocol"`
	IsOpen      bool   `json:"isOpen"`
	Banner      string `json:"banner"`
}

// Device is everything known about one address. Address is the identity key.
type Device struct {
	Address         string            `json:"address"`
	Hostname        string            `json:"hostname"`
	HardwareAddress string            `json:"hardwareAddress"`
	Online          bool              `json:"online"`
	LastSeen        time.Time         `json:"lastSeen"`
	FirstDiscovered time.Time         `json:"firstDiscovered"`
	DiscoveryCount  int               `json:"discoveryCount"`
	ResponseTimeMs  int64             `json:"responseTimeMs"`
	OpenPorts       []PortObservation `json:"openPorts"`
	DeviceType      DeviceType        `json:"deviceType"`
	Manufacturer    string            `json:"manufacturer"`
	OperatingSystem string            `json:"operatingSystem"`
	ConnectionType  string            `json:"connectionType"`
	RiskLevel       RiskLevel         `json:"riskLevel"`
	OnlineHistory   []time.Time       `json:"onlineHistory"`
	TTL             int               `json:"ttl"`
}

// New returns an offline device for address with every descriptive field
// set to its sentinel.
func New(address string) Device {
	return Device{
		Address:         address,
		Hostname:        Unknown,
		HardwareAddress: Unknown,
		DeviceType:      TypeUnknown,
		Manufacturer:    Unknown,
		OperatingSystem: Unknown,
		ConnectionType:  Unknown,
		RiskLevel:       RiskUnknown,
		OpenPorts:       []PortObservation{},
		OnlineHistory:   []time.Time{},
	}
}

// Clone returns a deep copy of d.
func (d Device) Clone() Device {
	c := d
	c.OpenPorts = slices.Clone(d.OpenPorts)
	c.OnlineHistory = slices.Clone(d.OnlineHistory)
	if c.OpenPorts == nil {
		c.OpenPorts = []PortObservation{}
	}
	if c.OnlineHistory == nil {
		c.OnlineHistory = []time.Time{}
	}
	return c
}

// PortNumbers returns the numbers of the open ports, in observation order.
func (d Device) PortNumbers() []int {
	ports := make([]int, 0, len(d.OpenPorts))
	for _, p := range d.OpenPorts {
		if p.IsOpen {
			ports = append(ports, p.Port)
		}
	}
	return ports
}

// Banners returns the non-empty banners captured from open ports.
func (d Device) Banners() []string {
	var banners []string
	for _, p := range d.OpenPorts {
		if p.Banner != "" {
			banners = append(banners, p.Banner)
		}
	}
	return banners
}

// RecordOnline appends at to the rolling history, dropping the oldest
// entries beyond MaxOnlineHistory.
func (d *Device) RecordOnline(at time.Time) {
	d.OnlineHistory = append(d.OnlineHistory, at)
	if n := len(d.OnlineHistory); n > MaxOnlineHistory {
		d.OnlineHistory = slices.Clone(d.OnlineHistory[n-MaxOnlineHistory:])
	}
}
