package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/anstrom/lanwatch/internal/classify"
	"github.com/anstrom/lanwatch/internal/coordinator"
	"github.com/anstrom/lanwatch/internal/device"
	"github.com/anstrom/lanwatch/internal/scanning"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

const timeLayout = "2006-01-02 15:04"

// maxPortsShown limits the ports column of the table view.
const maxPortsShown = 6

// deviceListOutput is the JSON form of a device listing.
type deviceListOutput struct {
	Devices []device.Device `json:"devices"`
	Total   int             `json:"total"`
	Online  int             `json:"online"`
}

func validateOutputFormat(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q, must be %q or %q", format, outputTable, outputJSON)
	}
}

// writeDevices renders devices in the requested format. The input order is
// kept; callers pass registry order.
func writeDevices(w io.Writer, devices []device.Device, format string) error {
	if format == outputJSON {
		return writeDevicesJSON(w, devices)
	}
	writeDevicesTable(w, devices)
	return nil
}

func writeDevicesJSON(w io.Writer, devices []device.Device) error {
	out := deviceListOutput{Devices: devices, Total: len(devices)}
	if out.Devices == nil {
		out.Devices = []device.Device{}
	}
	for i := range devices {
		if devices[i].Online {
			out.Online++
		}
	}

	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal devices: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func writeDevicesTable(w io.Writer, devices []device.Device) {
	if len(devices) == 0 {
		_, _ = fmt.Fprintln(w, "No devices found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Address", "Status", "Type", "Hostname", "Vendor", "Ports", "Risk", "Last Seen")

	online := 0
	for i := range devices {
		d := &devices[i]
		status := "offline"
		if d.Online {
			status = "online"
			online++
		}
		lastSeen := "Never"
		if !d.LastSeen.IsZero() {
			lastSeen = d.LastSeen.Local().Format(timeLayout)
		}

		_ = table.Append([]string{
			d.Address,
			status,
			d.DeviceType.Icon() + " " + string(d.DeviceType),
			d.Hostname,
			d.Manufacturer,
			formatPorts(d.PortNumbers()),
			fmt.Sprintf("%s (%d)", d.RiskLevel, classify.Score(*d)),
			lastSeen,
		})
	}

	_ = table.Render()
	_, _ = fmt.Fprintf(w, "\n%d devices, %d online\n", len(devices), online)
}

// formatPorts joins port numbers, eliding the tail past maxPortsShown.
func formatPorts(ports []int) string {
	if len(ports) == 0 {
		return "-"
	}
	shown := ports
	if len(shown) > maxPortsShown {
		shown = shown[:maxPortsShown]
	}
	parts := make([]string, len(shown))
	for i, p := range shown {
		parts[i] = strconv.Itoa(p)
	}
	s := strings.Join(parts, ",")
	if len(ports) > maxPortsShown {
		s += fmt.Sprintf(" +%d", len(ports)-maxPortsShown)
	}
	return s
}

// formatProgress renders one progress line.
func formatProgress(p scanning.Progress) string {
	line := fmt.Sprintf("[%5.1f%%] %d/%d scanned, %d found",
		p.Percent(), p.ScannedAddresses, p.TotalAddresses, p.DevicesFound)
	if p.CurrentAction != "" {
		line += " - " + p.CurrentAction
	}
	return line
}

// formatSummary renders a refresh summary.
func formatSummary(s coordinator.RefreshSummary) string {
	line := fmt.Sprintf("Checked %d devices: %d online, %d offline (%s)",
		s.Checked, s.Online, s.Offline, s.Duration.Round(time.Millisecond))
	if s.Aborted {
		line += ", aborted"
	}
	return line
}
