package cli

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anstrom/lanwatch/internal/classify"
	"github.com/anstrom/lanwatch/internal/config"
	"github.com/anstrom/lanwatch/internal/device"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/registry"
)

var (
	devicesOutput     string
	devicesOnlineOnly bool
	devicesType       string
	devicesForce      bool
)

// devicesCmd represents the devices command group.
var devicesCmd = &cobra.Command{
	Use:     "devices",
	Aliases: []string{"device", "ls"},
	Short:   "List devices in the registry",
	Long: `List the devices recorded in the registry, ordered by address.
Devices restored from storage are shown offline until a scan or refresh sees
them again.`,
	Example: `  lanwatch devices
  lanwatch devices --online
  lanwatch devices --type Printer --output json`,
	RunE: runListDevices,
}

var devicesShowCmd = &cobra.Command{
	Use:   "show <address>",
	Short: "Show one device with its risk score and uptime trend",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowDevice,
}

var devicesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every device from the registry",
	RunE:  runClearDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.AddCommand(devicesShowCmd)
	devicesCmd.AddCommand(devicesClearCmd)

	devicesCmd.PersistentFlags().StringVarP(&devicesOutput, "output", "o", outputTable, "output format (table, json)")
	devicesCmd.Flags().BoolVar(&devicesOnlineOnly, "online", false, "only show online devices")
	devicesCmd.Flags().StringVar(&devicesType, "type", "", "only show devices of this type")
	devicesClearCmd.Flags().BoolVarP(&devicesForce, "force", "f", false, "do not ask for confirmation")
}

// openRegistry loads the persisted registry without wiring a scanner.
func openRegistry(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*registry.Registry, func() error, error) {
	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	var opts []registry.Option
	if store != nil {
		opts = append(opts, registry.WithStore(store))
	}
	reg := registry.New(logger, opts...)
	if _, err := reg.Load(ctx); err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("failed to load device registry: %w", err)
	}
	return reg, closeStore, nil
}

func runListDevices(cmd *cobra.Command, _ []string) error {
	if err := validateOutputFormat(devicesOutput); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, closeStore, err := openRegistry(cmd.Context(), cfg, logging.Default())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	list := filterDevices(reg.All(), devicesOnlineOnly, devicesType)
	return writeDevices(cmd.OutOrStdout(), list, devicesOutput)
}

// filterDevices keeps registry order.
func filterDevices(devices []device.Device, onlineOnly bool, deviceType string) []device.Device {
	out := make([]device.Device, 0, len(devices))
	for i := range devices {
		if onlineOnly && !devices[i].Online {
			continue
		}
		if deviceType != "" && !strings.EqualFold(string(devices[i].DeviceType), deviceType) {
			continue
		}
		out = append(out, devices[i])
	}
	return out
}

func runShowDevice(cmd *cobra.Command, args []string) error {
	if err := validateOutputFormat(devicesOutput); err != nil {
		return err
	}
	addr, err := netip.ParseAddr(args[0])
	if err != nil || !addr.Is4() {
		return fmt.Errorf("invalid IPv4 address %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, closeStore, err := openRegistry(cmd.Context(), cfg, logging.Default())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	d, ok := reg.Get(addr.String())
	if !ok {
		return fmt.Errorf("device %s not found", addr)
	}
	if devicesOutput == outputJSON {
		return writeDevicesJSON(cmd.OutOrStdout(), []device.Device{d})
	}
	writeDeviceDetail(cmd.OutOrStdout(), d)
	return nil
}

func writeDeviceDetail(w io.Writer, d device.Device) {
	status := "offline"
	if d.Online {
		status = "online"
	}
	fmt.Fprintf(w, "Address:          %s (%s)\n", d.Address, status)
	fmt.Fprintf(w, "Hostname:         %s\n", d.Hostname)
	fmt.Fprintf(w, "Hardware address: %s\n", d.HardwareAddress)
	fmt.Fprintf(w, "Manufacturer:     %s\n", d.Manufacturer)
	fmt.Fprintf(w, "Type:             %s %s\n", d.DeviceType.Icon(), d.DeviceType)
	fmt.Fprintf(w, "Operating system: %s\n", d.OperatingSystem)
	fmt.Fprintf(w, "Connection:       %s\n", d.ConnectionType)
	fmt.Fprintf(w, "Risk:             %s (score %d)\n", d.RiskLevel, classify.Score(d))
	fmt.Fprintf(w, "Uptime trend:     %s\n", classify.Trend(d))
	fmt.Fprintf(w, "Discovered:       %d times, first %s\n", d.DiscoveryCount, formatTime(d.FirstDiscovered))
	fmt.Fprintf(w, "Last seen:        %s (%d ms)\n", formatTime(d.LastSeen), d.ResponseTimeMs)

	if len(d.OpenPorts) == 0 {
		fmt.Fprintln(w, "Open ports:       none")
		return
	}
	fmt.Fprintln(w, "Open ports:")
	for _, p := range d.OpenPorts {
		line := fmt.Sprintf("  %5d/%s  %s", p.Port, p.Protocol, p.ServiceName)
		if p.Banner != "" {
			line += "  " + p.Banner
		}
		fmt.Fprintln(w, line)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Local().Format(timeLayout)
}

func runClearDevices(cmd *cobra.Command, _ []string) error {
	if !devicesForce {
		fmt.Fprint(os.Stderr, "Remove every device from the registry? [y/N]: ")
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, closeStore, err := openRegistry(cmd.Context(), cfg, logging.Default())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	n := reg.Len()
	reg.Clear()
	if err := reg.Flush(cmd.Context()); err != nil {
		return fmt.Errorf("failed to save device registry: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d devices\n", n)
	return nil
}
