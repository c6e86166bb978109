package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/events"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/scanning"
)

const maxPort = 65535

var (
	scanStart       int
	scanEnd         int
	scanPingTimeout int
	scanPortTimeout int
	scanParallel    int
	scanNoPorts     bool
	scanExtended    bool
	scanPorts       string
	scanOutput      string
	scanQuiet       bool
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [range]",
	Short: "Sweep an address range for live devices",
	Long: `Sweep an address range for live devices, probe their common ports and
merge the results into the device registry.

The range is a loose address prefix. Three octets ("192.168.1") sweep one
subnet; two octets ("10.0") sweep all 256 subnets below it. With no range the
configured default is used, or the subnet of the first active interface.`,
	Example: `  lanwatch scan
  lanwatch scan 192.168.1 --start 1 --end 100
  lanwatch scan 10.0 --no-ports --parallel 100
  lanwatch scan 192.168.1 --ports 22,80,443 --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd.Flags())
}

func addScanFlags(fs *pflag.FlagSet) {
	defaults := scanning.DefaultOptions()
	fs.IntVar(&scanStart, "start", defaults.StartAddress, "first host number in each subnet")
	fs.IntVar(&scanEnd, "end", defaults.EndAddress, "last host number in each subnet")
	fs.IntVar(&scanPingTimeout, "ping-timeout", defaults.PingTimeoutMs, "ping timeout in milliseconds")
	fs.IntVar(&scanPortTimeout, "port-timeout", defaults.PortTimeoutMs, "port connect timeout in milliseconds")
	fs.IntVar(&scanParallel, "parallel", defaults.MaxParallelScans, "hosts probed concurrently")
	fs.BoolVar(&scanNoPorts, "no-ports", false, "skip port scanning")
	fs.BoolVar(&scanExtended, "extended", false, "probe the extended port list")
	fs.StringVar(&scanPorts, "ports", "", "comma-separated ports to probe instead of the built-in lists")
	fs.StringVarP(&scanOutput, "output", "o", outputTable, "output format (table, json)")
	fs.BoolVarP(&scanQuiet, "quiet", "q", false, "do not print progress")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := validateOutputFormat(scanOutput); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := buildScanOptions(cmd, cfg.Scan, args)
	if err != nil {
		return err
	}

	logger := logging.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := newEngine(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save device registry: %v\n", closeErr)
		}
	}()

	if opts.Range == "" {
		opts.Range = eng.coordinator.Options().Range
	}

	if !scanQuiet {
		unsubscribe := eng.bus.Subscribe(func(ev events.Event) {
			if p, ok := ev.Data.(scanning.Progress); ok && ev.Type == events.EventProgress {
				fmt.Fprintf(os.Stderr, "\r%-80s", formatProgress(p))
			}
		})
		defer unsubscribe()
		r := scanning.ExpandRange(opts.Range, opts.StartAddress, opts.EndAddress)
		fmt.Fprintf(os.Stderr, "Scanning %s (%d addresses)\n", r, r.Total())
	}

	found, err := eng.coordinator.ScanSync(ctx, opts)
	if !scanQuiet {
		fmt.Fprintln(os.Stderr)
	}
	switch {
	case lwerrors.IsCode(err, lwerrors.CodeCanceled):
		fmt.Fprintln(os.Stderr, "Scan interrupted, partial results saved.")
	case err != nil:
		return err
	}

	return writeDevices(cmd.OutOrStdout(), found, scanOutput)
}

// buildScanOptions layers the command line over the configured defaults.
// Only flags the user actually set replace configured values.
func buildScanOptions(cmd *cobra.Command, base scanning.ScanOptions, args []string) (scanning.ScanOptions, error) {
	opts := base
	if len(args) == 1 {
		opts.Range = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		opts.StartAddress = scanStart
	}
	if flags.Changed("end") {
		opts.EndAddress = scanEnd
	}
	if flags.Changed("ping-timeout") {
		opts.PingTimeoutMs = scanPingTimeout
	}
	if flags.Changed("port-timeout") {
		opts.PortTimeoutMs = scanPortTimeout
	}
	if flags.Changed("parallel") {
		opts.MaxParallelScans = scanParallel
	}
	if scanNoPorts {
		opts.ScanPorts = false
	}
	if scanExtended {
		opts.QuickScan = false
	}
	if scanPorts != "" {
		ports, err := parsePorts(scanPorts)
		if err != nil {
			return opts, err
		}
		opts.CustomPorts = ports
		opts.ScanPorts = true
	}

	// An empty range is resolved by the coordinator from the local interface.
	if opts.Range != "" {
		opts = opts.Normalized()
	}
	return opts, opts.Validate()
}

// parsePorts parses a comma-separated port list. Ranges ("8000-8010") are
// expanded.
func parsePorts(s string) ([]int, error) {
	var ports []int
	seen := make(map[int]bool)
	add := func(p int) {
		if !seen[p] {
			seen[p] = true
			ports = append(ports, p)
		}
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := parsePort(lo)
			if err != nil {
				return nil, err
			}
			end, err := parsePort(hi)
			if err != nil {
				return nil, err
			}
			if start > end {
				return nil, fmt.Errorf("invalid port range %q: start is after end", part)
			}
			for p := start; p <= end; p++ {
				add(p)
			}
			continue
		}
		p, err := parsePort(part)
		if err != nil {
			return nil, err
		}
		add(p)
	}

	if len(ports) == 0 {
		return nil, fmt.Errorf("no ports in %q", s)
	}
	return ports, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if p < 1 || p > maxPort {
		return 0, fmt.Errorf("port %d out of range 1-%d", p, maxPort)
	}
	return p, nil
}
