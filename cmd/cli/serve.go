package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anstrom/lanwatch/internal/api"
	"github.com/anstrom/lanwatch/internal/config"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/scheduler"
)

var (
	serveHost        string
	servePort        int
	serveNoRefresh   bool
	serveScanOnStart bool
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server with background refresh",
	Long: `Start the HTTP API and websocket feed on top of the device registry.
Known devices are re-checked in the background on the configured interval
and the registry is saved when the server shuts down.`,
	Example: `  lanwatch serve
  lanwatch serve --host 0.0.0.0 --port 9090
  lanwatch serve --scan-on-start --no-refresh`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoRefresh, "no-refresh", false, "disable the background refresh")
	serveCmd.Flags().BoolVar(&serveScanOnStart, "scan-on-start", false, "start a sweep of the configured range at startup")
}

// applyServeFlags copies explicit serve flags over cfg.
func applyServeFlags(cfg *config.Config) {
	if serveHost != "" {
		cfg.API.Host = serveHost
	}
	if servePort != 0 {
		cfg.API.Port = servePort
	}
	if serveNoRefresh {
		cfg.Refresh.Enabled = false
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := newEngine(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save device registry: %v\n", closeErr)
		}
	}()

	refresher := scheduler.NewRefresher(cfg.RefresherConfig(), eng.coordinator, logger)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer func() { <-refresher.Stop().Done() }()

	server := api.New(cfg.API, api.Deps{
		Store:     eng.registry,
		Engine:    eng.coordinator,
		Bus:       eng.bus,
		Refresher: refresher,
		Metrics:   eng.metrics,
		Version:   version,
	}, logger)

	if serveScanOnStart {
		if scanID, err := eng.coordinator.StartScan(ctx, eng.coordinator.Options()); err != nil {
			logger.Warn("Initial scan not started", "error", err)
		} else {
			logger.Info("Initial scan started", "scan_id", scanID)
		}
	}

	fmt.Printf("lanwatch %s listening on http://%s\n", version, cfg.APIAddress())
	fmt.Printf("Health check: http://%s/api/v1/health\n", cfg.APIAddress())
	fmt.Printf("API documentation: http://%s/swagger/\n", cfg.APIAddress())
	if verbose {
		fmt.Printf("Devices loaded: %d, storage: %s, refresh: %s\n",
			eng.registry.Len(), cfg.Storage.Backend, refresher.Spec())
	}

	if err := server.Start(ctx); err != nil {
		logger.Error("API server error", "error", err)
		return err
	}
	fmt.Println("\nShutting down...")
	return nil
}
