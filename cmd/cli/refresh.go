package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anstrom/lanwatch/internal/logging"
)

var refreshOutput string

// refreshCmd represents the refresh command.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-check every known device once",
	Long: `Probe each device in the registry one at a time with short timeouts,
updating the ones that answer and marking the rest offline. This is the same
low-impact pass the server runs in the background.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().StringVarP(&refreshOutput, "output", "o", outputTable, "output format (table, json)")
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	if err := validateOutputFormat(refreshOutput); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := newEngine(ctx, cfg, logging.Default(), false)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save device registry: %v\n", closeErr)
		}
	}()

	if eng.registry.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No known devices, run a scan first.")
		return nil
	}

	summary, err := eng.coordinator.RefreshKnownDevices(ctx)
	if err != nil {
		return err
	}

	if refreshOutput == outputJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatSummary(summary))
	return writeDevices(cmd.OutOrStdout(), eng.registry.All(), outputTable)
}
