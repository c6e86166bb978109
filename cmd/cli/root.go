// Package cli provides the command-line interface for lanwatch.
// It implements the Cobra-based command tree for scanning, listing and
// refreshing devices, serving the API and managing the configuration file.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anstrom/lanwatch/internal/config"
	"github.com/anstrom/lanwatch/internal/logging"
)

// envPrefix is prepended to every environment override, e.g. LANWATCH_API_PORT.
const envPrefix = "LANWATCH"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lanwatch",
	Short: "Local network device discovery",
	Long: `lanwatch sweeps the local network for live devices, identifies them
from open ports, reverse DNS and hardware vendor, scores their exposure and
keeps a persistent registry that is refreshed in the background.`,
	Version:       getVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is %s)", config.DefaultPath()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	if err := viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind log-level flag: %v\n", err)
	}
}

// initConfig resolves the config file and environment overrides.
func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath()
	}
	viper.SetConfigFile(cfgFile)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	initLogging()
}

// loadConfig reads the config file and applies environment and flag
// overrides, then validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// applyOverrides copies the keys set through LANWATCH_* variables or flags
// over the file values.
func applyOverrides(cfg *config.Config) {
	if v := viper.GetString("scan.range"); v != "" {
		cfg.Scan.Range = v
	}
	if v := viper.GetString("storage.backend"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := viper.GetString("storage.path"); v != "" {
		cfg.Storage.Path = v
	}
	if v := viper.GetString("storage.dsn"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := viper.GetString("api.host"); v != "" {
		cfg.API.Host = v
	}
	if v := viper.GetInt("api.port"); v != 0 {
		cfg.API.Port = v
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = logging.LogLevel(v)
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.Logging.Format = logging.LogFormat(v)
	}
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	cfg, err := loadConfig()
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		if verbose {
			fmt.Fprintf(os.Stderr, "Warning: using default logging: %v\n", err)
		}
		return
	}

	logConfig := cfg.Logging
	logConfig.AddSource = logConfig.Level == logging.LevelDebug
	if verbose && logConfig.Level != logging.LevelDebug {
		logConfig.Level = logging.LevelDebug
	}

	logger, err := logging.New(logConfig)
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logging.SetDefault(logger)

	if verbose {
		logging.Info("Structured logging initialized",
			"level", logConfig.Level, "format", logConfig.Format, "config", configPath())
	}
}
