// Package config loads and validates the lanwatch configuration file.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/anstrom/lanwatch/internal/coordinator"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
	"github.com/anstrom/lanwatch/internal/registry"
	"github.com/anstrom/lanwatch/internal/scanning"
	"github.com/anstrom/lanwatch/internal/scheduler"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const (
	configDirPerm  = 0o750
	configFilePerm = 0o600
)

// Config represents the complete lanwatch configuration.
type Config struct {
	// Scan holds the defaults for a sweep.
	Scan scanning.ScanOptions `yaml:"scan" json:"scan" mapstructure:"scan"`

	// Storage selects where the device registry is persisted.
	Storage StorageConfig `yaml:"storage" json:"storage" mapstructure:"storage"`

	// Refresh controls the background refresh of known devices.
	Refresh RefreshConfig `yaml:"refresh" json:"refresh" mapstructure:"refresh"`

	// API configuration
	API APIConfig `yaml:"api" json:"api" mapstructure:"api"`

	// Lookup configures the best-effort name and OS lookups.
	Lookup LookupConfig `yaml:"lookup" json:"lookup" mapstructure:"lookup"`

	// Logging configuration
	Logging logging.Config `yaml:"logging" json:"logging" mapstructure:"logging"`
}

// StorageConfig holds registry persistence settings.
type StorageConfig struct {
	// Backend is one of file, postgres or memory.
	Backend string `yaml:"backend" json:"backend" mapstructure:"backend" validate:"oneof=file postgres memory"`

	// Path is the snapshot file for the file backend.
	Path string `yaml:"path" json:"path" mapstructure:"path"`

	// DSN is the connection string for the postgres backend.
	DSN string `yaml:"dsn" json:"dsn" mapstructure:"dsn"`

	// SaveDebounce delays snapshot writes after a mutation.
	SaveDebounce time.Duration `yaml:"save_debounce" json:"save_debounce" mapstructure:"save_debounce" validate:"min=0"`
}

// RefreshConfig holds background refresh settings.
type RefreshConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Interval     time.Duration `yaml:"interval" json:"interval" mapstructure:"interval" validate:"min=1s"`
	InitialDelay time.Duration `yaml:"initial_delay" json:"initial_delay" mapstructure:"initial_delay" validate:"min=0"`

	// DeviceGap is the pause between two refreshed devices.
	DeviceGap time.Duration `yaml:"device_gap" json:"device_gap" mapstructure:"device_gap" validate:"min=0"`

	PingTimeoutMs int `yaml:"ping_timeout_ms" json:"ping_timeout_ms" mapstructure:"ping_timeout_ms" validate:"min=1,max=60000"`
	PortTimeoutMs int `yaml:"port_timeout_ms" json:"port_timeout_ms" mapstructure:"port_timeout_ms" validate:"min=1,max=60000"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Host string `yaml:"host" json:"host" mapstructure:"host" validate:"required"`
	Port int    `yaml:"port" json:"port" mapstructure:"port" validate:"min=1,max=65535"`

	// CORSOrigins lists allowed origins; empty disables CORS headers.
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins" mapstructure:"cors_origins"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LookupConfig holds lookup settings.
type LookupConfig struct {
	// DNSServers overrides the servers from /etc/resolv.conf.
	DNSServers []string   `yaml:"dns_servers" json:"dns_servers" mapstructure:"dns_servers"`
	SNMP       SNMPConfig `yaml:"snmp" json:"snmp" mapstructure:"snmp"`
}

// SNMPConfig holds the optional sysDescr probe settings.
type SNMPConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Community string        `yaml:"community" json:"community" mapstructure:"community" validate:"required_if=Enabled true"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout" validate:"min=0"`
}

// DefaultDataDir returns the directory used for state when nothing is set.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "lanwatch")
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: scanning.DefaultOptions(),
		Storage: StorageConfig{
			Backend:      BackendFile,
			Path:         filepath.Join(DefaultDataDir(), "devices.json"),
			SaveDebounce: registry.DefaultSaveDebounce,
		},
		Refresh: RefreshConfig{
			Enabled:       true,
			Interval:      scheduler.DefaultInterval,
			InitialDelay:  scheduler.DefaultInitialDelay,
			DeviceGap:     coordinator.DefaultDeviceGap,
			PingTimeoutMs: coordinator.DefaultRefreshPingTimeoutMs,
			PortTimeoutMs: coordinator.DefaultRefreshPortTimeoutMs,
		},
		API: APIConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			CORSOrigins:     []string{},
			ShutdownTimeout: 10 * time.Second,
		},
		Lookup: LookupConfig{
			DNSServers: []string{},
			SNMP: SNMPConfig{
				Enabled:   false,
				Community: "public",
				Timeout:   time.Second,
			},
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, lwerrors.WrapConfigError(lwerrors.CodeConfiguration, "failed to read config file", err)
	}

	// JSON is a subset of YAML, so one decoder covers both extensions.
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, lwerrors.WrapConfigError(lwerrors.CodeConfiguration,
			fmt.Sprintf("failed to parse config %s", filepath.Base(path)), err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return lwerrors.WrapConfigError(lwerrors.CodeConfiguration, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return lwerrors.WrapConfigError(lwerrors.CodeConfiguration, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, configFilePerm); err != nil {
		return lwerrors.WrapConfigError(lwerrors.CodeConfiguration, "failed to write config file", err)
	}
	return nil
}

var validate = validator.New()

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Scan.Validate(); err != nil {
		return err
	}
	for _, section := range []any{c.Storage, c.Refresh, c.API, c.Lookup.SNMP} {
		if err := validate.Struct(section); err != nil {
			return lwerrors.WrapConfigError(lwerrors.CodeConfiguration, "invalid configuration", err)
		}
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			return lwerrors.ErrConfigInvalid("storage.path", c.Storage.Path)
		}
	case BackendPostgres:
		if c.Storage.DSN == "" {
			return lwerrors.ErrConfigInvalid("storage.dsn", c.Storage.DSN)
		}
	}

	switch c.Logging.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return lwerrors.ErrConfigInvalid("logging.level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return lwerrors.ErrConfigInvalid("logging.format", c.Logging.Format)
	}

	return nil
}

// APIAddress returns the listen address for the API server.
func (c *Config) APIAddress() string {
	return net.JoinHostPort(c.API.Host, strconv.Itoa(c.API.Port))
}

// CoordinatorConfig returns the coordinator settings derived from the file.
func (c *Config) CoordinatorConfig() coordinator.Config {
	return coordinator.Config{
		ScanDefaults:         c.Scan,
		RefreshPingTimeoutMs: c.Refresh.PingTimeoutMs,
		RefreshPortTimeoutMs: c.Refresh.PortTimeoutMs,
		DeviceGap:            c.Refresh.DeviceGap,
	}
}

// RefresherConfig returns the background refresh cadence.
func (c *Config) RefresherConfig() scheduler.Config {
	return scheduler.Config{
		Enabled:      c.Refresh.Enabled,
		Interval:     c.Refresh.Interval,
		InitialDelay: c.Refresh.InitialDelay,
	}
}
