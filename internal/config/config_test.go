package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/scanning"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, scanning.DefaultOptions(), cfg.Scan)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "devices.json", filepath.Base(cfg.Storage.Path))
	assert.Equal(t, 30*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 10*time.Second, cfg.Refresh.InitialDelay)
	assert.Equal(t, 1000, cfg.Refresh.PingTimeoutMs)
	assert.Equal(t, 300, cfg.Refresh.PortTimeoutMs)
	assert.False(t, cfg.Lookup.SNMP.Enabled)
	assert.Equal(t, "127.0.0.1:8080", cfg.APIAddress())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, cfg *Config)
		wantErr lwerrors.ErrorCode
	}{
		{
			name: "yaml overrides",
			file: "config.yaml",
			content: `
scan:
  range: "10.0.5"
  start_address: 10
  end_address: 20
  max_parallel_scans: 8
storage:
  backend: postgres
  dsn: postgres://lanwatch@localhost/lanwatch?sslmode=disable
refresh:
  interval: 2m
  initial_delay: 0s
api:
  port: 9090
  cors_origins: ["http://localhost:3000"]
lookup:
  snmp:
    enabled: true
    community: private
logging:
  level: debug
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "10.0.5", cfg.Scan.Range)
				assert.Equal(t, 10, cfg.Scan.StartAddress)
				assert.Equal(t, 20, cfg.Scan.EndAddress)
				assert.Equal(t, 8, cfg.Scan.MaxParallelScans)
				assert.Equal(t, 1000, cfg.Scan.PingTimeoutMs, "unset fields keep defaults")
				assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
				assert.Equal(t, 2*time.Minute, cfg.Refresh.Interval)
				assert.Zero(t, cfg.Refresh.InitialDelay)
				assert.Equal(t, "127.0.0.1:9090", cfg.APIAddress())
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.API.CORSOrigins)
				assert.True(t, cfg.Lookup.SNMP.Enabled)
				assert.Equal(t, "private", cfg.Lookup.SNMP.Community)
				assert.EqualValues(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name:    "json file",
			file:    "config.json",
			content: `{"scan": {"range": "172.16"}, "refresh": {"enabled": false}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "172.16", cfg.Scan.Range)
				assert.False(t, cfg.Refresh.Enabled)
			},
		},
		{
			name:    "invalid yaml syntax",
			file:    "config.yaml",
			content: "scan: [unclosed",
			wantErr: lwerrors.CodeConfiguration,
		},
		{
			name:    "end before start",
			file:    "config.yaml",
			content: "scan:\n  start_address: 200\n  end_address: 100\n",
			wantErr: lwerrors.CodeValidation,
		},
		{
			name:    "unknown backend",
			file:    "config.yaml",
			content: "storage:\n  backend: redis\n",
			wantErr: lwerrors.CodeConfiguration,
		},
		{
			name:    "postgres without dsn",
			file:    "config.yaml",
			content: "storage:\n  backend: postgres\n",
			wantErr: lwerrors.CodeValidation,
		},
		{
			name:    "refresh interval too short",
			file:    "config.yaml",
			content: "refresh:\n  interval: 10ms\n",
			wantErr: lwerrors.CodeConfiguration,
		},
		{
			name:    "snmp enabled without community",
			file:    "config.yaml",
			content: "lookup:\n  snmp:\n    enabled: true\n    community: \"\"\n",
			wantErr: lwerrors.CodeConfiguration,
		},
		{
			name:    "bad log level",
			file:    "config.yaml",
			content: "logging:\n  level: verbose\n",
			wantErr: lwerrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, lwerrors.IsCode(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scan.Range = "10.9.8"
	cfg.Refresh.Interval = 5 * time.Minute

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "interval: 5m0s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDerivedConfigs(t *testing.T) {
	cfg := Default()
	cfg.Refresh.DeviceGap = 0
	cfg.Refresh.Enabled = false

	cc := cfg.CoordinatorConfig()
	assert.Equal(t, cfg.Scan, cc.ScanDefaults)
	assert.Equal(t, 1000, cc.RefreshPingTimeoutMs)
	assert.Equal(t, 300, cc.RefreshPortTimeoutMs)
	assert.Zero(t, cc.DeviceGap)

	rc := cfg.RefresherConfig()
	assert.False(t, rc.Enabled)
	assert.Equal(t, cfg.Refresh.Interval, rc.Interval)
}
