package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS devices (
	address          TEXT PRIMARY KEY,
	hostname         TEXT NOT NULL,
	hardware_address TEXT NOT NULL,
	online           BOOLEAN NOT NULL DEFAULT FALSE,
	last_seen        TIMESTAMPTZ NOT NULL,
	first_discovered TIMESTAMPTZ NOT NULL,
	discovery_count  INTEGER NOT NULL DEFAULT 0,
	response_time_ms BIGINT NOT NULL DEFAULT 0,
	open_ports       JSONB NOT NULL DEFAULT '[]',
	device_type      TEXT NOT NULL,
	manufacturer     TEXT NOT NULL,
	operating_system TEXT NOT NULL,
	connection_type  TEXT NOT NULL,
	risk_level       TEXT NOT NULL,
	online_history   JSONB NOT NULL DEFAULT '[]',
	ttl              INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS snapshot_meta (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	last_updated TIMESTAMPTZ NOT NULL
);`

const (
	selectMeta = `SELECT last_updated FROM snapshot_meta WHERE id = 1`

	selectDevices = `
		SELECT address, hostname, hardware_address, online, last_seen,
			first_discovered, discovery_count, response_time_ms, open_ports,
			device_type, manufacturer, operating_system, connection_type,
			risk_level, online_history, ttl
		FROM devices`

	deleteStale = `DELETE FROM devices WHERE NOT (address = ANY($1))`

	upsertDevice = `
		INSERT INTO devices (
			address, hostname, hardware_address, online, last_seen,
			first_discovered, discovery_count, response_time_ms, open_ports,
			device_type, manufacturer, operating_system, connection_type,
			risk_level, online_history, ttl
		)
		VALUES (
			:address, :hostname, :hardware_address, :online, :last_seen,
			:first_discovered, :discovery_count, :response_time_ms, :open_ports,
			:device_type, :manufacturer, :operating_system, :connection_type,
			:risk_level, :online_history, :ttl
		)
		ON CONFLICT (address)
		DO UPDATE SET
			hostname = EXCLUDED.hostname,
			hardware_address = EXCLUDED.hardware_address,
			online = EXCLUDED.online,
			last_seen = EXCLUDED.last_seen,
			first_discovered = EXCLUDED.first_discovered,
			discovery_count = EXCLUDED.discovery_count,
			response_time_ms = EXCLUDED.response_time_ms,
			open_ports = EXCLUDED.open_ports,
			device_type = EXCLUDED.device_type,
			manufacturer = EXCLUDED.manufacturer,
			operating_system = EXCLUDED.operating_system,
			connection_type = EXCLUDED.connection_type,
			risk_level = EXCLUDED.risk_level,
			online_history = EXCLUDED.online_history,
			ttl = EXCLUDED.ttl`

	upsertMeta = `
		INSERT INTO snapshot_meta (id, last_updated) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_updated = EXCLUDED.last_updated`
)

// deviceRow is the devices table layout. JSON columns travel as text so
// lib/pq does not send them as bytea.
type deviceRow struct {
	Address         string    `db:"address"`
	Hostname        string    `db:"hostname"`
	HardwareAddress string    `db:"hardware_address"`
	Online          bool      `db:"online"`
	LastSeen        time.Time `db:"last_seen"`
	FirstDiscovered time.Time `db:"first_discovered"`
	DiscoveryCount  int       `db:"discovery_count"`
	ResponseTimeMs  int64     `db:"response_time_ms"`
	OpenPorts       string    `db:"open_ports"`
	DeviceType      string    `db:"device_type"`
	Manufacturer    string    `db:"manufacturer"`
	OperatingSystem string    `db:"operating_system"`
	ConnectionType  string    `db:"connection_type"`
	RiskLevel       string    `db:"risk_level"`
	OnlineHistory   string    `db:"online_history"`
	TTL             int       `db:"ttl"`
}

func toRow(d device.Device) (deviceRow, error) {
	ports, err := json.Marshal(nonNilPorts(d.OpenPorts))
	if err != nil {
		return deviceRow{}, err
	}
	history, err := json.Marshal(nonNilHistory(d.OnlineHistory))
	if err != nil {
		return deviceRow{}, err
	}
	return deviceRow{
		Address:         d.Address,
		Hostname:        d.Hostname,
		HardwareAddress: d.HardwareAddress,
		Online:          d.Online,
		LastSeen:        d.LastSeen,
		FirstDiscovered: d.FirstDiscovered,
		DiscoveryCount:  d.DiscoveryCount,
		ResponseTimeMs:  d.ResponseTimeMs,
		OpenPorts:       string(ports),
		DeviceType:      string(d.DeviceType),
		Manufacturer:    d.Manufacturer,
		OperatingSystem: d.OperatingSystem,
		ConnectionType:  d.ConnectionType,
		RiskLevel:       string(d.RiskLevel),
		OnlineHistory:   string(history),
		TTL:             d.TTL,
	}, nil
}

func (row deviceRow) toDevice() (device.Device, error) {
	d := device.Device{
		Address:         row.Address,
		Hostname:        row.Hostname,
		HardwareAddress: row.HardwareAddress,
		Online:          row.Online,
		LastSeen:        row.LastSeen,
		FirstDiscovered: row.FirstDiscovered,
		DiscoveryCount:  row.DiscoveryCount,
		ResponseTimeMs:  row.ResponseTimeMs,
		DeviceType:      device.DeviceType(row.DeviceType),
		Manufacturer:    row.Manufacturer,
		OperatingSystem: row.OperatingSystem,
		ConnectionType:  row.ConnectionType,
		RiskLevel:       device.RiskLevel(row.RiskLevel),
		TTL:             row.TTL,
	}
	if err := json.Unmarshal([]byte(row.OpenPorts), &d.OpenPorts); err != nil {
		return d, fmt.Errorf("open_ports for %s: %w", row.Address, err)
	}
	if err := json.Unmarshal([]byte(row.OnlineHistory), &d.OnlineHistory); err != nil {
		return d, fmt.Errorf("online_history for %s: %w", row.Address, err)
	}
	return d, nil
}

func nonNilPorts(p []device.PortObservation) []device.PortObservation {
	if p == nil {
		return []device.PortObservation{}
	}
	return p
}

func nonNilHistory(h []time.Time) []time.Time {
	if h == nil {
		return []time.Time{}
	}
	return h
}

// SQLStore keeps the snapshot in PostgreSQL, one row per device.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open connection.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQLStore connects to dsn and creates the tables if needed.
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "connect", err)
	}
	s := NewSQLStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

var _ Store = (*SQLStore)(nil)

// Name implements Store.
func (s *SQLStore) Name() string { return "postgres" }

// Migrate creates the schema.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "migrate", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Load implements Store.
func (s *SQLStore) Load(ctx context.Context) (*Snapshot, error) {
	var lastUpdated time.Time
	err := s.db.QueryRowxContext(ctx, selectMeta).Scan(&lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "load", err)
	}

	var rows []deviceRow
	if err := s.db.SelectContext(ctx, &rows, selectDevices); err != nil {
		return nil, lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, "load", err)
	}

	snap := &Snapshot{LastUpdated: lastUpdated, Devices: make([]device.Device, 0, len(rows))}
	for _, row := range rows {
		d, err := row.toDevice()
		if err != nil {
			return nil, lwerrors.WrapPersistenceError(lwerrors.CodeSnapshotCorrupt, "decode", err)
		}
		snap.Devices = append(snap.Devices, d)
	}
	device.Sort(snap.Devices)
	return snap, nil
}

// Save implements Store. The table is made to match snap exactly inside one
// transaction.
func (s *SQLStore) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return s.saveError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	addresses := make([]string, len(snap.Devices))
	for i, d := range snap.Devices {
		addresses[i] = d.Address
	}
	if _, err := tx.ExecContext(ctx, deleteStale, pq.Array(addresses)); err != nil {
		return s.saveError("delete stale devices", err)
	}

	for _, d := range snap.Devices {
		row, err := toRow(d)
		if err != nil {
			return s.saveError("encode device", err)
		}
		if _, err := tx.NamedExecContext(ctx, upsertDevice, row); err != nil {
			return s.saveError("upsert device", err)
		}
	}

	if _, err := tx.ExecContext(ctx, upsertMeta, snap.LastUpdated); err != nil {
		return s.saveError("update snapshot metadata", err)
	}
	if err := tx.Commit(); err != nil {
		return s.saveError("commit transaction", err)
	}
	return nil
}

func (s *SQLStore) saveError(operation string, err error) error {
	return lwerrors.WrapPersistenceError(lwerrors.CodePersistenceFailed, operation, err)
}
