// Package sqlstore persists the snapshot as a single JSON row in a SQL
// table. Postgres (through pgx) serves as the remote backend and SQLite as
// an embedded local alternative to the JSON file.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

// Compile-time contract assertion.
var _ ports.SnapshotRepository = (*Repository)(nil)

// RecordID is the fixed key of the snapshot row.
const RecordID = 1

type dialect struct {
	name   string
	driver string
	ddl    string
	load   string
	upsert string
}

var postgresDialect = dialect{
	name:   "postgres",
	driver: "pgx",
	ddl: `CREATE TABLE IF NOT EXISTS routines_data (
		id BIGINT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	load:   `SELECT data FROM routines_data WHERE id = $1`,
	upsert: `INSERT INTO routines_data(id, data, updated_at) VALUES($1, $2, $3) ON CONFLICT(id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
}

var sqliteDialect = dialect{
	name:   "sqlite",
	driver: "sqlite",
	ddl: `CREATE TABLE IF NOT EXISTS routines_data (
		id INTEGER PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	load:   `SELECT data FROM routines_data WHERE id = ?`,
	upsert: `INSERT INTO routines_data(id, data, updated_at) VALUES(?, ?, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
}

// Repository implements ports.SnapshotRepository over database/sql.
type Repository struct {
	db  *sql.DB
	d   dialect
	now func() time.Time
}

// OpenPostgres connects to dsn, checks the connection and ensures the
// snapshot table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open postgres: empty dsn")
	}
	return open(ctx, postgresDialect, dsn)
}

// OpenSQLite opens (creating if needed) the database file at path and
// ensures the snapshot table exists.
func OpenSQLite(ctx context.Context, path string) (*Repository, error) {
	if path == "" {
		path = "routines.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return open(ctx, sqliteDialect, path)
}

func open(ctx context.Context, d dialect, dsn string) (*Repository, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.name, err)
	}
	if _, err := db.ExecContext(ctx, d.ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure routines_data table: %w", err)
	}
	return &Repository{db: db, d: d, now: time.Now}, nil
}

// Name identifies the backend.
func (r *Repository) Name() string { return r.d.name }

// Load fetches the snapshot row by its fixed key.
func (r *Repository) Load(ctx context.Context) ports.LoadResult {
	var payload []byte
	err := r.db.QueryRowContext(ctx, r.d.load, RecordID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Absent()
	}
	if err != nil {
		return ports.Failed(fmt.Errorf("select snapshot: %w", err))
	}
	if len(payload) == 0 {
		return ports.Absent()
	}
	s, err := domain.DecodeSnapshot(payload)
	if err != nil {
		return ports.Malformed(err)
	}
	return ports.Found(s)
}

// Save upserts the snapshot row and stamps updated_at. There is no conflict
// detection: the last writer wins.
func (r *Repository) Save(ctx context.Context, s domain.Snapshot) error {
	if s.Routines == nil {
		s.Routines = []domain.Routine{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.d.upsert, RecordID, string(data), r.now().UTC()); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (r *Repository) DB() *sql.DB { return r.db }

// Close releases the database handle.
func (r *Repository) Close() error { return r.db.Close() }
