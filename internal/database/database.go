package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"m3u-parser/internal/logging"
	"m3u-parser/internal/metrics"
	"m3u-parser/internal/playlist"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned for unknown playlist ids.
var ErrNotFound = errors.New("playlist not found")

// Database manages the playlist catalog.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
	parser *playlist.Parser
}

// New opens the catalog at dbPath, a file whose parent directory must
// already exist and be writable (startup.LoadConfig ensures this), and
// applies any pending migrations.
//
// reg is used to parse stored directives on read; nil means the built-in tags.
func New(ctx context.Context, dbPath string, reg *playlist.Registry) (*Database, error) {
	logging.Info("Database path: %s", dbPath)
	diagnoseDatabaseFiles(dbPath)

	// busy_timeout helps prevent "database is locked" errors
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", "5000")

	db, err := sql.Open("sqlite3", dbPath+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if reg == nil {
		reg = playlist.NewRegistry()
		playlist.RegisterDefaults(reg)
	}

	d := &Database{
		db:     db,
		dbPath: dbPath,
		parser: playlist.NewParser(reg),
	}

	if err := d.migrate(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after migration failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

// migrations are applied in order; PRAGMA user_version records how many
// have run. Append only.
var migrations = []string{
	`CREATE TABLE playlists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		entry_count INTEGER NOT NULL DEFAULT 0,
		error_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX idx_playlists_created ON playlists(created_at);

	CREATE TABLE entries (
		playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		line INTEGER NOT NULL,
		media TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		duration REAL,
		grp TEXT NOT NULL DEFAULT '',
		directives TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (playlist_id, position)
	);

	CREATE TABLE parse_errors (
		playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
		line INTEGER NOT NULL,
		tag TEXT NOT NULL,
		message TEXT NOT NULL
	);
	CREATE INDEX idx_parse_errors_playlist ON parse_errors(playlist_id, line);

	CREATE TABLE metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);`,
	`CREATE INDEX idx_entries_grp ON entries(playlist_id, grp);`,
}

// migrate brings the schema up to len(migrations), one transaction per
// step.
func (d *Database) migrate(ctx context.Context) error {
	var version int
	if err := d.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("schema version %d is newer than this build (%d)", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		if err := d.applyMigration(ctx, i); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		logging.Debug("Applied schema migration %d", i+1)
	}
	return nil
}

func (d *Database) applyMigration(ctx context.Context, i int) (err error) {
	start := time.Now()
	defer func() { recordQuery("migrate", start, err) }()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { err = endTx(tx, err) }()

	if _, err = tx.ExecContext(ctx, migrations[i]); err != nil {
		return err
	}
	// PRAGMA does not take bind parameters.
	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1))
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Ping checks the database connection.
func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return d.db.PingContext(ctx)
}

// endTx commits or rolls back a transaction.
func endTx(tx *sql.Tx, err error) error {
	if err != nil {
		start := time.Now()
		rbErr := tx.Rollback()
		recordQuery("rollback", start, rbErr)
		if rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	start := time.Now()
	err = tx.Commit()
	recordQuery("commit", start, err)
	return err
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// dbFiles maps metric labels to the catalog file and its SQLite sidecars.
func dbFiles(dbPath string) map[string]string {
	return map[string]string{
		"main": dbPath,
		"wal":  dbPath + "-wal",
		"shm":  dbPath + "-shm",
	}
}

// UpdateDBMetrics updates database connection and file size metrics
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))

	for label, path := range dbFiles(d.dbPath) {
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		metrics.DBSizeBytes.WithLabelValues(label).Set(float64(size))
	}
}

// diagnoseDatabaseFiles logs the catalog files and makes read-only sidecars
// writable again. A read-only main file is only reported.
func diagnoseDatabaseFiles(dbPath string) {
	for label, path := range dbFiles(dbPath) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		logging.Debug("Database %s file: %s (mode: %v, size: %d bytes)", label, path, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 != 0 {
			continue
		}
		if label == "main" {
			logging.Warn("Database file is read-only! Mode: %v", info.Mode())
			continue
		}
		logging.Warn("%s file is read-only (mode: %v), writes would fail", label, info.Mode())
		if err := os.Chmod(path, 0o600); err != nil {
			logging.Error("Failed to fix %s file permissions: %v", label, err)
		} else {
			logging.Info("Fixed %s file permissions", label)
		}
	}
}
