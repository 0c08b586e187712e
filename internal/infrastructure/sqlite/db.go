// Package sqlite stores settings snapshots in a SQLite database.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/tincture/internal/history"
	"github.com/zjrosen/tincture/internal/log"
)

//go:embed schema.sql
var schema string

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

// DB wraps the snapshot database connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens (creating if needed) the database at path and brings its
// schema up to date. An existing file with an older schema is copied to
// path+".bak" first.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	_, statErr := os.Stat(path)
	existed := statErr == nil

	dsn := "file:" + path + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.upgrade(path, existed); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) upgrade(path string, existed bool) error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	if existed {
		if err := backup(path); err != nil {
			return fmt.Errorf("failed to back up database: %w", err)
		}
	}
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	log.Info(log.CatHistory, "Database schema upgraded", "path", path, "from", version, "to", schemaVersion)
	return nil
}

func backup(path string) error {
	src, err := os.Open(path) //nolint:gosec // G304: path is the configured database file
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304: derived from the database path
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// SnapshotRepository returns the snapshot repository backed by this DB.
func (db *DB) SnapshotRepository() history.Repository {
	return newSnapshotRepository(db.conn)
}
