package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/pkg/store"
)

// DB wraps the SQLite database that backs the sqlite persistence option.
// Records are stored in their persistence shape, one row per record, so the
// file and sqlite persisters are interchangeable snapshots of the same data.
type DB struct {
	db *sql.DB
}

// OpenDB opens (or creates) the crmkit database under dataDir and applies
// the schema. Pass ":memory:" for an in-memory database (used by tests).
func OpenDB(dataDir string) (*DB, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "crmkit.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection avoids "database is locked" errors from the
	// background persistence goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			id   INTEGER NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (kind, id)
		);
		CREATE TABLE IF NOT EXISTS collections (
			kind     TEXT PRIMARY KEY,
			saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// SQLitePersister persists one entity kind's collection as rows in the
// shared database.
type SQLitePersister[T store.Entity[T]] struct {
	db    *DB
	codec record.Codec[T]
}

// NewSQLitePersister returns a persister writing the codec's table kind
// into db.
func NewSQLitePersister[T store.Entity[T]](db *DB, codec record.Codec[T]) *SQLitePersister[T] {
	return &SQLitePersister[T]{db: db, codec: codec}
}

// Save replaces the kind's rows with the snapshot in one transaction.
func (p *SQLitePersister[T]) Save(records []T) error {
	kind := p.codec.Table()

	tx, err := p.db.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning %s save: %w", kind, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records WHERE kind = ?", kind); err != nil {
		return fmt.Errorf("clearing %s rows: %w", kind, err)
	}
	for _, r := range records {
		encoded, err := p.codec.EncodeRecord(r)
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", kind, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO records (kind, id, data) VALUES (?, ?, ?)",
			kind, r.EntityID(), string(encoded),
		); err != nil {
			return fmt.Errorf("inserting %s record %d: %w", kind, r.EntityID(), err)
		}
	}

	// The marker row distinguishes "never saved" from an intentionally
	// emptied collection, so first boot seeding cannot clobber a wipe.
	if _, err := tx.Exec(
		"INSERT INTO collections (kind) VALUES (?) ON CONFLICT(kind) DO UPDATE SET saved_at = CURRENT_TIMESTAMP",
		kind,
	); err != nil {
		return fmt.Errorf("marking %s collection: %w", kind, err)
	}

	return tx.Commit()
}

// Load reads the kind's rows back into domain shape, or reports
// ErrNoSnapshot when the collection has never been saved.
func (p *SQLitePersister[T]) Load() ([]T, error) {
	kind := p.codec.Table()

	var marker int
	err := p.db.db.QueryRow("SELECT COUNT(*) FROM collections WHERE kind = ?", kind).Scan(&marker)
	if err != nil {
		return nil, fmt.Errorf("checking %s collection: %w", kind, err)
	}
	if marker == 0 {
		return nil, ErrNoSnapshot
	}

	rows, err := p.db.db.Query("SELECT data FROM records WHERE kind = ? ORDER BY id", kind)
	if err != nil {
		return nil, fmt.Errorf("loading %s rows: %w", kind, err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		rec, err := p.codec.DecodeRecord([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s record: %w", kind, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
