// Package embeddedstore is the shared sqlite-backed embedded-store plumbing
// used by contentindex (C1) and componentstore (C2), per SPEC_FULL.md §5
// ("modernc.org/sqlite + goqu ... embedded key-value store").
//
// A single *sql.DB in WAL mode gives the "single-writer, many-reader
// transactional discipline" spec.md §4.1 requires: WAL readers observe a
// consistent snapshot without blocking the one writer. Grounded on the
// teacher's datastore/postgres package's one-file-per-operation layout and
// goqu usage (querybuilder.go), retargeted from a client-server database to
// an embedded one.
package embeddedstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v8"
	_ "github.com/doug-martin/goqu/v8/dialect/sqlite3"
	_ "modernc.org/sqlite"
)

// dialect is the shared sqlite3 goqu dialect handle, mirroring the teacher's
// datastore/postgres/querybuilder.go package-level `psql := goqu.Dialect("postgres")`
// pattern, retargeted at the sqlite3 dialect.
var dialect = goqu.Dialect("sqlite3")

// Dialect returns the shared sqlite3 query-builder dialect. Callers build a
// statement with it and render it with ToSQL, then execute the resulting
// SQL string against a *sql.DB or *sql.Tx, exactly as
// datastore/postgres/querybuilder.go builds a string for later execution
// via pgx rather than driving the statement through goqu itself.
func Dialect() goqu.DialectWrapper { return dialect }

// DB wraps a single embedded sqlite database opened in WAL mode.
type DB struct {
	sql  *sql.DB
	path string
}

// Open opens (creating if absent) the sqlite file at path, enabling WAL mode
// and foreign keys, and returns a [DB] ready for use. A single *sql.DB is
// meant to be shared process-wide: sqlite's own locking plus WAL mode
// implement the "many readers, one writer" discipline; callers must still
// serialize writers application-side (the Engine's single commit goroutine,
// spec.md §4.5).
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("embeddedstore: open %s: %w", path, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("embeddedstore: ping %s: %w", path, err)
	}
	return &DB{sql: sqlDB, path: path}, nil
}

// Raw returns the underlying *sql.DB.
func (d *DB) Raw() *sql.DB { return d.sql }

// WriteTx runs fn inside a single write transaction. Per spec.md §4.5
// Commit: "opens a single write transaction, upserts ..., and commits. A
// crash before commit leaves [the store] unchanged"; rollback on any
// returned error gives exactly that guarantee.
func (d *DB) WriteTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("embeddedstore: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Sync forces a durable flush (spec.md §4.1 sync()): a WAL checkpoint.
func (d *DB) Sync(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, "PRAGMA wal_checkpoint(FULL);")
	return err
}

// Close releases the underlying database handle.
func (d *DB) Close() error { return d.sql.Close() }
