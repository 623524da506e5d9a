package embeddedstore

import (
	"context"
	"database/sql"
)

// Sqlizer is satisfied by every goqu dataset type (Select/Insert/Update/
// Delete) once built in prepared form via `ds.Prepared(true)`. Building the
// statement with goqu and then executing the rendered SQL directly mirrors
// datastore/postgres/querybuilder.go's "build with goqu, render to a SQL
// string" pattern, retargeted at sqlite and bound parameters.
type Sqlizer interface {
	ToSQL() (sql string, args []any, err error)
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queryer is satisfied by both *sql.DB and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Exec renders ds and executes it against e.
func Exec(ctx context.Context, e Execer, ds Sqlizer) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return err
	}
	_, err = e.ExecContext(ctx, query, args...)
	return err
}

// Query renders ds and issues it against q.
func Query(ctx context.Context, q Queryer, ds Sqlizer) (*sql.Rows, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, query, args...)
}
