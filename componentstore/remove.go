package componentstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v8"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// sqliteMaxVars bounds the size of IN(...) lists per statement; see
// contentindex's identical constant for the rationale.
const sqliteMaxVars = 500

func chunkAny(s []any, n int) [][]any {
	var out [][]any
	for n < len(s) {
		out = append(out, s[:n:n])
		s = s[n:]
	}
	if len(s) > 0 {
		out = append(out, s)
	}
	return out
}

// RemovePackages deletes the package_value entries for the given pkids
// (spec.md §4.2 remove_packages()).
func (s *Store) RemovePackages(ctx context.Context, pkids []asgen.PackageID) error {
	if len(pkids) == 0 {
		return nil
	}
	start := time.Now()
	keys := make([]any, len(pkids))
	for i, p := range pkids {
		keys[i] = p.String()
	}

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		for _, chunk := range chunkAny(keys, sqliteMaxVars) {
			ds := embeddedstore.Dialect().Delete("package_value").Where(goqu.Ex{"pkid": chunk}).Prepared(true)
			if err := embeddedstore.Exec(ctx, tx, ds); err != nil {
				return err
			}
		}
		return nil
	})

	queryCounter.WithLabelValues("remove_packages", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("remove_packages").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: remove_packages: %w", err)
	}
	return nil
}

// RemoveComponents deletes metadata, hints, and cid_gcid cross-references
// for the given gcids (spec.md §4.2 remove_components()), used by the
// Engine's cleanup pass (spec.md §4.5) once a GCID is unreferenced by any
// retained suite.
func (s *Store) RemoveComponents(ctx context.Context, gcids []asgen.GCID) error {
	if len(gcids) == 0 {
		return nil
	}
	start := time.Now()
	keys := make([]any, len(gcids))
	for i, g := range gcids {
		keys[i] = g.String()
	}

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		for _, chunk := range chunkAny(keys, sqliteMaxVars) {
			for _, table := range []string{"metadata", "hints", "cid_gcid"} {
				col := "gcid"
				ds := embeddedstore.Dialect().Delete(table).Where(goqu.Ex{col: chunk}).Prepared(true)
				if err := embeddedstore.Exec(ctx, tx, ds); err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
		}
		return nil
	})

	queryCounter.WithLabelValues("remove_components", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("remove_components").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: remove_components: %w", err)
	}
	return nil
}
