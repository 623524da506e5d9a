package contentindex

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v8"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// Remove deletes pkid's entry from every sub-store (spec.md §4.1 remove()).
func (s *Store) Remove(ctx context.Context, pkid asgen.PackageID) error {
	start := time.Now()
	key := pkid.String()

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"contents", "icons", "locale", "packages"} {
			ds := embeddedstore.Dialect().Delete(table).Where(goqu.Ex{"pkid": key}).Prepared(true)
			if err := embeddedstore.Exec(ctx, tx, ds); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})

	queryCounter.WithLabelValues("remove", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("remove").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("contentindex: remove %s: %w", key, err)
	}
	return nil
}

// RemoveMany deletes every pkid in the set from every sub-store (spec.md
// §4.1 remove_many()), used by the Engine's cleanup pass (spec.md §4.5).
func (s *Store) RemoveMany(ctx context.Context, pkids []asgen.PackageID) error {
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
			for _, table := range []string{"contents", "icons", "locale", "packages"} {
				ds := embeddedstore.Dialect().Delete(table).Where(goqu.Ex{"pkid": chunk}).Prepared(true)
				if err := embeddedstore.Exec(ctx, tx, ds); err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
		}
		return nil
	})

	queryCounter.WithLabelValues("remove_many", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("remove_many").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("contentindex: remove_many: %w", err)
	}
	return nil
}

// sqliteMaxVars is the per-statement bound-parameter budget we chunk IN(...)
// lists to; sqlite's own default limit (SQLITE_MAX_VARIABLE_NUMBER) is much
// higher in modernc builds, but this keeps individual statements small and
// portable across sqlite builds (spec.md §4.1 note on files_map chunking).
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
