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

// Put atomically replaces pkid's recorded file list across all three
// sub-stores (spec.md §4.1 put()), filtering fileList into the icons and
// locale projections as it writes.
func (s *Store) Put(ctx context.Context, pkid asgen.PackageID, fileList []string) error {
	start := time.Now()
	key := pkid.String()

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"contents", "icons", "locale", "packages"} {
			if err := embeddedstore.Exec(ctx, tx, embeddedstore.Dialect().Delete(table).Where(goqu.Ex{"pkid": key}).Prepared(true)); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := embeddedstore.Exec(ctx, tx, embeddedstore.Dialect().Insert("packages").Rows(goqu.Record{"pkid": key}).Prepared(true)); err != nil {
			return fmt.Errorf("insert packages: %w", err)
		}

		var contentRows, iconRows, localeRows []goqu.Record
		for _, f := range fileList {
			contentRows = append(contentRows, goqu.Record{"pkid": key, "path": f})
			switch {
			case isIconPath(f):
				iconRows = append(iconRows, goqu.Record{"pkid": key, "path": f})
			case isLocalePath(f):
				localeRows = append(localeRows, goqu.Record{"pkid": key, "path": f})
			}
		}

		for table, rows := range map[string][]goqu.Record{
			"contents": contentRows,
			"icons":    iconRows,
			"locale":   localeRows,
		} {
			if len(rows) == 0 {
				continue
			}
			if err := embeddedstore.Exec(ctx, tx, embeddedstore.Dialect().Insert(table).Rows(rows).Prepared(true)); err != nil {
				return fmt.Errorf("insert %s: %w", table, err)
			}
		}
		return nil
	})

	queryCounter.WithLabelValues("put", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("put").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("contentindex: put %s: %w", key, err)
	}
	return nil
}
