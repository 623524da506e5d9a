package contentindex

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v8"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// Contains reports whether pkid has an entry in the content index (spec.md
// §4.1 contains()).
func (s *Store) Contains(ctx context.Context, pkid asgen.PackageID) (bool, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("packages").
		Select(goqu.L("1")).
		Where(goqu.Ex{"pkid": pkid.String()}).
		Limit(1).
		Prepared(true)

	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	found := false
	if err == nil {
		found = rows.Next()
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
	}

	queryCounter.WithLabelValues("contains", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("contains").Observe(time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("contentindex: contains %s: %w", pkid, err)
	}
	return found, nil
}
