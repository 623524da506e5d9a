package contentindex

import (
	"context"
	"fmt"
	"time"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// PackageIDSet returns every pkid the content index currently knows about
// (spec.md §4.1 package_id_set()), the basis of the Engine's cleanup pass
// (spec.md §4.5: "C1.package_id_set - live is removed from C1").
func (s *Store) PackageIDSet(ctx context.Context) (map[asgen.PackageID]struct{}, error) {
	start := time.Now()
	out := make(map[asgen.PackageID]struct{})

	ds := embeddedstore.Dialect().From("packages").Select("pkid").Prepared(true)
	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var raw string
			if err = rows.Scan(&raw); err != nil {
				break
			}
			var pkid asgen.PackageID
			if pkid, err = asgen.ParsePackageID(raw); err != nil {
				break
			}
			out[pkid] = struct{}{}
		}
		if err == nil {
			err = rows.Err()
		}
	}

	queryCounter.WithLabelValues("package_id_set", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("package_id_set").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("contentindex: package_id_set: %w", err)
	}
	return out, nil
}
