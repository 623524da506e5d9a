package componentstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v8"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// SetPackageValue records the ordered list of GCIDs pkid currently resolves
// to (spec.md §4.2 set_package_value()), the publish-time join key.
func (s *Store) SetPackageValue(ctx context.Context, pkid asgen.PackageID, gcids []asgen.GCID) error {
	start := time.Now()
	key := pkid.String()

	ids := make([]string, len(gcids))
	for i, g := range gcids {
		ids[i] = g.String()
	}
	blob, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("componentstore: set_package_value %s: marshal gcids: %w", key, err)
	}

	err = s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		del := embeddedstore.Dialect().Delete("package_value").Where(goqu.Ex{"pkid": key}).Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, del); err != nil {
			return fmt.Errorf("clear package_value: %w", err)
		}
		ins := embeddedstore.Dialect().Insert("package_value").
			Rows(goqu.Record{"pkid": key, "gcids": string(blob)}).
			Prepared(true)
		return embeddedstore.Exec(ctx, tx, ins)
	})

	queryCounter.WithLabelValues("set_package_value", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("set_package_value").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: set_package_value %s: %w", key, err)
	}
	return nil
}

// PackageValue returns the GCID list currently recorded for pkid, and
// whether any row exists at all — the fast-path skip check of spec.md §4.3
// step 1 needs the emptiness distinct from "never processed".
func (s *Store) PackageValue(ctx context.Context, pkid asgen.PackageID) ([]asgen.GCID, bool, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("package_value").
		Select("gcids").
		Where(goqu.Ex{"pkid": pkid.String()}).
		Prepared(true)

	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	var blob string
	found := false
	if err == nil {
		if rows.Next() {
			found = true
			err = rows.Scan(&blob)
		}
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
	}

	queryCounter.WithLabelValues("package_value", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("package_value").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, fmt.Errorf("componentstore: package_value %s: %w", pkid, err)
	}
	if !found {
		return nil, false, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(blob), &ids); err != nil {
		return nil, true, fmt.Errorf("componentstore: package_value %s: unmarshal: %w", pkid, err)
	}
	out := make([]asgen.GCID, 0, len(ids))
	for _, raw := range ids {
		gcid, perr := asgen.ParseGCID(raw)
		if perr != nil {
			continue
		}
		out = append(out, gcid)
	}
	return out, true, nil
}

// GetGCIDsForSuite enumerates every GCID reachable from the given pkids
// (spec.md §4.2 get_gcids_for_suite(): "enumerated by joining the backend's
// current pkid set against package_value"). The caller supplies the live
// pkid set for (suite, section, arch); this store has no notion of suites
// itself, only pkid -> gcids.
func (s *Store) GetGCIDsForSuite(ctx context.Context, pkids []asgen.PackageID) ([]asgen.GCID, error) {
	start := time.Now()
	var out []asgen.GCID
	if len(pkids) == 0 {
		return out, nil
	}

	keys := make([]any, len(pkids))
	for i, p := range pkids {
		keys[i] = p.String()
	}

	var err error
	for _, chunk := range chunkAny(keys, sqliteMaxVars) {
		ds := embeddedstore.Dialect().From("package_value").
			Select("gcids").
			Where(goqu.Ex{"pkid": chunk}).
			Prepared(true)

		rows, qerr := embeddedstore.Query(ctx, s.db.Raw(), ds)
		if qerr != nil {
			err = qerr
			break
		}
		for rows.Next() {
			var blob string
			if serr := rows.Scan(&blob); serr != nil {
				rows.Close()
				err = serr
				break
			}
			var ids []string
			if uerr := json.Unmarshal([]byte(blob), &ids); uerr != nil {
				rows.Close()
				err = uerr
				break
			}
			for _, raw := range ids {
				gcid, perr := asgen.ParseGCID(raw)
				if perr != nil {
					continue
				}
				out = append(out, gcid)
			}
		}
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
		if err != nil {
			break
		}
	}

	queryCounter.WithLabelValues("get_gcids_for_suite", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("get_gcids_for_suite").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("componentstore: get_gcids_for_suite: %w", err)
	}
	return out, nil
}
