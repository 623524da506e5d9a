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

// SetMetadata stores the canonical serialized XML for gcid (spec.md §4.2
// set_metadata()) and records the component-id -> gcid cross-reference used
// for duplicate detection (cid_gcid_map).
func (s *Store) SetMetadata(ctx context.Context, gcid asgen.GCID, xml []byte) error {
	start := time.Now()
	key := gcid.String()

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		del := embeddedstore.Dialect().Delete("metadata").Where(goqu.Ex{"gcid": key}).Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, del); err != nil {
			return fmt.Errorf("clear metadata: %w", err)
		}
		ins := embeddedstore.Dialect().Insert("metadata").Rows(goqu.Record{"gcid": key, "xml": xml}).Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert metadata: %w", err)
		}

		delCG := embeddedstore.Dialect().Delete("cid_gcid").Where(goqu.Ex{"component_id": gcid.ComponentID, "gcid": key}).Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, delCG); err != nil {
			return fmt.Errorf("clear cid_gcid: %w", err)
		}
		insCG := embeddedstore.Dialect().Insert("cid_gcid").Rows(goqu.Record{"component_id": gcid.ComponentID, "gcid": key}).Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, insCG); err != nil {
			return fmt.Errorf("insert cid_gcid: %w", err)
		}
		return nil
	})

	queryCounter.WithLabelValues("set_metadata", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("set_metadata").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: set_metadata %s: %w", key, err)
	}
	return nil
}

// HasMetadata reports whether gcid has stored metadata (spec.md §4.2
// has_metadata()).
func (s *Store) HasMetadata(ctx context.Context, gcid asgen.GCID) (bool, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("metadata").
		Select(goqu.L("1")).
		Where(goqu.Ex{"gcid": gcid.String()}).
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

	queryCounter.WithLabelValues("has_metadata", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("has_metadata").Observe(time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("componentstore: has_metadata %s: %w", gcid, err)
	}
	return found, nil
}

// GetMetadata returns the stored canonical XML for gcid.
func (s *Store) GetMetadata(ctx context.Context, gcid asgen.GCID) ([]byte, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("metadata").
		Select("xml").
		Where(goqu.Ex{"gcid": gcid.String()}).
		Prepared(true)

	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	var xml []byte
	found := false
	if err == nil {
		if rows.Next() {
			found = true
			err = rows.Scan(&xml)
		}
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
	}

	queryCounter.WithLabelValues("get_metadata", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("get_metadata").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("componentstore: get_metadata %s: %w", gcid, err)
	}
	if !found {
		return nil, fmt.Errorf("componentstore: get_metadata %s: %w", gcid, errNotFound)
	}
	return xml, nil
}

// GCIDsForComponentID returns every GCID ever recorded for a component-id,
// the duplicate-detection cross-reference (spec.md §4.2 cid_gcid_map).
func (s *Store) GCIDsForComponentID(ctx context.Context, componentID string) ([]asgen.GCID, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("cid_gcid").
		Select("gcid").
		Where(goqu.Ex{"component_id": componentID}).
		Prepared(true)

	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	var out []asgen.GCID
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var raw string
			if err = rows.Scan(&raw); err != nil {
				break
			}
			var gcid asgen.GCID
			if gcid, err = asgen.ParseGCID(raw); err != nil {
				break
			}
			out = append(out, gcid)
		}
		if err == nil {
			err = rows.Err()
		}
	}

	queryCounter.WithLabelValues("gcids_for_component_id", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("gcids_for_component_id").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("componentstore: gcids_for_component_id %s: %w", componentID, err)
	}
	return out, nil
}
