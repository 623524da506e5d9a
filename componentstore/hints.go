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

// SetHints stores the serialized hint document produced for gcid during
// processing (spec.md §4.2 set_hints()).
func (s *Store) SetHints(ctx context.Context, gcid asgen.GCID, doc []byte) error {
	start := time.Now()
	key := gcid.String()

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		del := embeddedstore.Dialect().Delete("hints").Where(goqu.Ex{"gcid": key}).Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, del); err != nil {
			return fmt.Errorf("clear hints: %w", err)
		}
		ins := embeddedstore.Dialect().Insert("hints").Rows(goqu.Record{"gcid": key, "json": doc}).Prepared(true)
		return embeddedstore.Exec(ctx, tx, ins)
	})

	queryCounter.WithLabelValues("set_hints", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("set_hints").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: set_hints %s: %w", key, err)
	}
	return nil
}

// GetHints returns the stored hint document for gcid.
func (s *Store) GetHints(ctx context.Context, gcid asgen.GCID) ([]byte, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("hints").
		Select("json").
		Where(goqu.Ex{"gcid": gcid.String()}).
		Prepared(true)

	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	var doc []byte
	found := false
	if err == nil {
		if rows.Next() {
			found = true
			err = rows.Scan(&doc)
		}
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
	}

	queryCounter.WithLabelValues("get_hints", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("get_hints").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("componentstore: get_hints %s: %w", gcid, err)
	}
	if !found {
		return nil, fmt.Errorf("componentstore: get_hints %s: %w", gcid, errNotFound)
	}
	return doc, nil
}
