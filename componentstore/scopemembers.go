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

// ScopeMembers returns the pkids that were live in (suite, section, arch) as
// of the last SetScopeMembers call, letting a standalone publish/cleanup
// invocation rediscover scope membership without a live engine.Result
// (whose live set only exists for the duration of one Run call).
func (s *Store) ScopeMembers(ctx context.Context, suite, section, arch string) ([]asgen.PackageID, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("scope_members").
		Select("pkid").
		Where(goqu.Ex{"suite": suite, "section": section, "arch": arch}).
		Prepared(true)

	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	var out []asgen.PackageID
	if err == nil {
		for rows.Next() {
			var raw string
			if err = rows.Scan(&raw); err != nil {
				break
			}
			pkid, perr := asgen.ParsePackageID(raw)
			if perr != nil {
				err = fmt.Errorf("parse pkid %q: %w", raw, perr)
				break
			}
			out = append(out, pkid)
		}
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
	}

	queryCounter.WithLabelValues("scope_members_get", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("scope_members_get").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("componentstore: scope_members %s/%s/%s: %w", suite, section, arch, err)
	}
	return out, nil
}

// SetScopeMembers replaces the recorded pkid set for (suite, section, arch).
func (s *Store) SetScopeMembers(ctx context.Context, suite, section, arch string, pkids []asgen.PackageID) error {
	start := time.Now()

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		del := embeddedstore.Dialect().Delete("scope_members").
			Where(goqu.Ex{"suite": suite, "section": section, "arch": arch}).
			Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, del); err != nil {
			return fmt.Errorf("clear scope_members: %w", err)
		}
		if len(pkids) == 0 {
			return nil
		}
		rows := make([]interface{}, 0, len(pkids))
		for _, pkid := range pkids {
			rows = append(rows, goqu.Record{
				"suite": suite, "section": section, "arch": arch,
				"pkid": pkid.String(),
			})
		}
		ins := embeddedstore.Dialect().Insert("scope_members").Rows(rows...).Prepared(true)
		return embeddedstore.Exec(ctx, tx, ins)
	})

	queryCounter.WithLabelValues("set_scope_members", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("set_scope_members").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: set_scope_members %s/%s/%s: %w", suite, section, arch, err)
	}
	return nil
}
