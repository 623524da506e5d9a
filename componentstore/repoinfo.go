package componentstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v8"

	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// RepoInfo returns the last-known index fingerprint for (suite, section,
// arch), satisfying backend.RepoInfoStore (spec.md §4.2 repo_info,
// consulted by §4.5 Change detection).
func (s *Store) RepoInfo(ctx context.Context, suite, section, arch string) (mtime int64, hash string, ok bool, err error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("repo_info").
		Select("mtime", "hash").
		Where(goqu.Ex{"suite": suite, "section": section, "arch": arch}).
		Prepared(true)

	rows, qerr := embeddedstore.Query(ctx, s.db.Raw(), ds)
	err = qerr
	if err == nil {
		if rows.Next() {
			ok = true
			err = rows.Scan(&mtime, &hash)
		}
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
	}

	queryCounter.WithLabelValues("repo_info_get", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("repo_info_get").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, "", false, fmt.Errorf("componentstore: repo_info %s/%s/%s: %w", suite, section, arch, err)
	}
	return mtime, hash, ok, nil
}

// SetRepoInfo records a new index fingerprint for (suite, section, arch),
// replacing any previous one.
func (s *Store) SetRepoInfo(ctx context.Context, suite, section, arch string, mtime int64, hash string) error {
	start := time.Now()

	err := s.db.WriteTx(ctx, func(tx *sql.Tx) error {
		del := embeddedstore.Dialect().Delete("repo_info").
			Where(goqu.Ex{"suite": suite, "section": section, "arch": arch}).
			Prepared(true)
		if err := embeddedstore.Exec(ctx, tx, del); err != nil {
			return fmt.Errorf("clear repo_info: %w", err)
		}
		ins := embeddedstore.Dialect().Insert("repo_info").
			Rows(goqu.Record{"suite": suite, "section": section, "arch": arch, "mtime": mtime, "hash": hash}).
			Prepared(true)
		return embeddedstore.Exec(ctx, tx, ins)
	})

	queryCounter.WithLabelValues("set_repo_info", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("set_repo_info").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: set_repo_info %s/%s/%s: %w", suite, section, arch, err)
	}
	return nil
}
