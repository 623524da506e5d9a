package contentindex

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v8"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// FilesMap returns the global inverted index path->pkid over the given
// pkids' icon files (spec.md §4.1 files_map()), used by the Icon Resolver
// (C4) to find which package owns a candidate theme-relative icon path.
func (s *Store) FilesMap(ctx context.Context, pkids []asgen.PackageID) (map[string]asgen.PackageID, error) {
	return s.filesMap(ctx, "icons", pkids, false)
}

// LocaleFilesMap returns the inverted index basename->pkid over the given
// pkids' locale files (spec.md §4.1: "for the locale sub-store, the key is
// the basename of the file").
func (s *Store) LocaleFilesMap(ctx context.Context, pkids []asgen.PackageID) (map[string]asgen.PackageID, error) {
	return s.filesMap(ctx, "locale", pkids, true)
}

func (s *Store) filesMap(ctx context.Context, table string, pkids []asgen.PackageID, keyByBasename bool) (map[string]asgen.PackageID, error) {
	start := time.Now()
	out := make(map[string]asgen.PackageID)
	if len(pkids) == 0 {
		return out, nil
	}

	keys := make([]any, len(pkids))
	byKey := make(map[string]asgen.PackageID, len(pkids))
	for i, p := range pkids {
		keys[i] = p.String()
		byKey[p.String()] = p
	}

	var err error
	for _, chunk := range chunkAny(keys, sqliteMaxVars) {
		ds := embeddedstore.Dialect().From(table).
			Select("pkid", "path").
			Where(goqu.Ex{"pkid": chunk}).
			Prepared(true)

		rows, qerr := embeddedstore.Query(ctx, s.db.Raw(), ds)
		if qerr != nil {
			err = qerr
			break
		}
		for rows.Next() {
			var pkidStr, path string
			if serr := rows.Scan(&pkidStr, &path); serr != nil {
				rows.Close()
				err = serr
				break
			}
			key := path
			if keyByBasename {
				key = basename(path)
			}
			out[key] = byKey[pkidStr]
		}
		cerr := rows.Close()
		if err == nil {
			err = cerr
		}
		if err != nil {
			break
		}
	}

	queryCounter.WithLabelValues(table+"_files_map", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues(table + "_files_map").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("contentindex: files_map(%s): %w", table, err)
	}
	return out, nil
}
