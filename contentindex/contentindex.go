// Package contentindex implements the Content Index (C1, spec.md §4.1): a
// persistent map from pkid to the package's file list, plus the icon-file
// and locale-file projections the Icon Resolver (C4) and desktop-file
// translation step (processor, spec.md §4.3 step 6) need.
//
// Grounded on the teacher's datastore/postgres package: one file per
// operation, prometheus counters/histograms per query
// (datastore/postgres/indexfiles.go), a single write transaction per write
// (datastore/postgres/indexfiles.go's pgx.BeginFunc), retargeted onto the
// embedded sqlite store of internal/embeddedstore instead of a
// client-server postgres pool.
package contentindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/embeddedstore"
)

var (
	queryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asgen",
			Subsystem: "contentindex",
			Name:      "queries_total",
			Help:      "Total number of content index queries, by operation and outcome.",
		},
		[]string{"op", "success"},
	)
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "asgen",
			Subsystem: "contentindex",
			Name:      "query_duration_seconds",
			Help:      "Duration of content index queries, by operation.",
		},
		[]string{"op"},
	)
)

// Store is the Content Index. The zero value is not usable; construct one
// with [Open].
type Store struct {
	db *embeddedstore.DB
}

// Open opens (creating if absent) the content index at path and ensures its
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := embeddedstore.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("contentindex: %w", err)
	}
	if _, err := db.Raw().ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("contentindex: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Sync forces a durable flush (spec.md §4.1 sync()).
func (s *Store) Sync(ctx context.Context) error {
	return s.db.Sync(ctx)
}

// iconPathPrefixes are the XDG icon-theme tree roots a content path is
// classified against for the icons projection (spec.md §4.4's theme search
// walks these same roots).
var iconPathPrefixes = []string{
	"/usr/share/icons/",
	"/usr/share/pixmaps/",
}

// isIconPath reports whether path belongs in the icons projection.
func isIconPath(path string) bool {
	for _, p := range iconPathPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// localeExtensions are the translation-catalog suffixes the locale
// projection recognizes (spec.md §4.1: gettext .mo, Qt .qm, Android .pak).
var localeExtensions = []string{".mo", ".qm", ".pak"}

// isLocalePath reports whether path belongs in the locale projection: under
// /usr/share/locale* with a recognized translation-catalog extension
// (spec.md §4.1).
func isLocalePath(path string) bool {
	if !strings.HasPrefix(path, "/usr/share/locale") {
		return false
	}
	for _, ext := range localeExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
