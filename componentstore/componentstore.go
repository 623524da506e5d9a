// Package componentstore implements the Component Store (C2, spec.md
// §4.2): a persistent map keyed by GCID holding a component's canonical
// metadata XML, its hints, the pkid -> GCID-list publish join key, a
// component-id -> GCID cross-reference, append-only statistics, and
// per-(suite, section, arch) change-detection fingerprints.
//
// Grounded the same way as contentindex: datastore/postgres's
// one-file-per-operation layout and the querybuilder.go goqu usage, over
// internal/embeddedstore instead of a client-server pool.
package componentstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// errNotFound is returned wrapped from lookups with no matching row.
var errNotFound = errors.New("not found")

// ErrNotFound reports whether err (or any error it wraps) is the
// component store's not-found sentinel.
func ErrNotFound(err error) bool { return errors.Is(err, errNotFound) }

var (
	queryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asgen",
			Subsystem: "componentstore",
			Name:      "queries_total",
			Help:      "Total number of component store queries, by operation and outcome.",
		},
		[]string{"op", "success"},
	)
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "asgen",
			Subsystem: "componentstore",
			Name:      "query_duration_seconds",
			Help:      "Duration of component store queries, by operation.",
		},
		[]string{"op"},
	)
)

// Store is the Component Store. The zero value is not usable; construct one
// with [Open].
type Store struct {
	db *embeddedstore.DB
}

// Open opens (creating if absent) the component store at path and ensures
// its schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := embeddedstore.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("componentstore: %w", err)
	}
	if _, err := db.Raw().ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("componentstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Sync forces a durable flush.
func (s *Store) Sync(ctx context.Context) error { return s.db.Sync(ctx) }
