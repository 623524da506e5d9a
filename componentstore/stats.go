package componentstore

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v8"

	"github.com/asgen-project/asgen/internal/embeddedstore"
)

// Stat is one append-only statistics sample (spec.md §4.2 stats).
type Stat struct {
	Timestamp time.Time
	Metric    string
	Value     float64
}

// RecordStat appends a statistics sample. No uniqueness constraint exists on
// timestamp: spec.md §4.2 requires the store to "tolerate clock skew by
// allowing multiple entries with the same timestamp."
func (s *Store) RecordStat(ctx context.Context, stat Stat) error {
	start := time.Now()
	ds := embeddedstore.Dialect().Insert("stats").
		Rows(goqu.Record{
			"ts":     stat.Timestamp.UnixNano(),
			"metric": stat.Metric,
			"value":  stat.Value,
		}).
		Prepared(true)

	err := embeddedstore.Exec(ctx, s.db.Raw(), ds)

	queryCounter.WithLabelValues("record_stat", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("record_stat").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("componentstore: record_stat %s: %w", stat.Metric, err)
	}
	return nil
}

// StatsForMetric returns every recorded sample for metric, oldest first.
func (s *Store) StatsForMetric(ctx context.Context, metric string) ([]Stat, error) {
	start := time.Now()
	ds := embeddedstore.Dialect().From("stats").
		Select("ts", "metric", "value").
		Where(goqu.Ex{"metric": metric}).
		Order(goqu.I("ts").Asc()).
		Prepared(true)

	rows, err := embeddedstore.Query(ctx, s.db.Raw(), ds)
	var out []Stat
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var tsNano int64
			var m string
			var v float64
			if err = rows.Scan(&tsNano, &m, &v); err != nil {
				break
			}
			out = append(out, Stat{Timestamp: time.Unix(0, tsNano), Metric: m, Value: v})
		}
		if err == nil {
			err = rows.Err()
		}
	}

	queryCounter.WithLabelValues("stats_for_metric", fmt.Sprint(err == nil)).Inc()
	queryDuration.WithLabelValues("stats_for_metric").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("componentstore: stats_for_metric %s: %w", metric, err)
	}
	return out, nil
}
