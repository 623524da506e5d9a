package engine

import (
	"context"
	"time"

	"github.com/asgen-project/asgen/componentstore"
)

// Metric names recorded into the Component Store's stats table (spec.md
// §4.2 stats), read back by whatever dashboard/report renders historical
// trends across runs.
const (
	MetricPackagesProcessed = "engine.packages_processed"
	MetricPackagesFailed    = "engine.packages_failed"
	MetricPackagesRemoved   = "engine.packages_removed"
	MetricComponentsRemoved = "engine.components_removed"
)

// RecordStats persists this run's headline counters, tagged with now, into
// the Component Store's append-only stats log. Call it after [Engine.Run]
// returns; kept separate from Run itself so a caller can choose not to
// record (e.g. a dry run) without special-casing Run's return value.
func (e *Engine) RecordStats(ctx context.Context, result *Result, now time.Time) error {
	samples := []componentstore.Stat{
		{Timestamp: now, Metric: MetricPackagesProcessed, Value: float64(result.Processed())},
		{Timestamp: now, Metric: MetricPackagesFailed, Value: float64(result.Failed())},
		{Timestamp: now, Metric: MetricPackagesRemoved, Value: float64(len(result.Removed))},
		{Timestamp: now, Metric: MetricComponentsRemoved, Value: float64(len(result.RemovedComponents))},
	}
	for _, s := range samples {
		if err := e.Values.RecordStat(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
