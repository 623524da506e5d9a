package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/asgen-project/asgen/componentstore"
)

// recordStats persists one scope's component/severity counts into the
// Component Store's append-only stats log (spec.md §4.6 step 5). Metric
// names are namespaced by suite so a multi-suite history doesn't conflate
// counts across suites.
func (p *Publisher) recordStats(ctx context.Context, suite string, stats *scopeStats) error {
	now := time.Now()
	samples := []componentstore.Stat{
		{Timestamp: now, Metric: fmt.Sprintf("publisher.%s.components", suite), Value: float64(stats.Components)},
		{Timestamp: now, Metric: fmt.Sprintf("publisher.%s.removed", suite), Value: float64(stats.Removed)},
	}
	for sev, count := range stats.BySeverity {
		samples = append(samples, componentstore.Stat{
			Timestamp: now,
			Metric:    fmt.Sprintf("publisher.%s.hints.%s", suite, sev),
			Value:     float64(count),
		})
	}
	for _, s := range samples {
		if err := p.Values.RecordStat(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
