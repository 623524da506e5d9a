package engine

import (
	"context"
	"log/slog"

	"golang.org/x/sys/unix"
)

// diskPressureThreshold is the used-percentage above which the worker pool
// halves its concurrency cap for the next scope (spec.md §9 Design Note).
const diskPressureThreshold = 90.0

// diskPressureRoot is the filesystem statfs checks against: the spool root
// packages/screenshots are extracted/rendered into, not the embedded
// stores themselves.
const diskPressureRoot = "/var/tmp"

// diskPressureChecker abstracts the statfs syscall so tests can inject a
// fake reading, mirroring the pack's own statfsFunc-as-a-field pattern
// (collectors/sysmetrics.Collector.statfsFunc) rather than a build-tag
// fake filesystem.
type diskPressureChecker interface {
	underPressure(ctx context.Context) bool
}

type statfsChecker struct {
	path      string
	statfs    func(path string, buf *unix.Statfs_t) error
	threshold float64
}

func defaultDiskPressureChecker() diskPressureChecker {
	return &statfsChecker{path: diskPressureRoot, statfs: unix.Statfs, threshold: diskPressureThreshold}
}

// underPressure reports whether the checked filesystem's used space
// exceeds threshold. A statfs failure is treated as "not under pressure"
// rather than fatal: a missing spool directory shouldn't stall a whole
// run, it should just mean the concurrency cap stays at its default.
func (c *statfsChecker) underPressure(ctx context.Context) bool {
	var stat unix.Statfs_t
	if err := c.statfs(c.path, &stat); err != nil {
		slog.DebugContext(ctx, "disk pressure check failed, assuming no pressure", "path", c.path, "error", err)
		return false
	}
	if stat.Blocks == 0 {
		return false
	}
	used := stat.Blocks - stat.Bfree
	total := stat.Blocks - stat.Bfree + stat.Bavail
	if total == 0 {
		return false
	}
	pct := float64(used) / float64(total) * 100
	return pct >= c.threshold
}
