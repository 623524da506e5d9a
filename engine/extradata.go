package engine

import (
	"context"
	"fmt"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/extradata"
)

// injectExtraData feeds one scope's hand-maintained extra-metainfo (C7,
// spec.md §4.7) through the processor exactly like any backend package: the
// Extra-Data Injector produces a synthetic backend.Package, and the Engine
// drives it through the same p.Process call the fan-out in runScope uses —
// no special-cased code path for synthetic packages.
func (e *Engine) injectExtraData(ctx context.Context, p processorAPI, result *Result, suite asgen.Suite, section, arch string) (*asgen.PackageID, error) {
	if e.ExtraMetainfoDir == "" {
		return nil, nil
	}
	pkg, err := extradata.Collect(e.ExtraMetainfoDir, suite.Name, section, arch)
	if err != nil {
		return nil, fmt.Errorf("extradata: %w", err)
	}
	if pkg == nil {
		return nil, nil
	}

	pr, err := p.Process(ctx, pkg, 0)
	if err != nil {
		result.failed++
		packagesProcessed.WithLabelValues(suite.Name, "error").Inc()
		return nil, nil
	}
	result.processed++
	outcome := "ignored"
	if len(pr.Components) > 0 {
		outcome = "stored"
	}
	packagesProcessed.WithLabelValues(suite.Name, outcome).Inc()
	result.addLive([]asgen.PackageID{pr.PkgID})
	return &pr.PkgID, nil
}
