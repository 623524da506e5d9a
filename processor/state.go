// Package processor implements the Package Processor (C3, spec.md §4.3):
// turns one backend.Package into a [asgen.PackageResult] ready for the
// Engine (C5) to commit into the Content Index (C1) and Component Store
// (C2).
//
// Grounded on indexer/controller's State/stateFunc table (controller.go,
// checkmanifest.go, scanlayers.go): a small explicit state enum plus a
// table of state->func, generalized here from "one manifest through many
// layers" to "one component through one package's enrichment steps". The
// named states (spec.md §4.3) don't map one-to-one onto the nine numbered
// algorithm steps; the mapping used here is:
//
//	DISCOVERED -> a metainfo file was found, not yet decoded
//	PARSED     -> XML decoded into a Component (step 3, parse)
//	VALIDATED  -> kind/license/release-cap structural checks passed (step 3, reject)
//	ENRICHED   -> desktop fusion, icon resolution, fonts, screenshots applied (steps 4-7)
//	STORED     -> external validator run and GCID committed (steps 8-9)
//	IGNORED    -> terminal; any error-severity hint routes here
package processor

import "context"

// componentState is one node of the per-component state machine (spec.md
// §4.3).
type componentState int

const (
	discovered componentState = iota
	parsed
	validated
	enriched
	stored
	ignored
)

func (s componentState) String() string {
	switch s {
	case discovered:
		return "DISCOVERED"
	case parsed:
		return "PARSED"
	case validated:
		return "VALIDATED"
	case enriched:
		return "ENRICHED"
	case stored:
		return "STORED"
	case ignored:
		return "IGNORED"
	default:
		return "UNKNOWN"
	}
}

// stateFunc advances one component by a single state transition. Returning
// ignored is not itself an error: it's how a non-fatal "drop this
// component" decision is threaded back to the caller.
type stateFunc func(ctx context.Context, p *Processor, c *componentCtrl) (componentState, error)

var stateToStateFunc = map[componentState]stateFunc{
	discovered: (*Processor).parseComponent,
	parsed:     (*Processor).validateComponent,
	validated:  (*Processor).enrichComponent,
	enriched:   (*Processor).storeComponent,
}

// run drives c through the state table until it reaches stored or ignored.
func (p *Processor) run(ctx context.Context, c *componentCtrl) (componentState, error) {
	for c.state != stored && c.state != ignored {
		fn, ok := stateToStateFunc[c.state]
		if !ok {
			return c.state, nil
		}
		next, err := fn(ctx, p, c)
		if err != nil {
			return c.state, err
		}
		c.state = next
	}
	return c.state, nil
}
