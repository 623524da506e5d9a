package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/asgen-project/asgen"
)

// storeComponent implements spec.md §4.3 steps 8-9: run the external
// validator against the canonical bytes, translate its issues into hints,
// then compute the GCID and persist metadata and hints. package_value is
// set by Process once every component of the package has been handled.
func (p *Processor) storeComponent(ctx context.Context, c *componentCtrl) (componentState, error) {
	canon, err := p.canonicalize(c.component)
	if err != nil {
		return ignored, fmt.Errorf("canonicalize %s: %w", c.component.ID, err)
	}

	if p.Validators != nil {
		if err := p.validateCanonical(ctx, c, canon); err != nil {
			return ignored, err
		}
	}

	if c.fatal(p.Tags) {
		return ignored, nil
	}

	gcid := asgen.ComputeGCID(c.component.ID, c.pkg.Version(), canon)

	if p.Values != nil {
		if err := p.Values.SetMetadata(ctx, gcid, canon); err != nil {
			return ignored, fmt.Errorf("set_metadata %s: %w", gcid, err)
		}
		hintDoc, err := marshalHints(c.hints)
		if err != nil {
			return ignored, fmt.Errorf("marshal hints %s: %w", gcid, err)
		}
		if err := p.Values.SetHints(ctx, gcid, hintDoc); err != nil {
			return ignored, fmt.Errorf("set_hints %s: %w", gcid, err)
		}
	}

	c.gcid = gcid
	return stored, nil
}

// canonicalize renders comp to catalog bytes, falling back to a stdlib XML
// encoding when no Serializer collaborator is configured (tests, and
// callers that only need GCID stability rather than a real catalog).
func (p *Processor) canonicalize(comp asgen.Component) ([]byte, error) {
	if p.Serializer != nil {
		return p.Serializer.Canonicalize(&comp)
	}
	return fallbackCanonicalize(comp)
}

func marshalHints(hints []asgen.IssueHint) ([]byte, error) {
	return json.Marshal(hints)
}

// fallbackCanonicalize deterministically serializes comp with the standard
// library's encoding/json, whose map-key ordering is always sorted
// alphabetically. It's a stand-in for a real [serializer.Serializer] only
// where none is wired (GCID stability tests, the reference backend's own
// smoke tests); production callers always configure Serializer.
func fallbackCanonicalize(comp asgen.Component) ([]byte, error) {
	return json.Marshal(comp)
}
