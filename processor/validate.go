package processor

import (
	"context"
	"fmt"
)

// validateCanonical runs c's worker-scoped validator instance against the
// canonical bytes and translates every reported issue into a hint tagged
// "asv-<original-tag>" (spec.md §4.3 step 8).
func (p *Processor) validateCanonical(ctx context.Context, c *componentCtrl, canon []byte) error {
	v := p.Validators.Get(c.workerID)
	defer p.Validators.Put(c.workerID, v)

	issues, err := v.Validate(ctx, canon)
	if err != nil {
		return fmt.Errorf("validate %s: %w", c.component.ID, err)
	}
	for _, issue := range issues {
		tag := "asv-" + issue.Tag
		subst := map[string]string{"message": issue.Message}
		if issue.Line > 0 {
			h := p.Tags.New(tag, c.component.ID, subst)
			h.Line = issue.Line
			c.hints = append(c.hints, h)
			continue
		}
		c.addHint(p.Tags, tag, subst)
	}
	return nil
}
