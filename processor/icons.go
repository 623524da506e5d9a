package processor

import (
	"context"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/iconresolver"
)

// resolveIcons implements spec.md §4.3 step 5: invoke the Icon Resolver
// with the component's icon name and the Icon Policy's requested sizes.
func (p *Processor) resolveIcons(ctx context.Context, c *componentCtrl) error {
	if p.Icons == nil || c.iconName == "" {
		return nil
	}

	sizes := []asgen.IconSize{asgen.Icon64}
	if p.IconPolicy != nil {
		sizes = p.IconPolicy.WantedSizes()
	}

	resolved, hints, err := p.Icons.Resolve(ctx, iconresolver.Request{
		ComponentID: c.component.ID,
		IconName:    c.iconName,
		Sizes:       sizes,
	})
	if err != nil {
		return err
	}
	for _, h := range hints {
		h.Severity = p.Tags.Severity(h.Tag)
		c.hints = append(c.hints, h)
	}

	if len(resolved) == 0 {
		return nil
	}
	c.component.Icons = c.component.Icons[:0]
	for size, r := range resolved {
		policy := asgen.IconSizePolicy{}
		if p.IconPolicy != nil {
			policy = p.IconPolicy.Policy(size)
		}
		ic := asgen.Icon{Size: string(size)}
		if policy.Cached {
			ic.Cached = r.Path
		}
		if policy.Remote {
			ic.Remote = r.Path
		}
		if !policy.Cached && !policy.Remote {
			continue
		}
		c.component.Icons = append(c.component.Icons, ic)
	}
	return nil
}
