package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/asgen-project/asgen/internal/desktopentry"
)

// fuseDesktopFile implements spec.md §4.3 step 4: find the .desktop file a
// desktop-id launchable names (or the legacy id-derived filename), merge in
// whatever the metainfo left unset, and apply the NoDisplay/OnlyShowIn/
// X-AppStream-Ignore drop rules. Returns false if the component must be
// dropped entirely.
func (p *Processor) fuseDesktopFile(ctx context.Context, c *componentCtrl, files []string) (bool, error) {
	desktopID := desktopIDLaunchable(c.component)
	if desktopID == "" && c.ancient {
		// Legacy metadata derives the desktop-id from the component id.
		desktopID = c.component.ID + desktopFileExt
	}
	if desktopID == "" {
		return true, nil
	}

	path := findDesktopFile(files, desktopID)
	if path == "" {
		c.addHint(p.Tags, "missing-desktop-file", map[string]string{"desktop-id": desktopID})
		return true, nil
	}

	data, err := c.pkg.FileData(ctx, path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	entry := desktopentry.Parse(data)

	if entry.AppStreamIgnore {
		return false, nil
	}
	if entry.NoDisplay {
		return false, nil
	}
	if len(entry.OnlyShowIn) > 0 {
		// Decision (spec.md §9 Design Notes, SPEC_FULL.md §12): always drop
		// when OnlyShowIn is present and no desktop is configured to match
		// it. asgen never runs inside a specific desktop session, so this
		// is unconditional.
		c.addHint(p.Tags, "component-only-show-in", map[string]string{"only-show-in": strings.Join(entry.OnlyShowIn, ";")})
		return false, nil
	}

	if len(c.component.Name) == 0 && len(entry.Name) > 0 {
		c.component.Name = entry.Name
	}
	if len(c.component.Summary) == 0 && len(entry.Comment) > 0 {
		c.component.Summary = entry.Comment
	}
	if len(c.component.Categories) == 0 && len(entry.Categories) > 0 {
		c.component.Categories = entry.Categories
	}
	if c.iconName == "" && entry.Icon != "" {
		c.iconName = entry.Icon
	}
	if len(entry.Keywords) > 0 {
		if c.component.Keywords == nil {
			c.component.Keywords = make(map[string][]string, len(entry.Keywords))
		}
		for lang, kws := range entry.Keywords {
			if len(c.component.Keywords[lang]) == 0 {
				c.component.Keywords[lang] = kws
			}
		}
	}

	return true, nil
}

// findDesktopFile locates desktopID among files, matching on basename since
// backends report full archive-relative paths.
func findDesktopFile(files []string, desktopID string) string {
	for _, f := range files {
		if !strings.HasSuffix(f, desktopFileExt) {
			continue
		}
		if basenameOf(f) == desktopID {
			return f
		}
	}
	return ""
}

func basenameOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
