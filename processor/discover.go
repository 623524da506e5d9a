package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend"
)

const (
	metainfoDir    = "/usr/share/metainfo/"
	legacyAppdata  = "/usr/share/appdata/"
	desktopFileExt = ".desktop"
)

// Process runs the full Package Processor algorithm (spec.md §4.3) against
// pkg, returning the committed-ready result. pkg.Finish() is always called
// exactly once before returning, on every exit path. workerID scopes the
// validator pool (internal/validatorpool): the Engine assigns a stable
// small integer per worker goroutine; single-threaded callers pass 0.
func (p *Processor) Process(ctx context.Context, pkg backend.Package, workerID int) (*asgen.PackageResult, error) {
	defer pkg.Finish()

	pkid := pkg.ID()
	result := asgen.NewPackageResult(pkid, pkg.Name())

	// Step 1: fast-path skip.
	if p.Content != nil && p.Values != nil {
		inIndex, err := p.Content.Contains(ctx, pkid)
		if err != nil {
			return nil, fmt.Errorf("processor: contains %s: %w", pkid, err)
		}
		gcids, hasValue, err := p.Values.PackageValue(ctx, pkid)
		if err != nil {
			return nil, fmt.Errorf("processor: package_value %s: %w", pkid, err)
		}
		changed := p.FeatureChanged != nil && p.FeatureChanged(pkid)
		if inIndex && hasValue && len(gcids) > 0 && !changed {
			for _, g := range gcids {
				result.Components[g.ComponentID] = asgen.ComponentEntry{GCID: g}
			}
			return result, nil
		}
	}

	// Step 2: content ingest.
	files, err := pkg.Contents(ctx)
	if err != nil {
		result.PackageHints = append(result.PackageHints, p.Tags.New("package-archive-unreadable", "", map[string]string{"pkid": pkid.String(), "error": err.Error()}))
		return result, nil
	}
	if p.Content != nil {
		if err := p.Content.Put(ctx, pkid, files); err != nil {
			return nil, fmt.Errorf("processor: put %s: %w", pkid, err)
		}
	}

	// Step 3: component discovery.
	ctrls := p.discoverComponents(files, pkg)
	for _, c := range ctrls {
		c.workerID = workerID
		final, err := p.run(ctx, c)
		if err != nil {
			result.PackageHints = append(result.PackageHints, p.Tags.New("package-archive-unreadable", "", map[string]string{"pkid": pkid.String(), "path": c.path, "error": err.Error()}))
			continue
		}
		if final == ignored || c.fatal(p.Tags) {
			result.Ignore[c.component.ID] = struct{}{}
			continue
		}
		entry := asgen.ComponentEntry{Component: c.component, GCID: c.gcid, Hints: c.hints}
		result.AddComponent(entry)
	}

	if p.Values != nil && len(result.Components) > 0 {
		if err := p.Values.SetPackageValue(ctx, pkid, result.GCIDs()); err != nil {
			return nil, fmt.Errorf("processor: set_package_value %s: %w", pkid, err)
		}
	}

	return result, nil
}

// discoverComponents finds every metainfo candidate in files (spec.md §4.3
// step 3: current /usr/share/metainfo/*.xml plus legacy
// /usr/share/appdata/*.xml.in).
func (p *Processor) discoverComponents(files []string, pkg backend.Package) []*componentCtrl {
	var out []*componentCtrl
	for _, f := range files {
		switch {
		case strings.HasPrefix(f, metainfoDir) && strings.HasSuffix(f, ".xml"):
			out = append(out, &componentCtrl{state: discovered, path: f, pkg: pkg})
		case strings.HasPrefix(f, legacyAppdata) && strings.HasSuffix(f, ".xml.in"):
			out = append(out, &componentCtrl{state: discovered, path: f, pkg: pkg, ancient: true})
		}
	}
	return out
}

// parseComponent implements the "parse as XML" half of step 3.
func (p *Processor) parseComponent(ctx context.Context, c *componentCtrl) (componentState, error) {
	data, err := c.pkg.FileData(ctx, c.path)
	if err != nil {
		return ignored, fmt.Errorf("read %s: %w", c.path, err)
	}
	comp, iconName, perr := parseMetainfo(data)
	if perr != nil {
		c.addHint(p.Tags, "metainfo-parsing-error", map[string]string{"file": c.path, "error": perr.Error()})
		return ignored, nil
	}
	comp.PkgName = c.pkg.Name()
	c.component = comp
	c.iconName = iconName
	if c.ancient {
		c.addHint(p.Tags, "ancient-metadata", map[string]string{"file": c.path})
	}
	return parsed, nil
}

// validateComponent implements the "reject UNKNOWN kind; reject disallowed
// metadata license; cap release list" half of step 3.
func (p *Processor) validateComponent(ctx context.Context, c *componentCtrl) (componentState, error) {
	if c.component.ID == "" || c.component.Kind == asgen.KindUnknown {
		c.addHint(p.Tags, "metainfo-kind-unknown", map[string]string{"file": c.path})
		return ignored, nil
	}
	if p.License != nil && !p.License.Allowed(c.component.MetadataLicense) {
		c.addHint(p.Tags, "metainfo-license-invalid", map[string]string{
			"file":    c.path,
			"license": c.component.MetadataLicense,
		})
		return ignored, nil
	}
	c.component.CapReleases()
	return validated, nil
}
