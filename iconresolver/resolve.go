package iconresolver

import (
	"context"

	"github.com/asgen-project/asgen"
)

// Request is one icon resolution request (spec.md §4.4 Inputs).
type Request struct {
	ComponentID string
	IconName    string
	// Sizes is the wanted size list, typically policy.WantedSizes() plus
	// the mandatory 64x64 (spec.md §4.4 step 7).
	Sizes []asgen.IconSize
	// Preferred, if non-zero, is tried before any other package in Scope
	// (spec.md §4.4 step 5).
	Preferred *asgen.PackageID
	// Scope is every pkid eligible to own the icon: the current (suite,
	// section, arch) set, optionally extended by the base suite's main
	// section (spec.md §4.4 step 5).
	Scope []asgen.PackageID
}

// Resolve implements spec.md §4.4's full algorithm for one component.
func (r *Resolver) Resolve(ctx context.Context, req Request) (map[asgen.IconSize]Resolved, []asgen.IssueHint, error) {
	out := make(map[asgen.IconSize]Resolved)
	var hints []asgen.IssueHint

	wanted := ensureSize(req.Sizes, asgen.Icon64)
	pixelsBySize := make(map[asgen.IconSize]int, len(wanted))
	for _, sz := range wanted {
		pixelsBySize[sz] = sz.Pixels()
	}

	scope := req.Scope
	if req.Preferred != nil {
		scope = append([]asgen.PackageID{*req.Preferred}, scope...)
	}
	filesMap, err := r.content.FilesMap(ctx, scope)
	if err != nil {
		return nil, nil, err
	}

	for _, sz := range wanted {
		res, unsupported, found := r.resolveOne(req.IconName, pixelsBySize[sz], req.Preferred, filesMap)
		if unsupported {
			hints = append(hints, asgen.IssueHint{
				Tag:         "icon-format-unsupported",
				ComponentID: req.ComponentID,
				File:        req.IconName,
			})
		}
		if found {
			out[sz] = res
		}
	}

	if _, ok := out[asgen.Icon64]; !ok {
		if src, ok := r.smallestLargerAvailable(wanted, out); ok {
			// Mandatory downscale (spec.md §4.4 step 7): the smallest size
			// larger than 64x64 that was found is downscaled into it.
			res := out[src]
			res.Scaled = true
			res.SourceSz = src.Pixels()
			out[asgen.Icon64] = res
		} else if r.AllowUpscaling {
			// The only upscale the spec permits (step 6): 48->64.
			if res, _, found := r.resolveOne(req.IconName, 48, req.Preferred, filesMap); found {
				res.Scaled = true
				res.SourceSz = 48
				out[asgen.Icon64] = res
			}
		}
	}

	if _, ok := out[asgen.Icon64]; !ok {
		hints = append(hints, asgen.IssueHint{
			Tag:         "icon-not-found",
			ComponentID: req.ComponentID,
			File:        req.IconName,
		})
	}

	return out, hints, nil
}

// resolveOne finds the best candidate at exactly pixels, preferring the
// preferred package over any other in scope (spec.md §4.4 step 5). It
// reports unsupported=true (but found=false) if the only match was an xpm.
func (r *Resolver) resolveOne(iconName string, pixels int, preferred *asgen.PackageID, filesMap map[string]asgen.PackageID) (res Resolved, unsupported bool, found bool) {
	for _, cand := range r.candidatesForSize(iconName, pixels) {
		owner, ok := filesMap[cand.path]
		if !ok {
			continue
		}
		if cand.ext == "xpm" {
			unsupported = true
			continue
		}
		if preferred != nil && owner == *preferred {
			return Resolved{Package: owner, Path: cand.path, Ext: cand.ext}, unsupported, true
		}
		if !found {
			res = Resolved{Package: owner, Path: cand.path, Ext: cand.ext}
			found = true
		}
	}
	return res, unsupported, found
}

// smallestLargerAvailable returns the smallest already-resolved size bigger
// than 64x64, the source for the mandatory downscale (spec.md §4.4 step 7:
// "If only larger sizes were found, downscale the smallest larger size into
// 64x64").
func (r *Resolver) smallestLargerAvailable(wanted []asgen.IconSize, out map[asgen.IconSize]Resolved) (asgen.IconSize, bool) {
	var best asgen.IconSize
	bestPixels := -1
	threshold := asgen.Icon64.Pixels()
	for _, sz := range wanted {
		if _, ok := out[sz]; !ok {
			continue
		}
		p := sz.Pixels()
		if p <= threshold {
			continue
		}
		if bestPixels == -1 || p < bestPixels {
			best, bestPixels = sz, p
		}
	}
	return best, bestPixels > 0
}

func ensureSize(sizes []asgen.IconSize, want asgen.IconSize) []asgen.IconSize {
	for _, sz := range sizes {
		if sz == want {
			return sizes
		}
	}
	return append(append([]asgen.IconSize{}, sizes...), want)
}
