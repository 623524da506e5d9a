package iconresolver

import (
	"context"
	"testing"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/internal/xdgtheme"
)

type fakeFilesMap map[string]asgen.PackageID

func (f fakeFilesMap) FilesMap(ctx context.Context, pkids []asgen.PackageID) (map[string]asgen.PackageID, error) {
	return map[string]asgen.PackageID(f), nil
}

func newTestResolver(files fakeFilesMap, allowUpscaling bool) *Resolver {
	reg := xdgtheme.NewRegistry()
	reg.Put(xdgtheme.BuiltinHicolor())
	policy := asgen.NewIconPolicy(map[asgen.IconSize]asgen.IconSizePolicy{
		asgen.Icon64: {Cached: true},
	})
	return NewResolver(files, reg, policy, []string{"hicolor"}, allowUpscaling)
}

func TestResolveExactMatch(t *testing.T) {
	pkid := asgen.PackageID{Name: "gimp", Version: "1", Arch: "amd64"}
	files := fakeFilesMap{
		"/usr/share/icons/hicolor/64x64/apps/gimp.png": pkid,
	}
	r := newTestResolver(files, false)

	out, hints, err := r.Resolve(context.Background(), Request{
		ComponentID: "org.gimp.GIMP",
		IconName:    "gimp",
		Sizes:       []asgen.IconSize{asgen.Icon64},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(hints) != 0 {
		t.Fatalf("hints = %v, want none", hints)
	}
	res, ok := out[asgen.Icon64]
	if !ok || res.Package != pkid || res.Scaled {
		t.Fatalf("out[64] = %+v, %v", res, ok)
	}
}

func TestResolveDownscaleFromLarger(t *testing.T) {
	pkid := asgen.PackageID{Name: "gimp", Version: "1", Arch: "amd64"}
	files := fakeFilesMap{
		"/usr/share/icons/hicolor/128x128/apps/gimp.png": pkid,
	}
	r := newTestResolver(files, false)

	out, _, err := r.Resolve(context.Background(), Request{
		ComponentID: "org.gimp.GIMP",
		IconName:    "gimp",
		Sizes:       []asgen.IconSize{asgen.Icon128},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	res, ok := out[asgen.Icon64]
	if !ok || !res.Scaled || res.SourceSz != 128 {
		t.Fatalf("out[64] = %+v, %v; want downscaled from 128", res, ok)
	}
}

func TestResolveUpscaleFrom48GatedByFlag(t *testing.T) {
	pkid := asgen.PackageID{Name: "gimp", Version: "1", Arch: "amd64"}
	files := fakeFilesMap{
		"/usr/share/icons/hicolor/48x48/apps/gimp.png": pkid,
	}

	r := newTestResolver(files, false)
	out, hints, err := r.Resolve(context.Background(), Request{ComponentID: "c", IconName: "gimp", Sizes: []asgen.IconSize{asgen.Icon64}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := out[asgen.Icon64]; ok {
		t.Fatalf("out[64] resolved without AllowUpscaling: %+v", out)
	}
	foundNotFoundHint := false
	for _, h := range hints {
		if h.Tag == "icon-not-found" {
			foundNotFoundHint = true
		}
	}
	if !foundNotFoundHint {
		t.Fatalf("hints = %v, want icon-not-found", hints)
	}

	r2 := newTestResolver(files, true)
	out2, _, err := r2.Resolve(context.Background(), Request{ComponentID: "c", IconName: "gimp", Sizes: []asgen.IconSize{asgen.Icon64}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	res, ok := out2[asgen.Icon64]
	if !ok || !res.Scaled || res.SourceSz != 48 {
		t.Fatalf("out2[64] = %+v, %v; want upscaled from 48", res, ok)
	}
}

func TestResolvePreferredPackageWins(t *testing.T) {
	preferred := asgen.PackageID{Name: "gimp-data", Version: "1", Arch: "all"}
	other := asgen.PackageID{Name: "gimp", Version: "1", Arch: "amd64"}
	// Both packages own a 64x64 candidate. The non-preferred package's png
	// comes first in candidate order (png before svg), yet the preferred
	// package's svg wins.
	files := fakeFilesMap{
		"/usr/share/icons/hicolor/64x64/apps/gimp.png": other,
		"/usr/share/icons/hicolor/64x64/apps/gimp.svg": preferred,
	}
	r := newTestResolver(files, false)
	out, _, err := r.Resolve(context.Background(), Request{
		ComponentID: "c",
		IconName:    "gimp",
		Sizes:       []asgen.IconSize{asgen.Icon64},
		Preferred:   &preferred,
		Scope:       []asgen.PackageID{other},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res := out[asgen.Icon64]; res.Package != preferred {
		t.Fatalf("out[64].Package = %v, want %v", res.Package, preferred)
	}
}

func TestResolveXPMUnsupportedHint(t *testing.T) {
	pkid := asgen.PackageID{Name: "gimp", Version: "1", Arch: "amd64"}
	files := fakeFilesMap{
		"/usr/share/icons/hicolor/64x64/apps/gimp.xpm": pkid,
	}
	r := newTestResolver(files, false)
	out, hints, err := r.Resolve(context.Background(), Request{
		ComponentID: "c",
		IconName:    "gimp",
		Sizes:       []asgen.IconSize{asgen.Icon64},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := out[asgen.Icon64]; ok {
		t.Fatalf("xpm-only match should not resolve: %+v", out)
	}
	found := false
	for _, h := range hints {
		if h.Tag == "icon-format-unsupported" {
			found = true
		}
	}
	if !found {
		t.Fatalf("hints = %v, want icon-format-unsupported", hints)
	}
}
