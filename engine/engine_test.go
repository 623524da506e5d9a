package engine

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend"
	"github.com/asgen-project/asgen/componentstore"
	"github.com/asgen-project/asgen/contentindex"
	"github.com/asgen-project/asgen/iconresolver"
	"github.com/asgen-project/asgen/processor"
)

type fakePackage struct {
	id       asgen.PackageID
	name     string
	files    map[string][]byte
	finished bool
}

func (f *fakePackage) ID() asgen.PackageID                            { return f.id }
func (f *fakePackage) Name() string                                   { return f.name }
func (f *fakePackage) Version() string                                { return f.id.Version }
func (f *fakePackage) Arch() string                                   { return f.id.Arch }
func (f *fakePackage) Maintainer() string                             { return "" }
func (f *fakePackage) Description() map[string]string                 { return nil }
func (f *fakePackage) Summary() map[string]string                     { return nil }
func (f *fakePackage) Filename(ctx context.Context) (string, error)   { return f.name, nil }
func (f *fakePackage) GStreamer() []string                            { return nil }
func (f *fakePackage) Kind() asgen.Kind                                { return asgen.KindUnknown }
func (f *fakePackage) Finish()                                         { f.finished = true }

func (f *fakePackage) Contents(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(f.files))
	for p := range f.files {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePackage) FileData(ctx context.Context, path string) ([]byte, error) {
	d, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (f *fakePackage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, errors.New("unimplemented")
}

func (f *fakePackage) DesktopFileTranslations(ctx context.Context, keyfile, text string) (map[string]string, error) {
	return nil, nil
}

// fakeBackend serves a fixed package list once per (suite, section, arch)
// scope and reports a change exactly once, mirroring a real backend's
// "change the first time, settle afterward" shape without needing an
// actual repository index.
type fakeBackend struct {
	pkgs    map[string][]*fakePackage // key: section/arch
	changed map[string]bool
}

func scopeKey(section, arch string) string { return section + "/" + arch }

func (b *fakeBackend) PackagesFor(ctx context.Context, suite, section, arch string, withLongDescs bool) ([]backend.Package, error) {
	fps := b.pkgs[scopeKey(section, arch)]
	out := make([]backend.Package, len(fps))
	for i, p := range fps {
		out[i] = p
	}
	return out, nil
}

func (b *fakeBackend) PackageForFile(ctx context.Context, path, suite, section string) (backend.Package, error) {
	return nil, errors.New("unimplemented")
}

func (b *fakeBackend) HasChanges(ctx context.Context, store backend.RepoInfoStore, suite, section, arch string) (bool, error) {
	key := scopeKey(section, arch)
	changed := b.changed == nil || b.changed[key]
	if changed {
		store.SetRepoInfo(ctx, suite, section, arch, 1, "fake-hash")
	}
	return changed, nil
}

func (b *fakeBackend) Release() {}

type noIcons struct{}

func (noIcons) Resolve(ctx context.Context, req iconresolver.Request) (map[asgen.IconSize]iconresolver.Resolved, []asgen.IssueHint, error) {
	return nil, nil, nil
}

const validMetainfo = `<?xml version="1.0"?>
<component type="desktop-application">
  <id>org.example.Foo</id>
  <metadata_license>MIT</metadata_license>
  <project_license>GPL-3.0-only</project_license>
  <name>Foo</name>
  <summary>A foo</summary>
</component>`

func newTestEngine(t *testing.T) (*Engine, *contentindex.Store, *componentstore.Store) {
	t.Helper()
	dir := t.TempDir()
	content, err := contentindex.Open(context.Background(), filepath.Join(dir, "content.db"))
	if err != nil {
		t.Fatalf("contentindex.Open: %v", err)
	}
	t.Cleanup(func() { content.Close() })

	values, err := componentstore.Open(context.Background(), filepath.Join(dir, "component.db"))
	if err != nil {
		t.Fatalf("componentstore.Open: %v", err)
	}
	t.Cleanup(func() { values.Close() })

	proc := processor.New(processor.Config{
		Icons: noIcons{},
		Tags:  asgen.NewTagRegistry(nil),
	})

	suite := asgen.Suite{Name: "stable", Sections: []string{"main"}, Architectures: []string{"amd64"}}
	e := New(content, values, proc, map[string]backend.Backend{}, []asgen.Suite{suite})
	e.Concurrency = 2
	return e, content, values
}

func TestRunProcessesAndRecordsLiveness(t *testing.T) {
	e, content, _ := newTestEngine(t)

	be := &fakeBackend{
		pkgs: map[string][]*fakePackage{
			"main/amd64": {
				{
					id:   asgen.PackageID{Name: "foo", Version: "1.0", Arch: "amd64"},
					name: "foo",
					files: map[string][]byte{
						"/usr/share/metainfo/org.example.Foo.xml": []byte(validMetainfo),
					},
				},
			},
		},
	}
	e.Backends["stable"] = be

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed() != 1 {
		t.Fatalf("Processed = %d, want 1", result.Processed())
	}
	if result.Failed() != 0 {
		t.Fatalf("Failed = %d, want 0", result.Failed())
	}

	pkid := asgen.PackageID{Name: "foo", Version: "1.0", Arch: "amd64"}
	ok, err := content.Contains(context.Background(), pkid)
	if err != nil || !ok {
		t.Fatalf("Contains(%v) = %v, %v; want true, nil", pkid, ok, err)
	}
	if !be.pkgs["main/amd64"][0].finished {
		t.Fatalf("package Finish() was not called")
	}
}

func TestRunSkipsUnchangedScope(t *testing.T) {
	e, _, _ := newTestEngine(t)

	fp := &fakePackage{
		id:   asgen.PackageID{Name: "foo", Version: "1.0", Arch: "amd64"},
		name: "foo",
		files: map[string][]byte{
			"/usr/share/metainfo/org.example.Foo.xml": []byte(validMetainfo),
		},
	}
	be := &fakeBackend{
		pkgs:    map[string][]*fakePackage{"main/amd64": {fp}},
		changed: map[string]bool{"main/amd64": false},
	}
	e.Backends["stable"] = be

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed() != 0 {
		t.Fatalf("Processed = %d, want 0 (scope unchanged)", result.Processed())
	}
	if _, live := result.live[fp.id]; !live {
		t.Fatalf("unchanged scope's package should still count as live")
	}
}

func TestCleanupRemovesStalePackage(t *testing.T) {
	e, content, values := newTestEngine(t)
	ctx := context.Background()

	stale := asgen.PackageID{Name: "gone", Version: "1.0", Arch: "amd64"}
	if err := content.Put(ctx, stale, []string{"/usr/share/metainfo/org.example.Gone.xml"}); err != nil {
		t.Fatalf("seed Put: %v", err)
	}
	gcid := asgen.GCID{ComponentID: "org.example.Gone", PkgVersion: "1.0", Hash: "deadbeef"}
	if err := values.SetPackageValue(ctx, stale, []asgen.GCID{gcid}); err != nil {
		t.Fatalf("seed SetPackageValue: %v", err)
	}

	be := &fakeBackend{pkgs: map[string][]*fakePackage{"main/amd64": {}}}
	e.Backends["stable"] = be

	result, err := e.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Removed) != 1 || result.Removed[0] != stale {
		t.Fatalf("Removed = %v, want [%v]", result.Removed, stale)
	}
	if len(result.RemovedComponents) != 1 || result.RemovedComponents[0] != gcid {
		t.Fatalf("RemovedComponents = %v, want [%v]", result.RemovedComponents, gcid)
	}
	if ok, _ := content.Contains(ctx, stale); ok {
		t.Fatalf("stale package still present in content index")
	}
}
