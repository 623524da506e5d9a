package processor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/iconresolver"
	"github.com/asgen-project/asgen/internal/licensegate"
)

type fakePackage struct {
	id    asgen.PackageID
	name  string
	files map[string][]byte
}

func (f *fakePackage) ID() asgen.PackageID               { return f.id }
func (f *fakePackage) Name() string                      { return f.name }
func (f *fakePackage) Version() string                   { return f.id.Version }
func (f *fakePackage) Arch() string                      { return f.id.Arch }
func (f *fakePackage) Maintainer() string                { return "" }
func (f *fakePackage) Description() map[string]string    { return nil }
func (f *fakePackage) Summary() map[string]string        { return nil }
func (f *fakePackage) Filename(ctx context.Context) (string, error) { return f.name, nil }
func (f *fakePackage) GStreamer() []string                { return nil }
func (f *fakePackage) Kind() asgen.Kind                    { return asgen.KindUnknown }
func (f *fakePackage) Finish()                             {}

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

type fakeContentStore struct {
	contained map[string]bool
	put       map[string][]string
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{contained: make(map[string]bool), put: make(map[string][]string)}
}

func (s *fakeContentStore) Contains(ctx context.Context, pkid asgen.PackageID) (bool, error) {
	return s.contained[pkid.String()], nil
}

func (s *fakeContentStore) Put(ctx context.Context, pkid asgen.PackageID, fileList []string) error {
	s.put[pkid.String()] = fileList
	s.contained[pkid.String()] = true
	return nil
}

type fakeValueStore struct {
	values map[string][]asgen.GCID
	meta   map[string][]byte
	hints  map[string][]byte
}

func newFakeValueStore() *fakeValueStore {
	return &fakeValueStore{values: make(map[string][]asgen.GCID), meta: make(map[string][]byte), hints: make(map[string][]byte)}
}

func (s *fakeValueStore) PackageValue(ctx context.Context, pkid asgen.PackageID) ([]asgen.GCID, bool, error) {
	v, ok := s.values[pkid.String()]
	return v, ok, nil
}

func (s *fakeValueStore) SetPackageValue(ctx context.Context, pkid asgen.PackageID, gcids []asgen.GCID) error {
	s.values[pkid.String()] = gcids
	return nil
}

func (s *fakeValueStore) SetMetadata(ctx context.Context, gcid asgen.GCID, xml []byte) error {
	s.meta[gcid.String()] = xml
	return nil
}

func (s *fakeValueStore) SetHints(ctx context.Context, gcid asgen.GCID, doc []byte) error {
	s.hints[gcid.String()] = doc
	return nil
}

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
  <launchable type="desktop-id">org.example.Foo.desktop</launchable>
</component>`

const badLicenseMetainfo = `<?xml version="1.0"?>
<component type="desktop-application">
  <id>org.example.Bar</id>
  <metadata_license>Proprietary</metadata_license>
  <name>Bar</name>
</component>`

// andLicenseMetainfo pairs a copyleft token with a permissive one under AND,
// which spec.md §8 property 8 requires to be rejected even though
// GFDL-1.3-only alone would be allowed.
const andLicenseMetainfo = `<?xml version="1.0"?>
<component type="desktop-application">
  <id>org.example.Baz</id>
  <metadata_license>GPL-3.0+ AND GFDL-1.3-only</metadata_license>
  <name>Baz</name>
  <summary>A baz</summary>
  <launchable type="desktop-id">org.example.Baz.desktop</launchable>
</component>`

// orLicenseMetainfo is the OR-side pair of andLicenseMetainfo: the same two
// tokens combined with OR are accepted because GFDL-1.3-only alone is
// enough.
const orLicenseMetainfo = `<?xml version="1.0"?>
<component type="desktop-application">
  <id>org.example.Baz</id>
  <metadata_license>GPL-3.0+ OR GFDL-1.3-only</metadata_license>
  <name>Baz</name>
  <summary>A baz</summary>
  <launchable type="desktop-id">org.example.Baz.desktop</launchable>
</component>`

func newTestProcessor() (*Processor, *fakeContentStore, *fakeValueStore) {
	cs := newFakeContentStore()
	vs := newFakeValueStore()
	p := New(Config{
		Content: cs,
		Values:  vs,
		Icons:   noIcons{},
		Tags:    asgen.NewTagRegistry(nil),
		License: licensegate.New(nil),
	})
	return p, cs, vs
}

func TestProcessValidComponentReachesStored(t *testing.T) {
	p, _, vs := newTestProcessor()
	pkg := &fakePackage{
		id:   asgen.PackageID{Name: "foo", Version: "1.0", Arch: "amd64"},
		name: "foo",
		files: map[string][]byte{
			"/usr/share/metainfo/org.example.Foo.xml": []byte(validMetainfo),
			"/usr/share/applications/org.example.Foo.desktop": []byte("[Desktop Entry]\nName=Foo\n"),
		},
	}

	result, err := p.Process(context.Background(), pkg, 0)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(result.Components) != 1 {
		t.Fatalf("Components = %v, want 1 entry", result.Components)
	}
	entry, ok := result.Components["org.example.Foo"]
	if !ok {
		t.Fatalf("missing component org.example.Foo in %v", result.Components)
	}
	if entry.GCID.ComponentID != "org.example.Foo" {
		t.Fatalf("gcid = %+v", entry.GCID)
	}
	if len(vs.meta) != 1 {
		t.Fatalf("expected metadata committed, got %v", vs.meta)
	}
}

func TestProcessBadLicenseRoutesToIgnore(t *testing.T) {
	p, _, _ := newTestProcessor()
	pkg := &fakePackage{
		id:   asgen.PackageID{Name: "bar", Version: "1.0", Arch: "amd64"},
		name: "bar",
		files: map[string][]byte{
			"/usr/share/metainfo/org.example.Bar.xml": []byte(badLicenseMetainfo),
		},
	}

	result, err := p.Process(context.Background(), pkg, 0)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(result.Components) != 0 {
		t.Fatalf("Components = %v, want none", result.Components)
	}
	if _, ok := result.Ignore["org.example.Bar"]; !ok {
		t.Fatalf("Ignore = %v, want org.example.Bar present", result.Ignore)
	}
}

// TestProcessANDLicenseRoutesToIgnore and TestProcessORLicenseReachesStored
// are the AND/OR pair spec.md §8 property 8 requires: the same two tokens
// (one copyleft, one permissive) combine to rejected under AND and accepted
// under OR.
func TestProcessANDLicenseRoutesToIgnore(t *testing.T) {
	p, _, _ := newTestProcessor()
	pkg := &fakePackage{
		id:   asgen.PackageID{Name: "baz", Version: "1.0", Arch: "amd64"},
		name: "baz",
		files: map[string][]byte{
			"/usr/share/metainfo/org.example.Baz.xml": []byte(andLicenseMetainfo),
		},
	}

	result, err := p.Process(context.Background(), pkg, 0)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(result.Components) != 0 {
		t.Fatalf("Components = %v, want none", result.Components)
	}
	if _, ok := result.Ignore["org.example.Baz"]; !ok {
		t.Fatalf("Ignore = %v, want org.example.Baz present", result.Ignore)
	}
}

func TestProcessORLicenseReachesStored(t *testing.T) {
	p, _, _ := newTestProcessor()
	pkg := &fakePackage{
		id:   asgen.PackageID{Name: "baz", Version: "1.0", Arch: "amd64"},
		name: "baz",
		files: map[string][]byte{
			"/usr/share/metainfo/org.example.Baz.xml": []byte(orLicenseMetainfo),
		},
	}

	result, err := p.Process(context.Background(), pkg, 0)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, ok := result.Ignore["org.example.Baz"]; ok {
		t.Fatalf("Ignore = %v, want org.example.Baz not present", result.Ignore)
	}
	if _, ok := result.Components["org.example.Baz"]; !ok {
		t.Fatalf("Components = %v, want org.example.Baz present", result.Components)
	}
}

func TestProcessFastPathSkip(t *testing.T) {
	p, cs, vs := newTestProcessor()
	pkid := asgen.PackageID{Name: "foo", Version: "1.0", Arch: "amd64"}
	cs.contained[pkid.String()] = true
	gcid := asgen.GCID{ComponentID: "org.example.Foo", PkgVersion: "1.0", Hash: "deadbeef"}
	vs.values[pkid.String()] = []asgen.GCID{gcid}

	pkg := &fakePackage{id: pkid, name: "foo", files: map[string][]byte{}}

	result, err := p.Process(context.Background(), pkg, 0)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(cs.put) != 0 {
		t.Fatalf("fast path should not touch content index: %v", cs.put)
	}
	entry, ok := result.Components["org.example.Foo"]
	if !ok || entry.GCID != gcid {
		t.Fatalf("result.Components = %v, want reused gcid %v", result.Components, gcid)
	}
}

func TestProcessMalformedXMLEmitsHintAndIgnores(t *testing.T) {
	p, _, _ := newTestProcessor()
	pkg := &fakePackage{
		id:   asgen.PackageID{Name: "broken", Version: "1.0", Arch: "amd64"},
		name: "broken",
		files: map[string][]byte{
			"/usr/share/metainfo/org.example.Broken.xml": []byte("<component><unterminated"),
		},
	}

	result, err := p.Process(context.Background(), pkg, 0)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(result.Components) != 0 {
		t.Fatalf("Components = %v, want none", result.Components)
	}
}
