package publisher

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend/htmltemplate"
	"github.com/asgen-project/asgen/backend/serializer"
	"github.com/asgen-project/asgen/componentstore"
)

// fakeSerializer renders a component to a trivial, deterministic byte form
// good enough to exercise catalog assembly without pulling in a real XML
// writer.
type fakeSerializer struct{}

func (fakeSerializer) Canonicalize(c *asgen.Component) ([]byte, error) {
	return []byte("<component id=\"" + c.ID + "\" merge=\"" + c.Merge + "\"/>"), nil
}

func (fakeSerializer) Catalog(header serializer.CatalogHeader, components [][]byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<components origin=\"" + header.ProjectName + "\">")
	for _, c := range components {
		buf.Write(c)
	}
	buf.WriteString("</components>")
	return buf.Bytes(), nil
}

// fakeRenderer records every Render call instead of executing a real
// template.
type fakeRenderer struct{ calls int }

func (r *fakeRenderer) Render(w io.Writer, name string, data any) error {
	r.calls++
	_, err := io.WriteString(w, "rendered:"+name)
	return err
}

func openTestStore(t *testing.T) *componentstore.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := componentstore.Open(context.Background(), filepath.Join(dir, "component.db"))
	if err != nil {
		t.Fatalf("componentstore.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestPublisher(t *testing.T, values *componentstore.Store, renderer *fakeRenderer) (*Publisher, Config) {
	t.Helper()
	root := t.TempDir()
	cfg := Config{
		ProjectName:      "testsuite",
		DataDir:          filepath.Join(root, "data"),
		HintsDir:         filepath.Join(root, "hints"),
		HTMLDir:          filepath.Join(root, "html"),
		ExtraMetainfoDir: filepath.Join(root, "extra-metainfo"),
		Format:           serializer.XML,
	}
	var html htmltemplate.Renderer
	if renderer != nil {
		html = renderer
	}
	return New(values, fakeSerializer{}, html, cfg), cfg
}

func gunzip(t *testing.T, path string) []byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader %s: %v", path, err)
	}
	defer gz.Close()
	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func seedComponent(t *testing.T, ctx context.Context, values *componentstore.Store, pkid asgen.PackageID, componentID, version string) asgen.GCID {
	t.Helper()
	gcid := asgen.ComputeGCID(componentID, version, []byte(componentID))
	if err := values.SetMetadata(ctx, gcid, []byte("<component id=\""+componentID+"\"/>")); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := values.SetPackageValue(ctx, pkid, []asgen.GCID{gcid}); err != nil {
		t.Fatalf("SetPackageValue: %v", err)
	}
	return gcid
}

func TestPublishScopeWritesCatalogCrossrefAndHints(t *testing.T) {
	ctx := context.Background()
	values := openTestStore(t)
	pub, cfg := newTestPublisher(t, values, &fakeRenderer{})

	pkid := asgen.PackageID{Name: "gimp", Version: "2.10.30-1", Arch: "amd64"}
	gcid := seedComponent(t, ctx, values, pkid, "org.gimp.GIMP", "2.10.30-1")
	if err := values.SetHints(ctx, gcid, []byte(`[{"Tag":"missing-desktop-file","Severity":"warning","ComponentID":"org.gimp.GIMP"}]`)); err != nil {
		t.Fatalf("SetHints: %v", err)
	}

	suite := asgen.Suite{Name: "focal", Sections: []string{"main"}, Architectures: []string{"amd64"}}
	if err := pub.PublishScope(ctx, suite, "main", "amd64", []asgen.PackageID{pkid}); err != nil {
		t.Fatalf("PublishScope: %v", err)
	}

	catalog := gunzip(t, pub.catalogPath("focal", "main", "amd64"))
	if !bytes.Contains(catalog, []byte("org.gimp.GIMP")) {
		t.Fatalf("catalog missing component: %s", catalog)
	}

	crossref := gunzip(t, pub.crossrefPath("focal", "main", "amd64"))
	if !bytes.Contains(crossref, []byte("org.gimp.GIMP\t"+gcid.String())) {
		t.Fatalf("crossref missing entry: %s", crossref)
	}

	hintsPath := filepath.Join(cfg.HintsDir, "focal", "main", "Hints-amd64.json.gz")
	hints := gunzip(t, hintsPath)
	var entries []pkgHintEntry
	if err := json.Unmarshal(hints, &entries); err != nil {
		t.Fatalf("decode hints: %v", err)
	}
	if len(entries) != 1 || len(entries[0].Hints) != 1 {
		t.Fatalf("unexpected hint report: %+v", entries)
	}
	if entries[0].Purl == "" {
		t.Fatalf("expected purl to be stamped")
	}
}

func TestPublishScopeSuppressesPedanticHints(t *testing.T) {
	ctx := context.Background()
	values := openTestStore(t)
	pub, cfg := newTestPublisher(t, values, nil)

	pkid := asgen.PackageID{Name: "foo", Version: "1.0", Arch: "amd64"}
	gcid := seedComponent(t, ctx, values, pkid, "org.example.Foo", "1.0")
	if err := values.SetHints(ctx, gcid, []byte(`[{"Tag":"ancient-metadata","Severity":"pedantic","ComponentID":"org.example.Foo"}]`)); err != nil {
		t.Fatalf("SetHints: %v", err)
	}

	suite := asgen.Suite{Name: "jammy", Sections: []string{"main"}, Architectures: []string{"amd64"}}
	if err := pub.PublishScope(ctx, suite, "main", "amd64", []asgen.PackageID{pkid}); err != nil {
		t.Fatalf("PublishScope: %v", err)
	}

	hintsPath := filepath.Join(cfg.HintsDir, "jammy", "main", "Hints-amd64.json.gz")
	hints := gunzip(t, hintsPath)
	var entries []pkgHintEntry
	if err := json.Unmarshal(hints, &entries); err != nil {
		t.Fatalf("decode hints: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected pedantic-only package to be dropped from report, got %+v", entries)
	}
}

func TestPublishScopeAppliesRemovedComponentsOverlay(t *testing.T) {
	ctx := context.Background()
	values := openTestStore(t)
	pub, cfg := newTestPublisher(t, values, nil)

	pkid := asgen.PackageID{Name: "bar", Version: "1.0", Arch: "amd64"}
	seedComponent(t, ctx, values, pkid, "org.example.Bar", "1.0")

	overlayDir := filepath.Join(cfg.ExtraMetainfoDir, "noble", "main")
	if err := os.MkdirAll(overlayDir, 0o755); err != nil {
		t.Fatalf("mkdir overlay dir: %v", err)
	}
	overlay, err := json.Marshal([]string{"org.example.Gone"})
	if err != nil {
		t.Fatalf("marshal overlay: %v", err)
	}
	if err := os.WriteFile(filepath.Join(overlayDir, "removed-components.json"), overlay, 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	suite := asgen.Suite{Name: "noble", Sections: []string{"main"}, Architectures: []string{"amd64"}}
	if err := pub.PublishScope(ctx, suite, "main", "amd64", []asgen.PackageID{pkid}); err != nil {
		t.Fatalf("PublishScope: %v", err)
	}

	catalog := gunzip(t, pub.catalogPath("noble", "main", "amd64"))
	if !bytes.Contains(catalog, []byte(`id="org.example.Gone" merge="remove-component"`)) {
		t.Fatalf("catalog missing removed-component overlay entry: %s", catalog)
	}
	if !bytes.Contains(catalog, []byte("org.example.Bar")) {
		t.Fatalf("catalog missing live component: %s", catalog)
	}
}

func TestPublishScopeSkipsRewriteForImmutableSuite(t *testing.T) {
	ctx := context.Background()
	values := openTestStore(t)
	pub, _ := newTestPublisher(t, values, nil)

	pkid := asgen.PackageID{Name: "baz", Version: "1.0", Arch: "amd64"}
	seedComponent(t, ctx, values, pkid, "org.example.Baz", "1.0")

	suite := asgen.Suite{Name: "bionic", Sections: []string{"main"}, Architectures: []string{"amd64"}, Immutable: true}
	if err := pub.PublishScope(ctx, suite, "main", "amd64", []asgen.PackageID{pkid}); err != nil {
		t.Fatalf("first PublishScope: %v", err)
	}
	before := gunzip(t, pub.catalogPath("bionic", "main", "amd64"))

	// A second package arrives after the immutable snapshot was published;
	// the catalog must not be rewritten to include it.
	pkid2 := asgen.PackageID{Name: "qux", Version: "1.0", Arch: "amd64"}
	seedComponent(t, ctx, values, pkid2, "org.example.Qux", "1.0")
	if err := pub.PublishScope(ctx, suite, "main", "amd64", []asgen.PackageID{pkid, pkid2}); err != nil {
		t.Fatalf("second PublishScope: %v", err)
	}
	after := gunzip(t, pub.catalogPath("bionic", "main", "amd64"))

	if !bytes.Equal(before, after) {
		t.Fatalf("immutable suite catalog was rewritten:\nbefore=%s\nafter=%s", before, after)
	}
	if bytes.Contains(after, []byte("org.example.Qux")) {
		t.Fatalf("immutable suite catalog picked up a post-publish component: %s", after)
	}
}

func TestPublishScopeRendersHTMLWhenRendererConfigured(t *testing.T) {
	ctx := context.Background()
	values := openTestStore(t)
	renderer := &fakeRenderer{}
	pub, cfg := newTestPublisher(t, values, renderer)

	pkid := asgen.PackageID{Name: "quux", Version: "1.0", Arch: "amd64"}
	seedComponent(t, ctx, values, pkid, "org.example.Quux", "1.0")

	suite := asgen.Suite{Name: "kinetic", Sections: []string{"main"}, Architectures: []string{"amd64"}}
	if err := pub.PublishScope(ctx, suite, "main", "amd64", []asgen.PackageID{pkid}); err != nil {
		t.Fatalf("PublishScope: %v", err)
	}

	if renderer.calls != 1 {
		t.Fatalf("expected exactly one Render call, got %d", renderer.calls)
	}
	htmlPath := filepath.Join(cfg.HTMLDir, "kinetic", "main", "amd64.html")
	if _, err := os.Stat(htmlPath); err != nil {
		t.Fatalf("expected html report at %s: %v", htmlPath, err)
	}
}
