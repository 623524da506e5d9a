package extradata

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCollectBuildsInjectedPackage(t *testing.T) {
	root := t.TempDir()
	scopeDir := filepath.Join(root, "focal", "main")
	writeFile(t, filepath.Join(scopeDir, "org.example.Foo.metainfo.xml"), []byte("<component/>"))
	writeFile(t, filepath.Join(scopeDir, "hicolor", "64x64", "apps", "org.example.Foo.png"), []byte("png-bytes"))

	removed, err := json.Marshal([]string{"org.example.Gone"})
	if err != nil {
		t.Fatalf("marshal removed list: %v", err)
	}
	writeFile(t, filepath.Join(scopeDir, removedComponentsFile), removed)

	pkg, err := Collect(root, "focal", "main", "amd64")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if pkg == nil {
		t.Fatalf("expected a synthetic package, got nil")
	}

	if got, want := pkg.ID().String(), "asgen-injected/focal-main/amd64"; got != want {
		t.Fatalf("pkid = %q, want %q", got, want)
	}

	ctx := context.Background()
	files, err := pkg.Contents(ctx)
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	wantXML := "/usr/share/metainfo/org.example.Foo.metainfo.xml"
	wantIcon := filepath.Join("/usr/share/icons/hicolor", "hicolor", "64x64", "apps", "org.example.Foo.png")
	var haveXML, haveIcon, haveRemoved bool
	for _, f := range files {
		switch f {
		case wantXML:
			haveXML = true
		case wantIcon:
			haveIcon = true
		case removedComponentsFile:
			haveRemoved = true
		}
	}
	if !haveXML {
		t.Fatalf("missing metainfo file in contents: %v", files)
	}
	if !haveIcon {
		t.Fatalf("missing icon file in contents: %v", files)
	}
	if haveRemoved {
		t.Fatalf("removed-components.json should not be surfaced as package content: %v", files)
	}

	data, err := pkg.FileData(ctx, wantXML)
	if err != nil {
		t.Fatalf("FileData: %v", err)
	}
	if string(data) != "<component/>" {
		t.Fatalf("FileData = %q", data)
	}
}

func TestCollectReturnsNilForEmptyScope(t *testing.T) {
	root := t.TempDir()
	pkg, err := Collect(root, "jammy", "main", "amd64")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if pkg != nil {
		t.Fatalf("expected nil package for scope with no extra-metainfo directory")
	}
}

func TestCollectPrefersArchSpecificDir(t *testing.T) {
	root := t.TempDir()
	shared := filepath.Join(root, "noble", "main")
	writeFile(t, filepath.Join(shared, "shared.metainfo.xml"), []byte("<component id=\"shared\"/>"))

	archDir := filepath.Join(shared, "amd64")
	writeFile(t, filepath.Join(archDir, "only-amd64.metainfo.xml"), []byte("<component id=\"amd64-only\"/>"))

	pkg, err := Collect(root, "noble", "main", "amd64")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if pkg == nil {
		t.Fatalf("expected a synthetic package")
	}
	files, err := pkg.Contents(context.Background())
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	for _, f := range files {
		if f == "/usr/share/metainfo/shared.metainfo.xml" {
			t.Fatalf("arch-specific scan should not also pick up the shared-level file: %v", files)
		}
	}
}
