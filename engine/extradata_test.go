package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/asgen-project/asgen"
)

func TestRunInjectsExtraMetainfo(t *testing.T) {
	e, _, values := newTestEngine(t)

	root := t.TempDir()
	scopeDir := filepath.Join(root, "stable", "main")
	if err := os.MkdirAll(scopeDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", scopeDir, err)
	}
	if err := os.WriteFile(filepath.Join(scopeDir, "org.example.Injected.metainfo.xml"), []byte(`<?xml version="1.0"?>
<component type="desktop-application">
  <id>org.example.Injected</id>
  <metadata_license>MIT</metadata_license>
  <project_license>GPL-3.0-only</project_license>
  <name>Injected</name>
  <summary>A hand-maintained component</summary>
</component>`), 0o644); err != nil {
		t.Fatalf("write metainfo: %v", err)
	}
	e.ExtraMetainfoDir = root

	e.Backends["stable"] = &fakeBackend{pkgs: map[string][]*fakePackage{"main/amd64": {}}}

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed() != 1 {
		t.Fatalf("Processed = %d, want 1 (injected package)", result.Processed())
	}

	injectedID := asgen.PackageID{Name: "asgen-injected", Version: "stable-main", Arch: "amd64"}
	gcids, ok, err := values.PackageValue(context.Background(), injectedID)
	if err != nil {
		t.Fatalf("PackageValue: %v", err)
	}
	if !ok || len(gcids) != 1 {
		t.Fatalf("expected the injected package to resolve to one component, got %v, %v", gcids, ok)
	}
}
