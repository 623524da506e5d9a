package contentindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/asgen-project/asgen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(context.Background(), filepath.Join(dir, "content.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutContainsRemove(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	pkid := asgen.PackageID{Name: "gimp", Version: "2.10.30-1", Arch: "amd64"}

	if ok, err := s.Contains(ctx, pkid); err != nil || ok {
		t.Fatalf("Contains before Put = %v, %v; want false, nil", ok, err)
	}

	files := []string{
		"/usr/bin/gimp",
		"/usr/share/icons/hicolor/48x48/apps/gimp.png",
		"/usr/share/icons/hicolor/64x64/apps/gimp.png",
		"/usr/share/locale/de/LC_MESSAGES/gimp20.mo",
	}
	if err := s.Put(ctx, pkid, files); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err := s.Contains(ctx, pkid)
	if err != nil || !ok {
		t.Fatalf("Contains after Put = %v, %v; want true, nil", ok, err)
	}

	icons, err := s.FilesMap(ctx, []asgen.PackageID{pkid})
	if err != nil {
		t.Fatalf("FilesMap: %v", err)
	}
	if len(icons) != 2 {
		t.Fatalf("FilesMap = %d entries, want 2: %v", len(icons), icons)
	}
	if got := icons["/usr/share/icons/hicolor/64x64/apps/gimp.png"]; got != pkid {
		t.Fatalf("FilesMap lookup = %v, want %v", got, pkid)
	}

	locales, err := s.LocaleFilesMap(ctx, []asgen.PackageID{pkid})
	if err != nil {
		t.Fatalf("LocaleFilesMap: %v", err)
	}
	if got := locales["gimp20.mo"]; got != pkid {
		t.Fatalf("LocaleFilesMap keyed by basename = %v, want %v", got, pkid)
	}

	ids, err := s.PackageIDSet(ctx)
	if err != nil {
		t.Fatalf("PackageIDSet: %v", err)
	}
	if _, ok := ids[pkid]; !ok {
		t.Fatalf("PackageIDSet missing %v: %v", pkid, ids)
	}

	if err := s.Remove(ctx, pkid); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ok, err := s.Contains(ctx, pkid); err != nil || ok {
		t.Fatalf("Contains after Remove = %v, %v; want false, nil", ok, err)
	}
}

func TestPutReplacesPreviousFileList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	pkid := asgen.PackageID{Name: "foo", Version: "1", Arch: "amd64"}

	if err := s.Put(ctx, pkid, []string{"/usr/share/icons/hicolor/48x48/apps/foo.png"}); err != nil {
		t.Fatalf("Put 1: %v", err)
	}
	if err := s.Put(ctx, pkid, nil); err != nil {
		t.Fatalf("Put 2: %v", err)
	}

	ok, err := s.Contains(ctx, pkid)
	if err != nil || !ok {
		t.Fatalf("Contains after empty Put = %v, %v; want true, nil", ok, err)
	}
	icons, err := s.FilesMap(ctx, []asgen.PackageID{pkid})
	if err != nil {
		t.Fatalf("FilesMap: %v", err)
	}
	if len(icons) != 0 {
		t.Fatalf("FilesMap after empty Put = %v, want empty", icons)
	}
}

func TestRemoveMany(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	a := asgen.PackageID{Name: "a", Version: "1", Arch: "amd64"}
	b := asgen.PackageID{Name: "b", Version: "1", Arch: "amd64"}

	for _, id := range []asgen.PackageID{a, b} {
		if err := s.Put(ctx, id, nil); err != nil {
			t.Fatalf("Put %v: %v", id, err)
		}
	}
	if err := s.RemoveMany(ctx, []asgen.PackageID{a}); err != nil {
		t.Fatalf("RemoveMany: %v", err)
	}
	if ok, _ := s.Contains(ctx, a); ok {
		t.Fatalf("%v still present after RemoveMany", a)
	}
	if ok, _ := s.Contains(ctx, b); !ok {
		t.Fatalf("%v removed unexpectedly", b)
	}
}
