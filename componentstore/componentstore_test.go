package componentstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/asgen-project/asgen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(context.Background(), filepath.Join(dir, "component.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMetadataAndHints(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	gcid := asgen.ComputeGCID("org.gimp.GIMP", "2.10.30-1", []byte("<component/>"))

	if ok, err := s.HasMetadata(ctx, gcid); err != nil || ok {
		t.Fatalf("HasMetadata before SetMetadata = %v, %v; want false, nil", ok, err)
	}
	if err := s.SetMetadata(ctx, gcid, []byte("<component/>")); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	ok, err := s.HasMetadata(ctx, gcid)
	if err != nil || !ok {
		t.Fatalf("HasMetadata after SetMetadata = %v, %v; want true, nil", ok, err)
	}
	xml, err := s.GetMetadata(ctx, gcid)
	if err != nil || string(xml) != "<component/>" {
		t.Fatalf("GetMetadata = %q, %v", xml, err)
	}

	if err := s.SetHints(ctx, gcid, []byte(`{"hints":[]}`)); err != nil {
		t.Fatalf("SetHints: %v", err)
	}
	doc, err := s.GetHints(ctx, gcid)
	if err != nil || string(doc) != `{"hints":[]}` {
		t.Fatalf("GetHints = %q, %v", doc, err)
	}

	refs, err := s.GCIDsForComponentID(ctx, "org.gimp.GIMP")
	if err != nil || len(refs) != 1 || refs[0] != gcid {
		t.Fatalf("GCIDsForComponentID = %v, %v; want [%v]", refs, err, gcid)
	}
}

func TestPackageValueAndGetGCIDsForSuite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	pkid := asgen.PackageID{Name: "gimp", Version: "2.10.30-1", Arch: "amd64"}
	gcid := asgen.ComputeGCID("org.gimp.GIMP", pkid.Version, []byte("<component/>"))

	if err := s.SetPackageValue(ctx, pkid, []asgen.GCID{gcid}); err != nil {
		t.Fatalf("SetPackageValue: %v", err)
	}

	got, err := s.GetGCIDsForSuite(ctx, []asgen.PackageID{pkid})
	if err != nil {
		t.Fatalf("GetGCIDsForSuite: %v", err)
	}
	if len(got) != 1 || got[0] != gcid {
		t.Fatalf("GetGCIDsForSuite = %v, want [%v]", got, gcid)
	}

	if err := s.RemovePackages(ctx, []asgen.PackageID{pkid}); err != nil {
		t.Fatalf("RemovePackages: %v", err)
	}
	got, err = s.GetGCIDsForSuite(ctx, []asgen.PackageID{pkid})
	if err != nil || len(got) != 0 {
		t.Fatalf("GetGCIDsForSuite after RemovePackages = %v, %v; want empty", got, err)
	}
}

func TestRemoveComponents(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	gcid := asgen.ComputeGCID("org.gimp.GIMP", "2.10.30-1", []byte("<component/>"))

	if err := s.SetMetadata(ctx, gcid, []byte("<component/>")); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := s.RemoveComponents(ctx, []asgen.GCID{gcid}); err != nil {
		t.Fatalf("RemoveComponents: %v", err)
	}
	if ok, err := s.HasMetadata(ctx, gcid); err != nil || ok {
		t.Fatalf("HasMetadata after RemoveComponents = %v, %v; want false, nil", ok, err)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ts := time.Unix(1700000000, 0)

	for i := 0; i < 2; i++ {
		if err := s.RecordStat(ctx, Stat{Timestamp: ts, Metric: "components_total", Value: float64(i)}); err != nil {
			t.Fatalf("RecordStat %d: %v", i, err)
		}
	}
	samples, err := s.StatsForMetric(ctx, "components_total")
	if err != nil {
		t.Fatalf("StatsForMetric: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("StatsForMetric = %d samples, want 2 (append-only under clock skew)", len(samples))
	}
}

func TestRepoInfo(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, _, ok, err := s.RepoInfo(ctx, "stable", "main", "amd64"); err != nil || ok {
		t.Fatalf("RepoInfo before SetRepoInfo = %v, %v; want false, nil", ok, err)
	}
	if err := s.SetRepoInfo(ctx, "stable", "main", "amd64", 1700000000, "deadbeef"); err != nil {
		t.Fatalf("SetRepoInfo: %v", err)
	}
	mtime, hash, ok, err := s.RepoInfo(ctx, "stable", "main", "amd64")
	if err != nil || !ok || mtime != 1700000000 || hash != "deadbeef" {
		t.Fatalf("RepoInfo = %d, %q, %v, %v", mtime, hash, ok, err)
	}
}
