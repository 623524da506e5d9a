package config

import (
	"strings"
	"testing"
)

const sampleConfig = `{
	"ProjectName": "Example",
	"Backend": "debian",
	"MetadataType": "XML",
	"ArchiveRoot": "/srv/mirror",
	"MediaBaseUrl": "https://example.org/media",
	"ExportDirs": {"Media": "media", "Data": "data", "Hints": "hints", "Html": "html"},
	"Icons": {"64": {"cached": true}, "128": {"remote": true}},
	"Suites": {
		"stable": {"sections": ["main"], "architectures": ["amd64"], "dataPriority": 0},
		"testing": {"sections": ["main"], "architectures": ["amd64"], "baseSuite": "stable", "dataPriority": 10}
	},
	"Features": {"noDownloads": true}
}`

func TestParseAppliesFeatureDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Features.NoDownloads {
		t.Fatalf("NoDownloads = false, want true (explicitly set)")
	}
	if !cfg.Features.ValidateMetainfo {
		t.Fatalf("ValidateMetainfo = false, want true (default, not overridden)")
	}
	if !cfg.Features.ProcessFonts {
		t.Fatalf("ProcessFonts = false, want true (default, not overridden)")
	}
}

func TestParseBuildsEngineSuitesSorted(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	suites := cfg.EngineSuites()
	if len(suites) != 2 {
		t.Fatalf("len(suites) = %d, want 2", len(suites))
	}
	if suites[0].Name != "stable" || suites[1].Name != "testing" {
		t.Fatalf("suites = %v, want [stable testing]", suites)
	}
	if suites[1].BaseSuite != "stable" {
		t.Fatalf("testing.BaseSuite = %q, want stable", suites[1].BaseSuite)
	}
}

func TestParseRejectsCyclicBaseSuite(t *testing.T) {
	const cyclic = `{
		"Suites": {
			"a": {"sections": ["main"], "architectures": ["amd64"], "baseSuite": "b"},
			"b": {"sections": ["main"], "architectures": ["amd64"], "baseSuite": "a"}
		}
	}`
	if _, err := Parse(strings.NewReader(cyclic)); err == nil {
		t.Fatalf("Parse: want error for cyclic baseSuite reference")
	}
}

func TestIconPolicyRepairsMandatory64(t *testing.T) {
	const noMandatory = `{"Icons": {"128": {"cached": true}}}`
	cfg, err := Parse(strings.NewReader(noMandatory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pol := cfg.IconPolicy()
	if !pol.Policy("64").Cached {
		t.Fatalf("64x64 policy not repaired to cached")
	}
}
