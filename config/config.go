// Package config loads and validates asgen-config.json (spec.md §6.2).
//
// Grounded on the teacher's own configuration idiom (enricher/kev.Config:
// a plain struct with json tags). Defaults are seeded into the struct
// before decoding; encoding/json only overwrites keys present in the
// document, so an absent key keeps its default.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/asgen-project/asgen"
)

// ExportDirs is the per-kind export path configuration (spec.md §6.2
// ExportDirs, §6.4 Output layout).
type ExportDirs struct {
	Media string `json:"Media"`
	Data  string `json:"Data"`
	Hints string `json:"Hints"`
	Html  string `json:"Html"`
}

// IconSizeConfig is one entry of the Icons map (spec.md §6.2 Icons).
type IconSizeConfig struct {
	Cached bool `json:"cached"`
	Remote bool `json:"remote"`
}

// Config is the decoded form of asgen-config.json (spec.md §6.2).
type Config struct {
	ProjectName  string `json:"ProjectName"`
	Backend      string `json:"Backend"`
	MetadataType string `json:"MetadataType"`
	ArchiveRoot  string `json:"ArchiveRoot"`

	MediaBaseUrl string `json:"MediaBaseUrl"`
	HtmlBaseUrl  string `json:"HtmlBaseUrl"`

	CAInfo            string   `json:"CAInfo"`
	AllowedCustomKeys []string `json:"AllowedCustomKeys"`

	ExportDirs       ExportDirs `json:"ExportDirs"`
	ExtraMetainfoDir string     `json:"ExtraMetainfoDir"`
	WorkspaceDir     string     `json:"WorkspaceDir"`

	Icons map[string]IconSizeConfig `json:"Icons"`

	Suites    map[string]SuiteConfig `json:"Suites"`
	Features  Features               `json:"Features"`
	Oldsuites []string               `json:"Oldsuites"`
}

// Load reads and validates path as an asgen-config.json document.
//
// Validation failures (unparseable JSON, a cyclic baseSuite reference) are
// reported as [asgen.Error] with Kind [asgen.ErrConfig], matching the
// "Configuration error ... aborts before any writes" contract of spec.md §7.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &asgen.Error{Kind: asgen.ErrConfig, Op: "config.Load", Inner: err}
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a config document from r, applying feature-flag defaults
// and validating suite dependencies.
func Parse(r io.Reader) (*Config, error) {
	cfg := Config{Features: DefaultFeatures()}
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, &asgen.Error{Kind: asgen.ErrConfig, Op: "config.Parse", Inner: fmt.Errorf("decode: %w", err)}
	}

	suites := cfg.EngineSuites()
	if err := asgen.ValidateSuiteDAG(suites); err != nil {
		return nil, &asgen.Error{Kind: asgen.ErrConfig, Op: "config.Parse", Inner: err}
	}
	return &cfg, nil
}

// EngineSuites converts the configured suites to their runtime
// [asgen.Suite] form, ready for [asgen.ValidateSuiteDAG] and the Engine.
// Suites are returned sorted by name for deterministic iteration order.
func (c *Config) EngineSuites() []asgen.Suite {
	names := make([]string, 0, len(c.Suites))
	for name := range c.Suites {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]asgen.Suite, len(names))
	for i, name := range names {
		out[i] = c.Suites[name].ToSuite(name)
	}
	return out
}

// IconPolicy builds an [asgen.IconPolicy] from the configured Icons map,
// repairing the mandatory 64×64-cached entry if missing (spec.md §6.2
// Icons, §3 IconPolicy invariant).
func (c *Config) IconPolicy() *asgen.IconPolicy {
	sizes := make(map[asgen.IconSize]asgen.IconSizePolicy, len(c.Icons))
	for k, v := range c.Icons {
		sizes[asgen.IconSize(k)] = asgen.IconSizePolicy{Cached: v.Cached, Remote: v.Remote}
	}
	return asgen.NewIconPolicy(sizes)
}
