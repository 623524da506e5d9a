// Package publisher implements the Publisher (C6, spec.md §4.6): it reads
// the Component Store (C2) for a suite's live component set and writes the
// per-(suite, section, arch) catalog, cross-reference, hint, and HTML
// report artifacts under the export root (spec.md §6.4 Output layout).
//
// Grounded on claircore's `datastore/postgres` atomic-commit discipline
// translated to the filesystem: every artifact is staged to a temp path in
// its final directory and atomically renamed into place, so a reader never
// observes a partially-written file and a crash mid-publish leaves the
// previous good artifact untouched.
package publisher

import (
	"github.com/asgen-project/asgen/backend/htmltemplate"
	"github.com/asgen-project/asgen/backend/serializer"
	"github.com/asgen-project/asgen/componentstore"
)

// Config bundles the per-run settings the Publisher needs beyond its
// store/serializer collaborators (spec.md §6.2 ProjectName, MediaBaseUrl,
// HtmlBaseUrl, ExportDirs, ExtraMetainfoDir).
type Config struct {
	ProjectName      string
	MediaBaseURL     string
	HTMLBaseURL      string
	DataDir          string
	HintsDir         string
	HTMLDir          string
	ExtraMetainfoDir string
	Format           serializer.Format
	EmitSBOM         bool
}

// Publisher owns every collaborator C6 needs. The zero value is not
// usable; build one with [New].
type Publisher struct {
	Values     *componentstore.Store
	Serializer serializer.Serializer
	HTML       htmltemplate.Renderer // optional; nil disables HTML reports
	Config     Config
}

// New builds a Publisher.
func New(values *componentstore.Store, ser serializer.Serializer, html htmltemplate.Renderer, cfg Config) *Publisher {
	return &Publisher{Values: values, Serializer: ser, HTML: html, Config: cfg}
}

// scopeStats collates the counters a single PublishScope call reports for
// stats.go to persist.
type scopeStats struct {
	Components int
	Removed    int
	BySeverity map[string]int
}

func newScopeStats() *scopeStats {
	return &scopeStats{BySeverity: make(map[string]int)}
}

func (s *scopeStats) recordSeverity(sev string) { s.BySeverity[sev]++ }
