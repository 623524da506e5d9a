package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend/serializer"
)

// catalogExt maps the configured metadata type to its on-disk extension
// (spec.md §6.4: "Components-<arch>.xml.gz" or ".yml.gz").
func catalogExt(format serializer.Format) string {
	if format == serializer.YAML {
		return "yml"
	}
	return "xml"
}

func (p *Publisher) catalogPath(suite, section, arch string) string {
	return filepath.Join(p.Config.DataDir, suite, section, fmt.Sprintf("Components-%s.%s.gz", arch, catalogExt(p.Config.Format)))
}

func (p *Publisher) crossrefPath(suite, section, arch string) string {
	return filepath.Join(p.Config.DataDir, suite, section, fmt.Sprintf("CID-GCID-%s.gz", arch))
}

// PublishScope implements spec.md §4.6 for one (suite, section, arch):
// resolve the live GCID set, load each component's canonical bytes, apply
// the removed-components overlay, and write the catalog, cross-reference,
// and hint artifacts. pkids is the live pkid set for this scope, as
// computed by the Engine (C5).
//
// Immutable suites whose catalog already exists are left untouched
// (spec.md §4.6 "Publisher refuses to rewrite"): a frozen release snapshot
// is only ever published once.
func (p *Publisher) PublishScope(ctx context.Context, suite asgen.Suite, section, arch string, pkids []asgen.PackageID) error {
	if suite.Immutable {
		if _, err := os.Stat(p.catalogPath(suite.Name, section, arch)); err == nil {
			return nil
		}
	}

	gcids, err := p.Values.GetGCIDsForSuite(ctx, pkids)
	if err != nil {
		return fmt.Errorf("publisher: get_gcids_for_suite %s/%s/%s: %w", suite.Name, section, arch, err)
	}
	gcids = dedupeGCIDs(gcids)

	components := make([][]byte, 0, len(gcids))
	crossref := make([]string, 0, len(gcids))
	for _, gcid := range gcids {
		data, err := p.Values.GetMetadata(ctx, gcid)
		if err != nil {
			return fmt.Errorf("publisher: get_metadata %s: %w", gcid, err)
		}
		components = append(components, data)
		crossref = append(crossref, gcid.ComponentID+"\t"+gcid.String())
	}

	removed, err := p.loadRemovedOverlay(suite.Name, section)
	if err != nil {
		return fmt.Errorf("publisher: removed-components overlay %s/%s: %w", suite.Name, section, err)
	}
	for _, rc := range removed {
		canon, err := p.Serializer.Canonicalize(&rc)
		if err != nil {
			return fmt.Errorf("publisher: canonicalize removed-component %s: %w", rc.ID, err)
		}
		components = append(components, canon)
	}

	header := serializer.CatalogHeader{
		ProjectName:  p.Config.ProjectName,
		FormatVer:    "0.14",
		Priority:     suite.DataPriority,
		MediaBaseURL: p.Config.MediaBaseURL,
	}
	body, err := p.Serializer.Catalog(header, components)
	if err != nil {
		return fmt.Errorf("publisher: assemble catalog %s/%s/%s: %w", suite.Name, section, arch, err)
	}
	gz, err := gzipBytes(body)
	if err != nil {
		return fmt.Errorf("publisher: gzip catalog: %w", err)
	}
	if err := writeFileAtomic(p.catalogPath(suite.Name, section, arch), gz, 0o644); err != nil {
		return fmt.Errorf("publisher: write catalog %s/%s/%s: %w", suite.Name, section, arch, err)
	}

	crossrefGz, err := gzipBytes([]byte(strings.Join(crossref, "\n")))
	if err != nil {
		return fmt.Errorf("publisher: gzip cross-reference: %w", err)
	}
	if err := writeFileAtomic(p.crossrefPath(suite.Name, section, arch), crossrefGz, 0o644); err != nil {
		return fmt.Errorf("publisher: write cross-reference %s/%s/%s: %w", suite.Name, section, arch, err)
	}

	hintDoc, stats, err := p.buildHintReport(ctx, pkids)
	if err != nil {
		return fmt.Errorf("publisher: build hint report %s/%s/%s: %w", suite.Name, section, arch, err)
	}
	if err := p.writeHintReport(suite.Name, section, arch, hintDoc); err != nil {
		return fmt.Errorf("publisher: write hint report %s/%s/%s: %w", suite.Name, section, arch, err)
	}
	stats.Components = len(gcids)
	stats.Removed = len(removed)

	if p.HTML != nil {
		if err := p.renderHTMLReport(suite.Name, section, arch, stats); err != nil {
			return fmt.Errorf("publisher: render html report %s/%s/%s: %w", suite.Name, section, arch, err)
		}
	}

	if err := p.recordStats(ctx, suite.Name, stats); err != nil {
		return fmt.Errorf("publisher: record stats %s/%s/%s: %w", suite.Name, section, arch, err)
	}

	if p.Config.EmitSBOM {
		if err := p.writeSBOM(ctx, suite.Name, section, arch, gcids); err != nil {
			return fmt.Errorf("publisher: write sbom %s/%s/%s: %w", suite.Name, section, arch, err)
		}
	}
	return nil
}

func dedupeGCIDs(gcids []asgen.GCID) []asgen.GCID {
	seen := make(map[asgen.GCID]struct{}, len(gcids))
	out := gcids[:0]
	for _, g := range gcids {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
