package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/package-url/packageurl-go"

	"github.com/asgen-project/asgen"
)

// PURLType is the package-url type stamped onto every hint report entry.
// Backends are ecosystem-agnostic at this layer, so a single generic type
// is used rather than guessing "deb"/"rpm" from the pkid; there is no hook
// for a backend to supply a different purl.
const PURLType = "generic"

// pkgHintEntry is one pkid's section of the hint report (spec.md §4.6 step
// 4, §6.4 Hints-<arch>.json.gz).
type pkgHintEntry struct {
	Pkid  string          `json:"pkid"`
	Purl  string          `json:"purl"`
	Hints []asgen.IssueHint `json:"hints"`
}

// buildHintReport resolves every live pkid's components and aggregates
// their non-pedantic hints into one report document (spec.md §7: pedantic
// is suppressed from output entirely).
func (p *Publisher) buildHintReport(ctx context.Context, pkids []asgen.PackageID) ([]byte, *scopeStats, error) {
	stats := newScopeStats()
	entries := make([]pkgHintEntry, 0, len(pkids))

	for _, pkid := range pkids {
		gcids, ok, err := p.Values.PackageValue(ctx, pkid)
		if err != nil {
			return nil, nil, fmt.Errorf("package_value %s: %w", pkid, err)
		}
		if !ok {
			continue
		}

		purl := packageurl.PackageURL{Type: PURLType, Name: pkid.Name, Version: pkid.Version,
			Qualifiers: packageurl.QualifiersFromMap(map[string]string{"arch": pkid.Arch})}

		var hints []asgen.IssueHint
		for _, gcid := range gcids {
			doc, err := p.Values.GetHints(ctx, gcid)
			if err != nil {
				continue // no hints recorded for this gcid is normal, not an error worth aborting publish
			}
			var gh []asgen.IssueHint
			if err := json.Unmarshal(doc, &gh); err != nil {
				return nil, nil, fmt.Errorf("decode hints %s: %w", gcid, err)
			}
			for _, h := range gh {
				if h.Severity.SuppressedFromOutput() {
					continue
				}
				hints = append(hints, h)
				stats.recordSeverity(h.Severity.String())
			}
		}
		if len(hints) == 0 {
			continue
		}
		entries = append(entries, pkgHintEntry{Pkid: pkid.String(), Purl: purl.ToString(), Hints: hints})
	}

	doc, err := json.Marshal(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal hint report: %w", err)
	}
	return doc, stats, nil
}

// writeHintReport gzips and atomically writes a scope's hint report to
// <HintsDir>/<suite>/<section>/Hints-<arch>.json.gz (spec.md §6.4).
func (p *Publisher) writeHintReport(suite, section, arch string, doc []byte) error {
	path := filepath.Join(p.Config.HintsDir, suite, section, fmt.Sprintf("Hints-%s.json.gz", arch))
	gz, err := gzipBytes(doc)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, gz, 0o644)
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
