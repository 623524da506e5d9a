package publisher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// htmlReportData is the template data for one scope's HTML report (spec.md
// §4.6 step 4).
type htmlReportData struct {
	ProjectName string
	HTMLBaseURL string
	Suite       string
	Section     string
	Arch        string
	Components  int
	Removed     int
	BySeverity  map[string]int
}

// renderHTMLReport renders the "suite-section-arch" report template
// through the injected [htmltemplate.Renderer] and writes it atomically
// under <HTMLDir>/<suite>/<section>/<arch>.html (spec.md §6.4 html/).
func (p *Publisher) renderHTMLReport(suite, section, arch string, stats *scopeStats) error {
	data := htmlReportData{
		ProjectName: p.Config.ProjectName,
		HTMLBaseURL: p.Config.HTMLBaseURL,
		Suite:       suite,
		Section:     section,
		Arch:        arch,
		Components:  stats.Components,
		Removed:     stats.Removed,
		BySeverity:  stats.BySeverity,
	}

	var buf bytes.Buffer
	if err := p.HTML.Render(&buf, "scope-report", data); err != nil {
		return err
	}

	path := filepath.Join(p.Config.HTMLDir, suite, section, arch+".html")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	return writeFileAtomic(path, buf.Bytes(), 0o644)
}
