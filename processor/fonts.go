package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/asgen-project/asgen"
)

// fontExtensions lists the font file suffixes step 6 enumerates.
var fontExtensions = []string{".ttf", ".otf", ".ttc"}

// processFonts implements spec.md §4.3 step 6: for a font-kind component,
// enumerate TTF/OTF files in the package, render a sample icon/screenshot
// via the serialized font service, and register the component under the
// face's spec-compliant full name.
func (p *Processor) processFonts(ctx context.Context, c *componentCtrl, files []string) error {
	if c.component.Kind != asgen.KindFont {
		return nil
	}
	if p.Fonts == nil {
		return nil
	}

	var fontFiles []string
	for _, f := range files {
		lower := strings.ToLower(f)
		for _, ext := range fontExtensions {
			if strings.HasSuffix(lower, ext) {
				fontFiles = append(fontFiles, f)
				break
			}
		}
	}
	if len(fontFiles) == 0 {
		return nil
	}

	for _, f := range fontFiles {
		data, err := c.pkg.FileData(ctx, f)
		if err != nil {
			return fmt.Errorf("read font %s: %w", f, err)
		}
		res, err := p.Fonts.Process(ctx, data)
		if err != nil {
			c.addHint(p.Tags, "metainfo-parsing-error", map[string]string{"file": f, "error": err.Error()})
			continue
		}

		if c.component.Name == nil {
			c.component.Name = make(map[string]string)
		}
		c.component.Name["C"] = res.FullName

		if len(res.SampleIcon) > 0 {
			c.component.Icons = append(c.component.Icons, asgen.Icon{Size: "64", Cached: "rendered-sample"})
		}
		if len(res.SampleShot) > 0 {
			c.component.Screenshots = append(c.component.Screenshots, asgen.Screenshot{
				Default: len(c.component.Screenshots) == 0,
				Caption: map[string]string{"C": res.FullName + " sample"},
			})
		}
	}
	return nil
}
