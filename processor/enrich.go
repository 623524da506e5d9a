package processor

import "context"

// enrichComponent implements spec.md §4.3 steps 4-7: desktop fusion, icon
// resolution, font rendering, and screenshot fetch/resize. It needs the
// package's file list again, since metainfo parsing only read one file.
func (p *Processor) enrichComponent(ctx context.Context, c *componentCtrl) (componentState, error) {
	files, err := c.pkg.Contents(ctx)
	if err != nil {
		return ignored, err
	}

	if ok, err := p.fuseDesktopFile(ctx, c, files); err != nil {
		return ignored, err
	} else if !ok {
		return ignored, nil
	}

	if err := p.resolveIcons(ctx, c); err != nil {
		return ignored, err
	}

	if err := p.processFonts(ctx, c, files); err != nil {
		return ignored, err
	}

	if err := p.processScreenshots(ctx, c); err != nil {
		return ignored, err
	}

	if c.fatal(p.Tags) {
		return ignored, nil
	}
	return enriched, nil
}
