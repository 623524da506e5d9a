package processor

import (
	"context"
	"io"
	"net/url"

	"github.com/asgen-project/asgen"
)

// thumbnailSizes are the fixed downscale targets of spec.md §4.3 step 7,
// largest first. Each target is resized from the original source bytes.
var thumbnailSizes = []struct {
	w, h int
	name string
}{
	{1248, 702, "1248x702"},
	{752, 423, "752x423"},
	{624, 351, "624x351"},
	{224, 126, "224x126"},
}

// processScreenshots implements spec.md §4.3 step 7: fetch each
// screenshot's remote source image, measure it, and either store
// downscaled thumbnails (createScreenshotsStore on) or just keep the
// source URL (off).
func (p *Processor) processScreenshots(ctx context.Context, c *componentCtrl) error {
	if p.Downloader == nil || p.Rasterizer == nil {
		return nil
	}
	for i := range c.component.Screenshots {
		ss := &c.component.Screenshots[i]
		if ss.SourceURL == "" {
			continue
		}
		if err := p.processOneScreenshot(ctx, c, ss); err != nil {
			c.addHint(p.Tags, "screenshot-save-error", map[string]string{"url": ss.SourceURL, "error": err.Error()})
		}
	}
	return nil
}

func (p *Processor) processOneScreenshot(ctx context.Context, c *componentCtrl, ss *asgen.Screenshot) error {
	u, err := url.Parse(ss.SourceURL)
	if err != nil {
		return err
	}

	rc, _, err := p.Downloader.Fetch(ctx, u)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}

	w, h, err := p.Rasterizer.Decode(ctx, data)
	if err != nil {
		return err
	}
	ss.SourceWidth, ss.SourceHeight = w, h

	if !p.StoreScreenshots {
		return nil
	}

	ss.Thumbnails = make(map[string]string, len(thumbnailSizes))
	anyOK := false
	for _, size := range thumbnailSizes {
		if size.w > w || size.h > h {
			// Downscale-only: never request a thumbnail larger than the
			// source in either dimension.
			continue
		}
		_, err := p.Rasterizer.Resize(ctx, data, size.w, size.h)
		if err != nil {
			continue
		}
		ss.Thumbnails[size.name] = c.component.ID + "/" + size.name + ".png"
		anyOK = true
	}
	if !anyOK {
		c.addHint(p.Tags, "screenshot-no-thumbnails", map[string]string{"url": ss.SourceURL})
	}
	return nil
}
