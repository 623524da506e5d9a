// Package refrasterizer is the reference implementation of the
// rasterizer.Rasterizer collaborator (spec.md §6, out-of-scope interface):
// PNG/JPEG/GIF decoding and Lanczos resizing via github.com/disintegration/
// imaging, shipped solely to exercise the interface boundary in tests. It
// does not handle SVG/SVGZ — a real deployment plugs in a vector rasterizer
// for those; this reference is raster-only.
package refrasterizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// ImageRasterizer decodes/resizes raster images using image/imaging.
type ImageRasterizer struct{}

func (ImageRasterizer) Decode(ctx context.Context, data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("refrasterizer: decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func (ImageRasterizer) Resize(ctx context.Context, data []byte, width, height int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("refrasterizer: decode: %w", err)
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("refrasterizer: encode: %w", err)
	}
	return buf.Bytes(), nil
}
