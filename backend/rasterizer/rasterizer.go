// Package rasterizer declares the image/SVG rasterization collaborator
// (spec.md §6, out-of-scope interface) used by icon extraction (spec.md
// §4.3 step 5) and screenshot thumbnailing (spec.md §4.3 step 7).
package rasterizer

import "context"

// Rasterizer decodes and resizes raster/vector images.
type Rasterizer interface {
	// Decode returns the pixel dimensions of an encoded image (png, svg,
	// svgz, xpm).
	Decode(ctx context.Context, data []byte) (width, height int, err error)

	// Resize downscales data to exactly (width, height), encoding the
	// result as PNG. Callers never request upscaling except the single
	// 48->64 case gated by the allowIconUpscaling feature, which the
	// Icon Resolver enforces before calling Resize.
	Resize(ctx context.Context, data []byte, width, height int) ([]byte, error)
}
