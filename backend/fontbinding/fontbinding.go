// Package fontbinding declares the font-rendering collaborator (spec.md
// §6, out-of-scope interface) the Package Processor uses for font
// components (spec.md §4.3 step 6): opening a TTF/OTF file, inspecting its
// declared coverage/style, and rendering sample text to an image.
package fontbinding

import (
	"context"

	"golang.org/x/text/language"
)

// Face is a single opened font face.
type Face interface {
	// FullName is the spec-compliant full name a font component is
	// registered under (family plus style, e.g. "Noto Sans Bold").
	FullName() string
	// Style reports the face's style (e.g. "Regular", "Bold Italic").
	Style() string
	// Languages reports every language this face declares coverage for.
	Languages() []language.Tag
	// RenderSample rasterizes text at the given pixel size, encoding the
	// result as PNG.
	RenderSample(ctx context.Context, text string, width, height int) ([]byte, error)
}

// Binding opens font file bytes into a [Face].
type Binding interface {
	Open(ctx context.Context, data []byte) (Face, error)
}
