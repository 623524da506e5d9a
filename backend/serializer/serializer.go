// Package serializer declares the AppStream XML/YAML serializer
// collaborator (spec.md §6, out-of-scope interface): the core only needs
// canonical bytes for GCID computation (spec.md §4.3 step 9) and catalog
// assembly (spec.md §4.6).
package serializer

import "github.com/asgen-project/asgen"

// Format selects the catalog's wire format (spec.md §6.2 MetadataType).
type Format string

const (
	XML  Format = "XML"
	YAML Format = "YAML"
)

// Serializer renders components to their canonical, on-disk form.
type Serializer interface {
	// Canonicalize renders a single component to its deterministic byte
	// form, the input to GCID computation. Equal components must always
	// produce byte-identical output (spec.md §8 property 1).
	Canonicalize(c *asgen.Component) ([]byte, error)

	// Catalog renders a full catalog header plus a list of already-rendered
	// component bytes into one document (spec.md §4.6 step 3).
	Catalog(header CatalogHeader, components [][]byte) ([]byte, error)
}

// CatalogHeader is the per-suite catalog envelope (spec.md §4.6 step 3).
type CatalogHeader struct {
	ProjectName  string
	FormatVer    string
	Priority     int
	MediaBaseURL string
}
