// Package htmltemplate declares the HTML report-rendering collaborator
// (spec.md §6, out-of-scope interface) consumed by the Publisher (spec.md
// §4.6 step 4).
package htmltemplate

import "io"

// Renderer renders a named report template with data into w.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}
