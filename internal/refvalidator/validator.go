// Package refvalidator is the reference implementation of the
// validator.Validator collaborator (spec.md §6, out-of-scope interface):
// a minimal required-element checker, shipped solely to exercise the
// Package Processor's validation step (spec.md §4.3 step 8) in tests, not
// a feature-complete AppStream schema validator.
//
// Justified stdlib use: no AppStream/RNG/XSD schema-validation library is
// a dependency anywhere in the retrieved corpus; encoding/xml is used
// directly to scan for the handful of elements spec.md's invariants call
// mandatory.
package refvalidator

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/asgen-project/asgen/backend/validator"
)

// RequiredElementValidator flags a component missing any of the elements
// the AppStream spec treats as mandatory for every type: id, name, and a
// metadata_license.
type RequiredElementValidator struct{}

func (RequiredElementValidator) Validate(ctx context.Context, data []byte) ([]validator.Issue, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	seen := make(map[string]bool)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok {
			seen[se.Name.Local] = true
		}
	}

	var issues []validator.Issue
	for _, required := range []string{"id", "name", "metadata_license"} {
		if !seen[required] {
			issues = append(issues, validator.Issue{
				Tag:     "missing-" + required,
				Message: fmt.Sprintf("required element <%s> not found", required),
			})
		}
	}
	return issues, nil
}
