package publisher

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/asgen-project/asgen"
)

// loadRemovedOverlay reads removed-components.json from the extra-metainfo
// directory for one (suite, section) and builds the synthetic
// merge="remove-component" entries the catalog appends (spec.md §4.6
// step 2). A missing file is not an error: most suites never remove
// anything.
func (p *Publisher) loadRemovedOverlay(suite, section string) ([]asgen.Component, error) {
	path := filepath.Join(p.Config.ExtraMetainfoDir, suite, section, "removed-components.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}

	out := make([]asgen.Component, len(ids))
	for i, id := range ids {
		out[i] = asgen.Component{ID: id, Merge: "remove-component"}
	}
	return out, nil
}
