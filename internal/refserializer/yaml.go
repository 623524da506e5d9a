package refserializer

import (
	"bytes"
	"fmt"
	"sort"

	yaml "go.yaml.in/yaml/v2"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend/serializer"
)

// YAMLSerializer renders components to the DEP-11 YAML form, the metadata
// format Debian-family distributions prefer over collection-XML.
type YAMLSerializer struct{}

var _ serializer.Serializer = YAMLSerializer{}

type yamlComponent struct {
	ID              string            `yaml:"ID"`
	Type            string            `yaml:"Type,omitempty"`
	Merge           string            `yaml:"Merge,omitempty"`
	MetadataLicense string            `yaml:"MetadataLicense,omitempty"`
	ProjectLicense  string            `yaml:"ProjectLicense,omitempty"`
	Name            map[string]string `yaml:"Name,omitempty"`
	Summary         map[string]string `yaml:"Summary,omitempty"`
	Categories      []string          `yaml:"Categories,omitempty"`
	Provides        []string          `yaml:"Provides,omitempty"`
	PkgName         string            `yaml:"PackageName,omitempty"`
}

// Canonicalize renders c as one "---"-separated YAML document, mirroring
// DEP-11's one-component-per-document stream layout.
func (YAMLSerializer) Canonicalize(c *asgen.Component) ([]byte, error) {
	yc := yamlComponent{
		ID:              c.ID,
		Type:            string(c.Kind),
		Merge:           c.Merge,
		MetadataLicense: c.MetadataLicense,
		ProjectLicense:  c.ProjectLicense,
		Name:            c.Name,
		Summary:         c.Summary,
		Categories:      sortedStrings(c.Categories),
		Provides:        sortedStrings(c.Provides),
		PkgName:         c.PkgName,
	}
	doc, err := yaml.Marshal(yc)
	if err != nil {
		return nil, fmt.Errorf("refserializer: marshal component %s: %w", c.ID, err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(doc)
	return buf.Bytes(), nil
}

// Catalog concatenates a DEP-11 header document with every component
// document (spec.md §4.6 step 3).
func (YAMLSerializer) Catalog(header serializer.CatalogHeader, components [][]byte) ([]byte, error) {
	head := struct {
		File     string `yaml:"File"`
		Version  string `yaml:"Version"`
		Origin   string `yaml:"Origin"`
		Priority int    `yaml:"Priority,omitempty"`
		MediaURL string `yaml:"MediaBaseUrl,omitempty"`
	}{File: "DEP-11", Version: header.FormatVer, Origin: header.ProjectName, Priority: header.Priority, MediaURL: header.MediaBaseURL}
	headDoc, err := yaml.Marshal(head)
	if err != nil {
		return nil, fmt.Errorf("refserializer: marshal catalog header: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(headDoc)
	for _, c := range components {
		buf.Write(c)
	}
	return buf.Bytes(), nil
}

func sortedStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
