package refserializer

import (
	"bytes"
	"testing"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend/serializer"
)

func sampleComponent() *asgen.Component {
	return &asgen.Component{
		ID:              "org.gimp.GIMP",
		Kind:            asgen.KindDesktopApplication,
		Name:            map[string]string{"C": "GIMP", "de": "GIMP"},
		Summary:         map[string]string{"C": "Image editor"},
		MetadataLicense: "MIT",
		ProjectLicense:  "GPL-3.0-only",
		Categories:      []string{"Graphics"},
		PkgName:         "gimp",
	}
}

func TestXMLCanonicalizeDeterministic(t *testing.T) {
	c := sampleComponent()
	var ser XMLSerializer
	a, err := ser.Canonicalize(c)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	b, err := ser.Canonicalize(c)
	if err != nil {
		t.Fatalf("Canonicalize (second run): %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("canonicalize is not deterministic:\na=%s\nb=%s", a, b)
	}
	if !bytes.Contains(a, []byte("org.gimp.GIMP")) {
		t.Fatalf("missing component id: %s", a)
	}
}

func TestXMLCatalogWrapsComponents(t *testing.T) {
	var ser XMLSerializer
	frag, err := ser.Canonicalize(sampleComponent())
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	doc, err := ser.Catalog(serializer.CatalogHeader{ProjectName: "test", FormatVer: "0.14"}, [][]byte{frag})
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if !bytes.Contains(doc, []byte("<components")) || !bytes.Contains(doc, []byte("</components>")) {
		t.Fatalf("catalog missing envelope: %s", doc)
	}
}

func TestYAMLCanonicalizeDeterministic(t *testing.T) {
	c := sampleComponent()
	var ser YAMLSerializer
	a, err := ser.Canonicalize(c)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	b, err := ser.Canonicalize(c)
	if err != nil {
		t.Fatalf("Canonicalize (second run): %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("canonicalize is not deterministic:\na=%s\nb=%s", a, b)
	}
}

func TestYAMLCatalogIncludesHeaderAndComponents(t *testing.T) {
	var ser YAMLSerializer
	frag, err := ser.Canonicalize(sampleComponent())
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	doc, err := ser.Catalog(serializer.CatalogHeader{ProjectName: "test", FormatVer: "0.14"}, [][]byte{frag})
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if !bytes.Contains(doc, []byte("DEP-11")) {
		t.Fatalf("catalog missing DEP-11 header: %s", doc)
	}
	if !bytes.Contains(doc, []byte("org.gimp.GIMP")) {
		t.Fatalf("catalog missing component: %s", doc)
	}
}
