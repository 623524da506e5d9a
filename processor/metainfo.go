package processor

import (
	"encoding/xml"
	"fmt"

	"github.com/asgen-project/asgen"
)

// Raw metainfo XML parsing is processor-internal, not a backend/serializer
// concern: the Serializer collaborator only renders components to bytes
// (Canonicalize/Catalog), it never turns bytes back into a component. The
// struct tags below are grounded on a real AppStream-consuming Go program's
// shape (other_examples' alt-atomic-apm swcat.go), adapted from its flat
// single-catalog-element form to the single <component> metainfo files this
// step actually reads one at a time.

type xmlLocalizedText struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type xmlURL struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type xmlIcon struct {
	Type   string `xml:"type,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Value  string `xml:",chardata"`
}

type xmlRelease struct {
	Version   string `xml:"version,attr"`
	Timestamp int64  `xml:"timestamp,attr"`
	URL       string `xml:"url"`
}

type xmlLaunchable struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type xmlScreenshotImage struct {
	Type   string `xml:"type,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	URL    string `xml:",chardata"`
}

type xmlScreenshot struct {
	Type    string               `xml:"type,attr"`
	Caption []xmlLocalizedText   `xml:"caption"`
	Images  []xmlScreenshotImage `xml:"image"`
}

type xmlKeyword struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

// xmlComponent is the on-disk <component> element of one metainfo file.
type xmlComponent struct {
	XMLName xml.Name `xml:"component"`
	Type    string   `xml:"type,attr"`

	ID              string `xml:"id"`
	MetadataLicense string `xml:"metadata_license"`
	ProjectLicense  string `xml:"project_license"`
	PkgName         string `xml:"pkgname"`

	Name        []xmlLocalizedText `xml:"name"`
	Summary     []xmlLocalizedText `xml:"summary"`
	Description []xmlLocalizedText `xml:"description"`

	Categories []string     `xml:"categories>category"`
	Keywords   []xmlKeyword `xml:"keywords>keyword"`
	Urls       []xmlURL     `xml:"url"`

	Icons       []xmlIcon       `xml:"icon"`
	Screenshots []xmlScreenshot `xml:"screenshots>screenshot"`
	Releases    []xmlRelease    `xml:"releases>release"`

	Launchable *xmlLaunchable `xml:"launchable"`

	Provides struct {
		IDs []string `xml:"id"`
	} `xml:"provides"`
}

// kindFromTag maps the metainfo <component type="..."> attribute to
// [asgen.Kind]. An unrecognized or missing type yields [asgen.KindUnknown],
// which the caller rejects per spec.md §4.3 step 3.
func kindFromTag(tag string) asgen.Kind {
	switch asgen.Kind(tag) {
	case asgen.KindDesktopApplication, asgen.KindConsoleApplication, asgen.KindWebApplication,
		asgen.KindFont, asgen.KindCodec, asgen.KindAddon, asgen.KindRuntime,
		asgen.KindDriver, asgen.KindFirmware, asgen.KindOperatingSystem, asgen.KindGeneric:
		return asgen.Kind(tag)
	default:
		return asgen.KindUnknown
	}
}

// parseMetainfo decodes a single metainfo document into a partially
// populated [asgen.Component] (spec.md §4.3 step 3). Only structural
// decoding happens here; kind/license rejection and release capping are the
// caller's job so it can attach the right hint tag to each failure.
func parseMetainfo(data []byte) (asgen.Component, string, error) {
	var x xmlComponent
	if err := xml.Unmarshal(data, &x); err != nil {
		return asgen.Component{}, "", fmt.Errorf("parse metainfo: %w", err)
	}

	c := asgen.Component{
		ID:              x.ID,
		Kind:            kindFromTag(x.Type),
		Name:            localizedMap(x.Name),
		Summary:         localizedMap(x.Summary),
		Description:     localizedMap(x.Description),
		MetadataLicense: x.MetadataLicense,
		ProjectLicense:  x.ProjectLicense,
		Categories:      append([]string(nil), x.Categories...),
		PkgName:         x.PkgName,
		Provides:        append([]string(nil), x.Provides.IDs...),
	}

	if len(x.Keywords) > 0 {
		c.Keywords = make(map[string][]string)
		for _, kw := range x.Keywords {
			lang := kw.Lang
			c.Keywords[lang] = append(c.Keywords[lang], kw.Value)
		}
	}

	for _, r := range x.Releases {
		c.Releases = append(c.Releases, asgen.Release{
			Version:   r.Version,
			Timestamp: r.Timestamp,
			URL:       r.URL,
		})
	}

	var iconName string
	for _, ic := range x.Icons {
		if ic.Type == "stock" && iconName == "" {
			iconName = ic.Value
		}
		if ic.Type == "remote" && iconName == "" {
			iconName = ic.Value
		}
	}
	if iconName == "" && len(x.Icons) > 0 {
		// Fall back to the id itself; cached/local icon elements in a raw
		// metainfo file typically name the component rather than a
		// separately-looked-up theme icon.
		iconName = x.ID
	}

	for _, ss := range x.Screenshots {
		s := asgen.Screenshot{Default: ss.Type == "default"}
		if len(ss.Caption) > 0 {
			s.Caption = localizedMap(ss.Caption)
		}
		if len(ss.Images) > 0 {
			img := ss.Images[0]
			s.SourceURL = img.URL
			s.SourceWidth, s.SourceHeight = img.Width, img.Height
		}
		c.Screenshots = append(c.Screenshots, s)
	}

	if x.Launchable != nil && x.Launchable.Type == "desktop-id" {
		c.Launchables = append(c.Launchables, asgen.Launchable{
			Kind:  x.Launchable.Type,
			Value: x.Launchable.Value,
		})
	}

	return c, iconName, nil
}

func localizedMap(texts []xmlLocalizedText) map[string]string {
	if len(texts) == 0 {
		return nil
	}
	out := make(map[string]string, len(texts))
	for _, t := range texts {
		lang := t.Lang
		if lang == "" {
			lang = "C"
		}
		out[lang] = t.Value
	}
	return out
}

// desktopIDLaunchable returns the first desktop-id launchable's value, or
// "" if the component declares none (spec.md §4.3 step 4).
func desktopIDLaunchable(c asgen.Component) string {
	for _, l := range c.Launchables {
		if l.Kind == "desktop-id" {
			return l.Value
		}
	}
	return ""
}
