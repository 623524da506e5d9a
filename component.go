package asgen

// Kind enumerates the AppStream component types asgen understands
// (spec.md §3).
type Kind string

const (
	KindUnknown            Kind = ""
	KindDesktopApplication Kind = "desktop-application"
	KindConsoleApplication Kind = "console-application"
	KindWebApplication     Kind = "web-application"
	KindFont               Kind = "font"
	KindCodec              Kind = "codec"
	KindAddon              Kind = "addon"
	KindRuntime            Kind = "runtime"
	KindDriver             Kind = "driver"
	KindFirmware           Kind = "firmware"
	KindOperatingSystem    Kind = "operating-system"
	KindGeneric            Kind = "generic"

	// KindFake marks synthetic components/packages produced by the
	// Extra-Data Injector (C7), never emitted to a real backend.
	KindFake Kind = "fake"
)

// MaxReleases is the cap on the number of releases retained per component
// (spec.md §3, §4.3 step 3): releases are assumed pre-sorted newest-first by
// the upstream serializer, so capping is a simple truncation.
const MaxReleases = 6

// Launchable references a way to start a component, e.g. a desktop-id.
type Launchable struct {
	Kind  string
	Value string
}

// Release is one entry of a component's release history.
type Release struct {
	Version     string
	Timestamp   int64
	Description map[string]string
	// URL is the release artifact/announcement URL, if any. It is carried
	// into the catalog as parsed; no age-based pruning is applied to it.
	URL string
}

// Screenshot is one entry of a component's screenshot list, populated by the
// Package Processor (C3) after fetch/resize (spec.md §4.3 step 7).
type Screenshot struct {
	Default bool
	Caption map[string]string
	// SourceURL is the upstream remote URL the screenshot was fetched from.
	SourceURL string
	// SourceWidth/SourceHeight are the measured dimensions of the original.
	SourceWidth, SourceHeight int
	// Thumbnails maps a rendered size (e.g. "624x351") to its relative media
	// path, empty when createScreenshotsStore is off.
	Thumbnails map[string]string
}

// Icon is a single resolved icon entry for a component, as produced by the
// Icon Resolver (C4).
type Icon struct {
	// Size is formatted "WxH" or "WxH@2" for HiDPI variants.
	Size string
	// Cached is the relative media path when the icon was extracted and
	// cached locally; empty when only a Remote URL is recorded.
	Cached string
	// Remote is set when the icon policy allows serving the icon straight
	// from its origin instead of caching it.
	Remote string
}

// Component is the AppStream entity produced by the Package Processor for a
// single metainfo/desktop-file pairing (spec.md §3).
type Component struct {
	ID   string
	Kind Kind

	Name        map[string]string
	Summary     map[string]string
	Description map[string]string

	MetadataLicense string
	ProjectLicense  string

	Categories []string
	Keywords   map[string][]string

	Icons       []Icon
	Screenshots []Screenshot
	Releases    []Release
	Launchables []Launchable

	Provides []string
	Requires []string

	// PkgName is the short package name (deduplicated across arches) that
	// produced this component.
	PkgName string

	// Merge is set to "remove-component" on the synthetic overlay entries
	// the Publisher appends from removed-components.json (spec.md §4.6
	// step 2), letting a higher-priority suite hide a component a
	// lower-priority one still carries. Empty for every real component.
	Merge string
}

// CapReleases truncates Releases to [MaxReleases], assuming the caller
// already sorted them newest-first (spec.md §4.3 step 3).
func (c *Component) CapReleases() {
	if len(c.Releases) > MaxReleases {
		c.Releases = c.Releases[:MaxReleases]
	}
}

// HasCachedIconSize reports whether an icon of the given size string
// (e.g. "64x64") is cached.
func (c *Component) HasCachedIconSize(size string) bool {
	for _, ic := range c.Icons {
		if ic.Size == size && ic.Cached != "" {
			return true
		}
	}
	return false
}

// HasAnyCachedIcon reports whether any icon entry is cached, which per
// spec.md §3 forces the 64×64-cached invariant to apply.
func (c *Component) HasAnyCachedIcon() bool {
	for _, ic := range c.Icons {
		if ic.Cached != "" {
			return true
		}
	}
	return false
}
