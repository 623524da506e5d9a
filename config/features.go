package config

// Features holds the boolean feature flags of spec.md §6.2, each
// independently togglable in asgen-config.json. Unmarshaling a partial
// `"Features": {...}` object onto a value pre-seeded by [DefaultFeatures]
// only overwrites the keys actually present, leaving the rest at their
// documented default.
type Features struct {
	ValidateMetainfo           bool `json:"validateMetainfo"`
	ProcessDesktop             bool `json:"processDesktop"`
	NoDownloads                bool `json:"noDownloads"`
	CreateScreenshotsStore     bool `json:"createScreenshotsStore"`
	ScreenshotVideos           bool `json:"screenshotVideos"`
	PropagateMetaInfoArtifacts bool `json:"propagateMetaInfoArtifacts"`
	OptimizePNGSize            bool `json:"optimizePNGSize"`
	MetadataTimestamps         bool `json:"metadataTimestamps"`
	ImmutableSuites            bool `json:"immutableSuites"`
	ProcessFonts               bool `json:"processFonts"`
	AllowIconUpscaling         bool `json:"allowIconUpscaling"`
	ProcessGStreamer           bool `json:"processGStreamer"`
	ProcessLocale              bool `json:"processLocale"`
	ProcessAppStreamMimeTypes  bool `json:"processAppStreamMimeTypes"`
}

// DefaultFeatures returns the documented default for every flag (spec.md
// §6.2 Feature flags).
func DefaultFeatures() Features {
	return Features{
		ValidateMetainfo:           true,
		ProcessDesktop:             true,
		NoDownloads:                false,
		CreateScreenshotsStore:     true,
		ScreenshotVideos:           false,
		PropagateMetaInfoArtifacts: false,
		OptimizePNGSize:            true,
		MetadataTimestamps:         true,
		ImmutableSuites:            true,
		ProcessFonts:               true,
		AllowIconUpscaling:         true,
		ProcessGStreamer:           true,
		ProcessLocale:              true,
		ProcessAppStreamMimeTypes:  true,
	}
}
