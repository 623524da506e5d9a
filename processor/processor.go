package processor

import (
	"context"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend"
	"github.com/asgen-project/asgen/backend/downloader"
	"github.com/asgen-project/asgen/backend/fontbinding"
	"github.com/asgen-project/asgen/backend/rasterizer"
	"github.com/asgen-project/asgen/backend/serializer"
	"github.com/asgen-project/asgen/backend/validator"
	"github.com/asgen-project/asgen/iconresolver"
	"github.com/asgen-project/asgen/internal/fontsvc"
	"github.com/asgen-project/asgen/internal/licensegate"
	"github.com/asgen-project/asgen/internal/validatorpool"
)

// ContentStore is the subset of the Content Index (C1) the processor
// writes to directly (spec.md §4.3 step 2).
type ContentStore interface {
	Contains(ctx context.Context, pkid asgen.PackageID) (bool, error)
	Put(ctx context.Context, pkid asgen.PackageID, fileList []string) error
}

// ComponentValueStore is the subset of the Component Store (C2) the
// processor reads/writes directly (spec.md §4.3 steps 1, 9).
type ComponentValueStore interface {
	PackageValue(ctx context.Context, pkid asgen.PackageID) ([]asgen.GCID, bool, error)
	SetPackageValue(ctx context.Context, pkid asgen.PackageID, gcids []asgen.GCID) error
	SetMetadata(ctx context.Context, gcid asgen.GCID, xml []byte) error
	SetHints(ctx context.Context, gcid asgen.GCID, doc []byte) error
}

// IconResolverAPI is the Icon Resolver (C4) entry point the processor
// calls at step 5.
type IconResolverAPI interface {
	Resolve(ctx context.Context, req iconresolver.Request) (map[asgen.IconSize]iconresolver.Resolved, []asgen.IssueHint, error)
}

// Processor holds every collaborator the Package Processor (C3) needs. The
// zero value is not usable; build one with [New].
type Processor struct {
	Content ContentStore
	Values  ComponentValueStore
	Icons   IconResolverAPI

	Downloader *downloader.Coordinator
	Rasterizer rasterizer.Rasterizer
	Fonts      *fontsvc.Service
	Validators *validatorpool.Pool[validator.Validator]
	Serializer serializer.Serializer
	License    *licensegate.Gate
	Tags       *asgen.TagRegistry
	IconPolicy *asgen.IconPolicy

	// FeatureChanged reports whether any configured feature affecting a
	// previously-stored package has changed since its last run, gating the
	// fast-path skip of spec.md §4.3 step 1.
	FeatureChanged func(pkid asgen.PackageID) bool

	// StoreScreenshots mirrors the "store screenshots" feature flag
	// (spec.md §4.3 step 7).
	StoreScreenshots bool

	// NowUnix is an injectable clock; no code path in this package reads
	// it.
	NowUnix func() int64
}

// Config bundles the constructor arguments for [New] so call sites (the
// Engine, tests) don't have to name every field positionally.
type Config struct {
	Content          ContentStore
	Values           ComponentValueStore
	Icons            IconResolverAPI
	Downloader       *downloader.Coordinator
	Rasterizer       rasterizer.Rasterizer
	FontBinding      fontbinding.Binding
	ValidatorFactory func() validator.Validator
	Serializer       serializer.Serializer
	License          *licensegate.Gate
	Tags             *asgen.TagRegistry
	IconPolicy       *asgen.IconPolicy
	StoreScreenshots bool
}

// New builds a Processor from cfg. A nil FontBinding/ValidatorFactory
// disables font handling/validation respectively (callers that never feed
// font packages or never enable validation may omit them).
func New(cfg Config) *Processor {
	p := &Processor{
		Content:          cfg.Content,
		Values:           cfg.Values,
		Icons:            cfg.Icons,
		Downloader:       cfg.Downloader,
		Rasterizer:       cfg.Rasterizer,
		Serializer:       cfg.Serializer,
		License:          cfg.License,
		Tags:             cfg.Tags,
		IconPolicy:       cfg.IconPolicy,
		StoreScreenshots: cfg.StoreScreenshots,
	}
	if cfg.FontBinding != nil {
		p.Fonts = fontsvc.New(cfg.FontBinding)
	}
	if cfg.ValidatorFactory != nil {
		p.Validators = validatorpool.New(cfg.ValidatorFactory)
	}
	return p
}

// componentCtrl carries one discovered component's mutable state through
// the state table (spec.md §4.3 per-component state machine).
type componentCtrl struct {
	state componentState

	path string // source metainfo/desktop file path, for hint attribution
	pkg  backend.Package

	component asgen.Component
	hints     []asgen.IssueHint
	iconName  string
	gcid      asgen.GCID

	ancient  bool // legacy /usr/share/appdata path
	workerID int
}

// fatal reports whether c carries any error-severity hint, which routes it
// to IGNORED regardless of which state raised it (spec.md §4.3).
func (c *componentCtrl) fatal(tags *asgen.TagRegistry) bool {
	for _, h := range c.hints {
		if tags.Severity(h.Tag) == asgen.SeverityError {
			return true
		}
	}
	return false
}

// addHint appends a tag-resolved hint against the component currently being
// processed.
func (c *componentCtrl) addHint(tags *asgen.TagRegistry, tag string, subst map[string]string) {
	c.hints = append(c.hints, tags.New(tag, c.component.ID, subst))
}
