package main

import (
	"context"
	"fmt"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend"
	"github.com/asgen-project/asgen/backend/downloader"
	"github.com/asgen-project/asgen/backend/htmltemplate"
	"github.com/asgen-project/asgen/backend/serializer"
	"github.com/asgen-project/asgen/backend/validator"
	"github.com/asgen-project/asgen/componentstore"
	"github.com/asgen-project/asgen/config"
	"github.com/asgen-project/asgen/contentindex"
	"github.com/asgen-project/asgen/engine"
	"github.com/asgen-project/asgen/iconresolver"
	"github.com/asgen-project/asgen/internal/licensegate"
	"github.com/asgen-project/asgen/internal/refbackend"
	"github.com/asgen-project/asgen/internal/refdownloader"
	"github.com/asgen-project/asgen/internal/refhtml"
	"github.com/asgen-project/asgen/internal/refrasterizer"
	"github.com/asgen-project/asgen/internal/refserializer"
	"github.com/asgen-project/asgen/internal/refvalidator"
	"github.com/asgen-project/asgen/internal/xdgtheme"
	"github.com/asgen-project/asgen/processor"
	"github.com/asgen-project/asgen/publisher"
)

// app bundles every collaborator one subcommand needs, built from a loaded
// [config.Config]. Close releases the two store handles.
type app struct {
	Config    *config.Config
	Content   *contentindex.Store
	Values    *componentstore.Store
	Engine    *engine.Engine
	Publisher *publisher.Publisher
}

func (a *app) Close() error {
	err1 := a.Content.Close()
	err2 := a.Values.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// newApp loads cfg.ConfigPath and constructs every collaborator it
// configures: the Content Index (C1), the Component Store (C2), the
// Engine (C5), and the Publisher (C6), wired with the reference
// out-of-scope-collaborator implementations (internal/ref*) in the roles
// spec.md §6 leaves pluggable.
func newApp(ctx context.Context, cc *commonConfig) (*app, error) {
	cfg, err := config.Load(cc.ConfigPath)
	if err != nil {
		return nil, err
	}

	content, err := contentindex.Open(ctx, cc.Workspace+"/content.db")
	if err != nil {
		return nil, fmt.Errorf("asgen: %w", err)
	}
	values, err := componentstore.Open(ctx, cc.Workspace+"/components.db")
	if err != nil {
		content.Close()
		return nil, fmt.Errorf("asgen: %w", err)
	}

	suites := cfg.EngineSuites()
	iconPolicy := cfg.IconPolicy()
	tags := asgen.NewTagRegistry(nil)
	license := licensegate.New(nil)

	themeRegistry := xdgtheme.NewRegistry()
	themeRegistry.Put(xdgtheme.BuiltinHicolor())
	resolver := iconresolver.NewResolver(content, themeRegistry, iconPolicy, themeOrderFor(suites), cfg.Features.AllowIconUpscaling)

	var coord *downloader.Coordinator
	if !cfg.Features.NoDownloads {
		coord = downloader.New(refdownloader.New(nil))
	}

	var validatorFactory func() validator.Validator
	if cfg.Features.ValidateMetainfo {
		validatorFactory = func() validator.Validator { return refvalidator.RequiredElementValidator{} }
	}

	var ser serializer.Serializer = refserializer.XMLSerializer{}
	format := serializer.XML
	if cfg.MetadataType == "YAML" {
		ser = refserializer.YAMLSerializer{}
		format = serializer.YAML
	}

	proc := processor.New(processor.Config{
		Content:          content,
		Values:           values,
		Icons:            resolver,
		Downloader:       coord,
		Rasterizer:       refrasterizer.ImageRasterizer{},
		ValidatorFactory: validatorFactory,
		Serializer:       ser,
		License:          license,
		Tags:             tags,
		IconPolicy:       iconPolicy,
		StoreScreenshots: cfg.Features.CreateScreenshotsStore,
	})

	backends := make(map[string]backend.Backend, len(suites))
	for _, suite := range suites {
		backends[suite.Name] = refbackend.New(cc.Workspace + "/archive/" + suite.Name)
	}

	eng := engine.New(content, values, proc, backends, suites)
	eng.MediaRoot = cc.Workspace + "/" + cfg.ExportDirs.Media
	eng.ExtraMetainfoDir = cfg.ExtraMetainfoDir

	var html htmltemplate.Renderer
	if cfg.ExportDirs.Html != "" {
		if r, err := refhtml.New(cc.Workspace + "/templates/*.html"); err == nil {
			html = r
		}
	}

	pub := publisher.New(values, ser, html, publisher.Config{
		ProjectName:      cfg.ProjectName,
		MediaBaseURL:     cfg.MediaBaseUrl,
		HTMLBaseURL:      cfg.HtmlBaseUrl,
		DataDir:          cc.Workspace + "/" + cfg.ExportDirs.Data,
		HintsDir:         cc.Workspace + "/" + cfg.ExportDirs.Hints,
		HTMLDir:          cc.Workspace + "/" + cfg.ExportDirs.Html,
		ExtraMetainfoDir: cfg.ExtraMetainfoDir,
		Format:           format,
		EmitSBOM:         cfg.Features.PropagateMetaInfoArtifacts,
	})

	return &app{Config: cfg, Content: content, Values: values, Engine: eng, Publisher: pub}, nil
}

// themeOrderFor builds the fixed icon-theme lookup order shared by every
// suite's resolution: hicolor first (the mandatory fallback theme), then
// every distinct useIconTheme configured across suites, then the common
// desktop-environment themes Adwaita and breeze as a last resort (spec.md
// §4.4 step 1: "hicolor, the configured theme, Adwaita, breeze").
//
// Open question resolved here: the Icon Resolver (C4) is a single
// process-wide instance with one fixed ThemeOrder, while suites may each
// configure a different useIconTheme. Rather than rebuild a Resolver per
// suite, the configured themes are folded into one shared order; a suite
// whose own theme sorts later than another suite's still matches it first
// if the other suite's icons also carry hicolor paths, which is the common
// case for well-packaged icon themes. See DESIGN.md.
func themeOrderFor(suites []asgen.Suite) []string {
	order := []string{"hicolor"}
	seen := map[string]bool{"hicolor": true}
	for _, s := range suites {
		if s.IconTheme == "" || seen[s.IconTheme] {
			continue
		}
		seen[s.IconTheme] = true
		order = append(order, s.IconTheme)
	}
	for _, t := range []string{"Adwaita", "breeze"} {
		if !seen[t] {
			order = append(order, t)
			seen[t] = true
		}
	}
	return order
}
