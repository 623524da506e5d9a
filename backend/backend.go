// Package backend declares the external collaborator contract of
// spec.md §6.1: distribution-specific package index readers are out of
// scope for the core, but every component the core drives (seeding,
// change detection, per-package processing) is expressed against these
// interfaces.
//
// Grounded on the teacher's own interface-definition idiom in
// indexer/realizer.go and indexer/store.go: a small method-set interface per
// concern, one doc comment per method, no embedding tricks.
package backend

import (
	"context"
	"io"

	"github.com/asgen-project/asgen"
)

// Package is a single package as surfaced by a Backend (spec.md §6.1).
type Package interface {
	// ID returns this package's identifier.
	ID() asgen.PackageID
	// Name, Version, Arch are also available decomposed for convenience.
	Name() string
	Version() string
	Arch() string

	Maintainer() string
	Description() map[string]string
	Summary() map[string]string

	// Filename returns a local path to the package archive, downloading it
	// first if necessary. Implementations must make this idempotent and
	// safe for concurrent callers.
	Filename(ctx context.Context) (string, error)

	// Contents lists every file path contained in the package archive.
	Contents(ctx context.Context) ([]string, error)

	// FileData reads a single file's bytes out of the archive by path.
	FileData(ctx context.Context, path string) ([]byte, error)

	// Open returns a reader for a single file's bytes, for callers that
	// don't want to materialize it all at once (e.g. font/image decoders
	// that stream).
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Finish releases any temporary state (extracted archive directories,
	// open file handles) associated with this Package. The processor
	// guarantees this is called exactly once on every exit path.
	Finish()

	// GStreamer returns the optional GStreamer codec capability strings
	// this package declares, or nil.
	GStreamer() []string

	// Kind distinguishes a real archive-backed package from a synthetic one
	// produced by the Extra-Data Injector (C7) or an unknown kind.
	Kind() asgen.Kind

	// DesktopFileTranslations returns extra translations for a .desktop
	// file's keyfile/text pair, for ecosystems that ship translations
	// separately from the package carrying the .desktop file (e.g. Ubuntu
	// language packs).
	DesktopFileTranslations(ctx context.Context, keyfile, text string) (map[string]string, error)
}

// Backend is the per-ecosystem repository reader (spec.md §6.1).
type Backend interface {
	// PackagesFor returns every package in (suite, section, arch).
	// withLongDescs requests that Description be fully populated even when
	// the index format stores it out-of-line.
	PackagesFor(ctx context.Context, suite, section, arch string, withLongDescs bool) ([]Package, error)

	// PackageForFile resolves the package owning a given file path, used by
	// the Icon Resolver's preferred-package scoping. suite/section are
	// optional hints for backends whose file index is partitioned.
	PackageForFile(ctx context.Context, path string, suite, section string) (Package, error)

	// HasChanges reports whether the (suite, section, arch) index has
	// changed since the last recorded repo_info for it, consulting store for
	// the last-known state (spec.md §4.5 Change detection). On a reported
	// change it also writes the new fingerprint back to store itself, so
	// the caller doesn't need a second round-trip to learn what to persist.
	HasChanges(ctx context.Context, store RepoInfoStore, suite, section, arch string) (bool, error)

	// Release drops any caches the backend is holding.
	Release()
}

// RepoInfoStore is the subset of the Component Store (C2) a Backend needs to
// consult, and update, for change detection (spec.md §4.2 repo_info).
type RepoInfoStore interface {
	RepoInfo(ctx context.Context, suite, section, arch string) (mtime int64, hash string, ok bool, err error)
	SetRepoInfo(ctx context.Context, suite, section, arch string, mtime int64, hash string) error
}
