// Package refbackend provides the reference backend.Package/Backend
// implementations: InjectedPackage backs the Extra-Data Injector (C7,
// spec.md §4.7), and DirBackend (dirbackend.go) is a directory-scanning
// Backend (spec.md §6.1 names it a collaborator interface) that uses the
// version-comparison and archive libraries named in the domain stack.
package refbackend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/asgen-project/asgen"
)

// InjectedPackage is the synthetic backend.Package the Extra-Data Injector
// (C7) feeds through the Package Processor (C3): its "archive" is just the
// map of metainfo/icon files extradata.Collect assembled from a maintainer
// directory, so every read is served directly from memory instead of an
// extracted archive.
type InjectedPackage struct {
	pkid  asgen.PackageID
	files map[string][]byte
}

// NewInjectedPackage builds an InjectedPackage. files maps an absolute
// in-archive path (e.g. "/usr/share/metainfo/org.example.Foo.metainfo.xml")
// to its contents.
func NewInjectedPackage(pkid asgen.PackageID, files map[string][]byte) *InjectedPackage {
	return &InjectedPackage{pkid: pkid, files: files}
}

func (p *InjectedPackage) ID() asgen.PackageID { return p.pkid }
func (p *InjectedPackage) Name() string        { return p.pkid.Name }
func (p *InjectedPackage) Version() string     { return p.pkid.Version }
func (p *InjectedPackage) Arch() string        { return p.pkid.Arch }

func (p *InjectedPackage) Maintainer() string          { return "" }
func (p *InjectedPackage) Description() map[string]string { return nil }
func (p *InjectedPackage) Summary() map[string]string     { return nil }

// Filename has nothing to return: an injected package is never a real
// on-disk archive.
func (p *InjectedPackage) Filename(ctx context.Context) (string, error) { return "", nil }

// Contents lists every in-memory file path, sorted for determinism.
func (p *InjectedPackage) Contents(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(p.files))
	for path := range p.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func (p *InjectedPackage) FileData(ctx context.Context, path string) ([]byte, error) {
	data, ok := p.files[path]
	if !ok {
		return nil, fmt.Errorf("refbackend: injected package has no file %q", path)
	}
	return data, nil
}

func (p *InjectedPackage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := p.FileData(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Finish is a no-op: there is no extracted archive directory to clean up.
func (p *InjectedPackage) Finish() {}

func (p *InjectedPackage) GStreamer() []string { return nil }

func (p *InjectedPackage) Kind() asgen.Kind { return asgen.KindFake }

func (p *InjectedPackage) DesktopFileTranslations(ctx context.Context, keyfile, text string) (map[string]string, error) {
	return nil, nil
}
