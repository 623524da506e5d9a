// Package refbackend is the reference implementation of the backend.Backend
// collaborator (spec.md §6.1, out-of-scope interface): a directory-scanning
// backend that recognizes RPM, Alpine (.apk), and Arch Linux (.pkg.tar.xz)
// package archives laid out under <root>/<suite>/<section>/<arch>/. It is
// shipped solely to exercise the interface boundary in tests, not as a
// feature-complete repository reader — in particular it trusts filename
// conventions for name/version/arch rather than parsing each archive's
// native header format.
package refbackend

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apkversion "github.com/knqyf263/go-apk-version"
	rpmversion "github.com/knqyf263/go-rpm-version"
	"github.com/ulikunitz/xz"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend"
)

// archiveKind distinguishes the package formats DirBackend recognizes.
type archiveKind int

const (
	kindRPM archiveKind = iota
	kindAPK
	kindArch
)

// DirBackend implements backend.Backend by scanning a directory tree for
// package archives, one subdirectory per (suite, section, arch).
type DirBackend struct {
	Root string
}

// New builds a DirBackend rooted at root.
func New(root string) *DirBackend { return &DirBackend{Root: root} }

func (b *DirBackend) scopeDir(suite, section, arch string) string {
	return filepath.Join(b.Root, suite, section, arch)
}

func (b *DirBackend) PackagesFor(ctx context.Context, suite, section, arch string, withLongDescs bool) ([]backend.Package, error) {
	dir := b.scopeDir(suite, section, arch)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("refbackend: read %s: %w", dir, err)
	}

	bestRPM := make(map[string]*archivePackage) // keyed by "name/arch"
	var pkgs []backend.Package
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		kind, ok := classify(name)
		if !ok {
			continue
		}
		pkid, err := parseFilename(name, kind, arch)
		if err != nil {
			continue
		}
		pkg := &archivePackage{path: filepath.Join(dir, name), pkid: pkid, kind: kind}

		if kind == kindRPM {
			key := pkid.Name + "/" + pkid.Arch
			if cur, ok := bestRPM[key]; !ok || rpmLess(cur.pkid.Version, pkid.Version) {
				bestRPM[key] = pkg
			}
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	for _, pkg := range bestRPM {
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func classify(name string) (archiveKind, bool) {
	switch {
	case strings.HasSuffix(name, ".rpm"):
		return kindRPM, true
	case strings.HasSuffix(name, ".apk"):
		return kindAPK, true
	case strings.HasSuffix(name, ".pkg.tar.xz"):
		return kindArch, true
	default:
		return 0, false
	}
}

// parseFilename recovers (name, version, arch) from the conventional
// filename layout of each format: RPM's "name-version-release.arch.rpm",
// Alpine's "name-version.apk", and Arch Linux's
// "name-version-release-arch.pkg.tar.xz".
func parseFilename(filename string, kind archiveKind, scopeArch string) (asgen.PackageID, error) {
	switch kind {
	case kindRPM:
		base := strings.TrimSuffix(filename, ".rpm")
		dot := strings.LastIndex(base, ".")
		if dot < 0 {
			return asgen.PackageID{}, fmt.Errorf("refbackend: malformed rpm filename %q", filename)
		}
		nvr, arch := base[:dot], base[dot+1:]
		name, version, ok := splitNVR(nvr)
		if !ok {
			return asgen.PackageID{}, fmt.Errorf("refbackend: malformed rpm nvr %q", nvr)
		}
		return asgen.PackageID{Name: name, Version: version, Arch: arch}, nil
	case kindAPK:
		base := strings.TrimSuffix(filename, ".apk")
		idx := strings.LastIndex(base, "-")
		if idx < 0 {
			return asgen.PackageID{}, fmt.Errorf("refbackend: malformed apk filename %q", filename)
		}
		name, version := base[:idx], base[idx+1:]
		if _, err := apkversion.NewVersion(version); err != nil {
			return asgen.PackageID{}, fmt.Errorf("refbackend: parse apk version %q: %w", version, err)
		}
		return asgen.PackageID{Name: name, Version: version, Arch: scopeArch}, nil
	case kindArch:
		base := strings.TrimSuffix(filename, ".pkg.tar.xz")
		parts := strings.Split(base, "-")
		if len(parts) < 4 {
			return asgen.PackageID{}, fmt.Errorf("refbackend: malformed arch filename %q", filename)
		}
		arch := parts[len(parts)-1]
		release := parts[len(parts)-2]
		version := parts[len(parts)-3]
		name := strings.Join(parts[:len(parts)-3], "-")
		return asgen.PackageID{Name: name, Version: version + "-" + release, Arch: arch}, nil
	}
	return asgen.PackageID{}, fmt.Errorf("refbackend: unknown archive kind")
}

// splitNVR splits "name-version-release" on its last two hyphens.
func splitNVR(nvr string) (name, version string, ok bool) {
	parts := strings.Split(nvr, "-")
	if len(parts) < 3 {
		return "", "", false
	}
	name = strings.Join(parts[:len(parts)-2], "-")
	version = parts[len(parts)-2] + "-" + parts[len(parts)-1]
	return name, version, true
}

func (b *DirBackend) PackageForFile(ctx context.Context, path, suite, section string) (backend.Package, error) {
	return nil, fmt.Errorf("refbackend: PackageForFile not implemented in reference backend")
}

// HasChanges hashes the scope directory's sorted file-name listing (file
// sizes are not hashed) and compares it against the last-recorded
// repo_info fingerprint.
func (b *DirBackend) HasChanges(ctx context.Context, store backend.RepoInfoStore, suite, section, arch string) (bool, error) {
	dir := b.scopeDir(suite, section, arch)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		entries = nil
	} else if err != nil {
		return false, fmt.Errorf("refbackend: read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	var mtime int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
		if info, err := e.Info(); err == nil && info.ModTime().Unix() > mtime {
			mtime = info.ModTime().Unix()
		}
	}
	sort.Strings(names)
	h := sha256.New()
	for _, n := range names {
		io.WriteString(h, n)
		io.WriteString(h, "\x00")
	}
	digest, err := asgen.NewDigest(asgen.SHA256, h.Sum(nil))
	if err != nil {
		return false, fmt.Errorf("refbackend: digest: %w", err)
	}
	hash := digest.String()

	_, lastHash, ok, err := store.RepoInfo(ctx, suite, section, arch)
	if err != nil {
		return false, fmt.Errorf("refbackend: repo_info: %w", err)
	}
	if ok && lastHash == hash {
		return false, nil
	}
	if err := store.SetRepoInfo(ctx, suite, section, arch, mtime, hash); err != nil {
		return false, fmt.Errorf("refbackend: set_repo_info: %w", err)
	}
	return true, nil
}

func (b *DirBackend) Release() {}

// archivePackage is one scanned archive file.
type archivePackage struct {
	path string
	pkid asgen.PackageID
	kind archiveKind
}

func (p *archivePackage) ID() asgen.PackageID                          { return p.pkid }
func (p *archivePackage) Name() string                                 { return p.pkid.Name }
func (p *archivePackage) Version() string                              { return p.pkid.Version }
func (p *archivePackage) Arch() string                                 { return p.pkid.Arch }
func (p *archivePackage) Maintainer() string                           { return "" }
func (p *archivePackage) Description() map[string]string               { return nil }
func (p *archivePackage) Summary() map[string]string                   { return nil }
func (p *archivePackage) Filename(ctx context.Context) (string, error) { return p.path, nil }
func (p *archivePackage) Finish()                                      {}
func (p *archivePackage) GStreamer() []string                          { return nil }
func (p *archivePackage) Kind() asgen.Kind                             { return asgen.KindUnknown }

func (p *archivePackage) DesktopFileTranslations(ctx context.Context, keyfile, text string) (map[string]string, error) {
	return nil, nil
}

// Contents lists the archive's member paths. RPM's cpio payload isn't
// parsed by this reference backend (that requires full lead/header
// decoding); only Alpine (.apk, a plain tar.gz) and Arch (.pkg.tar.xz) are
// listed for real.
func (p *archivePackage) Contents(ctx context.Context) ([]string, error) {
	switch p.kind {
	case kindAPK:
		return p.tarGzEntries()
	case kindArch:
		return p.xzTarEntries()
	default:
		return nil, nil
	}
}

func (p *archivePackage) FileData(ctx context.Context, path string) ([]byte, error) {
	rc, err := p.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *archivePackage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("refbackend: open %s: %w", p.path, err)
	}
	defer f.Close()

	var tr *tar.Reader
	switch p.kind {
	case kindAPK:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("refbackend: gzip %s: %w", p.path, err)
		}
		tr = tar.NewReader(gz)
	case kindArch:
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("refbackend: xz %s: %w", p.path, err)
		}
		tr = tar.NewReader(xr)
	default:
		return nil, fmt.Errorf("refbackend: %s archives are not readable by the reference backend", p.path)
	}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("refbackend: %s not found in %s", path, p.path)
		}
		if err != nil {
			return nil, fmt.Errorf("refbackend: read %s: %w", p.path, err)
		}
		if hdr.Name == path {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("refbackend: extract %s: %w", path, err)
			}
			return io.NopCloser(strings.NewReader(string(data))), nil
		}
	}
}

func (p *archivePackage) tarGzEntries() ([]string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("refbackend: open %s: %w", p.path, err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("refbackend: gzip %s: %w", p.path, err)
	}
	return listTar(tar.NewReader(gz))
}

func (p *archivePackage) xzTarEntries() ([]string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("refbackend: open %s: %w", p.path, err)
	}
	defer f.Close()
	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("refbackend: xz %s: %w", p.path, err)
	}
	return listTar(tar.NewReader(xr))
}

func listTar(tr *tar.Reader) ([]string, error) {
	var out []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("refbackend: read tar entry: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg {
			out = append(out, hdr.Name)
		}
	}
}

// rpmLess compares two RPM-style versions using the ecosystem-native
// comparator rather than [asgen.CompareVersions]'s Debian ordering,
// so a scope with more than one build of the same RPM keeps the highest
// one (spec.md §6.1 "a backend is responsible for keeping only the
// highest version when the underlying repository lists duplicates").
func rpmLess(a, b string) bool {
	return rpmversion.NewVersion(a).Compare(rpmversion.NewVersion(b)) < 0
}
