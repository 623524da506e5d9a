package asgen

import (
	"fmt"
	"strings"

	debversion "github.com/knqyf263/go-deb-version"
)

// PackageID is the triple (name, version, arch) identifying a single package
// within a (suite, section, arch) scope.
//
// Its string form is "name/version/arch". A backend guarantees uniqueness of
// this triple within a scanned scope and is responsible for keeping only the
// highest version when the underlying repository lists duplicates.
type PackageID struct {
	Name    string
	Version string
	Arch    string
}

// String renders the canonical "name/version/arch" form.
func (p PackageID) String() string {
	return p.Name + "/" + p.Version + "/" + p.Arch
}

// ParsePackageID parses the canonical form produced by [PackageID.String].
func ParsePackageID(s string) (PackageID, error) {
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 {
		return PackageID{}, fmt.Errorf("asgen: malformed pkid %q", s)
	}
	return PackageID{Name: parts[0], Version: parts[1], Arch: parts[2]}, nil
}

// CompareVersions orders two version strings using Debian's comparison
// algorithm, the authoritative order for pkid deduplication and change
// detection across every backend (SPEC_FULL.md §5, §11 property 7).
//
// It returns a negative number if a < b, zero if equal, and positive if a > b.
func CompareVersions(a, b string) (int, error) {
	va, err := debversion.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("asgen: parse version %q: %w", a, err)
	}
	vb, err := debversion.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("asgen: parse version %q: %w", b, err)
	}
	return va.Compare(vb), nil
}

// DedupeByName keeps, for each distinct package name, only the PackageID
// with the highest version according to [CompareVersions]. Ties are broken by
// keeping whichever came later in ids, matching a backend's "most recent
// wins" contract (SPEC_FULL.md §3 PackageID).
func DedupeByName(ids []PackageID) ([]PackageID, error) {
	best := make(map[string]PackageID, len(ids))
	order := make([]string, 0, len(ids))
	for _, id := range ids {
		cur, ok := best[id.Name]
		if !ok {
			best[id.Name] = id
			order = append(order, id.Name)
			continue
		}
		cmp, err := CompareVersions(id.Version, cur.Version)
		if err != nil {
			return nil, err
		}
		if cmp >= 0 {
			best[id.Name] = id
		}
	}
	out := make([]PackageID, 0, len(order))
	for _, name := range order {
		out = append(out, best[name])
	}
	return out, nil
}
