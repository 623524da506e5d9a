// Package xdgtheme implements the XDG icon-theme directory model spec.md
// §4.4 resolves icons against: a theme is an ordered list of directories,
// each tagged with a size-matching rule (Fixed, Scalable, Threshold) per
// the freedesktop.org Icon Theme Specification's index.theme format.
//
// Grounded structurally on the teacher's small data-model packages
// (component.go-style plain structs with a constructor and a handful of
// query methods); the index.theme parser is hand-rolled stdlib
// (bufio/strings) since nothing in the example corpus imports a
// freedesktop-ini library (see DESIGN.md).
package xdgtheme

import (
	"bufio"
	"strconv"
	"strings"
)

// DirType classifies how a theme directory's declared size matches a
// wanted pixel size (spec.md §4.4 step 2).
type DirType int

const (
	Fixed DirType = iota
	Scalable
	Threshold
)

// Directory is one icon-theme directory entry (index.theme [<path>] section).
type Directory struct {
	Path      string
	Size      int
	MinSize   int
	MaxSize   int
	Threshold int
	Type      DirType
	Context   string
}

// Matches reports whether this directory satisfies a request for wanted
// pixels, per spec.md §4.4 step 2's three rules.
func (d Directory) Matches(wanted int) bool {
	switch d.Type {
	case Fixed:
		return d.Size == wanted
	case Scalable:
		lo, hi := d.MinSize, d.MaxSize
		if lo == 0 {
			lo = d.Size
		}
		if hi == 0 {
			hi = d.Size
		}
		return lo <= wanted && wanted <= hi
	case Threshold:
		t := d.Threshold
		if t == 0 {
			t = 2
		}
		diff := d.Size - wanted
		if diff < 0 {
			diff = -diff
		}
		return diff <= t
	default:
		return false
	}
}

// Theme is an icon theme: a name plus its ordered directory list
// (index.theme's Directories= order is preserved, which is also the
// lookup-preference order the spec requires).
type Theme struct {
	Name string
	Dirs []Directory
}

// ParseIndexTheme parses a freedesktop.org index.theme file's [Icon Theme]
// Directories= list plus each listed directory's own section. Unknown keys
// and sections outside the declared directory list are ignored.
func ParseIndexTheme(name string, data []byte) *Theme {
	sections := splitSections(data)
	t := &Theme{Name: name}

	main, ok := sections["Icon Theme"]
	if !ok {
		return t
	}
	dirNames := splitList(main["Directories"])
	for _, dn := range dirNames {
		sec, ok := sections[dn]
		if !ok {
			continue
		}
		d := Directory{
			Path:    dn,
			Size:    atoi(sec["Size"]),
			MinSize: atoi(sec["MinSize"]),
			MaxSize: atoi(sec["MaxSize"]),
			Context: sec["Context"],
		}
		d.Threshold = atoi(sec["Threshold"])
		switch strings.ToLower(sec["Type"]) {
		case "scalable":
			d.Type = Scalable
		case "threshold":
			d.Type = Threshold
		default:
			d.Type = Fixed
		}
		t.Dirs = append(t.Dirs, d)
	}
	return t
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// splitSections parses `[Section]\nkey=value` ini-style bytes into a
// section-name -> key-value map, the subset of the desktop-entry format
// index.theme files use.
func splitSections(data []byte) map[string]map[string]string {
	out := make(map[string]map[string]string)
	var cur string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			cur = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			if out[cur] == nil {
				out[cur] = make(map[string]string)
			}
			continue
		}
		if cur == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[cur][strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// BuiltinHicolor is the fallback theme index used when a real package
// carrying hicolor's index.theme cannot be found (spec.md §4.4 step 1: "if
// hicolor is absent from any package, a built-in theme index is used"),
// covering the standard sizes the hicolor-icon-theme package ships.
func BuiltinHicolor() *Theme {
	sizes := []int{16, 22, 24, 32, 48, 64, 96, 128, 256, 512}
	t := &Theme{Name: "hicolor"}
	for _, sz := range sizes {
		t.Dirs = append(t.Dirs, Directory{
			Path: strconvItoa(sz) + "x" + strconvItoa(sz) + "/apps",
			Size: sz,
			Type: Fixed,
		})
	}
	t.Dirs = append(t.Dirs, Directory{
		Path:    "scalable/apps",
		Size:    512,
		MinSize: 1,
		MaxSize: 512,
		Type:    Scalable,
	})
	return t
}

func strconvItoa(n int) string { return strconv.Itoa(n) }

// Registry holds every theme seeded at startup (spec.md Design Notes §9:
// "theme registry built once at seed time").
type Registry struct {
	themes map[string]*Theme
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{themes: make(map[string]*Theme)}
}

// Put registers a theme, overwriting any previous entry with the same name.
func (r *Registry) Put(t *Theme) { r.themes[t.Name] = t }

// Get returns the named theme and whether it was found.
func (r *Registry) Get(name string) (*Theme, bool) {
	t, ok := r.themes[name]
	return t, ok
}
