// Package desktopentry parses the subset of the XDG Desktop Entry format
// (freedesktop.org's .desktop files) the Package Processor needs for
// desktop fusion (spec.md §4.3 step 4): localized Name/Comment/Icon/
// Categories/Keywords, and the NoDisplay/OnlyShowIn/X-AppStream-Ignore
// visibility keys.
//
// No parser for this format appears anywhere in the retrieval pack, so this
// is a small hand-rolled scanner in the same style as internal/xdgtheme's
// ParseIndexTheme: .desktop files share the same ini-like grammar as
// index.theme, just a different key set.
package desktopentry

import (
	"bufio"
	"strings"
)

// Entry is the [Desktop Entry] group of a parsed .desktop file, localized
// values keyed by the bracketed locale suffix ("" for the unlocalized
// default).
type Entry struct {
	Name       map[string]string
	Comment    map[string]string
	Icon       string
	Categories []string
	Keywords   map[string][]string

	NoDisplay       bool
	OnlyShowIn      []string
	AppStreamIgnore bool
}

// Parse reads the [Desktop Entry] group out of data. Groups other than
// [Desktop Entry] (e.g. [Desktop Action ...]) are skipped.
func Parse(data []byte) *Entry {
	e := &Entry{
		Name:     make(map[string]string),
		Comment:  make(map[string]string),
		Keywords: make(map[string][]string),
	}
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	inTarget := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inTarget = line == "[Desktop Entry]"
			continue
		}
		if !inTarget {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		base, locale := splitLocaleKey(key)
		switch base {
		case "Name":
			e.Name[locale] = value
		case "Comment":
			e.Comment[locale] = value
		case "Icon":
			if locale == "" {
				e.Icon = value
			}
		case "Categories":
			if locale == "" {
				e.Categories = splitSemicolons(value)
			}
		case "Keywords":
			e.Keywords[locale] = splitSemicolons(value)
		case "NoDisplay":
			e.NoDisplay = value == "true"
		case "OnlyShowIn":
			e.OnlyShowIn = splitSemicolons(value)
		case "X-AppStream-Ignore":
			e.AppStreamIgnore = value == "true"
		}
	}
	return e
}

// splitLocaleKey splits "Name[de]" into ("Name", "de"); a key with no
// bracket suffix returns locale "".
func splitLocaleKey(key string) (base, locale string) {
	i := strings.IndexByte(key, '[')
	if i < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:i], key[i+1 : len(key)-1]
}

func splitSemicolons(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
