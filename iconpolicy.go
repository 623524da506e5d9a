package asgen

import (
	"log/slog"
	"strconv"
	"strings"
)

// IconSize is one of the recognized icon sizes in an [IconPolicy]
// (spec.md §3).
type IconSize string

const (
	Icon48    IconSize = "48"
	Icon64    IconSize = "64"
	Icon128   IconSize = "128"
	Icon48At2 IconSize = "48@2"
	Icon64At2 IconSize = "64@2"
	Icon128At2 IconSize = "128@2"
	Icon256   IconSize = "256"
	Icon256At2 IconSize = "256@2"
)

// Pixels returns the actual rendered pixel width a size denotes: "48" is 48,
// "48@2" (HiDPI 2x) is 96. Used by the Icon Resolver to match theme
// directories, which are declared in nominal (non-HiDPI) pixels.
func (s IconSize) Pixels() int {
	nominal, scale, _ := strings.Cut(string(s), "@")
	n, err := strconv.Atoi(nominal)
	if err != nil {
		return 0
	}
	if scale == "" {
		return n
	}
	factor, err := strconv.Atoi(scale)
	if err != nil || factor == 0 {
		return n
	}
	return n * factor
}

// AllIconSizes lists every recognized size: 48, 64 and 128, then their @2
// variants, then 256 and 256@2. It is not sorted by pixel size (48@2 is
// 96 pixels but follows 128).
var AllIconSizes = []IconSize{Icon48, Icon64, Icon128, Icon48At2, Icon64At2, Icon128At2, Icon256, Icon256At2}

// IconSizePolicy carries the cached/remote flags for one recognized size.
type IconSizePolicy struct {
	Cached bool
	Remote bool
}

// IconPolicy is the per-size cached/remote configuration of spec.md §3.
// The zero value is invalid; build one with [NewIconPolicy].
type IconPolicy struct {
	sizes map[IconSize]IconSizePolicy
}

// NewIconPolicy builds a policy from a partial configuration, repairing and
// warning if the 64×64-cached invariant is violated (spec.md §3 IconPolicy
// invariant, config.md §4.3).
func NewIconPolicy(cfg map[IconSize]IconSizePolicy) *IconPolicy {
	p := &IconPolicy{sizes: make(map[IconSize]IconSizePolicy, len(AllIconSizes))}
	for _, sz := range AllIconSizes {
		if v, ok := cfg[sz]; ok {
			p.sizes[sz] = v
		}
	}
	if pol := p.sizes[Icon64]; !pol.Cached {
		slog.Warn("icon policy missing mandatory 64x64 cached size; repairing", "size", Icon64)
		pol.Cached = true
		p.sizes[Icon64] = pol
	}
	return p
}

// Policy returns the policy for size, or the zero [IconSizePolicy]
// (both flags false) when size is not recognized — such sizes are discarded
// even if found (spec.md §3).
func (p *IconPolicy) Policy(size IconSize) IconSizePolicy {
	if p == nil {
		return IconSizePolicy{}
	}
	return p.sizes[size]
}

// WantedSizes returns every size this policy wants cached or served remote,
// the input to icon resolution (spec.md §4.4).
func (p *IconPolicy) WantedSizes() []IconSize {
	var out []IconSize
	for _, sz := range AllIconSizes {
		pol := p.sizes[sz]
		if pol.Cached || pol.Remote {
			out = append(out, sz)
		}
	}
	return out
}
