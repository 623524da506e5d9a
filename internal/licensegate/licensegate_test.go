package licensegate

import "testing"

// TestAllowedANDRequiresEveryToken covers spec.md §8 property 8: an AND
// expression is rejected as soon as one token isn't on the allow-list, even
// when the other token is permissive on its own.
func TestAllowedANDRequiresEveryToken(t *testing.T) {
	g := New(nil)
	if g.Allowed("GPL-3.0+ AND GFDL-1.3-only") {
		t.Fatal("GPL-3.0+ AND GFDL-1.3-only: want rejected, got accepted")
	}
}

// TestAllowedORAcceptsAnyToken is the OR-side pair of the AND case above:
// the same two tokens combined with OR are accepted because GFDL-1.3-only
// alone is enough.
func TestAllowedORAcceptsAnyToken(t *testing.T) {
	g := New(nil)
	if !g.Allowed("GPL-3.0+ OR GFDL-1.3-only") {
		t.Fatal("GPL-3.0+ OR GFDL-1.3-only: want accepted, got rejected")
	}
}

func TestAllowedRejectsCopyleftToken(t *testing.T) {
	g := New(nil)
	for _, tok := range []string{"GPL-2.0-only", "GPL-2.0+", "GPL-3.0-only", "GPL-3.0+", "LGPL-2.1-only", "LGPL-3.0-only"} {
		if g.Allowed(tok) {
			t.Errorf("%s: want rejected as a bare metadata_license, got accepted", tok)
		}
	}
}

func TestAllowedAcceptsPermissiveSingleToken(t *testing.T) {
	g := New(nil)
	for _, tok := range []string{"MIT", "FSFAP", "CC0-1.0", "BSD-2-Clause", "BSD-3-Clause", "0BSD", "GFDL-1.3-only"} {
		if !g.Allowed(tok) {
			t.Errorf("%s: want accepted, got rejected", tok)
		}
	}
}

func TestAllowedRejectsParenthesizedExpr(t *testing.T) {
	g := New(nil)
	if g.Allowed("(MIT)") {
		t.Fatal("(MIT): want rejected, got accepted")
	}
}
