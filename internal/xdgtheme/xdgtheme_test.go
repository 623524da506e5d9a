package xdgtheme

import "testing"

const sampleIndexTheme = `[Icon Theme]
Name=Adwaita
Comment=sample
Directories=48x48/apps,scalable/apps

[48x48/apps]
Size=48
Context=Applications
Type=Fixed

[scalable/apps]
Size=512
MinSize=1
MaxSize=512
Type=Scalable
`

func TestParseIndexTheme(t *testing.T) {
	theme := ParseIndexTheme("Adwaita", []byte(sampleIndexTheme))
	if len(theme.Dirs) != 2 {
		t.Fatalf("Dirs = %d, want 2: %+v", len(theme.Dirs), theme.Dirs)
	}
	fixed, scalable := theme.Dirs[0], theme.Dirs[1]
	if fixed.Path != "48x48/apps" || fixed.Type != Fixed || fixed.Size != 48 {
		t.Fatalf("fixed dir = %+v", fixed)
	}
	if scalable.Path != "scalable/apps" || scalable.Type != Scalable || scalable.MaxSize != 512 {
		t.Fatalf("scalable dir = %+v", scalable)
	}
	if !fixed.Matches(48) || fixed.Matches(64) {
		t.Fatalf("Fixed.Matches wrong: %+v", fixed)
	}
	if !scalable.Matches(256) || scalable.Matches(1024) {
		t.Fatalf("Scalable.Matches wrong: %+v", scalable)
	}
}

func TestThresholdMatches(t *testing.T) {
	d := Directory{Size: 32, Threshold: 2, Type: Threshold}
	for _, sz := range []int{30, 31, 32, 33, 34} {
		if !d.Matches(sz) {
			t.Errorf("Matches(%d) = false, want true", sz)
		}
	}
	if d.Matches(29) || d.Matches(35) {
		t.Fatalf("Matches out of threshold range unexpectedly true")
	}
}

func TestBuiltinHicolorHas64(t *testing.T) {
	theme := BuiltinHicolor()
	found := false
	for _, d := range theme.Dirs {
		if d.Size == 64 && d.Type == Fixed {
			found = true
		}
	}
	if !found {
		t.Fatal("builtin hicolor theme missing a fixed 64x64 directory")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Put(BuiltinHicolor())
	theme, ok := r.Get("hicolor")
	if !ok || theme.Name != "hicolor" {
		t.Fatalf("Get(hicolor) = %v, %v", theme, ok)
	}
	if _, ok := r.Get("nonexistent"); ok {
		t.Fatal("Get(nonexistent) = true, want false")
	}
}
