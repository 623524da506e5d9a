package asgen

import "fmt"

// Suite is the runtime form of a configured suite (spec.md §3 SuiteConfig).
type Suite struct {
	Name          string
	Sections      []string
	Architectures []string
	// BaseSuite names a parent suite whose main section may be consulted for
	// icon resolution only (spec.md §3, §4.5 Seeding).
	BaseSuite string
	// DataPriority: higher overrides lower on the client (spec.md §8
	// property 4).
	DataPriority int
	// Immutable: a frozen release snapshot; Publisher refuses to rewrite
	// existing output (spec.md §4.6, SPEC_FULL.md §12 decision).
	Immutable bool
	// IconTheme is the preferred XDG icon theme name (spec.md §4.4 step 1).
	IconTheme string
}

// ValidateSuiteDAG checks that BaseSuite edges form a DAG, per the Design
// Note in spec.md §9 ("Cyclic references between suites via baseSuite").
func ValidateSuiteDAG(suites []Suite) error {
	byName := make(map[string]Suite, len(suites))
	for _, s := range suites {
		byName[s.Name] = s
	}
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(suites))
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("asgen: cyclic baseSuite reference: %v -> %s", path, name)
		}
		color[name] = gray
		if s, ok := byName[name]; ok && s.BaseSuite != "" {
			if err := visit(s.BaseSuite, append(path, name)); err != nil {
				return err
			}
		}
		color[name] = black
		return nil
	}
	for _, s := range suites {
		if err := visit(s.Name, nil); err != nil {
			return err
		}
	}
	return nil
}
