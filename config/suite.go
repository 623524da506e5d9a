package config

import "github.com/asgen-project/asgen"

// SuiteConfig is one entry of asgen-config.json's Suites object, keyed by
// suite name (spec.md §6.2).
type SuiteConfig struct {
	Sections      []string `json:"sections"`
	Architectures []string `json:"architectures"`
	BaseSuite     string   `json:"baseSuite"`
	DataPriority  int      `json:"dataPriority"`
	UseIconTheme  string   `json:"useIconTheme"`
	Immutable     bool     `json:"immutable"`
}

// ToSuite converts a configured suite to its runtime [asgen.Suite] form.
// name is the key this SuiteConfig was found under in the Suites object.
func (sc SuiteConfig) ToSuite(name string) asgen.Suite {
	return asgen.Suite{
		Name:          name,
		Sections:      sc.Sections,
		Architectures: sc.Architectures,
		BaseSuite:     sc.BaseSuite,
		DataPriority:  sc.DataPriority,
		Immutable:     sc.Immutable,
		IconTheme:     sc.UseIconTheme,
	}
}
