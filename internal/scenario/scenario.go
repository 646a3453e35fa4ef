// Package scenario loads an optional hand-authored world manifest that
// overrides the procedurally-generated faction roster: names, starting
// resources, and population size. Grounded on the config/schema.go pattern
// several packs in the corpus use for YAML-authored content, wired here
// with gopkg.in/yaml.v3 instead of the toml loader internal/config uses,
// since a scenario file is meant to be hand-edited outside a run directory
// and shipped alongside the binary rather than tuned per-run.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/crossroads/internal/social"
)

// FactionOverride describes one faction's manifest entry. Zero-valued
// fields leave the procedural default untouched.
type FactionOverride struct {
	Name        string  `yaml:"name"`
	Population  int     `yaml:"population"`
	StartGrain  float64 `yaml:"start_grain"`
	StartIron   float64 `yaml:"start_iron"`
	StartSalt   float64 `yaml:"start_salt"`
	StartBeer   float64 `yaml:"start_beer"`
}

// Manifest is the top-level shape of a scenario file: an ordered list of
// faction overrides, applied by position against the procedurally seeded
// faction roster.
type Manifest struct {
	Factions []FactionOverride `yaml:"factions"`
}

// Load reads and parses a scenario manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	return &m, nil
}

// Apply overwrites each faction's name and starting resources with the
// manifest's non-zero overrides, matching factions to overrides by
// position in factions (the same order SeedFactions produced them in).
// PopulationFor should be consulted separately by the caller when spawning
// the initial population, since faction population isn't stored on the
// Faction struct itself.
func (m *Manifest) Apply(factions []*social.Faction) {
	for i, f := range factions {
		if i >= len(m.Factions) {
			return
		}
		o := m.Factions[i]
		if o.Name != "" {
			f.Name = o.Name
		}
		if o.StartGrain != 0 {
			f.Resources.Grain = o.StartGrain
		}
		if o.StartIron != 0 {
			f.Resources.Iron = o.StartIron
		}
		if o.StartSalt != 0 {
			f.Resources.Salt = o.StartSalt
		}
		if o.StartBeer != 0 {
			f.Resources.Beer = o.StartBeer
		}
	}
}

// PopulationFor returns the manifest's requested population for the
// faction at index i, or fallback when unset or out of range.
func (m *Manifest) PopulationFor(i int, fallback int) int {
	if i < 0 || i >= len(m.Factions) || m.Factions[i].Population <= 0 {
		return fallback
	}
	return m.Factions[i].Population
}
