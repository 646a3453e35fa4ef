// Factions — membership, territory, and shared resources. Adapted from the
// teacher's political/economic/military/religious/criminal faction model
// and grounded on original_source's FactionResources/Faction components.
package social

import (
	"fmt"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/world"
)

// Resources are a faction's shared, extractable stockpile.
type Resources struct {
	Grain float64 `json:"grain"`
	Iron  float64 `json:"iron"`
	Salt  float64 `json:"salt"`
	Beer  float64 `json:"beer"`
}

// Total sums every resource category.
func (r Resources) Total() float64 { return r.Grain + r.Iron + r.Salt + r.Beer }

// EffectiveFood is the raw pre-division food-equivalent total the needs
// system further divides by member count.
func (r Resources) EffectiveFood() float64 { return r.Grain + 0.5*r.Beer }

// IsCritical reports whether the faction's food stock has fallen dangerously low.
func (r Resources) IsCritical() bool { return r.EffectiveFood() < 100.0 }

// Faction is an organization with territory, resources, and an archive.
type Faction struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Territory   []world.LocationID `json:"territory"`
	HQLocation  world.LocationID   `json:"hq_location"`
	MemberCount int                `json:"member_count"`
	Resources   Resources          `json:"resources"`
	LeaderID    agents.AgentID     `json:"leader_id,omitempty"`
	ReaderID    agents.AgentID     `json:"reader_id,omitempty"`
	Archive     *Archive           `json:"archive"`
	NextRitualTick uint64          `json:"next_ritual_tick"`
}

// ControlsLocation reports whether loc is within the faction's territory.
func (f *Faction) ControlsLocation(loc world.LocationID) bool {
	for _, l := range f.Territory {
		if l == loc {
			return true
		}
	}
	return false
}

// SeedFactions creates the initial set of medieval factions, one per HQ
// location, mirroring the teacher's SeedFactions pattern but scoped to the
// faction-resources/territory/archive model this simulation needs.
func SeedFactions(hqs []world.LocationID) []*Faction {
	names := []string{"The Crown", "Merchant's Compact", "Iron Brotherhood", "Verdant Circle", "Ashen Path"}
	out := make([]*Faction, 0, len(hqs))
	for i, hq := range hqs {
		name := fmt.Sprintf("Faction %d", i+1)
		if i < len(names) {
			name = names[i]
		}
		out = append(out, &Faction{
			ID:         fmt.Sprintf("faction_%02d", i+1),
			Name:       name,
			Territory:  []world.LocationID{hq},
			HQLocation: hq,
			Resources:  Resources{Grain: 200, Iron: 50, Salt: 30, Beer: 40},
			Archive:    NewArchive(),
		})
	}
	return out
}

// Registry is the arena+index store of every faction, keyed by ID.
type Registry struct {
	byID map[string]*Faction
}

// NewFactionRegistry creates an empty registry.
func NewFactionRegistry() *Registry {
	return &Registry{byID: make(map[string]*Faction)}
}

// Add inserts a faction.
func (r *Registry) Add(f *Faction) { r.byID[f.ID] = f }

// Get retrieves a faction by ID.
func (r *Registry) Get(id string) *Faction { return r.byID[id] }

// All returns every faction sorted by ID for deterministic iteration.
func (r *Registry) All() []*Faction {
	out := make([]*Faction, 0, len(r.byID))
	for _, f := range r.byID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
