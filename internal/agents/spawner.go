// Agent spawning — creates the initial population with traits, needs,
// role, and location. Adapted from the teacher's population spawner.
package agents

import (
	"fmt"

	"github.com/talgya/crossroads/internal/prng"
	"github.com/talgya/crossroads/internal/world"
)

// Spawner mints new agents with sequential IDs, matching the original's
// generate_id() counter style rather than random UUIDs (a human-diffable
// event/agent log benefits from sequential primary IDs).
type Spawner struct {
	stream *prng.Stream
	nextID uint64
}

// NewSpawner creates an agent spawner drawing from stream.
func NewSpawner(stream *prng.Stream) *Spawner {
	return &Spawner{stream: stream, nextID: 1}
}

// SpawnOne creates a single agent at loc with the given faction and role,
// drawing a random trait vector and name.
func (s *Spawner) SpawnOne(loc world.LocationID, factionID string, role Role) *Agent {
	id := AgentID(fmt.Sprintf("agent_%05d", s.nextID))
	s.nextID++

	traits := s.randomTraits()

	return &Agent{
		ID:        id,
		Name:      s.generateName(),
		FactionID: factionID,
		Role:      role,
		Location:  loc,
		Traits:    traits,
		Needs: Needs{
			FoodSecurity:    FoodSecure,
			SocialBelonging: Integrated,
		},
		Physical: DefaultPhysicalState(),
		Alive:    true,
	}
}

// SpawnPopulation creates count agents split across roles: one leader, one
// reader, council members up to index 3, skilled workers below index
// count/3, and the rest laborers/newcomers.
func (s *Spawner) SpawnPopulation(count int, loc world.LocationID, factionID string) []*Agent {
	out := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		role := RoleLaborer
		switch {
		case i == 0:
			role = RoleLeader
		case i == 1:
			role = RoleReader
		case i < 4:
			role = RoleCouncilMember
		case i < count/3:
			role = RoleSkilledWorker
		case s.stream.Float64() < 0.1:
			role = RoleNewcomer
		}
		out = append(out, s.SpawnOne(loc, factionID, role))
	}
	return out
}

func (s *Spawner) randomTraits() Traits {
	draw := func() float64 { return s.stream.Float64() }
	return Traits{
		Boldness:          draw(),
		LoyaltyWeight:     draw(),
		GrudgePersistence: draw(),
		Ambition:          draw(),
		Honesty:           draw(),
		Sociability:       draw(),
		GroupPreference:   draw(),
	}
}

func (s *Spawner) generateName() string {
	first := maleNames[s.stream.Intn(len(maleNames))]
	if s.stream.Float64() < 0.5 {
		first = femaleNames[s.stream.Intn(len(femaleNames))]
	}
	last := lastNames[s.stream.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
}
