// Location graph generation. Adapted from the teacher's hex-terrain
// generator: three independent opensimplex noise fields, seeded from the
// run seed, drive resource richness instead of elevation/rainfall/temperature.
package world

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig controls procedural location-graph generation.
type GenConfig struct {
	Seed          int64
	VillageCount  int
	FieldsCount   int
	ForestCount   int
	MineCount     int
	HarborCount   int
}

// DefaultGenConfig returns a modest starting world: a handful of villages
// linked by crossroads, ringed by resource locations.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:         42,
		VillageCount: 4,
		FieldsCount:  4,
		ForestCount:  3,
		MineCount:    2,
		HarborCount:  1,
	}
}

// Generate builds a location registry procedurally from cfg. Resource
// richness per location is drawn from three independent noise fields so
// that grain/iron/salt production varies smoothly rather than uniformly,
// exactly the way the teacher's hex generator varies elevation/rainfall/
// temperature from three independently-seeded generators.
func Generate(cfg GenConfig) *Registry {
	grainNoise := opensimplex.NewNormalized(cfg.Seed)
	ironNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	saltNoise := opensimplex.NewNormalized(cfg.Seed + 2)

	reg := NewRegistry()

	richness := func(noise opensimplex.Noise, i int) float64 {
		return noise.Eval2(float64(i)*0.7, float64(i)*1.3)
	}

	idx := 0
	addLocation := func(typ LocationType, namePrefix string, props ...LocationProperty) LocationID {
		id := LocationID(fmt.Sprintf("loc_%03d", idx))
		loc := &Location{
			ID:         id,
			Name:       fmt.Sprintf("%s %d", namePrefix, idx),
			Type:       typ,
			Properties: props,
			Resources: Resources{
				Grain: richness(grainNoise, idx) * benefitScale(typ, PropFoodProduction),
				Iron:  richness(ironNoise, idx) * benefitScale(typ, PropStrategic),
				Salt:  richness(saltNoise, idx) * 4.0,
			},
			Benefits: deriveBenefits(typ, props),
		}
		reg.Add(loc)
		idx++
		return id
	}

	var villages, fields, forests, mines, harbors []LocationID
	for i := 0; i < cfg.VillageCount; i++ {
		villages = append(villages, addLocation(TypeVillage, "Village", PropFoodProduction))
	}
	for i := 0; i < cfg.FieldsCount; i++ {
		fields = append(fields, addLocation(TypeFields, "Fields", PropFoodProduction))
	}
	for i := 0; i < cfg.ForestCount; i++ {
		forests = append(forests, addLocation(TypeForest, "Forest"))
	}
	for i := 0; i < cfg.MineCount; i++ {
		mines = append(mines, addLocation(TypeMine, "Mine", PropStrategic))
	}
	for i := 0; i < cfg.HarborCount; i++ {
		harbors = append(harbors, addLocation(TypeHarbor, "Harbor", PropTradeRoute))
	}

	crossroads := addLocation(TypeCrossroads, "The Crossroads", PropNeutral, PropTradeRoute, PropHiddenMeetingSpot)

	// Star topology: every village connects to the crossroads, and each
	// village claims a nearby resource location so adjacency BFS from any
	// village reaches every resource within a couple of hops.
	for i, v := range villages {
		reg.AddAdjacency(v, crossroads)
		if i < len(fields) {
			reg.AddAdjacency(v, fields[i%len(fields)])
		}
		if i < len(forests) {
			reg.AddAdjacency(v, forests[i%len(forests)])
		}
	}
	for _, m := range mines {
		reg.AddAdjacency(m, crossroads)
	}
	for _, h := range harbors {
		reg.AddAdjacency(h, crossroads)
	}

	return reg
}

func benefitScale(typ LocationType, want LocationProperty) float64 {
	switch typ {
	case TypeFields, TypeVillage:
		if want == PropFoodProduction {
			return 6.0
		}
	case TypeMine:
		if want == PropStrategic {
			return 5.0
		}
	}
	return 1.0
}

func deriveBenefits(typ LocationType, props []LocationProperty) Benefits {
	b := Benefits{Shelter: 0.2, Water: 0.3, SafetyRating: 0.5}
	switch typ {
	case TypeVillage:
		b.Shelter = 0.9
		b.FoodStores = 0.7
		b.SocialHubRating = 0.8
		b.SafetyRating = 0.7
		b.ProductionTypes = []string{"grain"}
	case TypeFields:
		b.FoodStores = 0.9
		b.ProductionTypes = []string{"grain"}
	case TypeForest:
		b.FoodStores = 0.4
		b.ProductionTypes = []string{"timber"}
	case TypeMine:
		b.SafetyRating = 0.3
		b.ProductionTypes = []string{"iron"}
	case TypeHarbor:
		b.SocialHubRating = 0.6
		b.ProductionTypes = []string{"salt"}
	case TypeCrossroads:
		b.SocialHubRating = 1.0
		b.SafetyRating = 0.4
	case TypeHall:
		b.Shelter = 1.0
		b.SocialHubRating = 0.9
		b.SafetyRating = 0.9
	}
	for _, p := range props {
		if p == PropDefensible {
			b.SafetyRating += 0.2
		}
	}
	return b
}
