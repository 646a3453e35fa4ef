// Needs state machines with hysteresis, grounded directly on
// original_source/src/systems/needs.rs.
package agents

const (
	foodStressThreshold    = 3.0
	foodDesperateThreshold = 1.0
	foodSecureThreshold    = 5.0

	beltPeripheralThreshold = 0.5
	beltIsolatedThreshold   = 0.1
	beltIntegratedThreshold = 1.0

	// InteractionRequirement is the number of interactions expected per
	// rolling window before belonging can be considered fully supported.
	InteractionRequirement = 3
)

// EffectiveFood computes a faction's per-member food-equivalent, scaled by
// the agent's role, matching FactionResources::effective_food() divided by
// membership and modulated by role.
func EffectiveFood(grain, beer float64, memberCount int, role Role) float64 {
	if memberCount <= 0 {
		memberCount = 1
	}
	base := (grain + 0.5*beer) / float64(memberCount)
	return base * role.FoodRoleModifier()
}

// UpdateFoodSecurity advances the food-security state machine with
// asymmetric hysteresis: recovering out of Desperate needs a bigger jump
// than simply crossing the plain downward threshold, to prevent flicker.
func UpdateFoodSecurity(current FoodSecurity, effectiveFood float64) FoodSecurity {
	switch current {
	case FoodDesperate:
		switch {
		case effectiveFood >= foodSecureThreshold*1.2:
			return FoodSecure
		case effectiveFood >= foodStressThreshold*1.1:
			return FoodStressed
		default:
			return FoodDesperate
		}
	case FoodStressed:
		switch {
		case effectiveFood >= foodSecureThreshold:
			return FoodSecure
		case effectiveFood < foodDesperateThreshold:
			return FoodDesperate
		default:
			return FoodStressed
		}
	default: // FoodSecure
		switch {
		case effectiveFood < foodDesperateThreshold:
			return FoodDesperate
		case effectiveFood < foodStressThreshold:
			return FoodStressed
		default:
			return FoodSecure
		}
	}
}

// BelongingInputs bundles the per-tick signals UpdateSocialBelonging needs.
type BelongingInputs struct {
	AvgTrustFromFactionMates float64
	InteractionCount         int
	RitualAttendanceScore    float64
	CoLocatedWithFactionMate bool
}

// BelongingScore computes the raw score behind the social-belonging state
// machine, ported verbatim from needs.rs's belonging_score formula.
func BelongingScore(in BelongingInputs) float64 {
	score := in.AvgTrustFromFactionMates
	interactionBonus := float64(in.InteractionCount) / 10.0
	if interactionBonus > 0.3 {
		interactionBonus = 0.3
	}
	score += interactionBonus
	score += in.RitualAttendanceScore * 0.1
	if in.CoLocatedWithFactionMate {
		score += 0.1
	}
	return score
}

// UpdateSocialBelonging advances the belonging state machine with the same
// asymmetric-hysteresis shape as food security.
func UpdateSocialBelonging(current SocialBelonging, score float64) SocialBelonging {
	switch current {
	case Isolated:
		switch {
		case score >= beltIntegratedThreshold*1.2:
			return Integrated
		case score >= beltPeripheralThreshold*1.1:
			return Peripheral
		default:
			return Isolated
		}
	case Peripheral:
		switch {
		case score >= beltIntegratedThreshold:
			return Integrated
		case score < beltIsolatedThreshold:
			return Isolated
		default:
			return Peripheral
		}
	default: // Integrated
		switch {
		case score < beltIsolatedThreshold:
			return Isolated
		case score < beltPeripheralThreshold:
			return Peripheral
		default:
			return Integrated
		}
	}
}

// InteractionTracker counts interactions per agent within a rolling window,
// decaying counts over time rather than tracking exact timestamps per
// interaction (matching the original's decay_interaction_counts approach).
type InteractionTracker struct {
	counts        map[AgentID]int
	lastDecayTick uint64
}

// NewInteractionTracker creates an empty tracker.
func NewInteractionTracker() *InteractionTracker {
	return &InteractionTracker{counts: make(map[AgentID]int)}
}

// Record increments the interaction count for an agent.
func (t *InteractionTracker) Record(id AgentID) {
	t.counts[id]++
}

// Count returns the current interaction count for an agent.
func (t *InteractionTracker) Count(id AgentID) int {
	return t.counts[id]
}

// DecayInteractionCounts halves every tracked count once per 100-tick
// rolling window, dropping counts that reach zero.
func (t *InteractionTracker) DecayInteractionCounts(currentTick uint64) {
	const window = 100
	if currentTick-t.lastDecayTick < window {
		return
	}
	t.lastDecayTick = currentTick
	for id, c := range t.counts {
		c /= 2
		if c <= 0 {
			delete(t.counts, id)
		} else {
			t.counts[id] = c
		}
	}
}
