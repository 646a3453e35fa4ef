// Candidate generation: precondition scan plus desire-based location scan.
// Grounded on original_source/src/systems/action/generate.rs and
// original_source/src/components/world.rs's next_step_toward BFS.
package action

import (
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/world"
)

// Generate produces every valid (action, target) candidate for a, in a
// deterministic order (sorted by candidate action kind then target ID, so
// downstream weighting/selection never depends on map iteration order).
func Generate(ctx *Context, a *agents.Agent) []Candidate {
	var out []Candidate
	out = append(out, generatePreconditionScan(ctx, a)...)
	out = append(out, generateDesireScan(ctx, a)...)
	out = append(out, Candidate{Action: Idle, BaseWeight: 1.0, Rationale: "fallback"})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Target < out[j].Target
	})
	return out
}

func generatePreconditionScan(ctx *Context, a *agents.Agent) []Candidate {
	var out []Candidate
	loc := ctx.Locations.Get(a.Location)
	faction := ctx.Faction(a)

	// Movement.
	if loc != nil {
		for _, adj := range sortedLocationIDs(loc.Adjacent) {
			out = append(out, Candidate{Action: Travel, TargetLocation: adj, BaseWeight: 1.0})
		}
	}
	if a.Role == agents.RoleScoutCaptain && faction != nil {
		out = append(out, Candidate{Action: Patrol, BaseWeight: 1.0})
	}
	if faction != nil && a.Location != faction.HQLocation {
		out = append(out, Candidate{Action: ReturnHome, TargetLocation: faction.HQLocation, BaseWeight: 1.0})
	}
	out = append(out, Candidate{Action: Flee, BaseWeight: 0.5})
	out = append(out, Candidate{Action: Pursue, BaseWeight: 0.5})

	// Communication and social: score every co-located agent as a target.
	for _, target := range sortedAgents(a.VisibleAgents) {
		targetAgent := ctx.Agent(target)
		if targetAgent == nil || !targetAgent.Alive {
			continue
		}
		score := TargetScore(ctx, a, targetAgent)
		out = append(out, Candidate{Action: ShareMemory, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: SpreadRumor, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Lie, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Confess, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: BuildTrust, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: CurryFavor, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Gift, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Ostracize, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Argue, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Fight, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Sabotage, Target: target, BaseWeight: score})
		out = append(out, Candidate{Action: Assassinate, Target: target, BaseWeight: score})
	}

	// Archive: only at HQ.
	if faction != nil && a.Location == faction.HQLocation {
		if a.Role.CanWriteArchive() {
			out = append(out, Candidate{Action: WriteEntry, BaseWeight: 1.0})
			out = append(out, Candidate{Action: ForgeEntry, BaseWeight: 1.0})
		}
		out = append(out, Candidate{Action: ReadArchive, BaseWeight: 1.0})
		out = append(out, Candidate{Action: DestroyEntry, BaseWeight: 1.0})
	}

	// Resource.
	out = append(out, Candidate{Action: Work, BaseWeight: 1.0})
	out = append(out, Candidate{Action: Trade, BaseWeight: 1.0})
	out = append(out, Candidate{Action: Steal, BaseWeight: 1.0})
	out = append(out, Candidate{Action: Hoard, BaseWeight: 1.0})

	// Faction.
	if faction != nil {
		out = append(out, Candidate{Action: Defect, BaseWeight: 1.0})
		if a.Role == agents.RoleLeader || a.Role == agents.RoleCouncilMember {
			out = append(out, Candidate{Action: Exile, BaseWeight: 1.0})
		}
		if faction.LeaderID != a.ID {
			out = append(out, Candidate{Action: ChallengeLeader, BaseWeight: 1.0, Target: faction.LeaderID})
			out = append(out, Candidate{Action: SupportLeader, BaseWeight: 1.0, Target: faction.LeaderID})
		}
	}

	return out
}

// generateDesireScan enumerates the agent's current location and its
// adjacent locations (nothing further away is scanned) and, for a mismatch
// between the agent's food need and what the location offers, emits either
// a local Work action at the current location or a travel candidate toward
// an adjacent location with more food stores, via the next hop on the
// shortest BFS path.
func generateDesireScan(ctx *Context, a *agents.Agent) []Candidate {
	var out []Candidate
	if a.Needs.FoodSecurity == agents.FoodSecure {
		return out
	}
	loc := ctx.Locations.Get(a.Location)
	if loc == nil {
		return out
	}

	candidates := append([]world.LocationID{a.Location}, loc.Adjacent...)
	candidates = sortedLocationIDs(candidates)

	for _, c := range candidates {
		target := ctx.Locations.Get(c)
		if target == nil {
			continue
		}
		if target.ID == a.Location {
			if target.Benefits.FoodStores > 0 {
				out = append(out, Candidate{Action: Work, BaseWeight: 1.0 + target.Benefits.FoodStores, Rationale: "desire:food"})
			}
			continue
		}
		if target.Benefits.FoodStores <= loc.Benefits.FoodStores {
			continue
		}
		step, ok := ctx.Locations.NextStepToward(a.Location, target.ID)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Action:         Travel,
			TargetLocation: step,
			BaseWeight:     desireUtility(target.Benefits.FoodStores, 1, a),
			Rationale:      "desire:food",
		})
	}
	return out
}

func desireUtility(needSatisfaction float64, steps int, a *agents.Agent) float64 {
	distanceCost := pow07(steps)
	distanceCost = distanceCost * (1.0 - a.Traits.Boldness*0.3)
	return needSatisfaction * distanceCost
}

func pow07(steps int) float64 {
	v := 1.0
	for i := 0; i < steps; i++ {
		v *= 0.7
	}
	return v
}

// TargetScore ranks how attractive target is for a communication/social
// action from faction, status and relationship modifiers. Targets are
// co-located, so no proximity discount applies, and there is no recency
// term for agents spoken to recently.
func TargetScore(ctx *Context, self, target *agents.Agent) float64 {
	score := 1.0

	switch {
	case self.FactionID != "" && self.FactionID == target.FactionID:
		score *= 2.0
	case target.FactionID == "":
		score *= 1.0
	default:
		score *= 0.3
	}

	delta := float64(target.StatusLevel()) - float64(self.StatusLevel())
	if delta > 0 {
		score *= 1.0 + 0.5*delta
	} else {
		score *= 0.7
	}

	rel := ctx.Relationships.Get(self.ID, target.ID)
	if rel != nil {
		if rel.Trust.Overall() > 0 {
			score *= 1.3
		} else if rel.Trust.Overall() < 0 {
			score *= 0.4
		}
	}

	if self.Location == target.Location {
		score *= 1.0
	}

	return score
}

func sortedAgents(ids []agents.AgentID) []agents.AgentID {
	out := append([]agents.AgentID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedLocationIDs(ids []world.LocationID) []world.LocationID {
	out := append([]world.LocationID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
