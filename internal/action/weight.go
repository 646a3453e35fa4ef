// Weight stage: applies trait-modifier formulas on top of each candidate's
// base weight. Grounded on original_source/src/systems/action/weight.rs and
// the extracted per-category formulas.
package action

import "github.com/talgya/crossroads/internal/agents"

// Weight scores every candidate for a, returning a parallel slice of
// Weighted results in the same order Generate produced them.
func Weight(ctx *Context, a *agents.Agent, candidates []Candidate) []Weighted {
	out := make([]Weighted, len(candidates))
	for i, c := range candidates {
		out[i] = Weighted{Candidate: c, Weight: weightOne(ctx, a, c)}
	}
	return out
}

func weightOne(ctx *Context, a *agents.Agent, c Candidate) float64 {
	w := c.BaseWeight
	t := a.Traits

	switch c.Action {
	// Movement.
	case Travel:
		w *= 1.0
	case Patrol:
		w *= 0.5 + t.Boldness*0.5
	case ReturnHome:
		w *= 0.5 + t.LoyaltyWeight*0.5
	case Flee:
		w *= (1.0 - t.Boldness) * 0.8
	case Pursue:
		w *= t.Boldness * 0.8

	// Communication.
	case ShareMemory:
		w *= 0.6 + t.Sociability*0.4
	case SpreadRumor:
		w *= (0.3 + t.Sociability*0.3) * (1.0 - t.Honesty*0.5)
	case Lie:
		w *= (1.0 - t.Honesty) * (0.5 + t.Ambition*0.5)
	case Confess:
		w *= t.Honesty * 0.6

	// Archive.
	case WriteEntry:
		w *= 0.8 + t.Ambition*0.4
	case ReadArchive:
		w *= 1.0
	case DestroyEntry:
		w *= (1.0 - t.Honesty) * 1.5 * (0.5 + t.Boldness*0.5)
		if a.Role == agents.RoleLeader {
			w *= 0.5
		}
	case ForgeEntry:
		w *= (1.0 - t.Honesty) * (0.4 + t.Ambition*0.6)

	// Resource.
	case Work:
		w *= 1.0
	case Trade:
		w *= 0.5 + t.Sociability*0.3
	case Steal:
		w *= (1.0 - t.Honesty) * (0.4 + t.Boldness*0.6)
	case Hoard:
		w *= 0.3 + (1.0-t.GroupPreference)*0.7

	// Social.
	case BuildTrust:
		w *= 0.5 + t.Sociability*0.5
	case CurryFavor:
		w *= t.Ambition * (0.4 + t.Sociability*0.6)
	case Gift:
		w *= 0.4 + t.GroupPreference*0.6
	case Ostracize:
		w *= t.Boldness * 0.5

	// Faction.
	case Defect:
		w *= (1.0 - t.LoyaltyWeight) * 0.6
	case Exile:
		w *= t.Boldness * 0.5
	case ChallengeLeader:
		w *= t.Ambition * t.Boldness
	case SupportLeader:
		w *= t.LoyaltyWeight * 0.6

	// Conflict.
	case Argue:
		w *= 0.4 + t.Boldness*0.3
	case Fight:
		w *= t.Boldness * 0.4
	case Sabotage:
		w *= (1.0 - t.Honesty) * t.Boldness * 0.5
	case Assassinate:
		w *= t.Boldness * t.Ambition * 0.15

	// Idle.
	case Idle:
		w *= 0.3 + (1.0-t.Boldness)*0.2
	}

	if w < 0 {
		w = 0
	}
	return applyNeedsPressure(a, c.Action, w)
}

// applyNeedsPressure boosts food-satisfying actions when the agent is under
// food or belonging stress, matching the desire-scan's own weighting so
// precondition-scan candidates for the same action stay comparable.
func applyNeedsPressure(a *agents.Agent, k Kind, w float64) float64 {
	switch a.Needs.FoodSecurity {
	case agents.FoodDesperate:
		if k == Work || k == Trade || k == Steal || k == Hoard {
			w *= 2.0
		}
	case agents.FoodStressed:
		if k == Work || k == Trade {
			w *= 1.4
		}
	}
	if a.Needs.SocialBelonging == agents.Isolated {
		if k == BuildTrust || k == ShareMemory || k == Gift {
			w *= 1.5
		}
	}
	return w
}
