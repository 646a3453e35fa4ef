// Perception and needs updates — rebuilding who each agent can see and
// recomputing the food-security/social-belonging state machines from that
// view. Adapted from the teacher's daily relationship pass, replaced with
// the needs.go state machines this simulation actually runs on.
package engine

import (
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/world"
)

// updatePerception rebuilds every location's present-agent list and every
// living agent's visible-agent list from current positions, visiting agents
// in the tick's shuffled processing order so the result never depends on
// map iteration.
func (s *Simulation) updatePerception() {
	present := make(map[world.LocationID][]agents.AgentID)
	ids := s.sortedAgentIDs()
	for _, id := range ids {
		a := s.AgentIndex[id]
		if !a.Alive {
			continue
		}
		present[a.Location] = append(present[a.Location], a.ID)
	}

	for _, loc := range s.Locations.All() {
		occupants := present[loc.ID]
		names := make([]string, 0, len(occupants))
		for _, id := range occupants {
			names = append(names, string(id))
		}
		loc.AgentsPresent = names
	}

	for _, id := range ids {
		a := s.AgentIndex[id]
		if !a.Alive {
			continue
		}
		here := present[a.Location]
		visible := make([]agents.AgentID, 0, len(here))
		for _, other := range here {
			if other != a.ID {
				visible = append(visible, other)
			}
		}
		a.VisibleAgents = visible
	}
}

// updateNeeds recomputes each living agent's food-security and
// social-belonging state machines from this tick's faction resources,
// interaction counts, and co-location, then decays the interaction counter
// window.
func (s *Simulation) updateNeeds() {
	for _, id := range s.sortedAgentIDs() {
		a := s.AgentIndex[id]
		if !a.Alive {
			continue
		}

		var effectiveFood float64
		if f := s.Factions.Get(a.FactionID); f != nil {
			effectiveFood = agents.EffectiveFood(f.Resources.Grain, f.Resources.Beer, f.MemberCount, a.Role)
		}
		a.Needs.FoodSecurity = agents.UpdateFoodSecurity(a.Needs.FoodSecurity, effectiveFood)

		ritualScore := 0.0
		if s.ritualAttendance[a.ID] {
			ritualScore = 1.0
		}
		score := agents.BelongingScore(agents.BelongingInputs{
			AvgTrustFromFactionMates: s.avgFactionMateTrust(a),
			InteractionCount:         s.Interactions.Count(a.ID),
			RitualAttendanceScore:    ritualScore,
			CoLocatedWithFactionMate: s.hasFactionMateVisible(a),
		})
		a.Needs.SocialBelonging = agents.UpdateSocialBelonging(a.Needs.SocialBelonging, score)
	}

	s.Interactions.DecayInteractionCounts(s.Tick)
}

// avgFactionMateTrust averages how much each living faction-mate trusts a,
// the "how well do my own people regard me" signal behind belonging.
func (s *Simulation) avgFactionMateTrust(a *agents.Agent) float64 {
	if a.FactionID == "" {
		return 0
	}
	var sum float64
	var count int
	for _, id := range s.sortedAgentIDs() {
		mate := s.AgentIndex[id]
		if mate.ID == a.ID || mate.FactionID != a.FactionID || !mate.Alive {
			continue
		}
		if rel := s.Relationships.Get(mate.ID, a.ID); rel != nil {
			sum += rel.Trust.Overall()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (s *Simulation) hasFactionMateVisible(a *agents.Agent) bool {
	if a.FactionID == "" {
		return false
	}
	for _, id := range a.VisibleAgents {
		if mate := s.AgentIndex[id]; mate != nil && mate.FactionID == a.FactionID {
			return true
		}
	}
	return false
}
