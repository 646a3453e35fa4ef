// Package director scores events for narrative interest, tracks narrative
// threads, selects camera focus, detects dramatic irony, and generates
// template-based commentary. Grounded on
// original_source/crates/director/src/{scorer,threads,focus,commentary}.rs.
package director

import (
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/tension"
)

// EventWeights are the base scores per event type, overridable per
// director.toml's event_weights section. A lookup miss falls back to
// DefaultWeight (0.1).
type EventWeights struct {
	Betrayal      float64
	Death         float64
	Conflict      float64
	Faction       float64
	Ritual        float64
	Loyalty       float64
	Cooperation   float64
	Communication float64
	Birth         float64
	Resource      float64
	Archive       float64
	Movement      float64
}

// DefaultWeight is the fallback base score for an event type not present
// in EventWeights (or an unrecognized type entirely).
const DefaultWeight = 0.1

// DefaultEventWeights returns the reference EventWeights::default() values.
func DefaultEventWeights() EventWeights {
	return EventWeights{
		Betrayal:      0.9,
		Death:         0.85,
		Conflict:      0.7,
		Faction:       0.6,
		Ritual:        0.5,
		Loyalty:       0.35,
		Cooperation:   0.4,
		Communication: 0.3,
		Birth:         0.3,
		Resource:      0.25,
		Archive:       0.2,
		Movement:      0.1,
	}
}

func (w EventWeights) base(t events.Type) float64 {
	switch t {
	case events.TypeBetrayal:
		return w.Betrayal
	case events.TypeDeath:
		return w.Death
	case events.TypeConflict:
		return w.Conflict
	case events.TypeFaction:
		return w.Faction
	case events.TypeRitual:
		return w.Ritual
	case events.TypeLoyalty:
		return w.Loyalty
	case events.TypeCooperation:
		return w.Cooperation
	case events.TypeCommunication:
		return w.Communication
	case events.TypeBirth:
		return w.Birth
	case events.TypeResource:
		return w.Resource
	case events.TypeArchive:
		return w.Archive
	case events.TypeMovement:
		return w.Movement
	default:
		return DefaultWeight
	}
}

// DramaTagScores are the additive per-tag bonuses applied on top of an
// event's base score.
var DramaTagScores = map[string]float64{
	"faction_critical": 0.3,
	"secret_meeting":   0.25,
	"leader_involved":  0.2,
	"cross_faction":    0.15,
	"winter_crisis":    0.1,
	"betrayal":         0.15,
	"revenge":          0.15,
	"power_struggle":   0.15,
	"death":            0.1,
}

const (
	trackedAgentBoost = 1.5
	tensionEventBoost = 2.0
	scoreCap          = 1.5
)

// ScoringContext carries the state Score needs beyond the event itself.
type ScoringContext struct {
	Weights        EventWeights
	TrackedAgents  map[agents.AgentID]bool
	TensionEventIDs map[string]bool // event IDs referenced by an active tension
}

// Score computes an event's narrative-interest score: base(type) plus
// additive drama-tag bonuses, boosted for tracked agents and
// tension-connected events, capped at scoreCap.
func Score(e events.Event, ctx ScoringContext) float64 {
	score := ctx.Weights.base(e.EventType)
	for _, tag := range e.DramaTags {
		if bonus, ok := DramaTagScores[tag]; ok {
			score += bonus
		}
	}

	if ctx.TrackedAgents != nil {
		for _, id := range e.Actors.AllAgentIDs() {
			if ctx.TrackedAgents[id] {
				score *= trackedAgentBoost
				break
			}
		}
	}
	if ctx.TensionEventIDs != nil && ctx.TensionEventIDs[e.EventID] {
		score *= tensionEventBoost
	}

	if score > scoreCap {
		score = scoreCap
	}
	return score
}

// TensionEventIndex builds the agent-ID set named by any active tension's
// key agents, for ScoreWithParticipants: an event naming any tension key
// agent counts as tension-connected.
func TensionEventIndex(active []*tension.Tension) map[agents.AgentID]bool {
	out := make(map[agents.AgentID]bool)
	for _, t := range active {
		for _, ka := range t.KeyAgents {
			out[ka.AgentID] = true
		}
	}
	return out
}

// ScoreWithParticipants is Score, but treats an event as tension-connected
// when it shares an actor with any active tension's participant set rather
// than requiring an explicit shared event ID (see TensionEventIndex).
func ScoreWithParticipants(e events.Event, weights EventWeights, tracked map[agents.AgentID]bool, tensionAgents map[agents.AgentID]bool) float64 {
	score := weights.base(e.EventType)
	for _, tag := range e.DramaTags {
		if bonus, ok := DramaTagScores[tag]; ok {
			score += bonus
		}
	}
	actors := e.Actors.AllAgentIDs()
	for _, id := range actors {
		if tracked[id] {
			score *= trackedAgentBoost
			break
		}
	}
	for _, id := range actors {
		if tensionAgents[id] {
			score *= tensionEventBoost
			break
		}
	}
	if score > scoreCap {
		score = scoreCap
	}
	return score
}
