package director

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/tension"
)

func TestScoreUsesBaseWeightForEventType(t *testing.T) {
	e := events.Event{EventType: events.TypeBetrayal}
	ctx := ScoringContext{Weights: DefaultEventWeights()}
	assert.InDelta(t, 0.9, Score(e, ctx), 1e-9)
}

func TestScoreFallsBackToDefaultWeightForUnknownType(t *testing.T) {
	e := events.Event{EventType: events.Type("unheard_of")}
	ctx := ScoringContext{Weights: DefaultEventWeights()}
	assert.InDelta(t, DefaultWeight, Score(e, ctx), 1e-9)
}

func TestScoreAddsDramaTagBonuses(t *testing.T) {
	e := events.Event{EventType: events.TypeConflict, DramaTags: []string{"betrayal", "death"}}
	ctx := ScoringContext{Weights: DefaultEventWeights()}
	want := DefaultEventWeights().Conflict + DramaTagScores["betrayal"] + DramaTagScores["death"]
	assert.InDelta(t, want, Score(e, ctx), 1e-9)
}

func TestScoreBoostsTrackedAgentsAndCapsResult(t *testing.T) {
	e := events.Event{
		EventType: events.TypeBetrayal,
		Actors:    events.ActorSet{Primary: events.ActorSnapshot{AgentID: "agent_00001"}},
		DramaTags: []string{"faction_critical"},
	}
	ctx := ScoringContext{
		Weights:       DefaultEventWeights(),
		TrackedAgents: map[agents.AgentID]bool{"agent_00001": true},
	}
	assert.LessOrEqual(t, Score(e, ctx), scoreCap)
	assert.InDelta(t, scoreCap, Score(e, ctx), 1e-9)
}

func TestTensionEventIndexIndexesByParticipant(t *testing.T) {
	tn := &tension.Tension{}
	tn.AddAgent("agent_00001", "instigator", "escalating")
	tn.AddAgent("agent_00002", "target", "unaware")
	tensions := []*tension.Tension{tn}
	idx := TensionEventIndex(tensions)
	assert.True(t, idx["agent_00001"])
	assert.True(t, idx["agent_00002"])
	assert.False(t, idx["agent_00099"])
}

func TestScoreWithParticipantsBoostsTensionConnectedEvents(t *testing.T) {
	e := events.Event{
		EventType: events.TypeConflict,
		Actors:    events.ActorSet{Primary: events.ActorSnapshot{AgentID: "agent_00001"}},
	}
	weights := DefaultEventWeights()
	tensionAgents := map[agents.AgentID]bool{"agent_00001": true}

	boosted := ScoreWithParticipants(e, weights, nil, tensionAgents)
	base := ScoreWithParticipants(e, weights, nil, nil)
	assert.Greater(t, boosted, base)
}
