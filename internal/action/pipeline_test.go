package action

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/prng"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	log, err := events.OpenLog(filepath.Join(t.TempDir(), "events.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	locs := world.NewRegistry()
	locs.Add(&world.Location{ID: "loc_home"})

	return &Context{
		Tick:          1,
		Locations:     locs,
		AgentIndex:    map[agents.AgentID]*agents.Agent{},
		Factions:      social.NewFactionRegistry(),
		Relationships: social.NewRelationshipGraph(),
		Memories:      social.NewMemoryBank(),
		Stream:        prng.New(1),
		Log:           log,
		TrustQueue:    NewTrustEventQueue(),
		Interactions:  agents.NewInteractionTracker(),
	}
}

func TestRunOneProducesAnOutcomeForALoneAgent(t *testing.T) {
	ctx := newTestContext(t)
	a := &agents.Agent{ID: "agent_00001", Alive: true, Location: "loc_home", Traits: agents.DefaultTraits()}
	ctx.AgentIndex[a.ID] = a

	out, err := RunOne(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a.ID, out.Actor)
}

func TestRunTickVisitsEveryAgentOnceAndDrainsTrust(t *testing.T) {
	ctx := newTestContext(t)
	for _, id := range []agents.AgentID{"agent_00003", "agent_00001", "agent_00002"} {
		ctx.AgentIndex[id] = &agents.Agent{ID: id, Alive: true, Location: "loc_home", Traits: agents.DefaultTraits()}
	}

	outcomes, grudges, err := RunTick(ctx)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	var actors []agents.AgentID
	for _, o := range outcomes {
		actors = append(actors, o.Actor)
	}
	assert.ElementsMatch(t, []agents.AgentID{"agent_00001", "agent_00002", "agent_00003"}, actors)
	assert.Empty(t, grudges)
}

func TestRunTickOrderIsDeterministicForASeed(t *testing.T) {
	build := func() *Context {
		ctx := newTestContext(t)
		for _, id := range []agents.AgentID{"agent_00003", "agent_00001", "agent_00002", "agent_00004"} {
			ctx.AgentIndex[id] = &agents.Agent{ID: id, Alive: true, Location: "loc_home", Traits: agents.DefaultTraits()}
		}
		return ctx
	}

	outcomesA, _, errA := RunTick(build())
	require.NoError(t, errA)
	outcomesB, _, errB := RunTick(build())
	require.NoError(t, errB)

	var actorsA, actorsB []agents.AgentID
	for _, o := range outcomesA {
		actorsA = append(actorsA, o.Actor)
	}
	for _, o := range outcomesB {
		actorsB = append(actorsB, o.Actor)
	}
	assert.Equal(t, actorsA, actorsB, "same seed must draw the same turn order")
}

func TestRunTickSkipsDeadAgents(t *testing.T) {
	ctx := newTestContext(t)
	ctx.AgentIndex["agent_00001"] = &agents.Agent{ID: "agent_00001", Alive: false, Location: "loc_home", Traits: agents.DefaultTraits()}
	ctx.AgentIndex["agent_00002"] = &agents.Agent{ID: "agent_00002", Alive: true, Location: "loc_home", Traits: agents.DefaultTraits()}

	outcomes, _, err := RunTick(ctx)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, agents.AgentID("agent_00002"), outcomes[0].Actor)
}
