package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/director"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

func newTestSimulation(t *testing.T) *Simulation {
	t.Helper()
	log, err := events.OpenLog(filepath.Join(t.TempDir(), "events.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	locs := world.NewRegistry()
	locs.Add(&world.Location{ID: "loc_hq", Properties: []world.LocationProperty{world.PropFactionHQ}})
	locs.Add(&world.Location{ID: "loc_field", Adjacent: []world.LocationID{"loc_hq"}})
	locs.Get("loc_hq").Adjacent = []world.LocationID{"loc_field"}

	faction := &social.Faction{
		ID:          "faction_01",
		Name:        "House Aldric",
		HQLocation:  "loc_hq",
		MemberCount: 2,
		Archive:     social.NewArchive(),
		LeaderID:    "agent_00001",
	}

	leader := &agents.Agent{
		ID: "agent_00001", Name: "Aldric", FactionID: "faction_01",
		Role: agents.RoleLeader, Location: "loc_hq", Alive: true,
		Traits: agents.Traits{Boldness: 0.5, LoyaltyWeight: 0.5, Ambition: 0.5},
	}
	laborer := &agents.Agent{
		ID: "agent_00002", Name: "Elga", FactionID: "faction_01",
		Role: agents.RoleLaborer, Location: "loc_field", Alive: true,
		Traits: agents.Traits{Boldness: 0.5, LoyaltyWeight: 0.5, Ambition: 0.5},
	}

	sim := NewSimulation(Config{
		Seed:           7,
		Locations:      locs,
		Factions:       []*social.Faction{faction},
		Agents:         []*agents.Agent{leader, laborer},
		Log:            log,
		Tuning:         config.DefaultTuning(),
		DirectorConfig: director.DefaultConfig(),
		Templates:      director.Templates{},
		RitualInterval: 500,
	})
	return sim
}

func TestStepAdvancesWithoutError(t *testing.T) {
	sim := newTestSimulation(t)
	require.NoError(t, sim.Step())
	assert.NotNil(t, sim.LastDirectorOutput)
}

func TestStepUpdatesPerceptionForColocatedAgents(t *testing.T) {
	sim := newTestSimulation(t)
	sim.AgentIndex["agent_00002"].Location = "loc_hq"

	require.NoError(t, sim.Step())

	leader := sim.AgentIndex["agent_00001"]
	assert.Contains(t, leader.VisibleAgents, agents.AgentID("agent_00002"))
}

func TestRunAdvancesTickCounterByRequestedAmount(t *testing.T) {
	sim := newTestSimulation(t)
	require.NoError(t, sim.Run(5, 0, ""))
	assert.EqualValues(t, 5, sim.Tick)
}

func TestRunWritesSnapshotsToOutputDir(t *testing.T) {
	sim := newTestSimulation(t)
	dir := t.TempDir()

	require.NoError(t, sim.Run(3, 0, dir))

	_, err := filepath.Glob(filepath.Join(dir, "current_state.json"))
	require.NoError(t, err)
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}

func TestRunTickIsDeterministicAcrossIdenticalSeeds(t *testing.T) {
	simA := newTestSimulation(t)
	simB := newTestSimulation(t)

	require.NoError(t, simA.Run(10, 0, ""))
	require.NoError(t, simB.Run(10, 0, ""))

	assert.Equal(t, simA.AgentIndex["agent_00001"].Needs.FoodSecurity, simB.AgentIndex["agent_00001"].Needs.FoodSecurity)
	assert.Equal(t, simA.AgentIndex["agent_00002"].Location, simB.AgentIndex["agent_00002"].Location)
}
