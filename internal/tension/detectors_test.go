package tension

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/social"
)

func newAgent(id agents.AgentID, factionID string) *agents.Agent {
	return &agents.Agent{ID: id, FactionID: factionID, Alive: true, Traits: agents.DefaultTraits()}
}

func TestDetectBrewingBetrayalOpensOnLowTrustHighAmbition(t *testing.T) {
	tr := NewTracker()
	leader := newAgent("agent_leader", "faction_01")
	member := newAgent("agent_member", "faction_01")
	member.Traits.Ambition = 0.9
	idx := map[agents.AgentID]*agents.Agent{leader.ID: leader, member.ID: member}

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", LeaderID: leader.ID})

	rels := social.NewRelationshipGraph()
	rels.Set(member.ID, leader.ID, &social.Relationship{Trust: social.Trust{Reliability: -1, Alignment: -1, Capability: -1}})

	DetectBrewingBetrayal(tr, DetectorInputs{Tick: 5, AgentIndex: idx, Relationships: rels, Factions: factions})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeBrewingBetrayal, active[0].Type)
	assert.True(t, active[0].Involves(member.ID))
	assert.True(t, active[0].Involves(leader.ID))
	assert.InDelta(t, 0.8, active[0].Severity, 1e-9)
}

func TestDetectBrewingBetrayalIgnoresLoyalOrUnambitiousMembers(t *testing.T) {
	tr := NewTracker()
	leader := newAgent("agent_leader", "faction_01")
	member := newAgent("agent_member", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{leader.ID: leader, member.ID: member}

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", LeaderID: leader.ID})

	rels := social.NewRelationshipGraph()
	rels.Set(member.ID, leader.ID, &social.Relationship{Trust: social.Trust{Reliability: 0.5, Alignment: 0.5, Capability: 0.5}})

	DetectBrewingBetrayal(tr, DetectorInputs{Tick: 5, AgentIndex: idx, Relationships: rels, Factions: factions})
	assert.Empty(t, tr.Active())
}

func TestDetectSuccessionCrisisFlagsLeaderlessFaction(t *testing.T) {
	tr := NewTracker()
	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", Name: "The Crown"})

	DetectSuccessionCrisis(tr, DetectorInputs{Tick: 1, Factions: factions, Relationships: social.NewRelationshipGraph()})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeSuccessionCrisis, active[0].Type)
	assert.InDelta(t, 0.8, active[0].Severity, 1e-9)
	assert.Equal(t, 1.0, active[0].Confidence)
}

func TestDetectSuccessionCrisisFlagsLowAverageTrustInLeader(t *testing.T) {
	tr := NewTracker()
	leader := newAgent("agent_leader", "faction_01")
	member := newAgent("agent_member", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{leader.ID: leader, member.ID: member}

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", LeaderID: leader.ID})

	rels := social.NewRelationshipGraph()
	rels.Set(member.ID, leader.ID, &social.Relationship{Trust: social.Trust{Reliability: -0.5, Alignment: -0.5, Capability: -0.5}})

	DetectSuccessionCrisis(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Factions: factions, Relationships: rels})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.True(t, active[0].Involves(leader.ID))
}

func TestDetectSuccessionCrisisIgnoresWellSupportedLeader(t *testing.T) {
	tr := NewTracker()
	leader := newAgent("agent_leader", "faction_01")
	member := newAgent("agent_member", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{leader.ID: leader, member.ID: member}

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", LeaderID: leader.ID})

	rels := social.NewRelationshipGraph()
	rels.Set(member.ID, leader.ID, &social.Relationship{Trust: social.Trust{Reliability: 0.8, Alignment: 0.8, Capability: 0.8}})

	DetectSuccessionCrisis(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Factions: factions, Relationships: rels})
	assert.Empty(t, tr.Active())
}

func TestDetectResourceConflictScalesSeverityWithGrainLevel(t *testing.T) {
	tr := NewTracker()
	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", Name: "The Crown", Resources: social.Resources{Grain: 10}})

	DetectResourceConflict(tr, DetectorInputs{Tick: 5, Factions: factions})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeResourceConflict, active[0].Type)
	assert.InDelta(t, 0.9, active[0].Severity, 1e-9)
}

func TestDetectResourceConflictIgnoresHealthyFactions(t *testing.T) {
	tr := NewTracker()
	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", Resources: social.Resources{Grain: 500}})

	DetectResourceConflict(tr, DetectorInputs{Tick: 5, Factions: factions})
	assert.Empty(t, tr.Active())
}

func TestDetectFactionFractureRequiresThreeDisgruntledMembers(t *testing.T) {
	tr := NewTracker()
	leader := newAgent("agent_leader", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{leader.ID: leader}
	rels := social.NewRelationshipGraph()
	for i := 1; i <= 3; i++ {
		id := agents.AgentID(fmt.Sprintf("agent_member_%02d", i))
		idx[id] = newAgent(id, "faction_01")
		rels.Set(id, leader.ID, &social.Relationship{Trust: social.Trust{Reliability: -0.5, Alignment: -0.5, Capability: -0.5}})
	}

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", Name: "The Crown", LeaderID: leader.ID})

	DetectFactionFracture(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Relationships: rels, Factions: factions})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeFactionFracture, active[0].Type)
}

func TestDetectFactionFractureIgnoresAFewMalcontents(t *testing.T) {
	tr := NewTracker()
	leader := newAgent("agent_leader", "faction_01")
	member := newAgent("agent_member", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{leader.ID: leader, member.ID: member}
	rels := social.NewRelationshipGraph()
	rels.Set(member.ID, leader.ID, &social.Relationship{Trust: social.Trust{Reliability: -0.5, Alignment: -0.5, Capability: -0.5}})

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", LeaderID: leader.ID})

	DetectFactionFracture(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Relationships: rels, Factions: factions})
	assert.Empty(t, tr.Active())
}

func TestDetectForbiddenAllianceFlagsCrossFactionTrust(t *testing.T) {
	tr := NewTracker()
	a := newAgent("agent_a", "faction_01")
	b := newAgent("agent_b", "faction_02")
	idx := map[agents.AgentID]*agents.Agent{a.ID: a, b.ID: b}
	rels := social.NewRelationshipGraph()
	rels.Set(a.ID, b.ID, &social.Relationship{Trust: social.Trust{Reliability: 0.8, Alignment: 0.8, Capability: 0.8}})

	DetectForbiddenAlliance(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Relationships: rels})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeForbiddenAlliance, active[0].Type)
	assert.True(t, active[0].Involves(a.ID))
	assert.True(t, active[0].Involves(b.ID))
}

func TestDetectForbiddenAllianceIgnoresSameFactionTrust(t *testing.T) {
	tr := NewTracker()
	a := newAgent("agent_a", "faction_01")
	b := newAgent("agent_b", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{a.ID: a, b.ID: b}
	rels := social.NewRelationshipGraph()
	rels.Set(a.ID, b.ID, &social.Relationship{Trust: social.Trust{Reliability: 0.8, Alignment: 0.8, Capability: 0.8}})

	DetectForbiddenAlliance(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Relationships: rels})
	assert.Empty(t, tr.Active())
}

func TestDetectRevengeArcOpensAndReinforces(t *testing.T) {
	tr := NewTracker()
	a := newAgent("agent_avenger", "")
	a.Traits.GrudgePersistence = 0.8
	a.Goals.Add(agents.Goal{Type: agents.GoalRevenge, Target: "agent_target", Priority: 0.6, OriginEvent: "evt_001"})
	idx := map[agents.AgentID]*agents.Agent{a.ID: a}
	in := DetectorInputs{Tick: 1, AgentIndex: idx}

	DetectRevengeArc(tr, in)
	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeRevengeArc, active[0].Type)
	assert.Equal(t, []string{"evt_001"}, active[0].TriggerEvents)
	assert.InDelta(t, 0.48, active[0].Severity, 1e-9)

	a.Traits.GrudgePersistence = 1.0
	in.Tick = 2
	DetectRevengeArc(tr, in)
	assert.Len(t, tr.Active(), 1)
	assert.InDelta(t, 0.6, tr.Active()[0].Severity, 1e-9)
}

func TestDetectRisingPowerRequiresAmbitionAndChallengeGoal(t *testing.T) {
	tr := NewTracker()
	a := newAgent("agent_challenger", "")
	a.Traits.Ambition = 0.9
	a.Goals.Add(agents.Goal{Type: agents.GoalChallengeLeader})
	idx := map[agents.AgentID]*agents.Agent{a.ID: a}

	DetectRisingPower(tr, DetectorInputs{Tick: 1, AgentIndex: idx})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeRisingPower, active[0].Type)
	assert.InDelta(t, 0.9, active[0].Severity, 1e-9)
}

func TestDetectRisingPowerIgnoresLowAmbitionChallengers(t *testing.T) {
	tr := NewTracker()
	a := newAgent("agent_challenger", "")
	a.Goals.Add(agents.Goal{Type: agents.GoalChallengeLeader})
	idx := map[agents.AgentID]*agents.Agent{a.ID: a}

	DetectRisingPower(tr, DetectorInputs{Tick: 1, AgentIndex: idx})
	assert.Empty(t, tr.Active())
}

func TestDetectSecretExposedFlagsSecretsWithASourceChain(t *testing.T) {
	tr := NewTracker()
	witness := newAgent("agent_witness", "")
	idx := map[agents.AgentID]*agents.Agent{witness.ID: witness}
	memories := social.NewMemoryBank()
	memories.Add(witness.ID, social.Memory{
		MemoryID:    "mem_001",
		Subject:     "agent_subject",
		IsSecret:    true,
		SourceChain: []agents.AgentID{"agent_source"},
	})

	DetectSecretExposed(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Memories: memories})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeSecretExposed, active[0].Type)
	assert.True(t, active[0].Involves("agent_subject"))
	assert.True(t, active[0].Involves("agent_source"))
}

func TestDetectSecretExposedIgnoresUnspreadSecrets(t *testing.T) {
	tr := NewTracker()
	witness := newAgent("agent_witness", "")
	idx := map[agents.AgentID]*agents.Agent{witness.ID: witness}
	memories := social.NewMemoryBank()
	memories.Add(witness.ID, social.Memory{MemoryID: "mem_001", Subject: "agent_subject", IsSecret: true})

	DetectSecretExposed(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Memories: memories})
	assert.Empty(t, tr.Active())
}

func TestDetectExternalThreatOpensOnePerNamedThreat(t *testing.T) {
	tr := NewTracker()
	in := DetectorInputs{Tick: 1, ActiveThreats: []string{"raiders", "famine"}}

	DetectExternalThreat(tr, in)
	assert.Len(t, tr.Active(), 2)

	DetectExternalThreat(tr, in)
	assert.Len(t, tr.Active(), 2, "re-running must not duplicate an already-open threat tension")
}

func TestDetectRitualDisruptionFlagsAnEmptyArchive(t *testing.T) {
	tr := NewTracker()
	reader := newAgent("agent_reader", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{reader.ID: reader}

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", Name: "The Crown", ReaderID: reader.ID, Archive: social.NewArchive()})

	DetectRitualDisruption(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Factions: factions, Relationships: social.NewRelationshipGraph()})

	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, TypeRitualDisruption, active[0].Type)
}

func TestDetectRitualDisruptionIgnoresAHealthyRitualSetup(t *testing.T) {
	tr := NewTracker()
	reader := newAgent("agent_reader", "faction_01")
	idx := map[agents.AgentID]*agents.Agent{reader.ID: reader}

	archive := social.NewArchive()
	archive.Write(reader.ID, "The Reader", "a record worth reciting", 0)

	factions := social.NewFactionRegistry()
	factions.Add(&social.Faction{ID: "faction_01", ReaderID: reader.ID, Archive: archive})

	DetectRitualDisruption(tr, DetectorInputs{Tick: 1, AgentIndex: idx, Factions: factions, Relationships: social.NewRelationshipGraph()})
	assert.Empty(t, tr.Active())
}

func TestRunAllSweepsDormancyAndPrunesTracker(t *testing.T) {
	tr := NewTracker()
	idx := map[agents.AgentID]*agents.Agent{
		"agent_00001": newAgent("agent_00001", ""),
	}
	factions := social.NewFactionRegistry()
	in := DetectorInputs{
		Tick:          1,
		AgentIndex:    idx,
		Relationships: social.NewRelationshipGraph(),
		Memories:      social.NewMemoryBank(),
		Factions:      factions,
	}

	assert.NotPanics(t, func() { RunAll(tr, in) })
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-1))
	assert.Equal(t, 1.0, clamp01(2))
	assert.Equal(t, 0.5, clamp01(0.5))
}

func TestClampRespectsBounds(t *testing.T) {
	assert.Equal(t, 0.3, clamp(0.1, 0.3, 0.8))
	assert.Equal(t, 0.8, clamp(0.9, 0.3, 0.8))
	assert.Equal(t, 0.5, clamp(0.5, 0.3, 0.8))
}
