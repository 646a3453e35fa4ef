// Detectors scan world state each tick for the signals that precede a
// dramatic event, opening or reinforcing a Tension before anything actually
// happens. Grounded on original_source/crates/sim-core/src/systems/
// tension.rs, one function per Type; ritual_disruption has no counterpart
// there and is grounded instead on engine/seasons.go's own ritual-impediment
// checks (reader loyalty, archive availability).
package tension

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/social"
)

// DetectorInputs bundles the read-only world state every detector needs.
type DetectorInputs struct {
	Tick          uint64
	AgentIndex    map[agents.AgentID]*agents.Agent
	Relationships *social.RelationshipGraph
	Memories      *social.MemoryBank
	Factions      *social.Registry

	// ActiveThreats names external threats currently bearing on the world
	// (raids, famine, rival kingdoms). Nothing in this codebase populates
	// it yet; DetectExternalThreat simply has nothing to report until a
	// threat-generation subsystem starts writing to it.
	ActiveThreats []string
}

func sortedAgentIDs(idx map[agents.AgentID]*agents.Agent) []agents.AgentID {
	out := make([]agents.AgentID, 0, len(idx))
	for id := range idx {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func factionMembers(in DetectorInputs, factionID string) []*agents.Agent {
	var out []*agents.Agent
	for _, id := range sortedAgentIDs(in.AgentIndex) {
		a := in.AgentIndex[id]
		if a.FactionID == factionID && a.Alive {
			out = append(out, a)
		}
	}
	return out
}

// DetectBrewingBetrayal flags a faction member whose trust in their own
// leader has collapsed while their ambition stays high: someone weighing
// whether loyalty is still worth it. Ported from detect_brewing_betrayal.
func DetectBrewingBetrayal(tr *Tracker, in DetectorInputs) {
	const trustThreshold = -0.2
	for _, f := range in.Factions.All() {
		if f.LeaderID == "" {
			continue
		}
		for _, a := range factionMembers(in, f.ID) {
			if a.ID == f.LeaderID {
				continue
			}
			rel := in.Relationships.Get(a.ID, f.LeaderID)
			if rel == nil || rel.Trust.Overall() >= trustThreshold || a.Traits.Ambition <= 0.6 {
				continue
			}

			trust := rel.Trust.Overall()
			if t := tr.FindByParticipants(TypeBrewingBetrayal, []agents.AgentID{a.ID, f.LeaderID}); t != nil {
				t.UpdateSeverity(clamp(((0.5-trust)*a.Traits.Ambition), 0.3, 1.0), in.Tick)
				continue
			}

			t := tr.Open(TypeBrewingBetrayal, in.Tick, fmt.Sprintf("%s's ambition may outgrow their loyalty", a.Name))
			t.Severity = clamp((0.5-trust)*a.Traits.Ambition, 0.3, 0.8)
			t.Confidence = 0.6
			t.AddAgent(a.ID, "potential_betrayer", "escalating")
			t.AddAgent(f.LeaderID, "target", "unaware")
			t.AddPredictedOutcome("open_defiance", 0.3, "high")
			t.AddPredictedOutcome("faction_defection", 0.2, "very_high")
			t.AddNarrativeHook("Will ambition overcome loyalty?")
		}
	}
}

// DetectSuccessionCrisis flags a faction with no leader, or whose leader's
// average support among the rest of the faction has fallen too low. Ported
// from detect_succession_crisis.
func DetectSuccessionCrisis(tr *Tracker, in DetectorInputs) {
	for _, f := range in.Factions.All() {
		key := []agents.AgentID{agents.AgentID("faction:" + f.ID)}

		if f.LeaderID == "" {
			if t := tr.FindByParticipants(TypeSuccessionCrisis, key); t != nil {
				t.UpdateSeverity(0.8, in.Tick)
				continue
			}
			t := tr.Open(TypeSuccessionCrisis, in.Tick, fmt.Sprintf("%s has no leader", f.Name))
			t.Severity = 0.8
			t.Confidence = 1.0
			t.KeyAgents = append(t.KeyAgents, TensionAgent{AgentID: key[0], RoleInTension: "faction", Trajectory: "leaderless"})
			t.AddPredictedOutcome("power_struggle", 0.6, "high")
			t.AddPredictedOutcome("external_intervention", 0.2, "very_high")
			continue
		}

		var sum float64
		var count int
		for _, a := range factionMembers(in, f.ID) {
			if a.ID == f.LeaderID {
				continue
			}
			if rel := in.Relationships.Get(a.ID, f.LeaderID); rel != nil {
				sum += rel.Trust.Overall()
				count++
			}
		}
		if count == 0 {
			continue
		}
		avgTrust := sum / float64(count)

		existing := tr.FindByParticipants(TypeSuccessionCrisis, []agents.AgentID{f.LeaderID})
		if avgTrust < 0.1 {
			severity := clamp(0.5+(0.1-avgTrust), 0.3, 0.9)
			if existing != nil {
				existing.UpdateSeverity(severity, in.Tick)
				continue
			}
			t := tr.Open(TypeSuccessionCrisis, in.Tick, fmt.Sprintf("%s's leadership is contested", f.Name))
			t.Severity = severity
			t.Confidence = 0.7
			t.AddAgent(f.LeaderID, "contested_leader", "defensive")
			t.AddPredictedOutcome("leadership_challenge", 0.4, "high")
			t.AddPredictedOutcome("gradual_legitimacy_loss", 0.3, "medium")
		} else if existing != nil {
			existing.UpdateSeverity(0.1, in.Tick)
		}
	}
}

// DetectResourceConflict flags a faction whose resources have fallen into
// the critical band, scarcity breeding conflict over what remains. Ported
// from detect_resource_conflict.
func DetectResourceConflict(tr *Tracker, in DetectorInputs) {
	for _, f := range in.Factions.All() {
		key := []agents.AgentID{agents.AgentID("faction:" + f.ID)}
		existing := tr.FindByParticipants(TypeResourceConflict, key)

		if !f.Resources.IsCritical() {
			if existing != nil {
				existing.UpdateSeverity(0.05, in.Tick)
			}
			continue
		}

		severity := 0.6
		if f.Resources.Grain < 50 {
			severity = 0.9
		}
		if existing != nil {
			existing.UpdateSeverity(severity, in.Tick)
			continue
		}
		t := tr.Open(TypeResourceConflict, in.Tick, fmt.Sprintf("%s's granaries run dry", f.Name))
		t.Severity = severity
		t.Confidence = 0.9
		t.KeyAgents = append(t.KeyAgents, TensionAgent{AgentID: key[0], RoleInTension: "faction", Trajectory: "straining"})
		if f.HQLocation != "" {
			t.AddLocation(f.HQLocation)
		}
		t.AddPredictedOutcome("resource_raid", 0.3, "medium")
		t.AddPredictedOutcome("internal_hoarding", 0.4, "medium")
		t.AddPredictedOutcome("desperate_measures", 0.2, "high")
		t.AddNarrativeHook("Scarcity breeds conflict")
	}
}

// DetectFactionFracture flags a faction whose leader has lost the trust of
// at least three members, a split waiting to happen. Ported from
// detect_faction_fracture.
func DetectFactionFracture(tr *Tracker, in DetectorInputs) {
	const minDisgruntled = 3
	for _, f := range in.Factions.All() {
		if f.LeaderID == "" {
			continue
		}
		members := factionMembers(in, f.ID)

		var disgruntled []*agents.Agent
		for _, a := range members {
			if a.ID == f.LeaderID {
				continue
			}
			if rel := in.Relationships.Get(a.ID, f.LeaderID); rel != nil && rel.Trust.Overall() < 0 {
				disgruntled = append(disgruntled, a)
			}
		}

		key := []agents.AgentID{f.LeaderID}
		existing := tr.FindByParticipants(TypeFactionFracture, key)
		if len(disgruntled) < minDisgruntled {
			if existing != nil {
				existing.UpdateSeverity(0.1, in.Tick)
			}
			continue
		}

		severity := clamp(float64(len(disgruntled))/maxFloat(float64(len(members)), 1), 0.3, 0.9)
		if existing != nil {
			existing.UpdateSeverity(severity, in.Tick)
			continue
		}

		t := tr.Open(TypeFactionFracture, in.Tick, fmt.Sprintf("%s begins to crack", f.Name))
		t.Severity = severity
		t.Confidence = 0.8
		limit := len(disgruntled)
		if limit > 5 {
			limit = 5
		}
		for _, a := range disgruntled[:limit] {
			t.AddAgent(a.ID, "dissident", "deepening")
		}
		t.AddAgent(f.LeaderID, "authority_figure", "challenged")
		t.AddPredictedOutcome("faction_split", 0.3, "very_high")
		t.AddPredictedOutcome("mass_defection", 0.2, "very_high")
		t.AddPredictedOutcome("internal_reform", 0.3, "medium")
		t.AddNarrativeHook("The cracks begin to show")
	}
}

// DetectForbiddenAlliance flags a pair of agents from different factions
// whose mutual trust has grown past what faction loyalty should allow.
// Ported from detect_forbidden_alliances.
func DetectForbiddenAlliance(tr *Tracker, in DetectorInputs) {
	const allianceThreshold = 0.3
	ids := sortedAgentIDs(in.AgentIndex)
	for i, aID := range ids {
		a := in.AgentIndex[aID]
		if a.FactionID == "" {
			continue
		}
		for _, bID := range ids[i+1:] {
			b := in.AgentIndex[bID]
			if b.FactionID == "" || b.FactionID == a.FactionID {
				continue
			}
			rel := in.Relationships.Get(a.ID, b.ID)
			if rel == nil || rel.Trust.Overall() <= allianceThreshold {
				continue
			}

			participants := []agents.AgentID{a.ID, b.ID}
			trust := rel.Trust.Overall()
			if t := tr.FindByParticipants(TypeForbiddenAlliance, participants); t != nil {
				t.UpdateSeverity(clamp(trust-allianceThreshold+0.3, 0.3, 0.8), in.Tick)
				continue
			}

			t := tr.Open(TypeForbiddenAlliance, in.Tick, fmt.Sprintf("%s and %s grow closer than their factions allow", a.Name, b.Name))
			t.Severity = 0.4
			t.Confidence = 0.7
			t.AddAgent(a.ID, "ally", "committed")
			t.AddAgent(b.ID, "ally", "committed")
			t.AddPredictedOutcome("secret_cooperation", 0.5, "medium")
			t.AddPredictedOutcome("exposed_and_punished", 0.3, "high")
			t.AddPredictedOutcome("defection_together", 0.2, "very_high")
			t.AddNarrativeHook("Loyalty divided")
		}
	}
}

// DetectRevengeArc flags an agent actively pursuing a revenge goal against a
// named target. Ported from detect_revenge_arcs.
func DetectRevengeArc(tr *Tracker, in DetectorInputs) {
	for _, id := range sortedAgentIDs(in.AgentIndex) {
		a := in.AgentIndex[id]
		goal, ok := a.Goals.Get(agents.GoalRevenge)
		if !ok || goal.Target == "" {
			continue
		}

		severity := clamp(goal.Priority*a.Traits.GrudgePersistence, 0.4, 0.9)
		participants := []agents.AgentID{a.ID, goal.Target}
		if t := tr.FindByParticipants(TypeRevengeArc, participants); t != nil {
			t.UpdateSeverity(severity, in.Tick)
			continue
		}

		t := tr.Open(TypeRevengeArc, in.Tick, fmt.Sprintf("%s has not forgiven", a.Name))
		t.Severity = severity
		t.Confidence = 0.9
		t.AddAgent(a.ID, "avenger", "hunting")
		t.AddAgent(goal.Target, "target", "unaware")
		t.AddTriggerEvent(goal.OriginEvent)
		t.AddPredictedOutcome("confrontation", 0.5, "high")
		t.AddPredictedOutcome("sabotage", 0.3, "medium")
		t.AddPredictedOutcome("forgiveness", 0.1, "medium")
		t.AddNarrativeHook("Vengeance is a patient hunter")
	}
}

// DetectRisingPower flags an ambitious agent actively challenging their
// leader, a climb to power in progress. Ported from detect_rising_power;
// the original never reinforces an existing tension here, only ever opens
// one, so a later sweep that no longer finds the predicate true leaves the
// tension to cool on its own via the dormancy sweep in RunAll.
func DetectRisingPower(tr *Tracker, in DetectorInputs) {
	for _, id := range sortedAgentIDs(in.AgentIndex) {
		a := in.AgentIndex[id]
		if a.Traits.Ambition <= 0.7 || !a.Goals.HasGoal(agents.GoalChallengeLeader) {
			continue
		}
		participants := []agents.AgentID{a.ID}
		if tr.FindByParticipants(TypeRisingPower, participants) != nil {
			continue
		}

		t := tr.Open(TypeRisingPower, in.Tick, fmt.Sprintf("%s eyes the seat of power", a.Name))
		t.Severity = 0.5 + (a.Traits.Ambition - 0.5)
		t.Confidence = 0.6
		t.AddAgent(a.ID, "aspirant", "ascending")
		t.AddPredictedOutcome("successful_challenge", 0.3, "very_high")
		t.AddPredictedOutcome("blocked_by_incumbent", 0.4, "medium")
		t.AddPredictedOutcome("faction_split", 0.2, "very_high")
		t.AddNarrativeHook("The climb to power begins")
	}
}

// DetectSecretExposed flags a secret memory whose source chain is known,
// meaning the secret has already started to travel. Ported from
// detect_secret_exposed; like the original, only ever opens a tension
// rather than reinforcing one, and opens none for a subject that already
// has an active secret_exposed tension.
func DetectSecretExposed(tr *Tracker, in DetectorInputs) {
	for _, id := range sortedAgentIDs(in.AgentIndex) {
		for _, m := range in.Memories.Memories(id) {
			if !m.IsSecret || len(m.SourceChain) == 0 {
				continue
			}
			participants := []agents.AgentID{m.Subject}
			if tr.FindByParticipants(TypeSecretExposed, participants) != nil {
				continue
			}

			t := tr.Open(TypeSecretExposed, in.Tick, fmt.Sprintf("a secret about %s is spreading", m.Subject))
			t.Severity = 0.6
			t.Confidence = 0.8
			t.AddAgent(m.Subject, "exposed", "vulnerable")
			if revealer := m.SourceChain[len(m.SourceChain)-1]; revealer != "" {
				t.AddAgent(revealer, "revealer", "active")
			}
			t.AddPredictedOutcome("reputation_damage", 0.5, "medium")
			t.AddPredictedOutcome("retaliation", 0.3, "high")
			t.AddPredictedOutcome("confession", 0.2, "medium")
			t.AddNarrativeHook("Secrets have a way of surfacing")
		}
	}
}

// DetectExternalThreat flags every named entry in in.ActiveThreats. Ported
// from detect_external_threat; nothing in this codebase populates
// ActiveThreats yet, so this detector exists and is exercisable by tests
// but has nothing to report in a normal run until a threat-generation
// subsystem starts writing to it.
func DetectExternalThreat(tr *Tracker, in DetectorInputs) {
	threats := append([]string(nil), in.ActiveThreats...)
	sort.Strings(threats)
	for _, threat := range threats {
		key := []agents.AgentID{agents.AgentID("threat:" + threat)}
		if tr.FindByParticipants(TypeExternalThreat, key) != nil {
			continue
		}

		t := tr.Open(TypeExternalThreat, in.Tick, fmt.Sprintf("%s gathers on the horizon", threat))
		t.Severity = 0.7
		t.Confidence = 1.0
		t.KeyAgents = append(t.KeyAgents, TensionAgent{AgentID: key[0], RoleInTension: "threat", Trajectory: "approaching"})
		t.AddPredictedOutcome("unified_response", 0.4, "medium")
		t.AddPredictedOutcome("exploitation_by_faction", 0.3, "high")
		t.AddPredictedOutcome("casualties", 0.3, "very_high")
		t.AddNarrativeHook("External forces gather")
	}
}

// DetectRitualDisruption flags a faction whose next scheduled ritual is
// about to run into trouble: no reader assigned, an archive with nothing
// to recite, or a reader the faction no longer trusts. Has no counterpart
// in the original detector module; grounded instead on engine/seasons.go's
// runRitual, which checks exactly these conditions when a ritual actually
// fires.
func DetectRitualDisruption(tr *Tracker, in DetectorInputs) {
	for _, f := range in.Factions.All() {
		var reasons []string
		var readerID agents.AgentID

		if f.ReaderID == "" {
			reasons = append(reasons, "no reader has been named")
		} else if reader := in.AgentIndex[f.ReaderID]; reader == nil || !reader.Alive {
			reasons = append(reasons, "the named reader is gone")
		} else {
			readerID = f.ReaderID
			if f.LeaderID != "" && f.LeaderID != reader.ID {
				if rel := in.Relationships.Get(reader.ID, f.LeaderID); rel != nil && rel.Trust.Overall() < 0 {
					reasons = append(reasons, "the reader no longer trusts their leader")
				}
			}
		}
		if len(f.Archive.Entries) == 0 {
			reasons = append(reasons, "the archive holds nothing to recite")
		}

		key := []agents.AgentID{agents.AgentID("faction:" + f.ID)}
		existing := tr.FindByParticipants(TypeRitualDisruption, key)
		if len(reasons) == 0 {
			if existing != nil {
				existing.UpdateSeverity(0.05, in.Tick)
			}
			continue
		}

		severity := clamp(0.3+0.2*float64(len(reasons)), 0.3, 0.8)
		if existing != nil {
			existing.UpdateSeverity(severity, in.Tick)
			continue
		}

		t := tr.Open(TypeRitualDisruption, in.Tick, fmt.Sprintf("%s's next ritual is in jeopardy: %s", f.Name, strings.Join(reasons, "; ")))
		t.Severity = severity
		t.Confidence = 0.6
		t.KeyAgents = append(t.KeyAgents, TensionAgent{AgentID: key[0], RoleInTension: "faction", Trajectory: "unsettled"})
		if readerID != "" {
			t.AddAgent(readerID, "reader", "uncertain")
		}
		if f.HQLocation != "" {
			t.AddLocation(f.HQLocation)
		}
		t.AddPredictedOutcome("ritual_postponed", 0.4, "low")
		t.AddPredictedOutcome("ritual_falters_publicly", 0.3, "medium")
		t.AddPredictedOutcome("archive_entry_recovered", 0.2, "low")
		t.AddNarrativeHook("The old rites falter")
	}
}

// dormancyWindowTicks is how long a tension can go without its predicate
// reasserting itself before RunAll marks it Dormant rather than leaving it
// stranded in whatever status it last held.
const dormancyWindowTicks = 400

// retainAfterInactiveTicks is how long a Resolved or Dormant tension stays
// in the tracker before RunAll prunes it.
const retainAfterInactiveTicks = 5000

// RunAll executes every detector in a fixed order, sweeps for tensions that
// have gone quiet, then prunes long-inactive ones.
func RunAll(tr *Tracker, in DetectorInputs) {
	DetectBrewingBetrayal(tr, in)
	DetectSuccessionCrisis(tr, in)
	DetectResourceConflict(tr, in)
	DetectFactionFracture(tr, in)
	DetectForbiddenAlliance(tr, in)
	DetectRevengeArc(tr, in)
	DetectRisingPower(tr, in)
	DetectSecretExposed(tr, in)
	DetectExternalThreat(tr, in)
	DetectRitualDisruption(tr, in)

	for _, t := range tr.Active() {
		t.MarkDormantIfStale(in.Tick, dormancyWindowTicks)
	}
	tr.Prune(in.Tick, retainAfterInactiveTicks)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
