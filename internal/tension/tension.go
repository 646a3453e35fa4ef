// Package tension tracks brewing conflicts the director surfaces to
// observers before they resolve into events. Grounded on
// original_source/crates/sim-core/src/output/tension.rs's Tension/
// TensionStream model and systems/tension.rs's detectors, widened to the
// seven-state status vocabulary and the full key-agent/predicted-outcome
// data model this simulation's wire format documents.
package tension

import (
	"fmt"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/world"
)

// Type enumerates the kinds of brewing conflict a detector can surface.
type Type string

const (
	TypeBrewingBetrayal   Type = "brewing_betrayal"
	TypeSuccessionCrisis  Type = "succession_crisis"
	TypeResourceConflict  Type = "resource_conflict"
	TypeForbiddenAlliance Type = "forbidden_alliance"
	TypeRevengeArc        Type = "revenge_arc"
	TypeRisingPower       Type = "rising_power"
	TypeFactionFracture   Type = "faction_fracture"
	TypeSecretExposed     Type = "secret_exposed"
	TypeExternalThreat    Type = "external_threat"
	TypeRitualDisruption  Type = "ritual_disruption"
)

// Status is the tension's lifecycle stage. Wider than the reference
// implementation's four-tier Developing/Escalating/Critical/DeEscalating
// ladder: Climax distinguishes a tension at its peak from one merely
// critical, Resolving replaces DeEscalating, and Dormant distinguishes a
// tension whose predicate has gone quiet from one that actually resolved.
type Status string

const (
	StatusEmerging   Status = "emerging"
	StatusEscalating Status = "escalating"
	StatusCritical   Status = "critical"
	StatusClimax     Status = "climax"
	StatusResolving  Status = "resolving"
	StatusResolved   Status = "resolved"
	StatusDormant    Status = "dormant"
)

// TensionAgent records one agent's involvement in a tension: the part they
// play and which way that role is trending.
type TensionAgent struct {
	AgentID      agents.AgentID `json:"agent_id"`
	RoleInTension string        `json:"role_in_tension"`
	Trajectory   string         `json:"trajectory"`
}

// PredictedOutcome is one way a tension might resolve, as a detector's
// best guess at the moment it fires.
type PredictedOutcome struct {
	Outcome             string   `json:"outcome"`
	Probability         float64  `json:"probability"`
	Impact              string   `json:"impact"`
	EstimatedTicksUntil *uint64  `json:"estimated_ticks_until,omitempty"`
}

// CameraFocus is a tension's own recommendation for where a camera script
// should point, stored alongside the tension so a late reader of
// tensions.json can see what the detector that raised it thought mattered.
// Distinct from director.RecommendedCameraFocus, which is a runtime
// scoring output computed fresh every tick from whichever tension currently
// holds focus, not a field persisted on the tension itself.
type CameraFocus struct {
	Primary             agents.AgentID   `json:"primary"`
	Secondary           []agents.AgentID `json:"secondary,omitempty"`
	LocationsOfInterest []world.LocationID `json:"locations_of_interest,omitempty"`
}

// Tension is one tracked brewing conflict.
type Tension struct {
	ID          string  `json:"id"`
	Type        Type    `json:"tension_type"`
	Status      Status  `json:"status"`
	Severity    float64 `json:"severity"`
	Confidence  float64 `json:"confidence"`
	Summary     string  `json:"summary"`

	KeyAgents    []TensionAgent     `json:"key_agents"`
	KeyLocations []world.LocationID `json:"key_locations,omitempty"`

	TriggerEvents []string `json:"trigger_events,omitempty"`

	PredictedOutcomes []PredictedOutcome `json:"predicted_outcomes,omitempty"`
	NarrativeHooks    []string           `json:"narrative_hooks,omitempty"`

	RecommendedCameraFocus *CameraFocus `json:"recommended_camera_focus,omitempty"`
	ConnectedTensions      []string     `json:"connected_tensions,omitempty"`

	DetectedAtTick  uint64 `json:"detected_at_tick"`
	LastUpdatedTick uint64 `json:"last_updated_tick"`
}

// newTension creates a tension at its default severity and status, mirroring
// Tension::new's Developing/0.3 starting point (ported here as
// Emerging/0.3).
func newTension(id string, typ Type, tick uint64, summary string) *Tension {
	return &Tension{
		ID:              id,
		Type:            typ,
		Status:          StatusEmerging,
		Severity:        0.3,
		Confidence:      0.5,
		Summary:         summary,
		DetectedAtTick:  tick,
		LastUpdatedTick: tick,
	}
}

// Involves reports whether id plays any role in this tension.
func (t *Tension) Involves(id agents.AgentID) bool {
	for _, ka := range t.KeyAgents {
		if ka.AgentID == id {
			return true
		}
	}
	return false
}

// AddAgent records id's role and trajectory, replacing any existing entry
// for the same agent.
func (t *Tension) AddAgent(id agents.AgentID, role, trajectory string) {
	for i := range t.KeyAgents {
		if t.KeyAgents[i].AgentID == id {
			t.KeyAgents[i].RoleInTension = role
			t.KeyAgents[i].Trajectory = trajectory
			return
		}
	}
	t.KeyAgents = append(t.KeyAgents, TensionAgent{AgentID: id, RoleInTension: role, Trajectory: trajectory})
}

// AddLocation appends a location of interest if not already present.
func (t *Tension) AddLocation(id world.LocationID) {
	for _, l := range t.KeyLocations {
		if l == id {
			return
		}
	}
	t.KeyLocations = append(t.KeyLocations, id)
}

// AddTriggerEvent appends an originating event ID if not already present.
func (t *Tension) AddTriggerEvent(eventID string) {
	if eventID == "" {
		return
	}
	for _, e := range t.TriggerEvents {
		if e == eventID {
			return
		}
	}
	t.TriggerEvents = append(t.TriggerEvents, eventID)
}

// AddPredictedOutcome appends a possible resolution.
func (t *Tension) AddPredictedOutcome(outcome string, probability float64, impact string) {
	t.PredictedOutcomes = append(t.PredictedOutcomes, PredictedOutcome{
		Outcome:     outcome,
		Probability: probability,
		Impact:      impact,
	})
}

// AddNarrativeHook appends a narrative hook string if not already present.
func (t *Tension) AddNarrativeHook(hook string) {
	for _, h := range t.NarrativeHooks {
		if h == hook {
			return
		}
	}
	t.NarrativeHooks = append(t.NarrativeHooks, hook)
}

// UpdateSeverity sets severity and moves status forward or backward along
// the lifecycle, ported from Tension::update_severity and widened with a
// Climax tier above Critical and an explicit revival path back to Emerging
// for a tension that was Resolved or Dormant and has become relevant again.
// currentTick is recorded as LastUpdatedTick regardless of the transition
// taken.
func (t *Tension) UpdateSeverity(newSeverity float64, currentTick uint64) {
	old := t.Severity
	t.Severity = newSeverity
	t.LastUpdatedTick = currentTick

	switch {
	case newSeverity < 0.1:
		t.Status = StatusResolved
	case newSeverity >= 0.9:
		t.Status = StatusClimax
	case newSeverity >= 0.7:
		t.Status = StatusCritical
	case t.Status == StatusResolved || t.Status == StatusDormant || t.Status == "":
		t.Status = StatusEmerging
	case newSeverity > old+0.1:
		t.Status = StatusEscalating
	case newSeverity < old-0.1:
		t.Status = StatusResolving
	}
}

// MarkDormantIfStale transitions an active, non-Resolved tension to Dormant
// once its predicate has stopped reasserting itself for longer than
// staleAfter ticks. A tension that has already Resolved stays Resolved;
// the two are deliberately distinct terminal states.
func (t *Tension) MarkDormantIfStale(currentTick, staleAfter uint64) {
	if t.Status == StatusResolved || t.Status == StatusDormant {
		return
	}
	if currentTick-t.LastUpdatedTick > staleAfter {
		t.Status = StatusDormant
	}
}

// IsResolved reports whether this tension has fully concluded.
func (t *Tension) IsResolved() bool {
	return t.Status == StatusResolved
}

// IsInactive reports whether this tension no longer needs director
// attention, whether because it resolved or because it has gone quiet.
func (t *Tension) IsInactive() bool {
	return t.Status == StatusResolved || t.Status == StatusDormant
}

// Tracker owns every tension in flight, keyed by ID.
type Tracker struct {
	byID   map[string]*Tension
	nextID uint64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker { return &Tracker{byID: make(map[string]*Tension), nextID: 1} }

// Open mints a fresh tension and stores it, returning the new record.
func (tr *Tracker) Open(typ Type, tick uint64, summary string) *Tension {
	id := fmt.Sprintf("tens_%08d", tr.nextID)
	tr.nextID++
	t := newTension(id, typ, tick, summary)
	tr.byID[id] = t
	return t
}

// Get retrieves a tension by ID.
func (tr *Tracker) Get(id string) *Tension { return tr.byID[id] }

// Restore repopulates the tracker from a snapshot's tension list, resuming
// nextID one past the highest numeric suffix seen so freshly opened
// tensions never collide with a restored one.
func (tr *Tracker) Restore(tensions []*Tension) {
	for _, t := range tensions {
		tr.byID[t.ID] = t
		var n uint64
		if _, err := fmt.Sscanf(t.ID, "tens_%d", &n); err == nil && n >= tr.nextID {
			tr.nextID = n + 1
		}
	}
}

// All returns every tension, sorted by ID for deterministic iteration.
func (tr *Tracker) All() []*Tension {
	out := make([]*Tension, 0, len(tr.byID))
	for _, t := range tr.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Active returns every tension that hasn't resolved or gone dormant.
func (tr *Tracker) Active() []*Tension {
	var out []*Tension
	for _, t := range tr.All() {
		if !t.IsInactive() {
			out = append(out, t)
		}
	}
	return out
}

// FindByParticipants returns the first active tension of the given type
// sharing at least one key agent with the candidate set, allowing detectors
// to reinforce an existing tension instead of duplicating it.
func (tr *Tracker) FindByParticipants(typ Type, participants []agents.AgentID) *Tension {
	for _, t := range tr.Active() {
		if t.Type != typ {
			continue
		}
		for _, p := range participants {
			if t.Involves(p) {
				return t
			}
		}
	}
	return nil
}

// Prune removes every tension that has been Resolved or Dormant for longer
// than retainTicks, keeping the tracker from growing unbounded over a long
// run.
func (tr *Tracker) Prune(currentTick, retainTicks uint64) {
	for id, t := range tr.byID {
		if t.IsInactive() && currentTick-t.LastUpdatedTick > retainTicks {
			delete(tr.byID, id)
		}
	}
}
