// Package events defines the immutable, append-only event schema that
// every subsystem emits into. Grounded directly on
// original_source/crates/sim-events/src/event.rs.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/world"
)

// Type enumerates the event categories. This is a strict superset of the
// original Rust enum: "learning" and "cultural_conflict" are additions
// this expansion carries from spec.md's data model.
type Type string

const (
	TypeMovement         Type = "movement"
	TypeCommunication    Type = "communication"
	TypeBetrayal         Type = "betrayal"
	TypeLoyalty          Type = "loyalty"
	TypeConflict         Type = "conflict"
	TypeCooperation      Type = "cooperation"
	TypeFaction          Type = "faction"
	TypeArchive          Type = "archive"
	TypeRitual           Type = "ritual"
	TypeResource         Type = "resource"
	TypeDeath            Type = "death"
	TypeBirth            Type = "birth"
	TypeLearning         Type = "learning"
	TypeCulturalConflict Type = "cultural_conflict"
	TypeIntervention     Type = "intervention"
)

// ActorSnapshot captures an actor's state at the moment of the event so the
// event is self-contained and needs no external lookup to interpret.
type ActorSnapshot struct {
	AgentID  agents.AgentID   `json:"agent_id"`
	Name     string           `json:"name"`
	Faction  string           `json:"faction,omitempty"`
	Role     string           `json:"role,omitempty"`
	Location world.LocationID `json:"location,omitempty"`
}

// AffectedActor is a secondary party touched by the event but not driving it.
type AffectedActor struct {
	AgentID              agents.AgentID `json:"agent_id"`
	Name                 string         `json:"name"`
	Faction              string         `json:"faction,omitempty"`
	Role                 string         `json:"role,omitempty"`
	RelationshipToPrimary string        `json:"relationship_to_primary,omitempty"`
	Attended             *bool          `json:"attended,omitempty"`
	Reason               string         `json:"reason,omitempty"`
}

// ActorSet names every party involved in an event.
type ActorSet struct {
	Primary   ActorSnapshot    `json:"primary"`
	Secondary *ActorSnapshot   `json:"secondary,omitempty"`
	Affected  []AffectedActor  `json:"affected,omitempty"`
}

// AllAgentIDs returns every agent named anywhere in the actor set.
func (a ActorSet) AllAgentIDs() []agents.AgentID {
	out := []agents.AgentID{a.Primary.AgentID}
	if a.Secondary != nil {
		out = append(out, a.Secondary.AgentID)
	}
	for _, aff := range a.Affected {
		out = append(out, aff.AgentID)
	}
	return out
}

// InvolvesAgent reports whether id appears anywhere in the actor set.
func (a ActorSet) InvolvesAgent(id agents.AgentID) bool {
	for _, existing := range a.AllAgentIDs() {
		if existing == id {
			return true
		}
	}
	return false
}

// Context is the human-readable why behind an event.
type Context struct {
	Trigger             string   `json:"trigger"`
	Preconditions       []string `json:"preconditions,omitempty"`
	LocationDescription string   `json:"location_description,omitempty"`
}

// MemorySharedInfo describes a memory transferred by a communication event.
type MemorySharedInfo struct {
	OriginalEvent string  `json:"original_event,omitempty"`
	Content       string  `json:"content"`
	SourceChain   []agents.AgentID `json:"source_chain,omitempty"`
	Fidelity      float64 `json:"fidelity"`
}

// TrustImpact records a trust-dimension shift applied as a side effect.
type TrustImpact struct {
	Toward    agents.AgentID `json:"toward"`
	Dimension string         `json:"dimension"`
	Delta     float64        `json:"delta"`
	Reason    string         `json:"reason"`
}

// RecipientStateChange is the listener-side effect of a communication event.
type RecipientStateChange struct {
	NewMemoryAdded bool         `json:"new_memory_added"`
	TrustImpact    *TrustImpact `json:"trust_impact,omitempty"`
}

// CommunicationOutcome is the outcome shape for communication events.
type CommunicationOutcome struct {
	MemoryShared         *MemorySharedInfo      `json:"memory_shared,omitempty"`
	RecipientStateChange *RecipientStateChange  `json:"recipient_state_change,omitempty"`
}

// MovementOutcome is the outcome shape for movement events.
type MovementOutcome struct {
	NewLocation          world.LocationID `json:"new_location"`
	TravelDurationTicks  uint64           `json:"travel_duration_ticks,omitempty"`
}

// RelationshipChange records one directed trust-dimension change.
type RelationshipChange struct {
	From      agents.AgentID `json:"from"`
	To        agents.AgentID `json:"to"`
	Dimension string         `json:"dimension"`
	OldValue  float64        `json:"old_value"`
	NewValue  float64        `json:"new_value"`
}

// RelationshipOutcome is the outcome shape for betrayal/loyalty/conflict/cooperation events.
type RelationshipOutcome struct {
	RelationshipChanges []RelationshipChange `json:"relationship_changes,omitempty"`
	StateChanges        []string             `json:"state_changes,omitempty"`
}

// ArchiveOutcome is the outcome shape for archive write/read/destroy/forge events.
type ArchiveOutcome struct {
	EntryID     string         `json:"entry_id,omitempty"`
	Content     string         `json:"content,omitempty"`
	Subject     agents.AgentID `json:"subject,omitempty"`
	IsAuthentic bool           `json:"is_authentic"`
}

// RitualOutcome is the outcome shape for ritual events.
type RitualOutcome struct {
	EntriesRead          []string          `json:"entries_read,omitempty"`
	EntriesSkipped       []string          `json:"entries_skipped,omitempty"`
	MemoryReinforcement  map[string]string `json:"memory_reinforcement,omitempty"`
}

// GeneralOutcome is the fallback outcome shape for everything else.
type GeneralOutcome struct {
	Description  string   `json:"description,omitempty"`
	StateChanges []string `json:"state_changes,omitempty"`
}

// Outcome is a tagged union over the type-specific outcome shapes. Exactly
// one field is populated, matching the reference's untagged enum; Go has
// no algebraic sum types, so this is modeled as a struct of optional
// pointers switched on by the event's Type.
type Outcome struct {
	Movement      *MovementOutcome      `json:"movement,omitempty"`
	Communication *CommunicationOutcome `json:"communication,omitempty"`
	Relationship  *RelationshipOutcome  `json:"relationship,omitempty"`
	Archive       *ArchiveOutcome       `json:"archive,omitempty"`
	Ritual        *RitualOutcome        `json:"ritual,omitempty"`
	General       *GeneralOutcome       `json:"general,omitempty"`
}

// Event is an immutable append-only record.
type Event struct {
	EventID         string   `json:"event_id"`
	Timestamp       world.Timestamp `json:"timestamp"`
	EventType       Type     `json:"event_type"`
	Subtype         string   `json:"subtype"`
	Actors          ActorSet `json:"actors"`
	Context         Context  `json:"context"`
	Outcome         Outcome  `json:"outcome"`
	DramaTags       []string `json:"drama_tags,omitempty"`
	DramaScore      float64  `json:"drama_score"`
	ConnectedEvents []string `json:"connected_events,omitempty"`
}

// InvolvesAgent reports whether id is any actor in the event.
func (e Event) InvolvesAgent(id agents.AgentID) bool { return e.Actors.InvolvesAgent(id) }

// InvolvesFaction reports whether faction appears as the primary or
// secondary actor's faction.
func (e Event) InvolvesFaction(faction string) bool {
	if e.Actors.Primary.Faction == faction {
		return true
	}
	if e.Actors.Secondary != nil && e.Actors.Secondary.Faction == faction {
		return true
	}
	return false
}

// IsHighDrama reports whether the event's drama score exceeds the
// highlight-reel threshold.
func (e Event) IsHighDrama() bool { return e.DramaScore > 0.7 }

// WithDrama returns a copy of e with drama tags and score set.
func (e Event) WithDrama(tags []string, score float64) Event {
	e.DramaTags = tags
	e.DramaScore = score
	return e
}

// WithConnectedEvents returns a copy of e linking it to other causally
// related event IDs.
func (e Event) WithConnectedEvents(ids ...string) Event {
	e.ConnectedEvents = append(append([]string(nil), e.ConnectedEvents...), ids...)
	return e
}

// ToJSONL serializes the event as a single JSON line, no trailing newline.
func (e Event) ToJSONL() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSONL parses a single JSON line back into an Event.
func FromJSONL(line []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(line, &e); err != nil {
		return Event{}, fmt.Errorf("events: parse jsonl line: %w", err)
	}
	return e, nil
}

// GenerateID mints a zero-padded, sequential event ID from a counter — a
// human-diffable JSONL log benefits from sequential, not random, IDs.
func GenerateID(sequence uint64) string {
	return fmt.Sprintf("evt_%08d", sequence)
}

// Builder assembles an Event fluently, returning an error from Build
// instead of panicking on a missing required field (Go idiom: no panics on
// expected failures where the reference implementation's builder panics).
type Builder struct {
	event Event
	err   error
}

// NewBuilder starts a builder for the given ID, timestamp, and type.
func NewBuilder(id string, ts world.Timestamp, typ Type) *Builder {
	return &Builder{event: Event{EventID: id, Timestamp: ts, EventType: typ}}
}

// Subtype sets the event's subtype string.
func (b *Builder) Subtype(s string) *Builder { b.event.Subtype = s; return b }

// Primary sets the required primary actor.
func (b *Builder) Primary(a ActorSnapshot) *Builder { b.event.Actors.Primary = a; return b }

// Secondary sets the optional secondary actor.
func (b *Builder) Secondary(a ActorSnapshot) *Builder { b.event.Actors.Secondary = &a; return b }

// Affected appends an affected actor.
func (b *Builder) Affected(a AffectedActor) *Builder {
	b.event.Actors.Affected = append(b.event.Actors.Affected, a)
	return b
}

// WithContext sets the event's context.
func (b *Builder) WithContext(c Context) *Builder { b.event.Context = c; return b }

// WithOutcome sets the event's outcome.
func (b *Builder) WithOutcome(o Outcome) *Builder { b.event.Outcome = o; return b }

// DramaTags sets the free-form drama tags.
func (b *Builder) DramaTags(tags ...string) *Builder { b.event.DramaTags = tags; return b }

// DramaScore sets the drama score.
func (b *Builder) DramaScore(s float64) *Builder { b.event.DramaScore = s; return b }

// Build validates required fields and returns the assembled event.
func (b *Builder) Build() (Event, error) {
	if b.err != nil {
		return Event{}, b.err
	}
	if b.event.EventID == "" {
		return Event{}, fmt.Errorf("events: builder: missing event id")
	}
	if b.event.Actors.Primary.AgentID == "" && b.event.EventType != TypeIntervention {
		return Event{}, fmt.Errorf("events: builder: missing primary actor")
	}
	return b.event, nil
}
