// Package intervention applies externally supplied JSON documents that
// mutate simulation state at a tick boundary. Grounded on
// original_source/crates/sim-core/src/interventions/mod.rs and the
// teacher's own JSON-injection pattern (internal/engine/intervention.go,
// pre-rewrite). The original enum has six variants and no trigger_event;
// that variant and its promise/betrayal semantics are this simulation's
// own addition, needed to drive the scenario fixtures in §8.
package intervention

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/crossroads/internal/action"
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

// Type enumerates the nine intervention variants a JSON document may name.
type Type string

const (
	TypeModifyAgent        Type = "modify_agent"
	TypeModifyRelationship Type = "modify_relationship"
	TypeMoveAgent          Type = "move_agent"
	TypeChangeFaction      Type = "change_faction"
	TypeAddGoal            Type = "add_goal"
	TypeModifyFaction      Type = "modify_faction"
	TypeSpawnAgent         Type = "spawn_agent"
	TypeKillAgent          Type = "kill_agent"
	TypeTriggerEvent       Type = "trigger_event"
)

// Payload is the raw, still-untyped body of one intervention document.
type Payload struct {
	ID           string          `json:"id"`
	Reason       string          `json:"reason,omitempty"`
	Intervention json.RawMessage `json:"intervention"`
}

// interventionEnvelope peeks at just the type discriminator.
type interventionEnvelope struct {
	Type Type `json:"type"`
}

// ModifyAgent overwrites named fields of an existing agent's needs/traits.
type ModifyAgent struct {
	AgentID agents.AgentID `json:"agent_id"`
	Field   string         `json:"field"`
	Value   float64        `json:"value"`
}

// ModifyRelationship overwrites one trust dimension of a directed edge.
type ModifyRelationship struct {
	From      agents.AgentID `json:"from"`
	To        agents.AgentID `json:"to"`
	Dimension string         `json:"dimension"`
	Value     float64        `json:"value"`
}

// MoveAgent teleports an agent to a named location outside the normal
// travel pipeline.
type MoveAgent struct {
	AgentID  agents.AgentID   `json:"agent_id"`
	Location world.LocationID `json:"location"`
}

// ChangeFaction reassigns an agent's faction membership and role.
type ChangeFaction struct {
	AgentID   agents.AgentID `json:"agent_id"`
	FactionID string         `json:"faction_id"`
	Role      string         `json:"role,omitempty"`
}

// AddGoal injects a prioritized goal onto an agent.
type AddGoal struct {
	AgentID   agents.AgentID `json:"agent_id"`
	GoalType  string         `json:"goal_type"`
	Priority  float64        `json:"priority"`
	Target    agents.AgentID `json:"target,omitempty"`
	ExpiresAt uint64         `json:"expires_at,omitempty"`
}

// ModifyFaction overwrites a faction resource or leadership field.
type ModifyFaction struct {
	FactionID string  `json:"faction_id"`
	Field     string  `json:"field"`
	Value     float64 `json:"value,omitempty"`
	AgentID   agents.AgentID `json:"agent_id,omitempty"`
}

// SpawnAgent creates a new agent at a location, optionally in a faction.
type SpawnAgent struct {
	Location  world.LocationID `json:"location"`
	FactionID string           `json:"faction_id,omitempty"`
	Role      string           `json:"role,omitempty"`
}

// KillAgent marks an agent dead outside the conflict pipeline.
type KillAgent struct {
	AgentID agents.AgentID `json:"agent_id"`
	Cause   string         `json:"cause,omitempty"`
}

// TriggerEvent injects a synthetic domain event, most commonly used by test
// scenarios to seed a promise/betrayal pair without waiting for the action
// pipeline to produce one organically. EventType selects how Detail is
// parsed: "promise", "promise_break", or "betrayal".
type TriggerEvent struct {
	EventType string          `json:"event_type"`
	Detail    json.RawMessage `json:"detail,omitempty"`
}

// PromiseDetail is the Detail payload for a trigger_event whose event_type
// is "promise" or "promise_break".
type PromiseDetail struct {
	Promiser agents.AgentID `json:"promiser"`
	Promisee agents.AgentID `json:"promisee"`
	Task     string         `json:"task,omitempty"`
}

// BetrayalDetail is the Detail payload for a trigger_event whose event_type
// is "betrayal".
type BetrayalDetail struct {
	Betrayer agents.AgentID `json:"betrayer"`
	Betrayed agents.AgentID `json:"betrayed"`
	Reason   string         `json:"reason,omitempty"`
}

// Decoded is a Payload with its type-specific body parsed.
type Decoded struct {
	Payload
	Type Type
	Body any
}

// roleFromString maps a role name string used in intervention payloads to
// the agents.Role enum, defaulting to Laborer on an unrecognized name.
func roleFromString(s string) agents.Role {
	switch s {
	case "newcomer":
		return agents.RoleNewcomer
	case "skilled_worker":
		return agents.RoleSkilledWorker
	case "specialist":
		return agents.RoleSpecialist
	case "scout_captain":
		return agents.RoleScoutCaptain
	case "healer":
		return agents.RoleHealer
	case "smith":
		return agents.RoleSmith
	case "council":
		return agents.RoleCouncilMember
	case "reader":
		return agents.RoleReader
	case "leader":
		return agents.RoleLeader
	case "exile":
		return agents.RoleExile
	default:
		return agents.RoleLaborer
	}
}

// Decode validates a raw payload against the schema and returns its
// type-specific body. An unknown type or malformed body is a validation
// error, matching the "unknown types rejected" rule.
func Decode(raw []byte) (Decoded, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Decoded{}, fmt.Errorf("intervention: parse envelope: %w", err)
	}
	if p.ID == "" {
		return Decoded{}, fmt.Errorf("intervention: missing id")
	}
	if len(p.Intervention) == 0 {
		return Decoded{}, fmt.Errorf("intervention: missing intervention body")
	}

	var env interventionEnvelope
	if err := json.Unmarshal(p.Intervention, &env); err != nil {
		return Decoded{}, fmt.Errorf("intervention: parse type: %w", err)
	}

	var body any
	switch env.Type {
	case TypeModifyAgent:
		body = &ModifyAgent{}
	case TypeModifyRelationship:
		body = &ModifyRelationship{}
	case TypeMoveAgent:
		body = &MoveAgent{}
	case TypeChangeFaction:
		body = &ChangeFaction{}
	case TypeAddGoal:
		body = &AddGoal{}
	case TypeModifyFaction:
		body = &ModifyFaction{}
	case TypeSpawnAgent:
		body = &SpawnAgent{}
	case TypeKillAgent:
		body = &KillAgent{}
	case TypeTriggerEvent:
		body = &TriggerEvent{}
	default:
		return Decoded{}, fmt.Errorf("intervention: unknown type %q", env.Type)
	}
	if err := json.Unmarshal(p.Intervention, body); err != nil {
		return Decoded{}, fmt.Errorf("intervention: parse body for %q: %w", env.Type, err)
	}
	return Decoded{Payload: p, Type: env.Type, Body: body}, nil
}

// World is the subset of simulation state Apply needs, kept narrow so the
// intervention package does not depend on the engine package.
type World struct {
	AgentIndex    map[agents.AgentID]*agents.Agent
	Relationships *social.RelationshipGraph
	Factions      *social.Registry
	Locations     *world.Registry
	Spawner       *agents.Spawner
	Memories      *social.MemoryBank
	TrustQueue    *action.TrustEventQueue
}

// DomainEvent describes a concrete simulation event that an intervention's
// consequences justify emitting, in place of the generic intervention
// wrapper every other intervention type produces. The caller resolves
// PrimaryID/AffectedIDs into actor snapshots itself, matching how every
// other event-emitting site in the engine package builds its actors.
type DomainEvent struct {
	Type        events.Type
	Subtype     string
	PrimaryID   agents.AgentID
	AffectedIDs []agents.AgentID
	Description string
}

// Result is what Apply returns on success: a human-readable summary for the
// generic intervention wrapper event, plus an optional DomainEvent when the
// intervention's consequences are significant enough to deserve a real,
// typed event of their own.
type Result struct {
	Summary string
	Domain  *DomainEvent
}

// Apply mutates w according to d, returning a summary of what changed.
// Unresolvable references (agent/faction/location not found) are reported
// as errors rather than silently ignored, since an intervention names its
// own targets explicitly and a bad reference is an authoring mistake worth
// surfacing.
func Apply(w *World, d Decoded, tick uint64) (Result, error) {
	switch body := d.Body.(type) {
	case *ModifyAgent:
		a, ok := w.AgentIndex[body.AgentID]
		if !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", body.AgentID)
		}
		if err := applyAgentField(a, body.Field, body.Value); err != nil {
			return Result{}, err
		}
		return Result{Summary: fmt.Sprintf("set %s.%s = %v", body.AgentID, body.Field, body.Value)}, nil

	case *ModifyRelationship:
		if _, ok := w.AgentIndex[body.From]; !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", body.From)
		}
		if _, ok := w.AgentIndex[body.To]; !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", body.To)
		}
		rel := w.Relationships.Ensure(body.From, body.To)
		switch body.Dimension {
		case "reliability":
			rel.Trust.Reliability = body.Value
		case "alignment":
			rel.Trust.Alignment = body.Value
		case "capability":
			rel.Trust.Capability = body.Value
		default:
			return Result{}, fmt.Errorf("intervention: unknown trust dimension %q", body.Dimension)
		}
		return Result{Summary: fmt.Sprintf("set trust(%s->%s).%s = %v", body.From, body.To, body.Dimension, body.Value)}, nil

	case *MoveAgent:
		a, ok := w.AgentIndex[body.AgentID]
		if !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", body.AgentID)
		}
		if w.Locations.Get(body.Location) == nil {
			return Result{}, fmt.Errorf("intervention: unknown location %q", body.Location)
		}
		a.Location = body.Location
		return Result{Summary: fmt.Sprintf("moved %s to %s", body.AgentID, body.Location)}, nil

	case *ChangeFaction:
		a, ok := w.AgentIndex[body.AgentID]
		if !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", body.AgentID)
		}
		if body.FactionID != "" && w.Factions.Get(body.FactionID) == nil {
			return Result{}, fmt.Errorf("intervention: unknown faction %q", body.FactionID)
		}
		a.FactionID = body.FactionID
		if body.Role != "" {
			a.Role = roleFromString(body.Role)
		}
		return Result{Summary: fmt.Sprintf("moved %s to faction %s", body.AgentID, body.FactionID)}, nil

	case *AddGoal:
		a, ok := w.AgentIndex[body.AgentID]
		if !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", body.AgentID)
		}
		a.Goals.Add(agents.Goal{
			Type:      goalTypeFromString(body.GoalType),
			Priority:  body.Priority,
			Target:    body.Target,
			ExpiresAt: body.ExpiresAt,
		})
		return Result{Summary: fmt.Sprintf("added goal %s to %s", body.GoalType, body.AgentID)}, nil

	case *ModifyFaction:
		f := w.Factions.Get(body.FactionID)
		if f == nil {
			return Result{}, fmt.Errorf("intervention: unknown faction %q", body.FactionID)
		}
		if (body.Field == "leader_id" || body.Field == "reader_id") && body.AgentID != "" {
			if _, ok := w.AgentIndex[body.AgentID]; !ok {
				return Result{}, fmt.Errorf("intervention: unknown agent %q", body.AgentID)
			}
		}
		switch body.Field {
		case "grain":
			f.Resources.Grain = body.Value
		case "iron":
			f.Resources.Iron = body.Value
		case "salt":
			f.Resources.Salt = body.Value
		case "beer":
			f.Resources.Beer = body.Value
		case "leader_id":
			f.LeaderID = body.AgentID
		case "reader_id":
			f.ReaderID = body.AgentID
		default:
			return Result{}, fmt.Errorf("intervention: unknown faction field %q", body.Field)
		}
		return Result{Summary: fmt.Sprintf("set faction %s.%s", body.FactionID, body.Field)}, nil

	case *SpawnAgent:
		if w.Locations.Get(body.Location) == nil {
			return Result{}, fmt.Errorf("intervention: unknown location %q", body.Location)
		}
		if body.FactionID != "" && w.Factions.Get(body.FactionID) == nil {
			return Result{}, fmt.Errorf("intervention: unknown faction %q", body.FactionID)
		}
		newAgent := w.Spawner.SpawnOne(body.Location, body.FactionID, roleFromString(body.Role))
		for w.AgentIndex[newAgent.ID] != nil {
			newAgent = w.Spawner.SpawnOne(body.Location, body.FactionID, roleFromString(body.Role))
		}
		w.AgentIndex[newAgent.ID] = newAgent
		if f := w.Factions.Get(body.FactionID); f != nil {
			f.MemberCount++
		}
		return Result{Summary: fmt.Sprintf("spawned %s at %s", newAgent.ID, body.Location)}, nil

	case *KillAgent:
		a, ok := w.AgentIndex[body.AgentID]
		if !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", body.AgentID)
		}
		a.Alive = false
		if f := w.Factions.Get(a.FactionID); f != nil {
			f.MemberCount--
		}
		return Result{Summary: fmt.Sprintf("killed %s (%s)", body.AgentID, body.Cause)}, nil

	case *TriggerEvent:
		return applyTriggerEvent(w, body, tick)

	default:
		return Result{}, fmt.Errorf("intervention: unhandled body type %T", d.Body)
	}
}

// revengeGoalPriority and grudgeGoalMaxTicks mirror engine/tick.go's
// unexported constants of the same name and value; they are duplicated
// here rather than exported across packages because a triggered betrayal's
// revenge goal is seeded synchronously by Apply, not by draining the trust
// event queue the way an organic grudge is.
const (
	revengeGoalPriority = 0.6
	grudgeGoalMaxTicks  = 5000
)

// applyTriggerEvent parses body.Detail against the shape its EventType
// implies and applies the consequences a scenario expects from that
// event, rather than merely acknowledging that it happened.
func applyTriggerEvent(w *World, body *TriggerEvent, tick uint64) (Result, error) {
	switch body.EventType {
	case "promise":
		var detail PromiseDetail
		if err := json.Unmarshal(body.Detail, &detail); err != nil {
			return Result{}, fmt.Errorf("intervention: parse promise detail: %w", err)
		}
		if _, ok := w.AgentIndex[detail.Promiser]; !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", detail.Promiser)
		}
		if _, ok := w.AgentIndex[detail.Promisee]; !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", detail.Promisee)
		}
		content := fmt.Sprintf("%s promised to %s", detail.Promiser, detail.Task)
		w.Memories.Add(detail.Promiser, social.Memory{
			MemoryID: w.Memories.GenerateID(), Subject: detail.Promisee, Content: content,
			Fidelity: 1.0, EmotionalWeight: 0.2, TickCreated: tick, Valence: social.Neutral,
		})
		w.Memories.Add(detail.Promisee, social.Memory{
			MemoryID: w.Memories.GenerateID(), Subject: detail.Promiser, Content: content,
			Fidelity: 1.0, EmotionalWeight: 0.2, TickCreated: tick, Valence: social.Neutral,
		})
		return Result{Summary: fmt.Sprintf("recorded promise %s->%s (%s)", detail.Promiser, detail.Promisee, detail.Task)}, nil

	case "promise_break":
		var detail PromiseDetail
		if err := json.Unmarshal(body.Detail, &detail); err != nil {
			return Result{}, fmt.Errorf("intervention: parse promise_break detail: %w", err)
		}
		if _, ok := w.AgentIndex[detail.Promiser]; !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", detail.Promiser)
		}
		if _, ok := w.AgentIndex[detail.Promisee]; !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", detail.Promisee)
		}
		w.TrustQueue.Enqueue(action.TrustDelta{
			Source: detail.Promisee, Target: detail.Promiser,
			Dimension: "reliability", Delta: -0.15, Reason: "broken promise", Tick: tick,
		})
		return Result{
			Summary: fmt.Sprintf("broken promise %s->%s", detail.Promiser, detail.Promisee),
			Domain: &DomainEvent{
				Type: events.TypeLoyalty, Subtype: "broken_promise",
				PrimaryID: detail.Promiser, AffectedIDs: []agents.AgentID{detail.Promisee},
				Description: fmt.Sprintf("%s broke a promise (%s) to %s", detail.Promiser, detail.Task, detail.Promisee),
			},
		}, nil

	case "betrayal":
		var detail BetrayalDetail
		if err := json.Unmarshal(body.Detail, &detail); err != nil {
			return Result{}, fmt.Errorf("intervention: parse betrayal detail: %w", err)
		}
		if _, ok := w.AgentIndex[detail.Betrayer]; !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", detail.Betrayer)
		}
		betrayed, ok := w.AgentIndex[detail.Betrayed]
		if !ok {
			return Result{}, fmt.Errorf("intervention: unknown agent %q", detail.Betrayed)
		}
		reason := detail.Reason
		if reason == "" {
			reason = "betrayal"
		}
		// Betrayal is unconditional: unlike the generic trust-event queue's
		// threshold-crossing grudge check, a betrayal always collapses trust
		// and always seeds a revenge goal on the betrayed party.
		rel := w.Relationships.Ensure(detail.Betrayed, detail.Betrayer)
		rel.Trust.ApplyBetrayal()
		rel.LastInteractionTick = tick
		betrayed.Goals.Add(agents.Goal{
			Type:      agents.GoalRevenge,
			Priority:  revengeGoalPriority,
			Target:    detail.Betrayer,
			ExpiresAt: action.GrudgeGoalExpiry(tick, betrayed.Traits.GrudgePersistence, grudgeGoalMaxTicks),
		})
		return Result{
			Summary: fmt.Sprintf("betrayal %s->%s", detail.Betrayer, detail.Betrayed),
			Domain: &DomainEvent{
				Type: events.TypeBetrayal, Subtype: "triggered",
				PrimaryID: detail.Betrayer, AffectedIDs: []agents.AgentID{detail.Betrayed},
				Description: fmt.Sprintf("%s betrayed %s (%s)", detail.Betrayer, detail.Betrayed, reason),
			},
		}, nil

	default:
		return Result{}, fmt.Errorf("intervention: unknown trigger_event event_type %q", body.EventType)
	}
}

func applyAgentField(a *agents.Agent, field string, value float64) error {
	switch field {
	case "health":
		a.Physical.Health = value
	case "hunger":
		a.Physical.Hunger = value
	case "exhaustion":
		a.Physical.Exhaustion = value
	case "intoxication":
		a.Physical.Intoxication = value
	case "boldness":
		a.Traits.Boldness = value
	case "loyalty_weight":
		a.Traits.LoyaltyWeight = value
	case "ambition":
		a.Traits.Ambition = value
	case "honesty":
		a.Traits.Honesty = value
	case "sociability":
		a.Traits.Sociability = value
	default:
		return fmt.Errorf("intervention: unknown agent field %q", field)
	}
	return nil
}

func goalTypeFromString(s string) agents.GoalType {
	switch s {
	case "survive_winter":
		return agents.GoalSurviveWinter
	case "revenge":
		return agents.GoalRevenge
	case "rise_in_status":
		return agents.GoalRiseInStatus
	case "protect":
		return agents.GoalProtect
	case "accumulate_resources":
		return agents.GoalAccumulateResources
	case "build_relationship":
		return agents.GoalBuildRelationship
	case "defect":
		return agents.GoalDefect
	case "support_leader":
		return agents.GoalSupportLeader
	case "challenge_leader":
		return agents.GoalChallengeLeader
	default:
		return agents.GoalSurvive
	}
}
