// Package engine drives the tick loop that ties every subsystem together:
// interventions, calendar, perception, needs, memory decay, the action
// pipeline, rituals, archives, tension detection, and periodic snapshots.
// See design doc Sections 4.1 and 4.2.
package engine

import (
	"fmt"

	"github.com/talgya/crossroads/internal/action"
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/director"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/intervention"
	"github.com/talgya/crossroads/internal/prng"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/world"
)

// Simulation owns every piece of mutable world state and the subsystems
// that operate over it. Nothing in this struct is safe for concurrent
// access; the tick loop is single-threaded by design.
type Simulation struct {
	Tick uint64
	Seed int64

	Locations     *world.Registry
	AgentIndex    map[agents.AgentID]*agents.Agent
	Factions      *social.Registry
	Relationships *social.RelationshipGraph
	Memories      *social.MemoryBank
	Season        world.Season
	SeasonTracker *social.SeasonTracker

	Interactions *agents.InteractionTracker

	Tensions *tension.Tracker
	Director *director.Director

	// ActiveThreats names external threats currently bearing on the world
	// (raids, famine, rival kingdoms) for tension.DetectExternalThreat to
	// scan. Nothing in this package populates it yet; interventions or a
	// future threat-generation subsystem are the intended writers.
	ActiveThreats []string

	Spawner    *agents.Spawner
	Stream     *prng.Stream
	Log        *events.Log
	TrustQueue *action.TrustEventQueue

	InterventionDir string

	Tuning config.Tuning

	RitualInterval uint64

	// tickEvents accumulates every event emitted so far during the tick in
	// progress, reset at the start of Step and handed to the director.
	tickEvents []events.Event

	// ritualAttendance marks which agents attended the most recently run
	// ritual, feeding social.BelongingInputs.RitualAttendanceScore.
	ritualAttendance map[agents.AgentID]bool

	LastDirectorOutput director.Output
}

// Config bundles everything NewSimulation needs to bootstrap a fresh run.
type Config struct {
	Seed            int64
	Locations       *world.Registry
	Factions        []*social.Faction
	Agents          []*agents.Agent
	Log             *events.Log
	InterventionDir string
	Tuning          config.Tuning
	DirectorConfig  director.Config
	Templates       director.Templates
	RitualInterval  uint64
}

// NewSimulation assembles a fresh Simulation from cfg.
func NewSimulation(cfg Config) *Simulation {
	stream := prng.New(cfg.Seed)
	factionRegistry := social.NewFactionRegistry()
	for _, f := range cfg.Factions {
		factionRegistry.Add(f)
	}

	agentIndex := make(map[agents.AgentID]*agents.Agent, len(cfg.Agents))
	for _, a := range cfg.Agents {
		agentIndex[a.ID] = a
	}

	tracked := make(map[agents.AgentID]bool)
	for _, f := range cfg.Factions {
		if f.LeaderID != "" {
			tracked[f.LeaderID] = true
		}
	}

	ritualInterval := cfg.RitualInterval
	if ritualInterval == 0 {
		ritualInterval = 500
	}

	ticksPerSeason := cfg.Tuning.TicksPerSeason
	if ticksPerSeason == 0 {
		ticksPerSeason = world.TicksPerDay * world.DaysPerSeason
	}

	return &Simulation{
		Locations:       cfg.Locations,
		Seed:            cfg.Seed,
		AgentIndex:      agentIndex,
		Factions:        factionRegistry,
		Relationships:   social.NewRelationshipGraph(),
		Memories:        social.NewMemoryBank(),
		Season:          world.Spring,
		SeasonTracker:   social.NewSeasonTracker(ticksPerSeason),
		Interactions:    agents.NewInteractionTracker(),
		Tensions:        tension.NewTracker(),
		Director:        director.New(cfg.DirectorConfig, cfg.Templates, tracked),
		Spawner:         agents.NewSpawner(stream),
		Stream:          stream,
		Log:             cfg.Log,
		TrustQueue:      action.NewTrustEventQueue(),
		InterventionDir:  cfg.InterventionDir,
		Tuning:           cfg.Tuning,
		RitualInterval:   ritualInterval,
		ritualAttendance: make(map[agents.AgentID]bool),
	}
}

// actionContext builds the per-tick action.Context bundling everything the
// generate/weight/select/execute pipeline reads.
func (s *Simulation) actionContext() *action.Context {
	return &action.Context{
		Tick:          s.Tick,
		Season:        s.Season,
		Locations:     s.Locations,
		AgentIndex:    s.AgentIndex,
		Factions:      s.Factions,
		Relationships: s.Relationships,
		Memories:      s.Memories,
		Stream:        s.Stream,
		Log:           s.Log,
		TrustQueue:    s.TrustQueue,
		Interactions:  s.Interactions,
	}
}

// interventionWorld builds the narrow view the intervention package needs,
// kept separate from action.Context so intervention has no dependency on
// the action package.
func (s *Simulation) interventionWorld() *intervention.World {
	return &intervention.World{
		AgentIndex:    s.AgentIndex,
		Relationships: s.Relationships,
		Factions:      s.Factions,
		Locations:     s.Locations,
		Spawner:       s.Spawner,
		Memories:      s.Memories,
		TrustQueue:    s.TrustQueue,
	}
}

func (s *Simulation) emit(typ events.Type, subtype string, build func(*events.Builder)) (*events.Event, error) {
	b := events.NewBuilder(s.Log.NextID(), world.DeriveTimestamp(s.Tick), typ).Subtype(subtype)
	build(b)
	e, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("engine: build event: %w", err)
	}
	if err := s.Log.Append(e); err != nil {
		return nil, fmt.Errorf("engine: append event: %w", err)
	}
	s.tickEvents = append(s.tickEvents, e)
	return &e, nil
}

// actorSnapshot builds the self-contained actor record an event embeds,
// resolving the agent's faction name at the moment of the event.
func actorSnapshot(a *agents.Agent, factions *social.Registry) events.ActorSnapshot {
	faction := ""
	if f := factions.Get(a.FactionID); f != nil {
		faction = f.ID
	}
	return events.ActorSnapshot{
		AgentID:  a.ID,
		Name:     a.Name,
		Faction:  faction,
		Role:     a.Role.String(),
		Location: a.Location,
	}
}

// sortedAgentIDs returns every agent ID in a PRNG-shuffled processing order,
// drawn from s.Stream on top of a sorted base order so the order is both
// deterministic for a given seed and not a disguised sort.
func (s *Simulation) sortedAgentIDs() []agents.AgentID {
	ids := make([]agents.AgentID, 0, len(s.AgentIndex))
	for id := range s.AgentIndex {
		ids = append(ids, id)
	}
	return prng.ShuffleIDs(s.Stream, ids)
}

// livingAgents resolves an ID slice to their *Agent, skipping the dead.
func (s *Simulation) livingAgents(ids []agents.AgentID) []*agents.Agent {
	out := make([]*agents.Agent, 0, len(ids))
	for _, id := range ids {
		if a := s.AgentIndex[id]; a != nil && a.Alive {
			out = append(out, a)
		}
	}
	return out
}
