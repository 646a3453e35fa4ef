// Seasonal transitions, resource production, and scheduled rituals.
// Adapted from the teacher's seasonal-harvest pass, replaced with this
// simulation's faction-resource and archive-recitation model.
package engine

import (
	"log/slog"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

// advanceCalendar derives the current season from the tick counter and logs
// the transition when a boundary is crossed.
func (s *Simulation) advanceCalendar() {
	next := world.DeriveTimestamp(s.Tick).Season
	if next != s.Season {
		slog.Info("season change", "tick", s.Tick, "from", s.Season, "to", next)
		s.Season = next
	}
}

// produceResources adds each faction-controlled location's per-tick
// production, scaled by the season's modifier, into that faction's shared
// stockpile.
func (s *Simulation) produceResources() {
	mod := s.Season.ProductionModifier()
	for _, loc := range s.Locations.All() {
		if loc.ControllingFaction == "" {
			continue
		}
		f := s.Factions.Get(loc.ControllingFaction)
		if f == nil {
			continue
		}
		f.Resources.Grain += loc.Resources.Grain * mod
		f.Resources.Iron += loc.Resources.Iron * mod
		f.Resources.Salt += loc.Resources.Salt * mod
	}
}

// decayMemoriesIfDue applies seasonal fidelity decay and significance
// culling to every agent's memory bank once a season has elapsed since the
// last pass.
func (s *Simulation) decayMemoriesIfDue() {
	if !s.SeasonTracker.ShouldDecay(s.Tick) {
		return
	}
	elapsed := s.SeasonTracker.SeasonsElapsed(s.Tick)
	s.Memories.DecayAll(elapsed)
	s.Memories.CleanupAll()
	s.SeasonTracker.MarkDecayed(s.Tick)
}

// runScheduledRituals fires a faction's ritual once its NextRitualTick has
// arrived, then reschedules it RitualInterval ticks out.
func (s *Simulation) runScheduledRituals() {
	for id, present := range s.ritualAttendance {
		if present {
			delete(s.ritualAttendance, id)
		}
	}

	for _, f := range s.Factions.All() {
		if f.NextRitualTick == 0 {
			f.NextRitualTick = s.Tick + s.RitualInterval
			continue
		}
		if s.Tick < f.NextRitualTick {
			continue
		}
		s.runRitual(f)
		f.NextRitualTick = s.Tick + s.RitualInterval
	}
}

// runRitual has the Reader recite the least-read archive entries
// to whoever is present at the faction HQ, reinforcing (or, from a disloyal
// Reader, undermining) the leader's standing in the record.
func (s *Simulation) runRitual(f *social.Faction) {
	entries := f.Archive.SelectForRitual()
	if len(entries) == 0 {
		return
	}

	reader := s.AgentIndex[f.ReaderID]
	primary := reader
	if primary == nil {
		primary = s.AgentIndex[f.LeaderID]
	}
	if primary == nil {
		return
	}

	readerIsLoyal := true
	if reader != nil && f.LeaderID != "" {
		if rel := s.Relationships.Get(reader.ID, f.LeaderID); rel != nil {
			readerIsLoyal = rel.Trust.Overall() >= 0
		}
	}

	attendees := s.attendeesAt(f.HQLocation)
	for _, id := range attendees {
		s.ritualAttendance[id] = true
	}

	var entryIDs, skipped []string
	reinforcement := make(map[string]string)
	for _, entry := range entries {
		score := social.RitualScore(entry, f.LeaderID, readerIsLoyal, s.Tick, s.RitualInterval)
		if score < 0 {
			skipped = append(skipped, entry.EntryID)
			continue
		}
		f.Archive.MarkRead(entry, s.Tick)
		entryIDs = append(entryIDs, entry.EntryID)

		for _, id := range attendees {
			mem := social.NewFromArchive(s.Memories.GenerateID(), entry.EntryID, entry.Subject, entry.Content, s.Tick)
			s.Memories.Add(id, mem)
		}
		reinforcement[entry.EntryID] = string(entry.Subject)
	}

	if len(entryIDs) == 0 && len(skipped) == 0 {
		return
	}

	attended := make(map[agents.AgentID]bool, len(attendees))
	for _, id := range attendees {
		attended[id] = true
	}
	members := s.factionMembers(f.ID)
	affected := make([]events.AffectedActor, 0, len(members))
	for _, m := range members {
		present := attended[m.ID]
		actor := events.AffectedActor{AgentID: m.ID, Name: m.Name, Faction: f.ID, Role: m.Role.String(), Attended: &present}
		if !present {
			actor.Reason = "not present at faction HQ"
		}
		affected = append(affected, actor)
	}

	_, err := s.emit(events.TypeRitual, "archive_recitation", func(b *events.Builder) {
		b.Primary(actorSnapshot(primary, s.Factions)).
			WithContext(events.Context{Trigger: "scheduled ritual", LocationDescription: string(f.HQLocation)}).
			WithOutcome(events.Outcome{Ritual: &events.RitualOutcome{
				EntriesRead:         entryIDs,
				EntriesSkipped:      skipped,
				MemoryReinforcement: reinforcement,
			}})
		for _, actor := range affected {
			b.Affected(actor)
		}
	})
	if err != nil {
		slog.Warn("engine: ritual event emit failed", "faction", f.ID, "error", err)
	}
}

// factionMembers returns every living agent belonging to factionID, sorted
// by ID so ritual attendance listings are deterministic.
func (s *Simulation) factionMembers(factionID string) []*agents.Agent {
	out := make([]*agents.Agent, 0)
	for _, a := range s.AgentIndex {
		if a.Alive && a.FactionID == factionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Simulation) attendeesAt(loc world.LocationID) []agents.AgentID {
	l := s.Locations.Get(loc)
	if l == nil {
		return nil
	}
	out := make([]agents.AgentID, 0, len(l.AgentsPresent))
	for _, idStr := range l.AgentsPresent {
		out = append(out, agents.AgentID(idStr))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
