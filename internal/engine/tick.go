// Package engine's tick driver. Replaces the teacher's real-time,
// sleep-paced Engine loop (Speed/Interval/time.Sleep) with a headless
// batch driver: this simulation runs a fixed number of ticks as fast as
// the process can manage, since nothing here is rendered live.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/crossroads/internal/action"
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/snapshot"
	"github.com/talgya/crossroads/internal/tension"
)

// defaultTensionDetectionInterval bounds how often the (moderately
// expensive) tension detector sweep runs, rather than every tick. Used when
// Config.Tuning.TensionDetectionInterval is left unset.
const defaultTensionDetectionInterval = 10

// revengeGoalPriority is the fixed priority a revenge goal is born with,
// regardless of the triggering grudge's persistence (persistence instead
// scales only how long the goal is allowed to live; see
// action.GrudgeGoalExpiry).
const revengeGoalPriority = 0.6

// grudgeGoalMaxTicks is the maximum lifetime, in ticks, a revenge goal born
// from a grudge can carry before expiring, scaled down per-agent by
// grudge_persistence in [0,1].
const grudgeGoalMaxTicks = 5000

// Step executes the fixed tick order once, at the simulation's current
// Tick, without advancing the counter: apply interventions, advance the
// calendar, update perception and needs, decay memories on their seasonal
// cadence, produce this tick's season-scaled resources, run the per-agent
// action pipeline
// (which itself drains the trust event queue at the end), run scheduled
// rituals, then periodically sweep for tensions. Event-log writes happen
// incrementally as each action/ritual/intervention emits, not as a
// separate batch step.
func (s *Simulation) Step() error {
	s.tickEvents = s.tickEvents[:0]

	if err := s.ProcessInterventions(); err != nil {
		return fmt.Errorf("engine: tick %d: %w", s.Tick, err)
	}

	s.advanceCalendar()
	s.updatePerception()
	s.updateNeeds()
	s.decayMemoriesIfDue()
	s.produceResources()

	outcomes, grudges, err := action.RunTick(s.actionContext())
	if err != nil {
		return fmt.Errorf("engine: tick %d: run actions: %w", s.Tick, err)
	}
	for _, o := range outcomes {
		if o.Event != nil {
			s.tickEvents = append(s.tickEvents, *o.Event)
		}
	}
	s.applyGrudges(grudges)

	s.runScheduledRituals()

	interval := s.Tuning.TensionDetectionInterval
	if interval == 0 {
		interval = defaultTensionDetectionInterval
	}
	if s.Tick%interval == 0 {
		tension.RunAll(s.Tensions, tension.DetectorInputs{
			Tick:          s.Tick,
			AgentIndex:    s.AgentIndex,
			Relationships: s.Relationships,
			Memories:      s.Memories,
			Factions:      s.Factions,
			ActiveThreats: s.ActiveThreats,
		})
	}

	s.LastDirectorOutput = s.Director.Tick(s.Tick, s.tickEvents, s.Tensions.Active(), s.Relationships, s.Memories)

	return nil
}

// applyGrudges turns each newly formed grudge into a revenge goal on the
// holder, expiring per action.GrudgeGoalExpiry.
func (s *Simulation) applyGrudges(grudges []action.GrudgeFormed) {
	for _, g := range grudges {
		holder := s.AgentIndex[g.Holder]
		if holder == nil {
			continue
		}
		holder.Goals.Add(agents.Goal{
			Type:      agents.GoalRevenge,
			Priority:  revengeGoalPriority,
			Target:    g.Target,
			ExpiresAt: action.GrudgeGoalExpiry(g.Tick, g.Persistence, grudgeGoalMaxTicks),
		})
	}
}

// Run executes totalTicks ticks starting from the simulation's current
// Tick. It writes a periodic snapshot every snapshotInterval ticks (when
// outputDir is set) and always refreshes current_state.json and
// tensions.json once the run completes.
func (s *Simulation) Run(totalTicks uint64, snapshotInterval uint64, outputDir string) error {
	target := s.Tick + totalTicks
	for s.Tick < target {
		if err := s.Step(); err != nil {
			return err
		}
		s.Tick++

		for _, a := range s.AgentIndex {
			a.Goals.RemoveExpired(s.Tick)
		}

		if outputDir != "" && snapshotInterval > 0 && s.Tick%snapshotInterval == 0 {
			if err := s.writeSnapshot(outputDir, true); err != nil {
				return err
			}
			slog.Info("snapshot written", "tick", s.Tick)
		}
	}

	if outputDir != "" {
		if err := s.writeSnapshot(outputDir, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) writeSnapshot(outputDir string, periodic bool) error {
	snap := snapshot.Build(s.Tick, s.Seed, s.AgentIndex, s.Factions, s.Tensions)
	if periodic {
		if err := snapshot.WritePeriodic(outputDir, s.Tick, snap); err != nil {
			return fmt.Errorf("engine: write periodic snapshot: %w", err)
		}
	}
	if err := snapshot.WriteCurrent(outputDir, snap); err != nil {
		return fmt.Errorf("engine: write current state: %w", err)
	}
	active := s.Tensions.Active()
	if active == nil {
		active = []*tension.Tension{}
	}
	if err := snapshot.WriteTensions(outputDir, active); err != nil {
		return fmt.Errorf("engine: write tensions: %w", err)
	}
	return nil
}
