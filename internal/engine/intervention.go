// Intervention glue — wires the intervention package's directory-drain
// mechanism into the simulation's tick-start step, replacing the teacher's
// settlement-boost intervention model entirely (see design doc).
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/intervention"
)

// ProcessInterventions performs the tick's synchronous, lexicographically
// ordered directory scan and applies every pending intervention file,
// emitting one intervention event per successful application. A missing
// InterventionDir means interventions are disabled for this run, not an
// error.
func (s *Simulation) ProcessInterventions() error {
	if s.InterventionDir == "" {
		return nil
	}

	w := s.interventionWorld()
	err := w.Drain(s.InterventionDir, s.Tick,
		func(d intervention.Decoded, result intervention.Result) {
			domain := result.Domain
			if domain == nil {
				_, emitErr := s.emit(events.TypeIntervention, string(d.Type), func(b *events.Builder) {
					b.WithContext(events.Context{Trigger: d.Reason}).
						WithOutcome(events.Outcome{General: &events.GeneralOutcome{Description: result.Summary}})
				})
				if emitErr != nil {
					slog.Warn("engine: intervention event emit failed", "id", d.ID, "error", emitErr)
				}
				return
			}

			primary := s.AgentIndex[domain.PrimaryID]
			if primary == nil {
				slog.Warn("engine: intervention domain event has no resolvable primary agent", "id", d.ID, "agent", domain.PrimaryID)
				return
			}
			_, emitErr := s.emit(domain.Type, domain.Subtype, func(b *events.Builder) {
				b.Primary(actorSnapshot(primary, s.Factions)).
					WithContext(events.Context{Trigger: d.Reason}).
					WithOutcome(events.Outcome{General: &events.GeneralOutcome{Description: domain.Description}})
				for _, id := range domain.AffectedIDs {
					if a := s.AgentIndex[id]; a != nil {
						faction := ""
						if f := s.Factions.Get(a.FactionID); f != nil {
							faction = f.ID
						}
						b.Affected(events.AffectedActor{AgentID: a.ID, Name: a.Name, Faction: faction, Role: a.Role.String()})
					}
				}
			})
			if emitErr != nil {
				slog.Warn("engine: intervention domain event emit failed", "id", d.ID, "error", emitErr)
			}
		},
		func(name string, rejectErr error) {
			slog.Warn("engine: intervention rejected", "file", name, "error", rejectErr)
		},
	)
	if err != nil {
		return fmt.Errorf("engine: drain interventions: %w", err)
	}
	return nil
}
