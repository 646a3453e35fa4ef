package director

import (
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/social"
)

// BetrayalRecord tracks one betrayal so the irony detector can notice when
// an affected agent still trusts their betrayer, unaware of what happened.
type BetrayalRecord struct {
	EventID       string
	BetrayerID    agents.AgentID
	BetrayerName  string
	AffectedIDs   []agents.AgentID
	Tick          uint64
	Location      string
	DiscoveredBy  map[agents.AgentID]bool
}

// FromEvent builds a BetrayalRecord from a Betrayal event, returning
// (nil, false) if the event carries no explicit affected actors — matching
// the reference's refusal to guess a faction-wide fallback.
func FromEvent(e events.Event) (*BetrayalRecord, bool) {
	if e.EventType != events.TypeBetrayal || len(e.Actors.Affected) == 0 {
		return nil, false
	}
	affected := make([]agents.AgentID, 0, len(e.Actors.Affected))
	for _, a := range e.Actors.Affected {
		affected = append(affected, a.AgentID)
	}
	return &BetrayalRecord{
		EventID:      e.EventID,
		BetrayerID:   e.Actors.Primary.AgentID,
		BetrayerName: e.Actors.Primary.Name,
		AffectedIDs:  affected,
		Tick:         e.Timestamp.Tick,
		Location:     string(e.Actors.Primary.Location),
		DiscoveredBy: make(map[agents.AgentID]bool),
	}, true
}

// IsFullyDiscovered reports whether every affected agent has learned of the betrayal.
func (r *BetrayalRecord) IsFullyDiscovered() bool {
	for _, id := range r.AffectedIDs {
		if !r.DiscoveredBy[id] {
			return false
		}
	}
	return true
}

// MarkDiscovered records that agent has learned of the betrayal, e.g. via
// acquiring a memory of its event.
func (r *BetrayalRecord) MarkDiscovered(agent agents.AgentID) { r.DiscoveredBy[agent] = true }

// IronySituation is emitted while an affected agent still trusts their
// betrayer, unaware of the betrayal.
type IronySituation struct {
	SituationType  string
	EventID        string
	UnawareAgent   agents.AgentID
	Betrayer       agents.AgentID
	BetrayerName   string
	Location       string
	SecretInfo     string
}

// IronyConfig tunes detection thresholds.
type IronyConfig struct {
	TrustThreshold float64
	MaxAgeTicks    uint64
}

// DefaultIronyConfig returns the reference default.
func DefaultIronyConfig() IronyConfig { return IronyConfig{TrustThreshold: 0.5, MaxAgeTicks: 20000} }

// Detector maintains the rolling list of betrayal records.
type Detector struct {
	cfg     IronyConfig
	records []*BetrayalRecord
}

// NewDetector creates an irony detector with the given config.
func NewDetector(cfg IronyConfig) *Detector { return &Detector{cfg: cfg} }

// Record adds a new betrayal record if e qualifies (see FromEvent).
func (d *Detector) Record(e events.Event) {
	if r, ok := FromEvent(e); ok {
		d.records = append(d.records, r)
	}
}

// NotifyMemoryAcquired marks discovery whenever an agent acquires a memory
// whose EventID matches a tracked betrayal.
func (d *Detector) NotifyMemoryAcquired(owner agents.AgentID, m social.Memory) {
	for _, r := range d.records {
		if r.EventID == m.EventID {
			r.MarkDiscovered(owner)
		}
	}
}

// Detect scans every unresolved record for agents who still trust their
// betrayer above the threshold, emitting one IronySituation per such
// agent, in a deterministic (record then agent ID) order.
func (d *Detector) Detect(graph *social.RelationshipGraph) []IronySituation {
	var out []IronySituation
	for _, r := range d.records {
		if r.IsFullyDiscovered() {
			continue
		}
		affected := append([]agents.AgentID(nil), r.AffectedIDs...)
		sort.Slice(affected, func(i, j int) bool { return affected[i] < affected[j] })
		for _, agent := range affected {
			if r.DiscoveredBy[agent] {
				continue
			}
			rel := graph.Get(agent, r.BetrayerID)
			if rel == nil || rel.Trust.Reliability <= d.cfg.TrustThreshold {
				continue
			}
			out = append(out, IronySituation{
				SituationType: "unaware_trust",
				EventID:       r.EventID,
				UnawareAgent:  agent,
				Betrayer:      r.BetrayerID,
				BetrayerName:  r.BetrayerName,
				Location:      r.Location,
				SecretInfo:    "a betrayal not yet known",
			})
		}
	}
	return out
}

// Cleanup drops fully-discovered records and any older than MaxAgeTicks.
func (d *Detector) Cleanup(currentTick uint64) {
	kept := d.records[:0]
	for _, r := range d.records {
		if r.IsFullyDiscovered() {
			continue
		}
		if currentTick-r.Tick > d.cfg.MaxAgeTicks {
			continue
		}
		kept = append(kept, r)
	}
	d.records = kept
}
