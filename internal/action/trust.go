package action

import (
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/social"
)

// TrustDelta is one pending trust-dimension change, enqueued by an action
// executor and applied in a batch at the end of the tick so that no
// executor observes a partially-updated relationship graph mid-tick.
type TrustDelta struct {
	Source agents.AgentID
	Target agents.AgentID
	// Dimension is "reliability", "alignment", "capability", or the
	// composite tag "betrayal", which collapses both reliability and
	// alignment at once via social.Trust.ApplyBetrayal regardless of Delta.
	Dimension string
	Delta     float64
	Reason    string
	Tick      uint64
}

// TrustEventQueue accumulates trust deltas produced during a tick's execute
// phase. Draining is deterministic: entries are applied in the order they
// were enqueued, which follows the pipeline's agent order, a PRNG shuffle
// of the sorted agent IDs drawn from the seeded stream.
type TrustEventQueue struct {
	pending []TrustDelta
}

// NewTrustEventQueue creates an empty queue.
func NewTrustEventQueue() *TrustEventQueue { return &TrustEventQueue{} }

// Enqueue records a pending trust change.
func (q *TrustEventQueue) Enqueue(d TrustDelta) { q.pending = append(q.pending, d) }

// Drain applies every queued delta to graph, checking for grudge formation
// on the way, and clears the queue. It returns the agents who formed a new
// grudge this tick (reliability crossed below -0.3 following a negative
// delta), so the caller can enqueue revenge goals.
func (q *TrustEventQueue) Drain(graph *social.RelationshipGraph, agentIndex map[agents.AgentID]*agents.Agent, currentTick uint64) []GrudgeFormed {
	var grudges []GrudgeFormed
	for _, d := range q.pending {
		rel := graph.Ensure(d.Source, d.Target)
		before := rel.Trust.Reliability
		switch d.Dimension {
		case "reliability":
			rel.Trust.UpdateReliability(d.Delta)
		case "alignment":
			rel.Trust.UpdateAlignment(d.Delta)
		case "capability":
			rel.Trust.UpdateCapability(d.Delta)
		case "betrayal":
			rel.Trust.ApplyBetrayal()
		}
		rel.LastInteractionTick = d.Tick

		if d.Delta < 0 && before >= -0.3 && rel.Trust.Reliability < -0.3 {
			if holder, ok := agentIndex[d.Source]; ok {
				grudges = append(grudges, GrudgeFormed{
					Holder:      d.Source,
					Target:      d.Target,
					Persistence: holder.Traits.GrudgePersistence,
					Tick:        currentTick,
				})
			}
		}
	}
	q.pending = nil

	sort.Slice(grudges, func(i, j int) bool {
		if grudges[i].Holder != grudges[j].Holder {
			return grudges[i].Holder < grudges[j].Holder
		}
		return grudges[i].Target < grudges[j].Target
	})
	return grudges
}

// GrudgeFormed reports that Holder's trust in Target crossed the
// grudge-formation threshold this tick.
type GrudgeFormed struct {
	Holder      agents.AgentID
	Target      agents.AgentID
	Persistence float64
	Tick        uint64
}

// GrudgeGoalExpiry computes the tick at which a revenge goal formed from a
// grudge should expire: current_tick + grudge_persistence * T_max, where
// T_max is the maximum goal lifetime in ticks.
func GrudgeGoalExpiry(currentTick uint64, persistence float64, tMax uint64) uint64 {
	return currentTick + uint64(persistence*float64(tMax))
}
