// Package social owns cross-agent state that does not belong to any single
// agent: trust relationships, memory banks, factions, and archives. See
// design doc Section 3 ("Trust" storage note) and
// original_source/crates/sim-core/src/components/social.rs.
package social

import "github.com/talgya/crossroads/internal/agents"

// RelationKey identifies a directed trust relation A -> B.
type RelationKey struct {
	From agents.AgentID
	To   agents.AgentID
}

// Trust holds the three independent dimensions used everywhere a
// relationship's quality needs to be judged. Each is in [-1, 1].
type Trust struct {
	Reliability float64 `json:"reliability"`
	Alignment   float64 `json:"alignment"`
	Capability  float64 `json:"capability"`
}

// NeutralTrust is the zero-value starting point for a fresh relationship.
func NeutralTrust() Trust { return Trust{} }

// FactionMateTrust is the preset starting trust between new faction-mates.
func FactionMateTrust() Trust { return Trust{Reliability: 0.3, Alignment: 0.4, Capability: 0.2} }

// FactionLeaderTrust is the preset starting trust a new member has in their leader.
func FactionLeaderTrust() Trust { return Trust{Reliability: 0.5, Alignment: 0.5, Capability: 0.6} }

// Overall reduces the three dimensions to a single score using the
// reference weighting: reliability dominates, then alignment, then capability.
func (t Trust) Overall() float64 {
	return t.Reliability*0.4 + t.Alignment*0.35 + t.Capability*0.25
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

// UpdateReliability applies a clamped delta to reliability.
func (t *Trust) UpdateReliability(delta float64) { t.Reliability = clamp(t.Reliability+delta, -1, 1) }

// UpdateAlignment applies a clamped delta to alignment.
func (t *Trust) UpdateAlignment(delta float64) { t.Alignment = clamp(t.Alignment+delta, -1, 1) }

// UpdateCapability applies a clamped delta to capability.
func (t *Trust) UpdateCapability(delta float64) { t.Capability = clamp(t.Capability+delta, -1, 1) }

// ApplyBetrayal collapses reliability and alignment catastrophically,
// matching the fixed betrayal deltas used by the trust-event queue.
func (t *Trust) ApplyBetrayal() {
	t.UpdateReliability(-0.5)
	t.UpdateAlignment(-0.4)
}

// Relationship is one directed edge in the RelationshipGraph.
type Relationship struct {
	Trust                Trust  `json:"trust"`
	LastInteractionTick  uint64 `json:"last_interaction_tick"`
	MemoryCount          int    `json:"memory_count"`
}

// RelationshipGraph is the single directed-edge store for trust, keyed by
// ordered agent pair. No back-pointers on Agent; all lookups go through
// this index, matching the arena+index storage discipline.
type RelationshipGraph struct {
	edges map[RelationKey]*Relationship
}

// NewRelationshipGraph creates an empty graph.
func NewRelationshipGraph() *RelationshipGraph {
	return &RelationshipGraph{edges: make(map[RelationKey]*Relationship)}
}

// Get returns the relationship from -> to, or nil if none exists.
func (g *RelationshipGraph) Get(from, to agents.AgentID) *Relationship {
	return g.edges[RelationKey{From: from, To: to}]
}

// Ensure returns the existing relationship from -> to, creating a neutral
// one first if none exists (get-or-insert).
func (g *RelationshipGraph) Ensure(from, to agents.AgentID) *Relationship {
	key := RelationKey{From: from, To: to}
	rel, ok := g.edges[key]
	if !ok {
		rel = &Relationship{Trust: NeutralTrust()}
		g.edges[key] = rel
	}
	return rel
}

// Set overwrites the relationship from -> to.
func (g *RelationshipGraph) Set(from, to agents.AgentID, rel *Relationship) {
	g.edges[RelationKey{From: from, To: to}] = rel
}

// HasRelationship reports whether an edge exists from -> to.
func (g *RelationshipGraph) HasRelationship(from, to agents.AgentID) bool {
	_, ok := g.edges[RelationKey{From: from, To: to}]
	return ok
}

// RelationshipsFor returns every outgoing edge from an agent, keyed by
// target ID. The result is a map and has no order; a caller that needs a
// deterministic iteration sorts the keys itself.
func (g *RelationshipGraph) RelationshipsFor(from agents.AgentID) map[agents.AgentID]*Relationship {
	out := make(map[agents.AgentID]*Relationship)
	for key, rel := range g.edges {
		if key.From == from {
			out[key.To] = rel
		}
	}
	return out
}

// TrustedBy returns every agent whose edge toward target has reliability of
// at least minReliability, in no defined order.
func (g *RelationshipGraph) TrustedBy(target agents.AgentID, minReliability float64) []agents.AgentID {
	var out []agents.AgentID
	for key, rel := range g.edges {
		if key.To == target && rel.Trust.Reliability >= minReliability {
			out = append(out, key.From)
		}
	}
	return out
}
