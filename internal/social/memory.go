// Memory storage, decay, and propagation. Grounded directly on
// original_source/crates/sim-core/src/components/social.rs and
// original_source/src/systems/memory.rs.
package social

import (
	"fmt"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
)

// Valence is the emotional sign of a memory.
type Valence uint8

const (
	Neutral Valence = iota
	Positive
	Negative
)

func (v Valence) String() string {
	switch v {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Memory is a record of an observed or heard event carried by an agent.
type Memory struct {
	MemoryID        string          `json:"memory_id"`
	EventID         string          `json:"event_id,omitempty"`
	Subject         agents.AgentID  `json:"subject,omitempty"`
	Content         string          `json:"content"`
	Fidelity        float64         `json:"fidelity"`
	SourceChain     []agents.AgentID `json:"source_chain,omitempty"`
	EmotionalWeight float64         `json:"emotional_weight"`
	TickCreated     uint64          `json:"tick_created"`
	Valence         Valence         `json:"valence"`
	IsSecret        bool            `json:"is_secret"`
}

// IsFirsthand reports whether the memory has no source chain (witnessed directly).
func (m Memory) IsFirsthand() bool { return len(m.SourceChain) == 0 }

// cullThreshold is the fidelity × emotional-weight product below which
// Cleanup removes a memory.
const cullThreshold = 0.1

// IsSignificant reports whether a memory's fidelity × emotional weight
// still clears cullThreshold.
func (m Memory) IsSignificant() bool {
	return m.Fidelity*m.EmotionalWeight >= cullThreshold
}

// Decay reduces fidelity by the season-appropriate rate: firsthand memories
// decay slower (0.95/season) than secondhand ones (0.85/season).
func (m *Memory) Decay(seasonsElapsed int) {
	rate := 0.95
	if !m.IsFirsthand() {
		rate = 0.85
	}
	for i := 0; i < seasonsElapsed; i++ {
		m.Fidelity *= rate
	}
}

// NewFirsthand constructs a fidelity-1.0 memory with no source chain.
func NewFirsthand(id, eventID string, subject agents.AgentID, content string, weight float64, tick uint64, valence Valence, secret bool) Memory {
	return Memory{
		MemoryID:        id,
		EventID:         eventID,
		Subject:         subject,
		Content:         content,
		Fidelity:        1.0,
		EmotionalWeight: weight,
		TickCreated:     tick,
		Valence:         valence,
		IsSecret:        secret,
	}
}

// NewSecondhand derives a secondhand copy of original as heard from source.
// Fidelity is dampened to 70% of the original and emotional weight halves,
// matching Memory::secondhand in the reference implementation.
func NewSecondhand(id string, original Memory, source agents.AgentID, tick uint64) Memory {
	chain := append(append([]agents.AgentID(nil), original.SourceChain...), source)
	return Memory{
		MemoryID:        id,
		EventID:         original.EventID,
		Subject:         original.Subject,
		Content:         original.Content,
		Fidelity:        original.Fidelity * 0.7,
		SourceChain:     chain,
		EmotionalWeight: original.EmotionalWeight * 0.5,
		TickCreated:     tick,
		Valence:         original.Valence,
		IsSecret:        original.IsSecret,
	}
}

// NewFromArchive constructs a memory acquired by reading an archive entry.
// Fidelity 0.9 and emotional weight 0.3 resolve the open question on
// archive-read fidelity, grounded on execute.rs's archive-read executor.
func NewFromArchive(id, entryID string, subject agents.AgentID, content string, tick uint64) Memory {
	return Memory{
		MemoryID:        id,
		EventID:         entryID,
		Subject:         subject,
		Content:         content,
		Fidelity:        0.9,
		EmotionalWeight: 0.3,
		TickCreated:     tick,
		Valence:         Neutral,
	}
}

// Interestingness scores how compelling a memory is to share, used when
// generating ShareMemory/SpreadRumor candidates.
func (m Memory) Interestingness(currentTick uint64) float64 {
	age := float64(currentTick - m.TickCreated)
	recencyBoost := 1.0 / (1.0 + age/100.0)
	var valenceBoost float64
	switch m.Valence {
	case Negative:
		valenceBoost = 1.2
	case Positive:
		valenceBoost = 1.0
	default:
		valenceBoost = 0.8
	}
	return m.EmotionalWeight * recencyBoost * valenceBoost * m.Fidelity
}

// SecondhandTrustImpact computes the recipient's trust shift toward a
// memory's subject on receipt, ported exactly from
// calculate_secondhand_trust_impact: gossip about bad things moves trust
// more than gossip about good things (asymmetric base impact).
func SecondhandTrustImpact(valence Valence, sourceTrust, fidelity float64) float64 {
	var base float64
	switch valence {
	case Positive:
		base = 0.1
	case Negative:
		base = -0.15
	default:
		base = 0.0
	}
	trustFactor := (sourceTrust + 1.0) / 2.0
	return base * 0.3 * trustFactor * fidelity
}

// MemoryBank holds every agent's memory list, keyed by owner. IDs are
// sequential ("mem_%08d"), not random, so the JSONL-adjacent memory record
// stays human-diffable across runs.
type MemoryBank struct {
	byAgent map[agents.AgentID][]Memory
	nextID  uint64
}

// NewMemoryBank creates an empty bank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{byAgent: make(map[agents.AgentID][]Memory), nextID: 1}
}

// GenerateID mints the next sequential memory ID.
func (b *MemoryBank) GenerateID() string {
	id := fmt.Sprintf("mem_%08d", b.nextID)
	b.nextID++
	return id
}

// Add appends a memory to owner's bank.
func (b *MemoryBank) Add(owner agents.AgentID, m Memory) {
	b.byAgent[owner] = append(b.byAgent[owner], m)
}

// Memories returns owner's memory list.
func (b *MemoryBank) Memories(owner agents.AgentID) []Memory {
	return b.byAgent[owner]
}

// MemoriesAbout filters owner's memories to those whose subject matches.
func (b *MemoryBank) MemoriesAbout(owner, subject agents.AgentID) []Memory {
	var out []Memory
	for _, m := range b.byAgent[owner] {
		if m.Subject == subject {
			out = append(out, m)
		}
	}
	return out
}

// ShareableMemories returns owner's memories eligible to be shared: not
// secret, and emotionally weighty enough to be worth telling.
func (b *MemoryBank) ShareableMemories(owner agents.AgentID) []Memory {
	var out []Memory
	for _, m := range b.byAgent[owner] {
		if !m.IsSecret && m.EmotionalWeight > 0.2 {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemoryID < out[j].MemoryID })
	return out
}

// DecayMemories applies seasonal fidelity decay to every memory of owner.
func (b *MemoryBank) DecayMemories(owner agents.AgentID, seasonsElapsed int) {
	list := b.byAgent[owner]
	for i := range list {
		list[i].Decay(seasonsElapsed)
	}
}

// DecayAll applies seasonal fidelity decay across every agent's bank, in
// agent-ID order so floating point reduction stays canonical.
func (b *MemoryBank) DecayAll(seasonsElapsed int) {
	for _, owner := range b.sortedOwners() {
		b.DecayMemories(owner, seasonsElapsed)
	}
}

// Cleanup removes memories that have fallen below significance for owner.
func (b *MemoryBank) Cleanup(owner agents.AgentID) {
	list := b.byAgent[owner]
	kept := list[:0]
	for _, m := range list {
		if m.IsSignificant() {
			kept = append(kept, m)
		}
	}
	b.byAgent[owner] = kept
}

// CleanupAll runs Cleanup for every agent in the bank, in ID order.
func (b *MemoryBank) CleanupAll() {
	for _, owner := range b.sortedOwners() {
		b.Cleanup(owner)
	}
}

func (b *MemoryBank) sortedOwners() []agents.AgentID {
	owners := make([]agents.AgentID, 0, len(b.byAgent))
	for id := range b.byAgent {
		owners = append(owners, id)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	return owners
}

// SeasonTracker decides when a season boundary has been crossed for the
// purpose of triggering fidelity decay, ported from memory.rs.
type SeasonTracker struct {
	LastDecayTick  uint64
	TicksPerSeason uint64
}

// NewSeasonTracker creates a tracker that decays memory fidelity once every
// ticksPerSeason ticks. Callers should pass the same season length the
// calendar uses (world.TicksPerDay * world.DaysPerSeason) so a "season" for
// memory decay means the same thing it means everywhere else in the sim.
func NewSeasonTracker(ticksPerSeason uint64) *SeasonTracker {
	return &SeasonTracker{TicksPerSeason: ticksPerSeason}
}

// ShouldDecay reports whether at least one season has elapsed since the
// last decay pass.
func (t *SeasonTracker) ShouldDecay(currentTick uint64) bool {
	return currentTick-t.LastDecayTick >= t.TicksPerSeason
}

// SeasonsElapsed returns how many full seasons have passed since the last
// decay pass.
func (t *SeasonTracker) SeasonsElapsed(currentTick uint64) int {
	return int((currentTick - t.LastDecayTick) / t.TicksPerSeason)
}

// MarkDecayed advances the tracker to the current tick, rounded down to
// the last season boundary so partial ticks are never dropped.
func (t *SeasonTracker) MarkDecayed(currentTick uint64) {
	elapsed := t.SeasonsElapsed(currentTick)
	t.LastDecayTick += uint64(elapsed) * t.TicksPerSeason
}
