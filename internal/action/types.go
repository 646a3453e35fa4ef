// Package action implements the four-stage per-agent decision pipeline:
// generate -> weight -> select -> execute. See design doc Section 4.3.
package action

import (
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/prng"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

// Kind is the tagged-variant action type: a single flat enum with a
// switch-based executor table, since Go has no algebraic sum types.
type Kind string

const (
	// Movement.
	Travel     Kind = "travel"
	Patrol     Kind = "patrol"
	ReturnHome Kind = "return_home"
	Flee       Kind = "flee"
	Pursue     Kind = "pursue"

	// Communication.
	ShareMemory Kind = "share_memory"
	SpreadRumor Kind = "spread_rumor"
	Lie         Kind = "lie"
	Confess     Kind = "confess"

	// Archive.
	WriteEntry  Kind = "write_entry"
	ReadArchive Kind = "read_archive"
	DestroyEntry Kind = "destroy_entry"
	ForgeEntry  Kind = "forge_entry"

	// Resource.
	Work  Kind = "work"
	Trade Kind = "trade"
	Steal Kind = "steal"
	Hoard Kind = "hoard"

	// Social.
	BuildTrust Kind = "build_trust"
	CurryFavor Kind = "curry_favor"
	Gift       Kind = "gift"
	Ostracize  Kind = "ostracize"

	// Faction.
	Defect          Kind = "defect"
	Exile           Kind = "exile"
	ChallengeLeader Kind = "challenge_leader"
	SupportLeader   Kind = "support_leader"

	// Conflict.
	Argue      Kind = "argue"
	Fight      Kind = "fight"
	Sabotage   Kind = "sabotage"
	Assassinate Kind = "assassinate"

	// Universal fallback.
	Idle Kind = "idle"
)

// Category groups action kinds for weight-formula dispatch.
type Category uint8

const (
	CatMovement Category = iota
	CatCommunication
	CatArchive
	CatResource
	CatSocial
	CatFaction
	CatConflict
	CatIdle
)

func (k Kind) Category() Category {
	switch k {
	case Travel, Patrol, ReturnHome, Flee, Pursue:
		return CatMovement
	case ShareMemory, SpreadRumor, Lie, Confess:
		return CatCommunication
	case WriteEntry, ReadArchive, DestroyEntry, ForgeEntry:
		return CatArchive
	case Work, Trade, Steal, Hoard:
		return CatResource
	case BuildTrust, CurryFavor, Gift, Ostracize:
		return CatSocial
	case Defect, Exile, ChallengeLeader, SupportLeader:
		return CatFaction
	case Argue, Fight, Sabotage, Assassinate:
		return CatConflict
	default:
		return CatIdle
	}
}

// Candidate is one (action, target) combination proposed by Generate.
type Candidate struct {
	Action       Kind
	Target       agents.AgentID
	Group        []agents.AgentID
	TargetLocation world.LocationID
	BaseWeight   float64
	Rationale    string
}

// Weighted pairs a candidate with its post-Weight-stage weight.
type Weighted struct {
	Candidate Candidate
	Weight    float64
}

// Context bundles every world-store reference a pipeline stage needs. It is
// constructed fresh each tick by the engine and passed by pointer; nothing
// in the action package owns state across ticks except through these
// references.
type Context struct {
	Tick          uint64
	Season        world.Season
	Locations     *world.Registry
	AgentIndex    map[agents.AgentID]*agents.Agent
	Factions      *social.Registry
	Relationships *social.RelationshipGraph
	Memories      *social.MemoryBank
	Stream        *prng.Stream
	Log           *events.Log
	TrustQueue    *TrustEventQueue
	Interactions  *agents.InteractionTracker
}

// Agent looks up an agent by ID.
func (c *Context) Agent(id agents.AgentID) *agents.Agent { return c.AgentIndex[id] }

// Faction looks up an agent's faction, or nil if exiled.
func (c *Context) Faction(a *agents.Agent) *social.Faction {
	if a.FactionID == "" {
		return nil
	}
	return c.Factions.Get(a.FactionID)
}
