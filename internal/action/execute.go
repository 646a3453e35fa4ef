// Execute stage: applies the selected candidate's effects to world state
// and emits the resulting event. Grounded on
// original_source/src/systems/action/execute.rs. Preconditions that no
// longer hold by execute time (a target moved away, an entry was already
// destroyed) demote silently to Idle rather than panicking or erroring,
// since Generate/Weight/Select operate on a snapshot that can go stale
// within the same tick.
package action

import (
	"fmt"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/world"
)

func snapshot(a *agents.Agent, factions *social.Registry) events.ActorSnapshot {
	name := ""
	if f := factions.Get(a.FactionID); f != nil {
		name = f.Name
	}
	return events.ActorSnapshot{
		AgentID:  a.ID,
		Name:     a.Name,
		Faction:  name,
		Role:     a.Role.String(),
		Location: a.Location,
	}
}

// Execute applies c's effects for actor a and returns the emitted event, if
// any (Idle emits none).
func Execute(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	switch c.Action.Category() {
	case CatMovement:
		return executeMovement(ctx, a, c)
	case CatCommunication:
		return executeCommunication(ctx, a, c)
	case CatArchive:
		return executeArchive(ctx, a, c)
	case CatResource:
		return executeResource(ctx, a, c)
	case CatSocial:
		return executeSocial(ctx, a, c)
	case CatFaction:
		return executeFaction(ctx, a, c)
	case CatConflict:
		return executeConflict(ctx, a, c)
	default:
		return nil, nil
	}
}

func (ctx *Context) emit(typ events.Type, subtype string, build func(*events.Builder)) (*events.Event, error) {
	b := events.NewBuilder(ctx.Log.NextID(), world.DeriveTimestamp(ctx.Tick), typ).Subtype(subtype)
	build(b)
	e, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("action: build event: %w", err)
	}
	if err := ctx.Log.Append(e); err != nil {
		return nil, fmt.Errorf("action: append event: %w", err)
	}
	return &e, nil
}

func executeMovement(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	switch c.Action {
	case Travel, ReturnHome:
		dest := c.TargetLocation
		if dest == "" || ctx.Locations.Get(dest) == nil {
			return nil, nil
		}
		from := a.Location
		if !ctx.Locations.Get(from).IsAdjacentTo(dest) {
			return nil, nil
		}
		a.Location = dest
		return ctx.emit(events.TypeMovement, string(c.Action), func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).
				WithContext(events.Context{Trigger: c.Rationale}).
				WithOutcome(events.Outcome{Movement: &events.MovementOutcome{NewLocation: dest}})
		})
	case Patrol:
		return ctx.emit(events.TypeMovement, "patrol", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions))
		})
	case Flee, Pursue:
		return ctx.emit(events.TypeMovement, string(c.Action), func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions))
		})
	default:
		return nil, nil
	}
}

func executeCommunication(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	target := ctx.Agent(c.Target)
	if target == nil || !target.Alive || target.Location != a.Location {
		return nil, nil
	}
	ctx.Interactions.Record(a.ID)
	ctx.Interactions.Record(target.ID)

	switch c.Action {
	case ShareMemory:
		shareable := ctx.Memories.ShareableMemories(a.ID)
		if len(shareable) == 0 {
			return nil, nil
		}
		best := mostInteresting(shareable, ctx.Tick)
		secondhand := social.NewSecondhand(ctx.Memories.GenerateID(), best, a.ID, ctx.Tick)
		ctx.Memories.Add(target.ID, secondhand)

		rel := ctx.Relationships.Get(target.ID, a.ID)
		sourceTrust := 0.0
		if rel != nil {
			sourceTrust = rel.Trust.Overall()
		}
		impact := social.SecondhandTrustImpact(best.Valence, sourceTrust, secondhand.Fidelity)
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: best.Subject, Dimension: "alignment", Delta: impact, Reason: "secondhand memory", Tick: ctx.Tick})

		return ctx.emit(events.TypeCommunication, "share_memory", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).
				WithOutcome(events.Outcome{Communication: &events.CommunicationOutcome{
					MemoryShared: &events.MemorySharedInfo{OriginalEvent: best.EventID, Content: best.Content, SourceChain: secondhand.SourceChain, Fidelity: secondhand.Fidelity},
					RecipientStateChange: &events.RecipientStateChange{NewMemoryAdded: true, TrustImpact: &events.TrustImpact{Toward: best.Subject, Dimension: "alignment", Delta: impact, Reason: "gossip"}},
				}})
		})

	case SpreadRumor:
		shareable := ctx.Memories.ShareableMemories(a.ID)
		if len(shareable) == 0 {
			return nil, nil
		}
		best := mostInteresting(shareable, ctx.Tick)
		distorted := best
		distorted.Fidelity *= 0.5
		secondhand := social.NewSecondhand(ctx.Memories.GenerateID(), distorted, a.ID, ctx.Tick)
		ctx.Memories.Add(target.ID, secondhand)
		return ctx.emit(events.TypeCommunication, "spread_rumor", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).
				DramaTags("rumor").DramaScore(0.4).
				WithOutcome(events.Outcome{Communication: &events.CommunicationOutcome{
					MemoryShared: &events.MemorySharedInfo{Content: distorted.Content, Fidelity: secondhand.Fidelity},
				}})
		})

	case Lie:
		fabricated := social.Memory{
			MemoryID:        ctx.Memories.GenerateID(),
			Subject:         a.ID,
			Content:         "a favorable but untrue account",
			Fidelity:        0.6,
			SourceChain:     []agents.AgentID{a.ID},
			EmotionalWeight: 0.3,
			TickCreated:     ctx.Tick,
			Valence:         social.Positive,
		}
		ctx.Memories.Add(target.ID, fabricated)
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "reliability", Delta: 0.05, Reason: "flattered", Tick: ctx.Tick})
		return ctx.emit(events.TypeCommunication, "lie", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("deception").DramaScore(0.5)
		})

	case Confess:
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "alignment", Delta: 0.1, Reason: "confession", Tick: ctx.Tick})
		return ctx.emit(events.TypeCommunication, "confess", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("confession").DramaScore(0.6)
		})
	default:
		return nil, nil
	}
}

func mostInteresting(memories []social.Memory, currentTick uint64) social.Memory {
	best := memories[0]
	bestScore := best.Interestingness(currentTick)
	for _, m := range memories[1:] {
		if s := m.Interestingness(currentTick); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best
}

func executeArchive(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	faction := ctx.Faction(a)
	if faction == nil || a.Location != faction.HQLocation {
		return nil, nil
	}

	switch c.Action {
	case WriteEntry, ForgeEntry:
		if !a.Role.CanWriteArchive() {
			return nil, nil
		}
		content := "an account of recent events"
		var entry *social.ArchiveEntry
		if c.Action == WriteEntry {
			entry = faction.Archive.Write(a.ID, a.Name, content, ctx.Tick)
		} else {
			entry = faction.Archive.Forge(a.ID, a.Name, content, ctx.Tick)
		}
		return ctx.emit(events.TypeArchive, string(c.Action), func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).
				WithOutcome(events.Outcome{Archive: &events.ArchiveOutcome{EntryID: entry.EntryID, Content: entry.Content, IsAuthentic: entry.IsAuthentic}})
		})

	case ReadArchive:
		if len(faction.Archive.Entries) == 0 {
			return nil, nil
		}
		entry := faction.Archive.Entries[0]
		faction.Archive.MarkRead(entry, ctx.Tick)
		mem := social.NewFromArchive(ctx.Memories.GenerateID(), entry.EntryID, entry.Subject, entry.Content, ctx.Tick)
		ctx.Memories.Add(a.ID, mem)
		return ctx.emit(events.TypeArchive, "read", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).
				WithOutcome(events.Outcome{Archive: &events.ArchiveOutcome{EntryID: entry.EntryID, Content: entry.Content, IsAuthentic: entry.IsAuthentic}})
		})

	case DestroyEntry:
		if len(faction.Archive.Entries) == 0 {
			return nil, nil
		}
		entry := faction.Archive.Entries[0]
		faction.Archive.Destroy(entry.EntryID)
		return ctx.emit(events.TypeArchive, "destroy", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).DramaTags("archive_destroyed").DramaScore(0.6).
				WithOutcome(events.Outcome{Archive: &events.ArchiveOutcome{EntryID: entry.EntryID}})
		})
	default:
		return nil, nil
	}
}

func executeResource(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	faction := ctx.Faction(a)
	switch c.Action {
	case Work:
		if faction == nil {
			return nil, nil
		}
		yield := 5.0 * a.Role.FoodRoleModifier()
		faction.Resources.Grain += yield
		return ctx.emit(events.TypeResource, "work", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).WithOutcome(events.Outcome{General: &events.GeneralOutcome{Description: "worked the land"}})
		})

	case Trade:
		return ctx.emit(events.TypeResource, "trade", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions))
		})

	case Steal:
		target := ctx.Agent(c.Target)
		if target == nil || target.Location != a.Location {
			return nil, nil
		}
		amount := 2.0
		if target.Inventory.Grain < amount {
			amount = target.Inventory.Grain
		}
		target.Inventory.Grain -= amount
		a.Inventory.Grain += amount
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "reliability", Delta: -0.3, Reason: "theft", Tick: ctx.Tick})
		return ctx.emit(events.TypeConflict, "steal", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("theft").DramaScore(0.5)
		})

	case Hoard:
		return ctx.emit(events.TypeResource, "hoard", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions))
		})
	default:
		return nil, nil
	}
}

func executeSocial(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	target := ctx.Agent(c.Target)
	if target == nil || target.Location != a.Location {
		return nil, nil
	}
	if c.Action != Ostracize {
		ctx.Interactions.Record(a.ID)
		ctx.Interactions.Record(target.ID)
	}

	switch c.Action {
	case BuildTrust:
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "reliability", Delta: 0.08, Reason: "spent time together", Tick: ctx.Tick})
		return ctx.emit(events.TypeCooperation, "build_trust", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions))
		})
	case CurryFavor:
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "capability", Delta: 0.05, Reason: "flattery", Tick: ctx.Tick})
		return ctx.emit(events.TypeCooperation, "curry_favor", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions))
		})
	case Gift:
		if a.Inventory.Grain < 1 {
			return nil, nil
		}
		a.Inventory.Grain -= 1
		target.Inventory.Grain += 1
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "alignment", Delta: 0.1, Reason: "gift", Tick: ctx.Tick})
		return ctx.emit(events.TypeCooperation, "gift", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions))
		})
	case Ostracize:
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "alignment", Delta: -0.15, Reason: "shunned", Tick: ctx.Tick})
		return ctx.emit(events.TypeConflict, "ostracize", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("ostracism").DramaScore(0.4)
		})
	default:
		return nil, nil
	}
}

func executeFaction(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	faction := ctx.Faction(a)
	if faction == nil {
		return nil, nil
	}

	switch c.Action {
	case Defect:
		oldFaction := faction.ID
		faction.MemberCount--
		a.FactionID = ""
		a.Role = agents.RoleExile
		return ctx.emit(events.TypeFaction, "defect", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).DramaTags("defection").DramaScore(0.7).
				WithContext(events.Context{Trigger: "voluntary defection from " + oldFaction})
		})

	case Exile:
		target := ctx.Agent(c.Target)
		if target == nil || target.FactionID != faction.ID {
			return nil, nil
		}
		faction.MemberCount--
		target.FactionID = ""
		target.Role = agents.RoleExile
		return ctx.emit(events.TypeFaction, "exile", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("exile").DramaScore(0.75)
		})

	case ChallengeLeader:
		leader := ctx.Agent(faction.LeaderID)
		if leader == nil {
			return nil, nil
		}
		succeed := ctx.Stream.Float64() < a.Traits.Boldness*a.Traits.Ambition
		var outcome string
		if succeed {
			faction.LeaderID = a.ID
			a.Role = agents.RoleLeader
			leader.Role = agents.RoleCouncilMember
			outcome = "challenger prevails"
		} else {
			outcome = "leader retains power"
		}
		return ctx.emit(events.TypeConflict, "challenge_leader", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(leader, ctx.Factions)).
				DramaTags("power_struggle").DramaScore(0.85).
				WithContext(events.Context{Trigger: outcome})
		})

	case SupportLeader:
		leader := ctx.Agent(faction.LeaderID)
		if leader == nil {
			return nil, nil
		}
		ctx.TrustQueue.Enqueue(TrustDelta{Source: leader.ID, Target: a.ID, Dimension: "alignment", Delta: 0.1, Reason: "public support", Tick: ctx.Tick})
		return ctx.emit(events.TypeLoyalty, "support_leader", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(leader, ctx.Factions))
		})
	default:
		return nil, nil
	}
}

func executeConflict(ctx *Context, a *agents.Agent, c Candidate) (*events.Event, error) {
	target := ctx.Agent(c.Target)
	if target == nil || !target.Alive {
		return nil, nil
	}

	switch c.Action {
	case Argue:
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "alignment", Delta: -0.05, Reason: "argument", Tick: ctx.Tick})
		return ctx.emit(events.TypeConflict, "argue", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("argument").DramaScore(0.3)
		})

	case Fight:
		if target.Location != a.Location {
			return nil, nil
		}
		damage := 0.1 + ctx.Stream.Float64()*0.2
		target.Physical.Health -= damage
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "reliability", Delta: -0.5, Reason: "violence", Tick: ctx.Tick})
		return ctx.emit(events.TypeConflict, "fight", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("violence").DramaScore(0.8)
		})

	case Sabotage:
		fac := ctx.Factions.Get(target.FactionID)
		if fac == nil {
			return nil, nil
		}
		fac.Resources.Grain *= 0.9
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "reliability", Delta: -0.4, Reason: "sabotage", Tick: ctx.Tick})
		return ctx.emit(events.TypeConflict, "sabotage", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("sabotage").DramaScore(0.7)
		})

	case Assassinate:
		if target.Location != a.Location {
			return nil, nil
		}
		success := ctx.Stream.Float64() < 0.15+a.Traits.Boldness*0.1
		if success {
			target.Alive = false
			return ctx.emit(events.TypeDeath, "assassination", func(b *events.Builder) {
				b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).
					DramaTags("assassination", "death").DramaScore(1.0)
			})
		}
		ctx.TrustQueue.Enqueue(TrustDelta{Source: target.ID, Target: a.ID, Dimension: "reliability", Delta: -0.6, Reason: "attempted murder", Tick: ctx.Tick})
		return ctx.emit(events.TypeConflict, "failed_assassination", func(b *events.Builder) {
			b.Primary(snapshot(a, ctx.Factions)).Secondary(snapshot(target, ctx.Factions)).DramaTags("attempted_murder").DramaScore(0.95)
		})
	default:
		return nil, nil
	}
}
