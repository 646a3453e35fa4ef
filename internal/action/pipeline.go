// Pipeline ties generate -> weight -> select -> execute together for a
// single agent's turn within a tick.
package action

import (
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
)

// Outcome is the per-agent result of running the pipeline once.
type Outcome struct {
	Actor    agents.AgentID
	Chosen   Candidate
	Event    *events.Event
}

// RunOne runs the full pipeline for a single agent.
func RunOne(ctx *Context, a *agents.Agent) (Outcome, error) {
	candidates := Generate(ctx, a)
	weighted := Weight(ctx, a, candidates)
	chosen := Select(ctx, weighted)
	event, err := Execute(ctx, a, chosen)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Actor: a.ID, Chosen: chosen, Event: event}, nil
}

// RunTick runs the pipeline for every living agent in ctx.AgentIndex, in a
// PRNG-shuffled turn order drawn from ctx.Stream on top of a sorted base
// order (so turn order never depends on map iteration but is still a
// recorded, replayable draw rather than a disguised sort), then drains the
// trust event queue and returns any grudges formed this tick.
func RunTick(ctx *Context) ([]Outcome, []GrudgeFormed, error) {
	ids := make([]agents.AgentID, 0, len(ctx.AgentIndex))
	for id, a := range ctx.AgentIndex {
		if a.Alive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ctx.Stream.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		a := ctx.AgentIndex[id]
		outcome, err := RunOne(ctx, a)
		if err != nil {
			return nil, nil, err
		}
		outcomes = append(outcomes, outcome)
	}

	grudges := ctx.TrustQueue.Drain(ctx.Relationships, ctx.AgentIndex, ctx.Tick)
	return outcomes, grudges, nil
}
