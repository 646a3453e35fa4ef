package director

import (
	"fmt"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/tension"
)

// ThreadStatus is the narrative-facing lifecycle a thread reports to
// downstream consumers, distinct from (but derived from) the underlying
// tension.Status.
type ThreadStatus string

const (
	ThreadDeveloping ThreadStatus = "developing"
	ThreadClimaxing  ThreadStatus = "climaxing"
	ThreadResolving  ThreadStatus = "resolving"
	ThreadConcluded  ThreadStatus = "concluded"
	ThreadDormant    ThreadStatus = "dormant"
)

// statusToThreadStatus maps a tension's lifecycle status onto the coarser
// narrative ThreadStatus, per the reference mapping table.
func statusToThreadStatus(s tension.Status) ThreadStatus {
	switch s {
	case tension.StatusEmerging, tension.StatusEscalating:
		return ThreadDeveloping
	case tension.StatusCritical, tension.StatusClimax:
		return ThreadClimaxing
	case tension.StatusResolving:
		return ThreadResolving
	case tension.StatusResolved:
		return ThreadConcluded
	case tension.StatusDormant:
		return ThreadDormant
	default:
		return ThreadDeveloping
	}
}

// TrackerConfig tunes thread lifecycle timing.
type TrackerConfig struct {
	MinSeverityForThread      float64
	DormantThresholdTicks     uint64
	ThreadFatigueThresholdTicks uint64
	MaxThreads                int
}

// DefaultTrackerConfig returns ThreadTrackerConfig::default().
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MinSeverityForThread:        0.3,
		DormantThresholdTicks:       5000,
		ThreadFatigueThresholdTicks: 2000,
		MaxThreads:                  20,
	}
}

// Thread is a narrative-facing wrapper around one Tension.
type Thread struct {
	ID              string
	TensionID       string
	Status          ThreadStatus
	KeyAgents       []agents.AgentID
	ScreenTimeTicks uint64
	LastActiveTick  uint64
}

// keyAgentIDs flattens a tension's key-agent records to bare IDs.
func keyAgentIDs(t *tension.Tension) []agents.AgentID {
	out := make([]agents.AgentID, 0, len(t.KeyAgents))
	for _, ka := range t.KeyAgents {
		out = append(out, ka.AgentID)
	}
	return out
}

// IsFatigued reports whether this thread has consumed enough camera focus
// time to warrant rotating away from it.
func (t *Thread) IsFatigued(cfg TrackerConfig) bool {
	return t.ScreenTimeTicks >= cfg.ThreadFatigueThresholdTicks
}

// Tracker owns every narrative thread, one per tracked tension.
type Tracker struct {
	cfg      TrackerConfig
	byID     map[string]*Thread
	byTension map[string]string // tension ID -> thread ID
	nextID   uint64
}

// NewTracker creates a thread tracker with the given config.
func NewTracker(cfg TrackerConfig) *Tracker {
	return &Tracker{cfg: cfg, byID: make(map[string]*Thread), byTension: make(map[string]string), nextID: 1}
}

// Sync creates a thread for every active tension at or above
// MinSeverityForThread that doesn't already have one, updates existing
// threads' status from their tension, and marks a thread dormant after
// DormantThresholdTicks of inactivity.
func (tr *Tracker) Sync(active []*tension.Tension, currentTick uint64) {
	seen := make(map[string]bool)
	for _, t := range active {
		seen[t.ID] = true
		threadID, ok := tr.byTension[t.ID]
		if !ok {
			if t.Severity < tr.cfg.MinSeverityForThread {
				continue
			}
			threadID = fmt.Sprintf("thread_%05d", tr.nextID)
			tr.nextID++
			tr.byTension[t.ID] = threadID
			tr.byID[threadID] = &Thread{ID: threadID, TensionID: t.ID, KeyAgents: keyAgentIDs(t), LastActiveTick: currentTick}
		}
		th := tr.byID[threadID]
		th.Status = statusToThreadStatus(t.Status)
		if t.LastUpdatedTick > th.LastActiveTick {
			th.LastActiveTick = t.LastUpdatedTick
		}
	}

	for _, th := range tr.byID {
		if currentTick-th.LastActiveTick > tr.cfg.DormantThresholdTicks {
			th.Status = ThreadDormant
		}
	}

	tr.pruneConcluded()
}

func (tr *Tracker) pruneConcluded() {
	if len(tr.byID) <= tr.cfg.MaxThreads {
		return
	}
	all := tr.All()
	sort.Slice(all, func(i, j int) bool {
		iConcluded := all[i].Status == ThreadConcluded
		jConcluded := all[j].Status == ThreadConcluded
		if iConcluded != jConcluded {
			return iConcluded
		}
		return all[i].LastActiveTick < all[j].LastActiveTick
	})
	for _, th := range all {
		if len(tr.byID) <= tr.cfg.MaxThreads {
			break
		}
		delete(tr.byID, th.ID)
		delete(tr.byTension, th.TensionID)
	}
}

// RecordScreenTime accumulates camera time on the thread tied to
// tensionID, if one exists.
func (tr *Tracker) RecordScreenTime(tensionID string, ticks uint64) {
	if threadID, ok := tr.byTension[tensionID]; ok {
		tr.byID[threadID].ScreenTimeTicks += ticks
	}
}

// Touch updates a thread's activity marker when an event names its key
// agents, keeping it from going dormant purely from a slow tension update.
func (tr *Tracker) Touch(e events.Event, currentTick uint64) {
	for _, th := range tr.byID {
		for _, a := range th.KeyAgents {
			if e.InvolvesAgent(a) {
				th.LastActiveTick = currentTick
				break
			}
		}
	}
}

// Get retrieves a thread by ID.
func (tr *Tracker) Get(id string) *Thread { return tr.byID[id] }

// ByTension retrieves the thread tracking a given tension, if any.
func (tr *Tracker) ByTension(tensionID string) *Thread {
	if id, ok := tr.byTension[tensionID]; ok {
		return tr.byID[id]
	}
	return nil
}

// All returns every thread, sorted by ID for deterministic iteration.
func (tr *Tracker) All() []*Thread {
	out := make([]*Thread, 0, len(tr.byID))
	for _, th := range tr.byID {
		out = append(out, th)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
