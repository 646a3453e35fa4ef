package director

import (
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
)

// Config bundles every tunable subsection loaded from director.toml.
type Config struct {
	Weights    EventWeights
	Threads    TrackerConfig
	Focus      FocusConfig
	Irony      IronyConfig
	Commentary CommentaryConfig
}

// DefaultConfig returns the reference defaults for every subsection.
func DefaultConfig() Config {
	return Config{
		Weights:    DefaultEventWeights(),
		Threads:    DefaultTrackerConfig(),
		Focus:      DefaultFocusConfig(),
		Irony:      DefaultIronyConfig(),
		Commentary: DefaultCommentaryConfig(),
	}
}

// Director is the stateful processor over (events_since_last,
// active_tensions, latest_snapshot) that produces one DirectorOutput per
// tick.
type Director struct {
	cfg           Config
	templates     Templates
	threads       *Tracker
	irony         *Detector
	queue         *Queue
	trackedAgents map[agents.AgentID]bool
	currentFocus  string
	highlightMin  float64
}

// New creates a Director with the given config and commentary templates.
func New(cfg Config, templates Templates, trackedAgents map[agents.AgentID]bool) *Director {
	return &Director{
		cfg:           cfg,
		templates:     templates,
		threads:       NewTracker(cfg.Threads),
		irony:         NewDetector(cfg.Irony),
		queue:         NewQueue(cfg.Commentary),
		trackedAgents: trackedAgents,
		highlightMin:  0.7,
	}
}

// Output is the per-tick DirectorOutput: {generated_at_tick, camera_script,
// commentary_queue, active_threads, highlights}.
type Output struct {
	GeneratedAtTick uint64
	CameraScript    CameraScript
	CommentaryQueue []Item
	ActiveThreads   []*Thread
	Highlights      []events.Event
}

// Tick processes one tick's worth of new events and active tensions,
// updating internal thread/irony state and returning the resulting output.
func (d *Director) Tick(currentTick uint64, newEvents []events.Event, active []*tension.Tension, graph *social.RelationshipGraph, memories *social.MemoryBank) Output {
	d.threads.Sync(active, currentTick)

	tensionAgents := TensionEventIndex(active)
	var highlights []events.Event
	for _, e := range newEvents {
		score := ScoreWithParticipants(e, d.cfg.Weights, d.trackedAgents, tensionAgents)
		e = e.WithDrama(e.DramaTags, score)
		d.threads.Touch(e, currentTick)
		d.irony.Record(e)

		if item, ok := Caption(d.templates, d.cfg.Commentary, e); ok {
			d.queue.Push(item)
		}
		if score >= d.highlightMin {
			highlights = append(highlights, e)
		}
	}

	for _, owner := range trackedOwners(d.trackedAgents) {
		for _, m := range memories.Memories(owner) {
			d.irony.NotifyMemoryAcquired(owner, m)
		}
	}
	for _, situation := range d.irony.Detect(graph) {
		if item, ok := Irony(d.templates, situation); ok {
			d.queue.Push(item)
		}
	}
	d.irony.Cleanup(currentTick)

	script := SelectFocus(active, d.threads, d.cfg.Focus, d.currentFocus)
	d.currentFocus = script.TensionID
	if script.TensionID != "" {
		d.threads.RecordScreenTime(script.TensionID, 1)
	}

	return Output{
		GeneratedAtTick: currentTick,
		CameraScript:    script,
		CommentaryQueue: d.queue.Drain(),
		ActiveThreads:   d.threads.All(),
		Highlights:      highlights,
	}
}

func trackedOwners(tracked map[agents.AgentID]bool) []agents.AgentID {
	out := make([]agents.AgentID, 0, len(tracked))
	for id, on := range tracked {
		if on {
			out = append(out, id)
		}
	}
	return out
}
