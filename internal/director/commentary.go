package director

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/tension"
)

// Templates holds every commentary template keyed the way the TOML file
// lays them out.
type Templates struct {
	Captions map[string]string `toml:"captions"`
	Irony    map[string]string `toml:"irony"`
	Teasers  map[string]string `toml:"teasers"`
	Reminders map[string]string `toml:"reminders"`
}

// LoadTemplates parses a director commentary TOML file.
func LoadTemplates(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("director: read templates %s: %w", path, err)
	}
	var t Templates
	if err := toml.Unmarshal(data, &t); err != nil {
		return Templates{}, fmt.Errorf("director: parse templates %s: %w", path, err)
	}
	return t, nil
}

// CommentaryConfig tunes queue admission and display duration.
type CommentaryConfig struct {
	MinDramaScore          float64
	MinTensionSeverity     float64
	BaseDisplayDurationTicks uint64
	TicksPerCharacter      float64
	MaxQueueLength         int
}

// DefaultCommentaryConfig returns sensible defaults.
func DefaultCommentaryConfig() CommentaryConfig {
	return CommentaryConfig{
		MinDramaScore:            0.3,
		MinTensionSeverity:       0.3,
		BaseDisplayDurationTicks: 50,
		TicksPerCharacter:        1.5,
		MaxQueueLength:           50,
	}
}

// Item is one entry in the bounded commentary queue.
type Item struct {
	Kind            string // "caption", "irony", "teaser", "reminder"
	Content         string
	Priority        float64
	DisplayDurationTicks uint64
}

func substitute(template string, fields map[string]string) string {
	out := template
	for key, val := range fields {
		if val == "" {
			val = "someone"
		}
		out = strings.ReplaceAll(out, "{"+key+"}", val)
	}
	return out
}

func captionFields(e events.Event) map[string]string {
	affectedNames := make([]string, 0, len(e.Actors.Affected))
	for _, a := range e.Actors.Affected {
		affectedNames = append(affectedNames, a.Name)
	}
	secondaryName, secondaryFaction := "", ""
	if e.Actors.Secondary != nil {
		secondaryName = e.Actors.Secondary.Name
		secondaryFaction = e.Actors.Secondary.Faction
	}
	return map[string]string{
		"primary_name":     e.Actors.Primary.Name,
		"primary_faction":  e.Actors.Primary.Faction,
		"primary_role":     e.Actors.Primary.Role,
		"secondary_name":   secondaryName,
		"secondary_faction": secondaryFaction,
		"location":         string(e.Actors.Primary.Location),
		"affected_names":   strings.Join(affectedNames, ", "),
	}
}

// Caption builds a caption Item for e, using the "<type>.<subtype>"
// template, falling back to "<type>" alone, and skipping entirely if the
// event's drama score is below the configured minimum.
func Caption(t Templates, cfg CommentaryConfig, e events.Event) (Item, bool) {
	if e.DramaScore < cfg.MinDramaScore {
		return Item{}, false
	}
	key := string(e.EventType) + "." + e.Subtype
	tmpl, ok := t.Captions[key]
	if !ok {
		tmpl, ok = t.Captions[string(e.EventType)]
	}
	if !ok {
		return Item{}, false
	}
	content := substitute(tmpl, captionFields(e))
	return Item{
		Kind:                 "caption",
		Content:              content,
		Priority:             e.DramaScore,
		DisplayDurationTicks: cfg.BaseDisplayDurationTicks + uint64(float64(len(content))*cfg.TicksPerCharacter),
	}, true
}

// Teaser builds a teaser Item for an active tension, gated on severity.
func Teaser(t Templates, cfg CommentaryConfig, ten *tension.Tension, primaryName, primaryRole, location, summary, hook string) (Item, bool) {
	if ten.Severity < cfg.MinTensionSeverity {
		return Item{}, false
	}
	tmpl, ok := t.Teasers[string(ten.Type)]
	if !ok {
		return Item{}, false
	}
	content := substitute(tmpl, map[string]string{
		"primary_name": primaryName,
		"primary_role": primaryRole,
		"location":     location,
		"summary":      summary,
		"hook":         hook,
	})
	return Item{Kind: "teaser", Content: content, Priority: ten.Severity * 0.7, DisplayDurationTicks: cfg.BaseDisplayDurationTicks}, true
}

const ironyPriority = 0.8

// Irony builds an Item for an IronySituation.
func Irony(t Templates, situation IronySituation) (Item, bool) {
	tmpl, ok := t.Irony[situation.SituationType]
	if !ok {
		return Item{}, false
	}
	content := substitute(tmpl, map[string]string{
		"unaware_agent":     string(situation.UnawareAgent),
		"betrayer":          situation.BetrayerName,
		"betrayal_location": situation.Location,
		"secret_info":       situation.SecretInfo,
	})
	return Item{Kind: "irony", Content: content, Priority: ironyPriority}, true
}

// Queue is the bounded, priority-ordered commentary buffer.
type Queue struct {
	cfg   CommentaryConfig
	items []Item
}

// NewQueue creates an empty queue with the given config.
func NewQueue(cfg CommentaryConfig) *Queue { return &Queue{cfg: cfg} }

// Push admits item if the queue has room, evicting the lowest-priority
// entry when full and item outranks it.
func (q *Queue) Push(item Item) {
	q.items = append(q.items, item)
	sort.SliceStable(q.items, func(i, j int) bool { return q.items[i].Priority > q.items[j].Priority })
	if len(q.items) > q.cfg.MaxQueueLength {
		q.items = q.items[:q.cfg.MaxQueueLength]
	}
}

// Items returns the current queue contents, highest priority first.
func (q *Queue) Items() []Item { return q.items }

// Drain empties and returns the queue.
func (q *Queue) Drain() []Item {
	out := q.items
	q.items = nil
	return out
}
