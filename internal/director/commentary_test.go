package director

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/tension"
)

func TestLoadTemplatesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commentary.toml")
	content := "[captions]\nbetrayal = \"{primary_name} betrays {secondary_name}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tmpl, err := LoadTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, "{primary_name} betrays {secondary_name}", tmpl.Captions["betrayal"])
}

func TestLoadTemplatesErrorsOnMissingFile(t *testing.T) {
	_, err := LoadTemplates(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestCaptionSkipsBelowMinDramaScore(t *testing.T) {
	tmpl := Templates{Captions: map[string]string{"betrayal": "{primary_name} betrays"}}
	cfg := DefaultCommentaryConfig()
	e := events.Event{EventType: events.TypeBetrayal, DramaScore: 0.1}

	_, ok := Caption(tmpl, cfg, e)
	assert.False(t, ok)
}

func TestCaptionPrefersSubtypeThenFallsBackToType(t *testing.T) {
	tmpl := Templates{Captions: map[string]string{
		"betrayal.secret": "a secret betrayal by {primary_name}",
		"betrayal":        "{primary_name} betrays",
	}}
	cfg := DefaultCommentaryConfig()

	withSubtype := events.Event{EventType: events.TypeBetrayal, Subtype: "secret", DramaScore: 0.9, Actors: events.ActorSet{Primary: events.ActorSnapshot{Name: "Bram"}}}
	item, ok := Caption(tmpl, cfg, withSubtype)
	require.True(t, ok)
	assert.Equal(t, "a secret betrayal by Bram", item.Content)

	withoutSubtype := events.Event{EventType: events.TypeBetrayal, DramaScore: 0.9, Actors: events.ActorSet{Primary: events.ActorSnapshot{Name: "Bram"}}}
	item, ok = Caption(tmpl, cfg, withoutSubtype)
	require.True(t, ok)
	assert.Equal(t, "Bram betrays", item.Content)
}

func TestCaptionMissingTemplateSkips(t *testing.T) {
	tmpl := Templates{}
	cfg := DefaultCommentaryConfig()
	e := events.Event{EventType: events.TypeBetrayal, DramaScore: 0.9}
	_, ok := Caption(tmpl, cfg, e)
	assert.False(t, ok)
}

func TestTeaserGatesOnSeverity(t *testing.T) {
	tmpl := Templates{Teasers: map[string]string{"brewing_betrayal": "{primary_name} is losing faith"}}
	cfg := DefaultCommentaryConfig()
	weak := &tension.Tension{Type: tension.TypeBrewingBetrayal, Severity: 0.05}
	_, ok := Teaser(tmpl, cfg, weak, "Aldric", "leader", "loc_home", "", "")
	assert.False(t, ok)

	strong := &tension.Tension{Type: tension.TypeBrewingBetrayal, Severity: 0.6}
	item, ok := Teaser(tmpl, cfg, strong, "Aldric", "leader", "loc_home", "", "")
	require.True(t, ok)
	assert.Equal(t, "Aldric is losing faith", item.Content)
}

func TestIronyBuildsItemFromSituation(t *testing.T) {
	tmpl := Templates{Irony: map[string]string{"unaware_trust": "{unaware_agent} still trusts {betrayer}"}}
	situation := IronySituation{SituationType: "unaware_trust", UnawareAgent: "agent_00002", BetrayerName: "Bram"}
	item, ok := Irony(tmpl, situation)
	require.True(t, ok)
	assert.Equal(t, "agent_00002 still trusts Bram", item.Content)
}

func TestQueuePushOrdersByPriorityAndEvictsWhenFull(t *testing.T) {
	q := NewQueue(CommentaryConfig{MaxQueueLength: 2})
	q.Push(Item{Content: "low", Priority: 0.1})
	q.Push(Item{Content: "high", Priority: 0.9})
	q.Push(Item{Content: "mid", Priority: 0.5})

	items := q.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "high", items[0].Content)
	assert.Equal(t, "mid", items[1].Content)
}

func TestQueueDrainEmptiesQueue(t *testing.T) {
	q := NewQueue(DefaultCommentaryConfig())
	q.Push(Item{Content: "one"})
	drained := q.Drain()
	assert.Len(t, drained, 1)
	assert.Empty(t, q.Items())
}
