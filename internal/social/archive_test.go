package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crossroads/internal/agents"
)

func TestArchiveWriteAndForge(t *testing.T) {
	a := NewArchive()
	leader := agents.AgentID("agent_00001")

	genuine := a.Write(leader, "Aldric", "the founding record", 0)
	forged := a.Forge(leader, "Aldric", "a flattering lie", 1)

	assert.True(t, genuine.IsAuthentic)
	assert.False(t, forged.IsAuthentic)
	assert.NotEqual(t, genuine.EntryID, forged.EntryID)
	assert.Len(t, a.Entries, 2)
}

func TestArchiveDestroy(t *testing.T) {
	a := NewArchive()
	entry := a.Write("agent_00001", "Aldric", "record", 0)

	assert.True(t, a.Destroy(entry.EntryID))
	assert.Empty(t, a.Entries)
	assert.False(t, a.Destroy("entry_999999"))
}

func TestSelectForRitual(t *testing.T) {
	t.Run("empty archive selects nothing", func(t *testing.T) {
		a := NewArchive()
		assert.Nil(t, a.SelectForRitual())
	})

	t.Run("prefers least-read entries, ties break by ID", func(t *testing.T) {
		a := NewArchive()
		e1 := a.Write("agent_00001", "A", "one", 0)
		e2 := a.Write("agent_00001", "A", "two", 0)
		e3 := a.Write("agent_00001", "A", "three", 0)

		e2.TimesRead = 5

		selected := a.SelectForRitual()
		require.Len(t, selected, EntriesPerRitual)
		assert.Equal(t, e1.EntryID, selected[0].EntryID)
		assert.Equal(t, e3.EntryID, selected[1].EntryID)
	})

	t.Run("caps at EntriesPerRitual even with a larger archive", func(t *testing.T) {
		a := NewArchive()
		for i := 0; i < 5; i++ {
			a.Write("agent_00001", "A", "entry", 0)
		}
		assert.Len(t, a.SelectForRitual(), EntriesPerRitual)
	})
}

func TestRitualScore(t *testing.T) {
	leader := agents.AgentID("agent_00001")
	entry := &ArchiveEntry{EntryID: "entry_000001", Subject: leader}

	t.Run("a loyal reader avoids embarrassing entries about the leader", func(t *testing.T) {
		score := RitualScore(entry, leader, true, 1000, 500)
		assert.InDelta(t, 0.3-0.4, score, 1e-9)
	})

	t.Run("a disloyal reader favors entries that embarrass the leader", func(t *testing.T) {
		score := RitualScore(entry, leader, false, 1000, 500)
		assert.InDelta(t, 0.3+0.2, score, 1e-9)
	})

	t.Run("recently read entries are penalized regardless of subject", func(t *testing.T) {
		unrelated := &ArchiveEntry{EntryID: "entry_000002", LastReadTick: 950}
		score := RitualScore(unrelated, leader, true, 1000, 500)
		assert.InDelta(t, 0.3-0.2, score, 1e-9)
	})
}

func TestArchiveMarkRead(t *testing.T) {
	a := NewArchive()
	entry := a.Write("agent_00001", "A", "record", 0)
	a.MarkRead(entry, 100)
	a.MarkRead(entry, 200)
	assert.Equal(t, 2, entry.TimesRead)
	assert.Equal(t, uint64(200), entry.LastReadTick)
}
