// Faction archives — immutable-unless-expunged records and the ritual
// selection rule that picks which ones the Reader recites.
package social

import (
	"fmt"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
)

// EntriesPerRitual bounds how many archive entries a single ritual recites.
const EntriesPerRitual = 2

// ArchiveEntry is an immutable-unless-expunged faction record.
type ArchiveEntry struct {
	EntryID     string         `json:"entry_id"`
	AuthorID    agents.AgentID `json:"author_id"`
	AuthorName  string         `json:"author_name"`
	Subject     agents.AgentID `json:"subject,omitempty"`
	Content     string         `json:"content"`
	TickWritten uint64         `json:"tick_written"`
	TimesRead   int            `json:"times_read"`
	IsAuthentic bool           `json:"is_authentic"`
	Disputes    []string       `json:"disputes,omitempty"`
	LastReadTick uint64        `json:"last_read_tick,omitempty"`
}

// Archive is a faction's ordered collection of written records.
type Archive struct {
	Entries []*ArchiveEntry `json:"entries"`
	nextID  uint64
}

// NewArchive creates an empty archive.
func NewArchive() *Archive { return &Archive{nextID: 1} }

// Write appends a new genuine entry authored by author.
func (a *Archive) Write(author agents.AgentID, authorName, content string, tick uint64) *ArchiveEntry {
	entry := &ArchiveEntry{
		EntryID:     fmt.Sprintf("entry_%06d", a.nextID),
		AuthorID:    author,
		AuthorName:  authorName,
		Content:     content,
		TickWritten: tick,
		IsAuthentic: true,
	}
	a.nextID++
	a.Entries = append(a.Entries, entry)
	return entry
}

// Forge appends a fabricated entry, indistinguishable to readers from a
// genuine one except for its IsAuthentic flag.
func (a *Archive) Forge(author agents.AgentID, authorName, content string, tick uint64) *ArchiveEntry {
	entry := a.Write(author, authorName, content, tick)
	entry.IsAuthentic = false
	return entry
}

// Destroy removes an entry by ID.
func (a *Archive) Destroy(entryID string) bool {
	for i, e := range a.Entries {
		if e.EntryID == entryID {
			a.Entries = append(a.Entries[:i], a.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// SelectForRitual picks the EntriesPerRitual least-read entries (lowest
// TimesRead), preferring reinforcement of records recited least often.
// Ties break by entry ID for determinism.
func (a *Archive) SelectForRitual() []*ArchiveEntry {
	if len(a.Entries) == 0 {
		return nil
	}
	sorted := append([]*ArchiveEntry(nil), a.Entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TimesRead != sorted[j].TimesRead {
			return sorted[i].TimesRead < sorted[j].TimesRead
		}
		return sorted[i].EntryID < sorted[j].EntryID
	})
	n := EntriesPerRitual
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// RitualScore computes the ritual-selection weight of an entry: reinforces
// loyalty (+0.3), embarrasses the current leader if the entry's subject is
// the leader (-0.4 if the Reader is loyal, +0.2 if disloyal — a disloyal
// Reader wants the leader embarrassed), and penalizes recently-read entries
// (-0.2) so least-recently-read entries are preferred.
func RitualScore(entry *ArchiveEntry, leaderID agents.AgentID, readerIsLoyal bool, currentTick uint64, recentWindow uint64) float64 {
	score := 0.3
	if entry.Subject == leaderID && leaderID != "" {
		if readerIsLoyal {
			score -= 0.4
		} else {
			score += 0.2
		}
	}
	if currentTick-entry.LastReadTick < recentWindow {
		score -= 0.2
	}
	return score
}

// MarkRead increments the read counter and timestamp on selected entries.
func (a *Archive) MarkRead(entry *ArchiveEntry, tick uint64) {
	entry.TimesRead++
	entry.LastReadTick = tick
}
