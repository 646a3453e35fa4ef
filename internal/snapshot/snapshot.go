// Package snapshot serializes and atomically persists the world's agent,
// faction, and tension state, both for the periodic snapshots/snap_NNNNNNNNNN.json files and the
// overwritten current_state.json.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/atomicfile"
	"github.com/talgya/crossroads/internal/social"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/world"
)

// World is a point-in-time capture of every agent, every faction, and every
// tension the tracker still holds (resolved and dormant ones included until
// pruned). It does not hold the location graph, which a resume regenerates
// from Seed, nor trust relationships or memory banks. It omits the event
// log, which is append-only and never re-derived from a snapshot.
type World struct {
	SnapshotID string             `json:"snapshot_id"`
	Timestamp  world.Timestamp    `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Agents     []*agents.Agent    `json:"agents"`
	Factions   []*social.Faction  `json:"factions"`
	Tensions   []*tension.Tension `json:"tensions"`
}

// Build assembles a World snapshot from live simulation state, sorted by
// ID so the JSON output is stable across runs at the same tick.
func Build(tick uint64, seed int64, agentIndex map[agents.AgentID]*agents.Agent, factions *social.Registry, tensions *tension.Tracker) World {
	ids := make([]agents.AgentID, 0, len(agentIndex))
	for id := range agentIndex {
		ids = append(ids, id)
	}
	sortAgentIDs(ids)

	agentList := make([]*agents.Agent, 0, len(ids))
	for _, id := range ids {
		agentList = append(agentList, agentIndex[id])
	}

	return World{
		SnapshotID: uuid.NewString(),
		Timestamp:  world.DeriveTimestamp(tick),
		Seed:       seed,
		Agents:     agentList,
		Factions:   factions.All(),
		Tensions:   tensions.All(),
	}
}

func sortAgentIDs(ids []agents.AgentID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// Load reads a snapshot file written by WritePeriodic or WriteCurrent,
// resuming a run from a prior stopping point.
func Load(path string) (World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return World{}, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var w World
	if err := json.Unmarshal(data, &w); err != nil {
		return World{}, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return w, nil
}

// WritePeriodic writes a numbered snapshot file under dir.
func WritePeriodic(dir string, tick uint64, w World) error {
	path := fmt.Sprintf("%s/snapshots/snap_%010d.json", dir, tick)
	if err := atomicfile.WriteJSON(path, w, true); err != nil {
		return fmt.Errorf("snapshot: write periodic: %w", err)
	}
	return nil
}

// WriteCurrent overwrites the always-latest current_state.json.
func WriteCurrent(dir string, w World) error {
	path := dir + "/current_state.json"
	if err := atomicfile.WriteJSON(path, w, true); err != nil {
		return fmt.Errorf("snapshot: write current state: %w", err)
	}
	return nil
}

// WriteTensions overwrites tensions.json with the active tension list.
func WriteTensions(dir string, tensions []*tension.Tension) error {
	path := dir + "/tensions.json"
	if err := atomicfile.WriteJSON(path, tensions, true); err != nil {
		return fmt.Errorf("snapshot: write tensions: %w", err)
	}
	return nil
}
