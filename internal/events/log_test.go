package events

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crossroads/internal/world"
)

func TestLogAppendAndNextID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	log, err := OpenLog(path)
	require.NoError(t, err)
	defer log.Close()

	assert.Equal(t, "evt_00000001", log.NextID())
	assert.Equal(t, "evt_00000002", log.NextID())

	e, err := NewBuilder(log.NextID(), world.Timestamp{Tick: 1}, TypeMovement).
		Primary(ActorSnapshot{AgentID: "agent_00001"}).
		Build()
	require.NoError(t, err)
	require.NoError(t, log.Append(e))

	require.NoError(t, log.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines int
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, 1, lines)
}

func TestLogRejectsDuplicateEventID(t *testing.T) {
	dir := t.TempDir()
	log, err := OpenLog(filepath.Join(dir, "events.jsonl"))
	require.NoError(t, err)
	defer log.Close()

	e, err := NewBuilder("evt_00000001", world.Timestamp{}, TypeMovement).
		Primary(ActorSnapshot{AgentID: "agent_00001"}).
		Build()
	require.NoError(t, err)

	require.NoError(t, log.Append(e))
	assert.Error(t, log.Append(e))
}

func TestOpenLogAppendsAcrossReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	first, err := OpenLog(path)
	require.NoError(t, err)
	e, err := NewBuilder("evt_00000001", world.Timestamp{}, TypeMovement).
		Primary(ActorSnapshot{AgentID: "agent_00001"}).
		Build()
	require.NoError(t, err)
	require.NoError(t, first.Append(e))
	require.NoError(t, first.Close())

	second, err := OpenLog(path)
	require.NoError(t, err)
	defer second.Close()
	e2, err := NewBuilder("evt_00000002", world.Timestamp{}, TypeMovement).
		Primary(ActorSnapshot{AgentID: "agent_00001"}).
		Build()
	require.NoError(t, err)
	require.NoError(t, second.Append(e2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "evt_00000001")
	assert.Contains(t, string(data), "evt_00000002")
}
