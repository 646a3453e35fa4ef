package atomicfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
	Tick uint64 `json:"tick"`
}

func TestWriteJSONCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")

	require.NoError(t, WriteJSON(path, sample{Name: "aldric", Tick: 1}, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aldric")
}

func TestWriteJSONOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, WriteJSON(path, sample{Name: "aldric", Tick: 1}, false))
	require.NoError(t, WriteJSON(path, sample{Name: "elga", Tick: 2}, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "elga")
	assert.NotContains(t, string(data), "aldric")
}

func TestWriteJSONPrettyIndents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, WriteJSON(path, sample{Name: "aldric"}, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"name\"")
}

func TestWriteJSONLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, WriteJSON(path, sample{Name: "aldric"}, false))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}
