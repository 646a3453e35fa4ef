package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crossroads/internal/director"
)

func TestLoadTuningFallsBackToDefaultsWhenMissing(t *testing.T) {
	got := LoadTuning(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Equal(t, DefaultTuning(), got)
}

func TestLoadTuningFallsBackToDefaultsWhenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0644))
	got := LoadTuning(path)
	assert.Equal(t, DefaultTuning(), got)
}

func TestLoadTuningAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	require.NoError(t, os.WriteFile(path, []byte("noise_factor = 0.5\nentries_per_ritual = 4\n"), 0644))
	got := LoadTuning(path)
	assert.InDelta(t, 0.5, got.NoiseFactor, 1e-9)
	assert.Equal(t, 4, got.EntriesPerRitual)
	assert.InDelta(t, DefaultTuning().FoodStressThreshold, got.FoodStressThreshold, 1e-9)
}

func TestLoadDirectorConfigFallsBackToDefaultsWhenMissing(t *testing.T) {
	got := LoadDirectorConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Equal(t, director.DefaultConfig(), got)
}

func TestLoadDirectorConfigAppliesEventWeightOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "director.toml")
	require.NoError(t, os.WriteFile(path, []byte("[event_weights]\nbetrayal = 9.0\n"), 0644))
	got := LoadDirectorConfig(path)
	assert.InDelta(t, 9.0, got.Weights.Betrayal, 1e-9)
}

func TestLoadDirectorConfigAppliesThreadsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "director.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_threads = 7\n"), 0644))
	got := LoadDirectorConfig(path)
	assert.Equal(t, 7, got.Threads.MaxThreads)
}
