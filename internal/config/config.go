// Package config loads the TOML-driven tuning knobs for the simulation and
// the director, falling back to defaults with a structured warning on a
// missing or malformed file. Grounded on the teacher's own config-loading
// style and original_source's TuningConfig/DirectorConfig defaults.
package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/talgya/crossroads/internal/director"
	"github.com/talgya/crossroads/internal/world"
)

// Tuning holds the knobs read from tuning.toml. The engine reads
// TicksPerSeason and TensionDetectionInterval; the other fields mirror
// constants hardcoded in the action, agents and social packages, which do
// not read Tuning, so setting them in tuning.toml has no effect.
type Tuning struct {
	NoiseFactor               float64 `toml:"noise_factor"`
	FoodStressThreshold       float64 `toml:"food_stress_threshold"`
	FoodDesperateThreshold    float64 `toml:"food_desperate_threshold"`
	FoodSecureThreshold       float64 `toml:"food_secure_threshold"`
	GrudgeReliabilityFloor    float64 `toml:"grudge_reliability_floor"`
	TicksPerSeason            uint64  `toml:"ticks_per_season"`
	EntriesPerRitual          int     `toml:"entries_per_ritual"`
	TensionDetectionInterval  uint64  `toml:"tension_detection_interval"`
}

// DefaultTuning mirrors the constants hardcoded elsewhere in the package
// tree; loading a tuning.toml only overrides what it explicitly sets.
// TicksPerSeason defaults to a full calendar season (world.TicksPerDay *
// world.DaysPerSeason) so memory decay tracks the same season boundary the
// calendar and ritual scheduling use, rather than a private clock.
func DefaultTuning() Tuning {
	return Tuning{
		NoiseFactor:              0.2,
		FoodStressThreshold:      3.0,
		FoodDesperateThreshold:   1.0,
		FoodSecureThreshold:      5.0,
		GrudgeReliabilityFloor:   -0.3,
		TicksPerSeason:           world.TicksPerDay * world.DaysPerSeason,
		EntriesPerRitual:         2,
		TensionDetectionInterval: 10,
	}
}

// LoadTuning reads tuning.toml at path, returning defaults (with a warning
// logged) if the file is missing or fails to parse.
func LoadTuning(path string) Tuning {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("config: tuning file not found, using defaults", "path", path)
		} else {
			slog.Warn("config: failed to read tuning file, using defaults", "path", path, "error", err)
		}
		return t
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		slog.Warn("config: failed to parse tuning file, using defaults", "path", path, "error", err)
		return DefaultTuning()
	}
	return t
}

// DirectorSection mirrors director.toml's top-level shape, deferring to
// director.Config's own defaults for anything unset.
type DirectorSection struct {
	EventWeights map[string]float64 `toml:"event_weights"`
	MinSeverityForThread        float64 `toml:"min_severity_for_thread"`
	DormantThresholdTicks       uint64  `toml:"dormant_threshold_ticks"`
	ThreadFatigueThresholdTicks uint64  `toml:"thread_fatigue_threshold_ticks"`
	MaxThreads                  int     `toml:"max_threads"`
	MinTensionSeverity          float64 `toml:"min_tension_severity"`
	IronyTrustThreshold         float64 `toml:"irony_trust_threshold"`
	MinDramaScore               float64 `toml:"min_drama_score"`
}

// LoadDirectorConfig reads director.toml at path, applying any set fields
// on top of director.DefaultConfig() and falling back entirely to defaults
// on a missing or malformed file.
func LoadDirectorConfig(path string) director.Config {
	cfg := director.DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("config: director config not found, using defaults", "path", path)
		} else {
			slog.Warn("config: failed to read director config, using defaults", "path", path, "error", err)
		}
		return cfg
	}

	var section DirectorSection
	if err := toml.Unmarshal(data, &section); err != nil {
		slog.Warn("config: failed to parse director config, using defaults", "path", path, "error", err)
		return director.DefaultConfig()
	}

	if v, ok := section.EventWeights["betrayal"]; ok {
		cfg.Weights.Betrayal = v
	}
	if v, ok := section.EventWeights["death"]; ok {
		cfg.Weights.Death = v
	}
	if v, ok := section.EventWeights["conflict"]; ok {
		cfg.Weights.Conflict = v
	}
	if v, ok := section.EventWeights["faction"]; ok {
		cfg.Weights.Faction = v
	}
	if v, ok := section.EventWeights["ritual"]; ok {
		cfg.Weights.Ritual = v
	}
	if v, ok := section.EventWeights["loyalty"]; ok {
		cfg.Weights.Loyalty = v
	}
	if v, ok := section.EventWeights["cooperation"]; ok {
		cfg.Weights.Cooperation = v
	}
	if v, ok := section.EventWeights["communication"]; ok {
		cfg.Weights.Communication = v
	}
	if v, ok := section.EventWeights["birth"]; ok {
		cfg.Weights.Birth = v
	}
	if v, ok := section.EventWeights["resource"]; ok {
		cfg.Weights.Resource = v
	}
	if v, ok := section.EventWeights["archive"]; ok {
		cfg.Weights.Archive = v
	}
	if v, ok := section.EventWeights["movement"]; ok {
		cfg.Weights.Movement = v
	}

	if section.MinSeverityForThread != 0 {
		cfg.Threads.MinSeverityForThread = section.MinSeverityForThread
	}
	if section.DormantThresholdTicks != 0 {
		cfg.Threads.DormantThresholdTicks = section.DormantThresholdTicks
	}
	if section.ThreadFatigueThresholdTicks != 0 {
		cfg.Threads.ThreadFatigueThresholdTicks = section.ThreadFatigueThresholdTicks
	}
	if section.MaxThreads != 0 {
		cfg.Threads.MaxThreads = section.MaxThreads
	}
	if section.MinTensionSeverity != 0 {
		cfg.Focus.MinTensionSeverity = section.MinTensionSeverity
	}
	if section.IronyTrustThreshold != 0 {
		cfg.Irony.TrustThreshold = section.IronyTrustThreshold
	}
	if section.MinDramaScore != 0 {
		cfg.Commentary.MinDramaScore = section.MinDramaScore
	}

	return cfg
}
