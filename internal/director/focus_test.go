package director

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/crossroads/internal/tension"
)

func TestSelectFocusFallsBackToOverviewWithNoTensions(t *testing.T) {
	threads := NewTracker(DefaultTrackerConfig())
	script := SelectFocus(nil, threads, DefaultFocusConfig(), "")
	assert.Equal(t, CameraOverview, script.Mode)
}

func TestSelectFocusPicksHighestSeverity(t *testing.T) {
	threads := NewTracker(DefaultTrackerConfig())
	low := &tension.Tension{ID: "tens_00000001", Severity: 0.3, Status: tension.StatusEscalating}
	high := &tension.Tension{ID: "tens_00000002", Severity: 0.9, Status: tension.StatusClimax}

	script := SelectFocus([]*tension.Tension{low, high}, threads, DefaultFocusConfig(), "")
	assert.Equal(t, "tens_00000002", script.TensionID)
	assert.Equal(t, PacingClimactic, script.Pacing)
}

func TestSelectFocusFiltersBelowSeverityFloor(t *testing.T) {
	threads := NewTracker(DefaultTrackerConfig())
	tn := &tension.Tension{ID: "tens_00000001", Severity: 0.05, Status: tension.StatusEmerging}
	script := SelectFocus([]*tension.Tension{tn}, threads, DefaultFocusConfig(), "")
	assert.Equal(t, CameraOverview, script.Mode)
}

func TestSelectFocusExcludesResolvedTensions(t *testing.T) {
	threads := NewTracker(DefaultTrackerConfig())
	tn := &tension.Tension{ID: "tens_00000001", Severity: 0.9, Status: tension.StatusResolved}
	script := SelectFocus([]*tension.Tension{tn}, threads, DefaultFocusConfig(), "")
	assert.Equal(t, CameraOverview, script.Mode)
}

func TestSelectFocusPrefersContinuityOverHigherSeverity(t *testing.T) {
	threads := NewTracker(DefaultTrackerConfig())
	current := &tension.Tension{ID: "tens_00000001", Severity: 0.4, Status: tension.StatusEscalating}
	other := &tension.Tension{ID: "tens_00000002", Severity: 0.9, Status: tension.StatusClimax}

	script := SelectFocus([]*tension.Tension{current, other}, threads, DefaultFocusConfig(), "tens_00000001")
	assert.Equal(t, "tens_00000001", script.TensionID)
	assert.Equal(t, "continuing focus", script.Reason)
}

func TestSelectFocusDropsContinuityWhenThreadFatigued(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.ThreadFatigueThresholdTicks = 10
	threads := NewTracker(cfg)
	current := &tension.Tension{ID: "tens_00000001", Severity: 0.4, Status: tension.StatusEscalating}
	other := &tension.Tension{ID: "tens_00000002", Severity: 0.9, Status: tension.StatusClimax}
	threads.Sync([]*tension.Tension{current, other}, 0)
	threads.RecordScreenTime("tens_00000001", 20)

	script := SelectFocus([]*tension.Tension{current, other}, threads, DefaultFocusConfig(), "tens_00000001")
	assert.Equal(t, "tens_00000002", script.TensionID)
}

func TestModeForParticipantCount(t *testing.T) {
	mode, framing := modeFor(nil, 0)
	assert.Equal(t, CameraOverview, mode)
	assert.Equal(t, FramingNone, framing)

	mode, framing = modeFor(nil, 1)
	assert.Equal(t, CameraFollowAgent, mode)

	mode, framing = modeFor(nil, 2)
	assert.Equal(t, CameraFrameMultiple, mode)
	assert.Equal(t, FramingConversation, framing)

	mode, framing = modeFor(nil, 5)
	assert.Equal(t, CameraFrameMultiple, mode)
	assert.Equal(t, FramingGroup, framing)
}
