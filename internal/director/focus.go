package director

import (
	"sort"

	"github.com/talgya/crossroads/internal/tension"
)

// CameraMode is the tagged variant naming what the virtual camera is doing.
type CameraMode string

const (
	CameraOverview      CameraMode = "overview"
	CameraFollowAgent   CameraMode = "follow_agent"
	CameraFrameMultiple CameraMode = "frame_multiple"
	CameraFrameLocation CameraMode = "frame_location"
)

// Framing further qualifies FrameMultiple.
type Framing string

const (
	FramingNone         Framing = ""
	FramingConversation Framing = "conversation"
	FramingGroup        Framing = "group"
)

// Pacing is the tempo a downstream renderer should use.
type Pacing string

const (
	PacingSlow      Pacing = "slow"
	PacingNormal    Pacing = "normal"
	PacingUrgent    Pacing = "urgent"
	PacingClimactic Pacing = "climactic"
)

// Zoom is the camera's distance level.
type Zoom string

const (
	ZoomWide   Zoom = "wide"
	ZoomMedium Zoom = "medium"
	ZoomClose  Zoom = "close"
)

// RecommendedCameraFocus, when passed to modeFor, overrides the
// participant-count heuristic. The focus selector's camera scripts pass
// none, so their camera mode comes from the tension's key-agent count.
type RecommendedCameraFocus struct {
	Primary            string
	Secondary          string
	LocationsOfInterest []string
}

// CameraScript is one tick's camera directive.
type CameraScript struct {
	Mode      CameraMode
	Framing   Framing
	Pacing    Pacing
	Zoom      Zoom
	TensionID string
	Reason    string
}

// FocusConfig tunes the selector's severity floor.
type FocusConfig struct {
	MinTensionSeverity float64
}

// DefaultFocusConfig returns the reference default.
func DefaultFocusConfig() FocusConfig { return FocusConfig{MinTensionSeverity: 0.2} }

func paceFor(severity float64) Pacing {
	switch {
	case severity >= 0.9:
		return PacingClimactic
	case severity >= 0.7:
		return PacingUrgent
	case severity >= 0.4:
		return PacingNormal
	default:
		return PacingSlow
	}
}

func zoomFor(severity float64) Zoom {
	switch {
	case severity >= 0.8:
		return ZoomClose
	case severity >= 0.5:
		return ZoomMedium
	default:
		return ZoomWide
	}
}

func modeFor(recommended *RecommendedCameraFocus, participantCount int) (CameraMode, Framing) {
	if recommended != nil {
		switch {
		case recommended.Primary != "" && recommended.Secondary != "":
			return CameraFrameMultiple, FramingNone
		case recommended.Primary != "":
			return CameraFollowAgent, FramingNone
		case len(recommended.LocationsOfInterest) > 0:
			return CameraFrameLocation, FramingNone
		}
	}
	switch {
	case participantCount == 0:
		return CameraOverview, FramingNone
	case participantCount == 1:
		return CameraFollowAgent, FramingNone
	case participantCount == 2:
		return CameraFrameMultiple, FramingConversation
	default:
		return CameraFrameMultiple, FramingGroup
	}
}

// SelectFocus picks the tension the camera should track this tick,
// preferring continuity with currentFocusTensionID unless it has gone
// stale, is no longer active, or its thread is fatigued.
func SelectFocus(active []*tension.Tension, threads *Tracker, cfg FocusConfig, currentFocusTensionID string) CameraScript {
	candidates := filterCandidates(active, cfg)
	if len(candidates) == 0 {
		return CameraScript{Mode: CameraOverview, Pacing: PacingSlow, Zoom: ZoomWide, Reason: "no active tensions"}
	}

	if currentFocusTensionID != "" {
		for _, t := range candidates {
			if t.ID != currentFocusTensionID {
				continue
			}
			th := threads.ByTension(t.ID)
			if th == nil || !th.IsFatigued(threads.cfg) {
				return scriptFor(t, "continuing focus")
			}
		}
	}

	best := highestSeverityNonFatigued(candidates, threads)
	if best != nil {
		return scriptFor(best, "highest severity")
	}

	fallback := highestSeverity(candidates)
	return scriptFor(fallback, "forced re-watch: all tensions fatigued")
}

func filterCandidates(active []*tension.Tension, cfg FocusConfig) []*tension.Tension {
	var out []*tension.Tension
	for _, t := range active {
		if t.Status == tension.StatusResolved {
			continue
		}
		if t.Severity < cfg.MinTensionSeverity {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func highestSeverityNonFatigued(candidates []*tension.Tension, threads *Tracker) *tension.Tension {
	var best *tension.Tension
	for _, t := range candidates {
		th := threads.ByTension(t.ID)
		if th != nil && th.IsFatigued(threads.cfg) {
			continue
		}
		if best == nil || t.Severity > best.Severity {
			best = t
		}
	}
	return best
}

func highestSeverity(candidates []*tension.Tension) *tension.Tension {
	best := candidates[0]
	for _, t := range candidates[1:] {
		if t.Severity > best.Severity {
			best = t
		}
	}
	return best
}

func scriptFor(t *tension.Tension, reason string) CameraScript {
	mode, framing := modeFor(nil, len(t.KeyAgents))
	return CameraScript{
		Mode:      mode,
		Framing:   framing,
		Pacing:    paceFor(t.Severity),
		Zoom:      zoomFor(t.Severity),
		TensionID: t.ID,
		Reason:    reason,
	}
}
