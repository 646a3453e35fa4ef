// Package agents provides the agent data model: fixed traits, mutable
// needs, goals, role/status, and inventory. See design doc Section 3.
package agents

import "github.com/talgya/crossroads/internal/world"

// AgentID is a unique identifier for an agent, prefixed "agent_".
type AgentID string

// Role is an agent's position within its faction.
type Role uint8

const (
	RoleLaborer Role = iota
	RoleNewcomer
	RoleSkilledWorker
	RoleSpecialist
	RoleScoutCaptain
	RoleHealer
	RoleSmith
	RoleCouncilMember
	RoleReader
	RoleLeader
	RoleExile
)

func (r Role) String() string {
	switch r {
	case RoleLaborer:
		return "laborer"
	case RoleNewcomer:
		return "newcomer"
	case RoleSkilledWorker:
		return "skilled_worker"
	case RoleSpecialist:
		return "specialist"
	case RoleScoutCaptain:
		return "scout_captain"
	case RoleHealer:
		return "healer"
	case RoleSmith:
		return "smith"
	case RoleCouncilMember:
		return "council"
	case RoleReader:
		return "reader"
	case RoleLeader:
		return "leader"
	case RoleExile:
		return "exile"
	default:
		return "unknown"
	}
}

// StatusLevel gives Role a total ordering. Several roles intentionally
// collapse to the same level.
type StatusLevel uint8

const (
	StatusExile StatusLevel = iota
	StatusEntry
	StatusSkilled
	StatusSpecialist
	StatusCouncil
	StatusLeader
)

// StatusLevel derives the status ordering for a role.
func (r Role) StatusLevel() StatusLevel {
	switch r {
	case RoleExile:
		return StatusExile
	case RoleNewcomer, RoleLaborer:
		return StatusEntry
	case RoleSkilledWorker:
		return StatusSkilled
	case RoleSpecialist, RoleScoutCaptain, RoleHealer, RoleSmith:
		return StatusSpecialist
	case RoleCouncilMember, RoleReader:
		return StatusCouncil
	case RoleLeader:
		return StatusLeader
	default:
		return StatusEntry
	}
}

// CanWriteArchive reports whether the role is permitted to author archive
// entries at a faction HQ.
func (r Role) CanWriteArchive() bool {
	switch r {
	case RoleLeader, RoleReader, RoleCouncilMember:
		return true
	default:
		return false
	}
}

// FoodRoleModifier scales a faction's per-member effective food by role,
// ported from the original needs system's food_role_modifier table.
func (r Role) FoodRoleModifier() float64 {
	switch r {
	case RoleLeader:
		return 1.5
	case RoleReader:
		return 1.3
	case RoleCouncilMember:
		return 1.2
	case RoleScoutCaptain, RoleHealer, RoleSmith:
		return 1.1
	case RoleSkilledWorker, RoleSpecialist:
		return 1.0
	case RoleLaborer:
		return 0.9
	case RoleNewcomer:
		return 0.8
	default:
		return 1.0
	}
}

// Traits are fixed at spawn and never change. All values are in [0,1].
type Traits struct {
	Boldness        float64 `json:"boldness"`
	LoyaltyWeight   float64 `json:"loyalty_weight"`
	GrudgePersistence float64 `json:"grudge_persistence"`
	Ambition        float64 `json:"ambition"`
	Honesty         float64 `json:"honesty"`
	Sociability     float64 `json:"sociability"`
	GroupPreference float64 `json:"group_preference"`
}

// DefaultTraits returns the neutral trait vector (all 0.5), matching the
// original component defaults.
func DefaultTraits() Traits {
	return Traits{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
}

// FoodSecurity is a hysteresis state machine over per-member effective food.
type FoodSecurity uint8

const (
	FoodSecure FoodSecurity = iota
	FoodStressed
	FoodDesperate
)

func (f FoodSecurity) String() string {
	switch f {
	case FoodSecure:
		return "secure"
	case FoodStressed:
		return "stressed"
	case FoodDesperate:
		return "desperate"
	default:
		return "unknown"
	}
}

// SocialBelonging is a hysteresis state machine over trust/interaction/ritual signals.
type SocialBelonging uint8

const (
	Integrated SocialBelonging = iota
	Peripheral
	Isolated
)

func (b SocialBelonging) String() string {
	switch b {
	case Integrated:
		return "integrated"
	case Peripheral:
		return "peripheral"
	case Isolated:
		return "isolated"
	default:
		return "unknown"
	}
}

// Needs tracks the two mutable state machines needs.go updates each tick.
type Needs struct {
	FoodSecurity    FoodSecurity    `json:"food_security"`
	SocialBelonging SocialBelonging `json:"social_belonging"`
}

// GoalType enumerates the kinds of goal an agent can pursue.
type GoalType uint8

const (
	GoalSurvive GoalType = iota
	GoalSurviveWinter
	GoalRevenge
	GoalRiseInStatus
	GoalProtect
	GoalAccumulateResources
	GoalBuildRelationship
	GoalDefect
	GoalSupportLeader
	GoalChallengeLeader
)

func (g GoalType) String() string {
	switch g {
	case GoalSurvive:
		return "survive"
	case GoalSurviveWinter:
		return "survive_winter"
	case GoalRevenge:
		return "revenge"
	case GoalRiseInStatus:
		return "rise_in_status"
	case GoalProtect:
		return "protect"
	case GoalAccumulateResources:
		return "accumulate_resources"
	case GoalBuildRelationship:
		return "build_relationship"
	case GoalDefect:
		return "defect"
	case GoalSupportLeader:
		return "support_leader"
	case GoalChallengeLeader:
		return "challenge_leader"
	default:
		return "unknown"
	}
}

// Goal is a prioritized objective with optional target and expiry.
type Goal struct {
	Type        GoalType `json:"goal_type"`
	Priority    float64  `json:"priority"`
	Target      AgentID  `json:"target,omitempty"`
	ExpiresAt   uint64   `json:"expires_at,omitempty"`
	OriginEvent string   `json:"origin_event,omitempty"`
}

// HasExpiry reports whether the goal carries a tick-based expiry.
func (g Goal) HasExpiry() bool { return g.ExpiresAt != 0 }

// Goals is an agent's active objective list.
type Goals struct {
	Items []Goal `json:"goals"`
}

// Add appends a goal.
func (g *Goals) Add(goal Goal) { g.Items = append(g.Items, goal) }

// RemoveExpired drops goals whose expiry has passed.
func (g *Goals) RemoveExpired(currentTick uint64) {
	kept := g.Items[:0]
	for _, goal := range g.Items {
		if goal.HasExpiry() && goal.ExpiresAt <= currentTick {
			continue
		}
		kept = append(kept, goal)
	}
	g.Items = kept
}

// HasGoal reports whether any active goal has the given type.
func (g *Goals) HasGoal(t GoalType) bool {
	_, ok := g.Get(t)
	return ok
}

// Get returns the first goal of the given type, if any.
func (g *Goals) Get(t GoalType) (Goal, bool) {
	for _, goal := range g.Items {
		if goal.Type == t {
			return goal, true
		}
	}
	return Goal{}, false
}

// HighestPriority returns the goal with the greatest priority, if any exist.
func (g *Goals) HighestPriority() (Goal, bool) {
	if len(g.Items) == 0 {
		return Goal{}, false
	}
	best := g.Items[0]
	for _, goal := range g.Items[1:] {
		if goal.Priority > best.Priority {
			best = goal
		}
	}
	return best, true
}

// PhysicalState tracks bodily condition, separate from the abstract needs
// state machines above.
type PhysicalState struct {
	Health      float64 `json:"health"`
	Hunger      float64 `json:"hunger"`
	Exhaustion  float64 `json:"exhaustion"`
	Intoxication float64 `json:"intoxication"`
}

// DefaultPhysicalState returns a healthy, rested newborn adult's state.
func DefaultPhysicalState() PhysicalState {
	return PhysicalState{Health: 1.0}
}

// Inventory holds personal-carry quantities, distinct from faction resources.
type Inventory struct {
	Grain float64 `json:"grain"`
	Iron  float64 `json:"iron"`
	Salt  float64 `json:"salt"`
	Beer  float64 `json:"beer"`
}

// Agent is the unit of decision-making in the simulation.
type Agent struct {
	ID        AgentID       `json:"id"`
	Name      string        `json:"name"`
	FactionID string        `json:"faction_id,omitempty"`
	Role      Role          `json:"role"`
	Location  world.LocationID `json:"location"`

	Traits Traits `json:"traits"`
	Needs  Needs  `json:"needs"`
	Physical PhysicalState `json:"physical"`
	Goals  Goals `json:"goals"`
	Inventory Inventory `json:"inventory"`

	VisibleAgents []AgentID `json:"-"`

	Alive    bool   `json:"alive"`
	BornTick uint64 `json:"born_tick"`
}

// StatusLevel is a convenience accessor over the agent's role.
func (a *Agent) StatusLevel() StatusLevel { return a.Role.StatusLevel() }

// IsExile reports whether the agent belongs to no faction.
func (a *Agent) IsExile() bool { return a.FactionID == "" }
