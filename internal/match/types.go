// Package match implements the simulation engine: player decision policy,
// ball physics, possession bookkeeping, referee clock and event recording.
package match

import "time"

// Event kinds appearing in the recorded trace. Exactly these nine occur.
const (
	EvPass          = "PASS"
	EvPassFailed    = "PASS_FAILED"
	EvDribble       = "DRIBBLE"
	EvDribbleFailed = "DRIBBLE_FAILED"
	EvShot          = "SHOT"
	EvShotMissed    = "SHOT_MISSED"
	EvGoal          = "GOAL"
	EvClear         = "CLEAR"
	EvPossession    = "POSSESSION"
)

// ActionKind is the closed set of actions a player may attempt. MOVE_OFFBALL
// is positioning only and never shows up in the trace.
type ActionKind int

const (
	ActPass ActionKind = iota
	ActDribble
	ActShoot
	ActClear
	ActMoveOffBall
)

func (k ActionKind) String() string {
	switch k {
	case ActPass:
		return "PASS"
	case ActDribble:
		return "DRIBBLE"
	case ActShoot:
		return "SHOOT"
	case ActClear:
		return "CLEAR"
	case ActMoveOffBall:
		return "MOVE_OFFBALL"
	}
	return "UNKNOWN"
}

// Role tags a player's tactical duty. Roles shift one tier with possession.
type Role string

const (
	RoleGoalkeeper Role = "goalkeeper"
	RoleDefender   Role = "defender"
	RoleMidfielder Role = "midfielder"
	RoleForward    Role = "forward"
)

// PossessionState is the team-level view a player adapts its role to.
type PossessionState int

const (
	OutOfPossession PossessionState = iota
	InPossession
	Transitioning
)

// Termination reasons reported by the referee.
const (
	ReasonTimeLimit  = "time_limit"
	ReasonInactivity = "inactivity"
)

// Event is one immutable row of the behavioral trace.
type Event struct {
	CaseID       string    `json:"case_id"`
	Timestamp    time.Time `json:"timestamp"`
	PlayerID     int       `json:"player_id"`
	TeamID       int       `json:"team_id"`
	Action       string    `json:"action_type"`
	DestX        float64   `json:"dest_x"`
	DestY        float64   `json:"dest_y"`
	XThreatDelta float64   `json:"xthreat_delta"`
	Tick         int       `json:"tick"`
}
