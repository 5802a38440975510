package match

import (
	"math/rand"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

const (
	basePlayerSpeed = 7.0 // m/s at full stamina
	playerDamping   = 0.9 // per-tick velocity decay

	staminaBaseCost       = 0.00005 // per tick just for being on the pitch
	staminaSpeedCost      = 0.00002 // per m/s of current speed
	staminaPossessionCost = 0.00003 // per tick on the ball
)

// Player is one agent. Role adapts each tick to the team's possession state;
// stamina only ever decays within a match.
type Player struct {
	ID       int
	TeamID   int
	BaseRole Role
	Role     Role

	Pos pitch.Vec2
	Vel pitch.Vec2

	Stamina float64 // [0,1]
}

func NewPlayer(id, teamID int, role Role, at pitch.Vec2) *Player {
	return &Player{
		ID:       id,
		TeamID:   teamID,
		BaseRole: role,
		Role:     role,
		Pos:      at,
		Stamina:  1.0,
	}
}

// AdaptRole is the pure role-reassignment function: out of possession the
// attacking tiers drop back one step, in possession the rear tiers push up
// one step when fresh enough. Goalkeepers never shift.
func AdaptRole(base Role, state PossessionState, stamina float64) Role {
	if base == RoleGoalkeeper {
		return base
	}
	switch state {
	case OutOfPossession:
		switch base {
		case RoleForward:
			return RoleMidfielder
		case RoleMidfielder:
			return RoleDefender
		}
	case InPossession:
		switch base {
		case RoleDefender:
			if stamina > 0.7 {
				return RoleMidfielder
			}
		case RoleMidfielder:
			if stamina > 0.6 {
				return RoleForward
			}
		}
	}
	return base
}

// MaxSpeed attenuates linearly with stamina, floored at half pace.
func (p *Player) MaxSpeed() float64 {
	f := p.Stamina
	if f < 0.5 {
		f = 0.5
	}
	return basePlayerSpeed * f
}

// FatigueFactor scales ball-action success: up to a 30% penalty when empty.
func (p *Player) FatigueFactor() float64 {
	return 1.0 - (1.0-p.Stamina)*0.3
}

// DrainStamina applies the per-tick decay. Stamina floors at zero and never
// recovers within a match.
func (p *Player) DrainStamina(onBall bool) {
	cost := staminaBaseCost + staminaSpeedCost*p.Vel.Len()
	if onBall {
		cost += staminaPossessionCost
	}
	p.Stamina -= cost
	if p.Stamina < 0 {
		p.Stamina = 0
	}
}

// Integrate advances the player's position one tick and damps velocity.
func (p *Player) Integrate(dt float64, field *pitch.Pitch) {
	if !p.Vel.Finite() {
		p.Vel = pitch.Vec2{}
	}
	p.Pos = field.Clamp(p.Pos.Add(p.Vel.Scale(dt)))
	p.Vel = p.Vel.Scale(playerDamping)
}

// SteerTo sets velocity towards a target at current max speed. Targets
// closer than the dead zone leave the player coasting.
func (p *Player) SteerTo(target pitch.Vec2) {
	diff := target.Sub(p.Pos)
	if diff.Len() < 2.0 {
		return
	}
	p.Vel = diff.Norm().Scale(p.MaxSpeed())
}

// TacticalTarget is the role-appropriate station to hold off the ball, with
// a little noise so the shape breathes.
func (p *Player) TacticalTarget(field *pitch.Pitch, rng *rand.Rand) pitch.Vec2 {
	var base pitch.Vec2
	switch p.Role {
	case RoleGoalkeeper:
		y := 5.0
		if p.TeamID == 1 {
			y = field.Length - 5.0
		}
		return pitch.Vec2{X: field.Width / 2, Y: y}
	case RoleDefender:
		y := 15.0
		if p.TeamID == 1 {
			y = field.Length - 15.0
		}
		base = pitch.Vec2{X: p.lane(field), Y: y}
	case RoleMidfielder:
		base = pitch.Vec2{X: p.lane(field), Y: field.Length / 2}
	default: // forward
		y := field.Length - 15.0
		if p.TeamID == 1 {
			y = 15.0
		}
		base = pitch.Vec2{X: p.lane(field), Y: y}
	}
	base.X += rng.NormFloat64() * 3.0
	base.Y += rng.NormFloat64() * 2.0
	return field.Clamp(base)
}

func (p *Player) lane(field *pitch.Pitch) float64 {
	return field.Width/4 + float64(p.ID%3)*(field.Width/4)
}

// roleWeights biases action choice per current role.
var roleWeights = map[Role]map[ActionKind]float64{
	RoleGoalkeeper: {ActPass: 1.2, ActDribble: 0.2, ActShoot: 0.1, ActClear: 2.0, ActMoveOffBall: 0.5},
	RoleDefender:   {ActPass: 1.0, ActDribble: 0.4, ActShoot: 0.3, ActClear: 1.5, ActMoveOffBall: 0.7},
	RoleMidfielder: {ActPass: 1.3, ActDribble: 1.0, ActShoot: 0.8, ActClear: 0.6, ActMoveOffBall: 1.0},
	RoleForward:    {ActPass: 0.9, ActDribble: 1.2, ActShoot: 1.8, ActClear: 0.3, ActMoveOffBall: 0.8},
}

// ActionWeight folds the role table with the possession-state modifiers:
// defending sides favour the clearance, attacking sides the shot and pass.
func (p *Player) ActionWeight(kind ActionKind, state PossessionState) float64 {
	w := roleWeights[p.Role][kind]
	switch state {
	case OutOfPossession:
		switch kind {
		case ActClear:
			w *= 1.5
		case ActShoot:
			w *= 0.5
		}
	case InPossession:
		switch kind {
		case ActShoot:
			w *= 1.3
		case ActPass:
			w *= 1.2
		}
	}
	return w
}
