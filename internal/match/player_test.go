package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

func TestAdaptRole(t *testing.T) {
	cases := []struct {
		name    string
		base    Role
		state   PossessionState
		stamina float64
		want    Role
	}{
		{"keeper never shifts", RoleGoalkeeper, InPossession, 1.0, RoleGoalkeeper},
		{"forward drops back defending", RoleForward, OutOfPossession, 1.0, RoleMidfielder},
		{"midfielder drops back defending", RoleMidfielder, OutOfPossession, 1.0, RoleDefender},
		{"defender holds defending", RoleDefender, OutOfPossession, 1.0, RoleDefender},
		{"fresh defender pushes up", RoleDefender, InPossession, 0.8, RoleMidfielder},
		{"tired defender stays", RoleDefender, InPossession, 0.6, RoleDefender},
		{"fresh midfielder pushes up", RoleMidfielder, InPossession, 0.7, RoleForward},
		{"tired midfielder stays", RoleMidfielder, InPossession, 0.5, RoleMidfielder},
		{"transition keeps base", RoleForward, Transitioning, 0.1, RoleForward},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AdaptRole(tc.base, tc.state, tc.stamina))
		})
	}
}

func TestStaminaDecaysAndFloors(t *testing.T) {
	p := NewPlayer(1, 0, RoleMidfielder, pitch.Vec2{X: 17, Y: 26})
	p.Vel = pitch.Vec2{Y: 5}

	prev := p.Stamina
	for i := 0; i < 100; i++ {
		p.DrainStamina(i%2 == 0)
		assert.Less(t, p.Stamina, prev)
		prev = p.Stamina
	}

	p.Stamina = 0.00001
	p.DrainStamina(true)
	assert.Equal(t, 0.0, p.Stamina)
	p.DrainStamina(false)
	assert.Equal(t, 0.0, p.Stamina)
}

func TestOnBallDrainsFaster(t *testing.T) {
	a := NewPlayer(1, 0, RoleMidfielder, pitch.Vec2{})
	b := NewPlayer(2, 0, RoleMidfielder, pitch.Vec2{})
	a.DrainStamina(true)
	b.DrainStamina(false)
	assert.Less(t, a.Stamina, b.Stamina)
}

func TestMaxSpeedFloor(t *testing.T) {
	p := NewPlayer(1, 0, RoleForward, pitch.Vec2{})
	assert.Equal(t, basePlayerSpeed, p.MaxSpeed())

	p.Stamina = 0.8
	assert.InDelta(t, basePlayerSpeed*0.8, p.MaxSpeed(), 1e-9)

	p.Stamina = 0.1
	assert.InDelta(t, basePlayerSpeed*0.5, p.MaxSpeed(), 1e-9)
	p.Stamina = 0
	assert.InDelta(t, basePlayerSpeed*0.5, p.MaxSpeed(), 1e-9)
}

func TestSteerToDeadZone(t *testing.T) {
	p := NewPlayer(1, 0, RoleMidfielder, pitch.Vec2{X: 10, Y: 10})
	p.SteerTo(pitch.Vec2{X: 10.5, Y: 10.5})
	assert.Equal(t, pitch.Vec2{}, p.Vel)

	p.SteerTo(pitch.Vec2{X: 10, Y: 30})
	assert.InDelta(t, p.MaxSpeed(), p.Vel.Len(), 1e-9)
	assert.Greater(t, p.Vel.Y, 0.0)
}

func TestActionWeightModifiers(t *testing.T) {
	fwd := NewPlayer(1, 0, RoleForward, pitch.Vec2{})

	inShoot := fwd.ActionWeight(ActShoot, InPossession)
	outShoot := fwd.ActionWeight(ActShoot, OutOfPossession)
	assert.InDelta(t, 1.8*1.3, inShoot, 1e-9)
	assert.InDelta(t, 1.8*0.5, outShoot, 1e-9)

	def := NewPlayer(2, 0, RoleDefender, pitch.Vec2{})
	assert.InDelta(t, 1.5*1.5, def.ActionWeight(ActClear, OutOfPossession), 1e-9)
	assert.InDelta(t, 1.0*1.2, def.ActionWeight(ActPass, InPossession), 1e-9)
}
