package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
	"github.com/Vicathor/PM-ABMS/internal/util"
)

func TestKickReleasesBall(t *testing.T) {
	rng := util.New(1)
	b := NewBall(pitch.Vec2{X: 17, Y: 26})
	b.Owner = 4

	b.Kick(pitch.Vec2{X: 17, Y: 46}, 15, rng)

	assert.True(t, b.Loose())
	assert.Equal(t, 4, b.LastTouch)
	assert.InDelta(t, 15, b.Vel.Len(), 1e-9)
	// Aim noise is small relative to a 20m kick: still heading up the pitch.
	assert.Greater(t, b.Vel.Y, 10.0)
}

func TestStepFrictionAndStop(t *testing.T) {
	p := pitch.New(34, 52)
	b := NewBall(pitch.Vec2{X: 17, Y: 26})
	b.Vel = pitch.Vec2{Y: 10}

	struck := b.Step(0.066, p)
	assert.False(t, struck)
	assert.InDelta(t, 10*(1-ballFriction*0.066), b.Vel.Len(), 1e-9)
	assert.Greater(t, b.Pos.Y, 26.0)

	// Repeated steps bleed speed to zero in finite time.
	for i := 0; i < 200 && b.Vel.Len() > 0; i++ {
		b.Step(0.066, p)
	}
	assert.Equal(t, pitch.Vec2{}, b.Vel)
}

func TestStepBoundaryStrike(t *testing.T) {
	p := pitch.New(34, 52)
	b := NewBall(pitch.Vec2{X: 0.2, Y: 26})
	b.Vel = pitch.Vec2{X: -20}

	struck := b.Step(0.066, p)
	require.True(t, struck)
	assert.GreaterOrEqual(t, b.Pos.X, 0.0)
	// Reflected and damped.
	assert.Greater(t, b.Vel.X, 0.0)
	assert.Less(t, b.Vel.X, 20*ballRestitution)
}

func TestStepRecoversNonFiniteState(t *testing.T) {
	p := pitch.New(34, 52)
	b := NewBall(pitch.Vec2{X: math.NaN(), Y: 5})
	b.Vel = pitch.Vec2{X: math.Inf(1)}

	struck := b.Step(0.066, p)
	assert.False(t, struck)
	assert.True(t, b.Pos.Finite())
	assert.Equal(t, pitch.Vec2{}, b.Vel)
}
