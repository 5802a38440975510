package match

import (
	"math/rand"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

const (
	ballFriction    = 1.2 // velocity decays by friction*dt per tick
	ballRestitution = 0.6
	ballStopSpeed   = 0.3 // m/s, below this the ball is at rest
	kickNoiseSigma  = 0.3 // m, accuracy noise applied to the kick target
)

// Ball carries position, velocity and exclusive ownership. Owner is a player
// id, or -1 while the ball is loose.
type Ball struct {
	Pos       pitch.Vec2
	Vel       pitch.Vec2
	Owner     int
	LastTouch int
}

func NewBall(at pitch.Vec2) *Ball {
	return &Ball{Pos: at, Owner: -1, LastTouch: -1}
}

func (b *Ball) Loose() bool { return b.Owner < 0 }

// Kick releases the ball towards target at the given speed, with Gaussian
// accuracy noise on the target point. Ownership is cleared: a kicked ball is
// loose until captured.
func (b *Ball) Kick(target pitch.Vec2, speed float64, rng *rand.Rand) {
	aim := pitch.Vec2{
		X: target.X + rng.NormFloat64()*kickNoiseSigma,
		Y: target.Y + rng.NormFloat64()*kickNoiseSigma,
	}
	dir := aim.Sub(b.Pos).Norm()
	b.Vel = dir.Scale(speed)
	b.LastTouch = b.Owner
	b.Owner = -1
}

// Step integrates one tick of free-ball physics. The returned flag reports a
// boundary strike, which the referee treats as the ball going out of play.
// Non-finite state is zeroed and clamped rather than propagated.
func (b *Ball) Step(dt float64, p *pitch.Pitch) (struck bool) {
	if !b.Pos.Finite() || !b.Vel.Finite() {
		b.Pos = p.Clamp(b.Pos)
		b.Vel = pitch.Vec2{}
		return false
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))

	if b.Pos.X <= 0 || b.Pos.X >= p.Width {
		b.Vel.X *= -ballRestitution
		struck = true
	}
	if b.Pos.Y <= 0 || b.Pos.Y >= p.Length {
		b.Vel.Y *= -ballRestitution
		struck = true
	}
	b.Pos = p.Clamp(b.Pos)

	decay := 1.0 - ballFriction*dt
	if decay < 0 {
		decay = 0
	}
	b.Vel = b.Vel.Scale(decay)
	if b.Vel.Len() < ballStopSpeed {
		b.Vel = pitch.Vec2{}
	}
	return struck
}
