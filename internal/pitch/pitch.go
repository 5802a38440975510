// Package pitch provides the bounded 2D geometry of the playing surface.
package pitch

import "math"

type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Len() float64    { return math.Hypot(a.X, a.Y) }
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

func (a Vec2) Finite() bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) && !math.IsNaN(a.Y) && !math.IsInf(a.Y, 0)
}

// Pitch is a half pitch laid out with x across the width and y along the
// length. Team 0 attacks towards y=Length, team 1 towards y=0.
type Pitch struct {
	Width  float64
	Length float64
}

func New(width, length float64) *Pitch {
	return &Pitch{Width: width, Length: length}
}

func (p *Pitch) Contains(v Vec2) bool {
	return v.X >= 0 && v.X <= p.Width && v.Y >= 0 && v.Y <= p.Length
}

// Clamp projects a point onto the pitch boundary. Non-finite coordinates
// collapse to the centre spot so degenerate physics input cannot leak
// out-of-bounds positions into the simulation.
func (p *Pitch) Clamp(v Vec2) Vec2 {
	if !v.Finite() {
		return p.Center()
	}
	return Vec2{
		X: math.Min(math.Max(v.X, 0), p.Width),
		Y: math.Min(math.Max(v.Y, 0), p.Length),
	}
}

func (p *Pitch) Center() Vec2 { return Vec2{X: p.Width / 2, Y: p.Length / 2} }

// GoalCenter is the midpoint of the goal the given team attacks.
func (p *Pitch) GoalCenter(teamID int) Vec2 {
	if teamID == 0 {
		return Vec2{X: p.Width / 2, Y: p.Length}
	}
	return Vec2{X: p.Width / 2, Y: 0}
}

func Distance(a, b Vec2) float64 { return a.Sub(b).Len() }

// Nearest returns the index of the point closest to target, or -1 when the
// slice is empty.
func Nearest(points []Vec2, target Vec2) int {
	best := -1
	bestDist := math.MaxFloat64
	for i, pt := range points {
		if d := Distance(pt, target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
