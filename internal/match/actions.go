package match

import (
	"math"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

const (
	passMinDist     = 1.0
	passMaxDist     = 30.0
	passSpeedMean   = 15.0
	passSpeedStd    = 2.0
	passSpeedMin    = 6.0
	passSpeedMax    = 20.0
	looseNoiseSigma = 2.0 // scatter of a failed pass around its target

	clearDistance   = 25.0
	clearSpeed      = 15.0
	clearNoiseSigma = 3.0 // clearances trade precision for distance

	shotSpeed       = 18.0
	dribbleLoseKick = 4.0 // separation speed when a dribble is lost

	epsilonCap = 0.4
)

// proposal is one candidate action. It moves through a fixed lifecycle:
// proposed by the policy, validated against possession, then resolved.
type proposal struct {
	Kind     ActionKind
	Target   pitch.Vec2
	Receiver *Player // pass only
}

// attempt validates and resolves a proposal. Illegal attempts are dropped
// with no event and no state mutation.
func (m *Match) attempt(p *Player, prop proposal) {
	if !m.validate(p, prop) {
		return
	}
	m.resolve(p, prop)
}

func (m *Match) validate(p *Player, prop proposal) bool {
	onBall := m.ball.Owner == p.ID
	if prop.Kind == ActMoveOffBall {
		return !onBall
	}
	if !onBall {
		return false
	}
	if !prop.Target.Finite() {
		m.log.Warn("rejecting action with non-finite target",
			logFieldPlayer(p), logFieldKind(prop.Kind))
		return false
	}
	return true
}

// legalActions enumerates the candidate set for a player holding the ball.
func (m *Match) legalActions(p *Player) []proposal {
	var props []proposal

	for _, tm := range m.players {
		if tm.TeamID != p.TeamID || tm.ID == p.ID {
			continue
		}
		d := pitch.Distance(p.Pos, tm.Pos)
		if d >= passMinDist && d <= passMaxDist {
			props = append(props, proposal{Kind: ActPass, Target: tm.Pos, Receiver: tm})
		}
	}

	for i := 0; i < m.cfg.DribbleAngles; i++ {
		angle := 2 * math.Pi * float64(i) / float64(m.cfg.DribbleAngles)
		for _, dist := range m.cfg.DribbleDistances {
			target := pitch.Vec2{
				X: p.Pos.X + dist*math.Cos(angle),
				Y: p.Pos.Y + dist*math.Sin(angle),
			}
			if m.field.Contains(target) {
				props = append(props, proposal{Kind: ActDribble, Target: target})
			}
		}
	}

	if m.inOpponentHalf(p) {
		props = append(props, proposal{Kind: ActShoot, Target: m.field.GoalCenter(p.TeamID)})
	}

	props = append(props, proposal{Kind: ActClear, Target: m.clearTarget(p)})
	return props
}

// chooseAction runs the ε-greedy policy. ε rises with pressure and fatigue,
// capped so choices never degenerate into pure noise.
func (m *Match) chooseAction(p *Player) (proposal, bool) {
	props := m.legalActions(p)
	if len(props) == 0 {
		return proposal{}, false
	}

	pressure := m.pressureOn(p)
	eps := m.cfg.Epsilon + 0.1*pressure + 0.05*(1.0-p.Stamina)
	if eps > epsilonCap {
		eps = epsilonCap
	}
	if m.rng.Float64() < eps {
		return props[m.rng.Intn(len(props))], true
	}

	state := m.possessionStateFor(p)
	best := props[0]
	bestValue := math.Inf(-1)
	for _, prop := range props {
		v := p.ActionWeight(prop.Kind, state) * m.expectedValue(p, prop)
		if v > bestValue {
			bestValue = v
			best = prop
		}
	}
	return best, true
}

// expectedValue scores a proposal as success-weighted xThreat change, with
// the original turnover penalties on the failure branch.
func (m *Match) expectedValue(p *Player, prop proposal) float64 {
	switch prop.Kind {
	case ActPass:
		sp := m.successProb(p, ActPass, pitch.Distance(p.Pos, prop.Target))
		return sp*m.threat.Delta(p.Pos, prop.Target) + (1-sp)*(-0.1)
	case ActDribble:
		sp := m.successProb(p, ActDribble, 0)
		return sp*m.threat.Delta(p.Pos, prop.Target) + (1-sp)*(-0.15)
	case ActShoot:
		dist := pitch.Distance(p.Pos, m.field.GoalCenter(p.TeamID))
		pMiss, pGoalOn := m.shotOutcomeProbs(p, dist)
		onTarget := 1 - pMiss
		return onTarget*pGoalOn*1.0 + onTarget*(1-pGoalOn)*0.1 + pMiss*(-0.2)
	case ActClear:
		sp := m.successProb(p, ActClear, 0)
		return sp*(-0.05) + (1-sp)*(-0.1)
	}
	return 0
}

// successProb composes the multiplicative penalty model: base empirical rate
// from the calibration tables, reduced by pressure and fatigue.
func (m *Match) successProb(p *Player, kind ActionKind, dist float64) float64 {
	var base float64
	switch kind {
	case ActPass:
		base = m.tables.PassBucketFor(string(p.Role), dist).Success
	case ActDribble:
		base = m.tables.DribbleBucketFor(m.pressureOn(p)).Success
	case ActClear:
		base = 0.9
	default:
		base = 0.5
	}
	pressurePenalty := 1.0 - m.pressureOn(p)*0.2
	prob := base * p.FatigueFactor() * pressurePenalty
	return clampProb(prob)
}

// shotOutcomeProbs derives the three-way shot split from distance to goal
// and pressure. Farther and busier means more misses; the configured floor
// keeps long-range efforts honest.
func (m *Match) shotOutcomeProbs(p *Player, dist float64) (pMiss, pGoalOnTarget float64) {
	pressure := m.pressureOn(p)
	onTarget := 0.78 - 0.012*dist - 0.25*pressure
	if onTarget < 0.05 {
		onTarget = 0.05
	}
	if onTarget > 0.95 {
		onTarget = 0.95
	}
	pMiss = 1 - onTarget
	if pMiss < m.cfg.ShotMissFloor {
		pMiss = m.cfg.ShotMissFloor
	}
	pGoalOnTarget = (0.42 - 0.010*dist) * p.FatigueFactor()
	if pGoalOnTarget < 0.03 {
		pGoalOnTarget = 0.03
	}
	if pGoalOnTarget > 0.60 {
		pGoalOnTarget = 0.60
	}
	return pMiss, pGoalOnTarget
}

func (m *Match) resolve(p *Player, prop proposal) {
	switch prop.Kind {
	case ActPass:
		m.resolvePass(p, prop)
	case ActDribble:
		m.resolveDribble(p, prop)
	case ActShoot:
		m.resolveShot(p)
	case ActClear:
		m.resolveClear(p, prop)
	case ActMoveOffBall:
		p.SteerTo(p.TacticalTarget(m.field, m.rng))
	}
}

// passSpeed derives the kick speed from where the pass length sits in the
// role's length distribution: longer-than-typical balls are struck harder.
func (m *Match) passSpeed(p *Player, dist float64) float64 {
	speed := passSpeedMean
	if b := m.tables.PassBucketFor(string(p.Role), dist); b.Std > 0 {
		speed += (dist - b.Mean) / b.Std * passSpeedStd
	} else {
		speed += m.rng.NormFloat64() * passSpeedStd
	}
	if speed < passSpeedMin {
		speed = passSpeedMin
	}
	if speed > passSpeedMax {
		speed = passSpeedMax
	}
	return speed
}

func (m *Match) resolvePass(p *Player, prop proposal) {
	target := prop.Target
	dist := pitch.Distance(p.Pos, target)
	sp := m.successProb(p, ActPass, dist)
	speed := m.passSpeed(p, dist)

	if m.rng.Float64() < sp {
		xt := m.threat.Delta(p.Pos, target)
		m.ball.Kick(target, speed, m.rng)
		m.recorder.Record(p.ID, p.TeamID, EvPass, target, xt, m.tick)

		if recv := m.nearestOfTeam(p.TeamID, target, p.ID); recv != nil &&
			pitch.Distance(recv.Pos, target) <= m.cfg.CaptureRadius {
			m.ball.Pos = recv.Pos
			m.ball.Vel = pitch.Vec2{}
			m.setOwner(recv)
		}
		return
	}

	loose := m.field.Clamp(pitch.Vec2{
		X: target.X + m.rng.NormFloat64()*looseNoiseSigma,
		Y: target.Y + m.rng.NormFloat64()*looseNoiseSigma,
	})
	m.ball.Kick(loose, speed, m.rng)
	m.recorder.Record(p.ID, p.TeamID, EvPassFailed, loose, -0.1, m.tick)
}

func (m *Match) resolveDribble(p *Player, prop proposal) {
	sp := m.successProb(p, ActDribble, 0)
	if m.rng.Float64() < sp {
		from := p.Pos
		p.Pos = m.field.Clamp(prop.Target)
		m.ball.Pos = p.Pos
		m.ball.Vel = pitch.Vec2{}
		m.recorder.Record(p.ID, p.TeamID, EvDribble, p.Pos, m.threat.Delta(from, p.Pos), m.tick)
		return
	}
	// Lost touch: the ball squirts ahead and is contested next tick.
	ahead := p.Pos.Add(prop.Target.Sub(p.Pos).Norm().Scale(2.0))
	m.ball.Kick(m.field.Clamp(ahead), dribbleLoseKick, m.rng)
	m.recorder.Record(p.ID, p.TeamID, EvDribbleFailed, p.Pos, -0.15, m.tick)
}

func (m *Match) resolveShot(p *Player) {
	goal := m.field.GoalCenter(p.TeamID)
	dist := pitch.Distance(p.Pos, goal)
	pMiss, pGoalOn := m.shotOutcomeProbs(p, dist)

	if m.rng.Float64() < pMiss {
		wide := m.field.Clamp(pitch.Vec2{X: goal.X + m.rng.NormFloat64()*4.0, Y: goal.Y})
		m.ball.Kick(wide, shotSpeed, m.rng)
		m.recorder.Record(p.ID, p.TeamID, EvShotMissed, wide, -0.2, m.tick)
		return
	}
	if m.rng.Float64() < pGoalOn {
		m.recorder.Record(p.ID, p.TeamID, EvGoal, goal, 1.0, m.tick)
		m.referee.RecordGoal(p.TeamID)
		m.kickoffRestart(1 - p.TeamID)
		return
	}
	// On target but kept out; the ball runs loose in front of goal.
	m.ball.Kick(goal, shotSpeed, m.rng)
	m.recorder.Record(p.ID, p.TeamID, EvShot, goal, 0.1, m.tick)
}

func (m *Match) resolveClear(p *Player, prop proposal) {
	target := m.field.Clamp(pitch.Vec2{
		X: prop.Target.X + m.rng.NormFloat64()*clearNoiseSigma,
		Y: prop.Target.Y + m.rng.NormFloat64()*clearNoiseSigma,
	})
	m.ball.Kick(target, clearSpeed, m.rng)
	m.recorder.Record(p.ID, p.TeamID, EvClear, target, -0.05, m.tick)
}

// clearTarget aims at the nearest touchline, the original hoof into row Z.
func (m *Match) clearTarget(p *Player) pitch.Vec2 {
	x := p.Pos.X - clearDistance
	if p.Pos.X >= m.field.Width/2 {
		x = p.Pos.X + clearDistance
	}
	return m.field.Clamp(pitch.Vec2{X: x, Y: p.Pos.Y})
}

func (m *Match) inOpponentHalf(p *Player) bool {
	if p.TeamID == 0 {
		return p.Pos.Y > m.field.Length/2
	}
	return p.Pos.Y < m.field.Length/2
}

// pressureOn measures opposing proximity: 1 at zero distance, fading to 0
// at the configured radius.
func (m *Match) pressureOn(p *Player) float64 {
	minDist := math.MaxFloat64
	for _, o := range m.players {
		if o.TeamID == p.TeamID {
			continue
		}
		if d := pitch.Distance(o.Pos, p.Pos); d < minDist {
			minDist = d
		}
	}
	if minDist == math.MaxFloat64 {
		return 0
	}
	pr := 1.0 - minDist/m.cfg.PressureRadius
	if pr < 0 {
		return 0
	}
	return pr
}

func clampProb(p float64) float64 {
	if p < 0.05 {
		return 0.05
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}
