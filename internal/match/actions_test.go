package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vicathor/PM-ABMS/internal/config"
	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

func TestIllegalAttemptsLeaveNoTrace(t *testing.T) {
	m := newTestMatch(t, config.New(), 1)
	owner := m.playerByID(m.Ball().Owner)
	other := m.nearestOfTeam(1, owner.Pos, -1)
	before := m.Recorder().Len()
	ballBefore := *m.Ball()

	// Ball actions without the ball.
	m.attempt(other, proposal{Kind: ActPass, Target: owner.Pos})
	m.attempt(other, proposal{Kind: ActShoot, Target: m.field.GoalCenter(1)})

	// Off-ball movement while holding the ball.
	m.attempt(owner, proposal{Kind: ActMoveOffBall})

	// Degenerate target.
	m.attempt(owner, proposal{Kind: ActPass, Target: pitch.Vec2{X: math.NaN(), Y: 10}})

	assert.Equal(t, before, m.Recorder().Len())
	assert.Equal(t, ballBefore, *m.Ball())
}

func TestLegalActionsCandidateSet(t *testing.T) {
	m := newTestMatch(t, config.New(), 1)
	owner := m.playerByID(m.Ball().Owner)

	// Own half: every kind except the shot.
	owner.Pos = pitch.Vec2{X: 17, Y: 20}
	kinds := map[ActionKind]int{}
	for _, prop := range m.legalActions(owner) {
		kinds[prop.Kind]++
		switch prop.Kind {
		case ActPass:
			require.NotNil(t, prop.Receiver)
			d := pitch.Distance(owner.Pos, prop.Target)
			assert.GreaterOrEqual(t, d, passMinDist)
			assert.LessOrEqual(t, d, passMaxDist)
			assert.Equal(t, owner.TeamID, prop.Receiver.TeamID)
		case ActDribble:
			assert.True(t, m.field.Contains(prop.Target))
		}
	}
	assert.Zero(t, kinds[ActShoot])
	assert.Equal(t, 1, kinds[ActClear])
	assert.NotZero(t, kinds[ActPass])
	assert.NotZero(t, kinds[ActDribble])

	// Opponent half unlocks the shot, aimed at the goal team 0 attacks.
	owner.Pos = pitch.Vec2{X: 17, Y: 40}
	var shot *proposal
	for _, prop := range m.legalActions(owner) {
		if prop.Kind == ActShoot {
			p := prop
			shot = &p
		}
	}
	require.NotNil(t, shot)
	assert.Equal(t, m.field.GoalCenter(0), shot.Target)
}

func TestChooseActionAlwaysLegal(t *testing.T) {
	m := newTestMatch(t, config.New(), 11)
	owner := m.playerByID(m.Ball().Owner)
	for i := 0; i < 50; i++ {
		prop, ok := m.chooseAction(owner)
		require.True(t, ok)
		assert.True(t, m.validate(owner, prop))
	}
}

func TestSuccessProbBounds(t *testing.T) {
	m := newTestMatch(t, config.New(), 1)
	owner := m.playerByID(m.Ball().Owner)

	for _, kind := range []ActionKind{ActPass, ActDribble, ActClear} {
		for _, dist := range []float64{0, 5, 12, 28} {
			sp := m.successProb(owner, kind, dist)
			assert.GreaterOrEqual(t, sp, 0.05)
			assert.LessOrEqual(t, sp, 0.95)
		}
	}

	// Fatigue strictly lowers the odds.
	fresh := m.successProb(owner, ActPass, 5)
	owner.Stamina = 0.2
	assert.Less(t, m.successProb(owner, ActPass, 5), fresh)
}

func TestShotOutcomeProbs(t *testing.T) {
	cfg := config.New()
	m := newTestMatch(t, cfg, 1)
	owner := m.playerByID(m.Ball().Owner)

	nearMiss, nearGoal := m.shotOutcomeProbs(owner, 8)
	farMiss, farGoal := m.shotOutcomeProbs(owner, 35)

	assert.GreaterOrEqual(t, nearMiss, cfg.ShotMissFloor)
	assert.GreaterOrEqual(t, farMiss, nearMiss)
	assert.Greater(t, nearGoal, farGoal)
	for _, g := range []float64{nearGoal, farGoal} {
		assert.GreaterOrEqual(t, g, 0.03)
		assert.LessOrEqual(t, g, 0.60)
	}
	assert.LessOrEqual(t, farMiss, 1.0)
}

func TestPressureOn(t *testing.T) {
	m := newTestMatch(t, config.New(), 1)
	owner := m.playerByID(m.Ball().Owner)
	marker := m.nearestOfTeam(1, owner.Pos, -1)

	marker.Pos = owner.Pos
	assert.InDelta(t, 1.0, m.pressureOn(owner), 1e-9)

	marker.Pos = owner.Pos.Add(pitch.Vec2{X: 5})
	mid := m.pressureOn(owner)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
}

func TestClearTargetAimsForTouchline(t *testing.T) {
	m := newTestMatch(t, config.New(), 1)
	p := m.playerByID(m.Ball().Owner)

	p.Pos = pitch.Vec2{X: 5, Y: 26}
	assert.Equal(t, pitch.Vec2{X: 0, Y: 26}, m.clearTarget(p))

	p.Pos = pitch.Vec2{X: 30, Y: 26}
	assert.Equal(t, pitch.Vec2{X: 34, Y: 26}, m.clearTarget(p))
}

func TestResolvePassRecordsThreatDelta(t *testing.T) {
	m := newTestMatch(t, config.New(), 2)
	owner := m.playerByID(m.Ball().Owner)
	recv := m.nearestOfTeam(owner.TeamID, owner.Pos, owner.ID)
	require.NotNil(t, recv)

	from := owner.Pos
	target := recv.Pos
	before := m.Recorder().Len()
	m.attempt(owner, proposal{Kind: ActPass, Target: target, Receiver: recv})

	evs := m.Recorder().Snapshot()
	require.Greater(t, m.Recorder().Len(), before)
	ev := evs[before]
	switch ev.Action {
	case EvPass:
		assert.InDelta(t, m.threat.Delta(from, target), ev.XThreatDelta, 1e-9)
		assert.Equal(t, target.X, ev.DestX)
		assert.Equal(t, target.Y, ev.DestY)
	case EvPassFailed:
		assert.Equal(t, -0.1, ev.XThreatDelta)
		assert.True(t, m.Ball().Loose())
	default:
		t.Fatalf("unexpected action %q", ev.Action)
	}
}

func TestMissedShotRecordsWidePoint(t *testing.T) {
	sawOffCentre := false
	missed := 0
	for seed := int64(1); seed <= 80 && !sawOffCentre; seed++ {
		m := newTestMatch(t, config.New(), seed)
		shooter := m.playerByID(m.Ball().Owner)
		shooter.Pos = pitch.Vec2{X: 17, Y: 45}
		m.Ball().Pos = shooter.Pos
		before := m.Recorder().Len()

		m.attempt(shooter, proposal{Kind: ActShoot, Target: m.field.GoalCenter(0)})

		ev := m.Recorder().Snapshot()[before]
		if ev.Action != EvShotMissed {
			continue
		}
		missed++
		assert.Equal(t, m.field.Length, ev.DestY)
		assert.GreaterOrEqual(t, ev.DestX, 0.0)
		assert.LessOrEqual(t, ev.DestX, m.field.Width)
		assert.True(t, m.Ball().Loose())
		if ev.DestX != m.field.GoalCenter(0).X {
			sawOffCentre = true
		}
	}
	require.NotZero(t, missed)
	require.True(t, sawOffCentre, "every missed shot landed dead centre")
}

func TestPassSpeedFollowsLengthDistribution(t *testing.T) {
	m := newTestMatch(t, config.New(), 6)
	owner := m.playerByID(m.Ball().Owner)
	require.Equal(t, RoleMidfielder, owner.Role)

	// 20 m sits one half sigma above the 18±4 midfielder class, so the ball
	// leaves at 15 + 0.5*2 m/s whatever the outcome draw says.
	target := owner.Pos.Add(pitch.Vec2{Y: 20})
	m.attempt(owner, proposal{Kind: ActPass, Target: target})

	require.True(t, m.Ball().Loose())
	assert.InDelta(t, 16.0, m.Ball().Vel.Len(), 1e-9)

	assert.InDelta(t, 10.0, m.passSpeed(owner, 3), 1e-9)
}

func TestResolveClearEmitsNegativeDelta(t *testing.T) {
	m := newTestMatch(t, config.New(), 2)
	owner := m.playerByID(m.Ball().Owner)
	before := m.Recorder().Len()

	m.attempt(owner, proposal{Kind: ActClear, Target: m.clearTarget(owner)})

	evs := m.Recorder().Snapshot()
	require.Greater(t, m.Recorder().Len(), before)
	ev := evs[before]
	assert.Equal(t, EvClear, ev.Action)
	assert.Equal(t, -0.05, ev.XThreatDelta)
	assert.True(t, m.Ball().Loose())
	assert.Equal(t, owner.ID, m.Ball().LastTouch)
}

func TestResolveDribbleMovesBallWithPlayer(t *testing.T) {
	m := newTestMatch(t, config.New(), 2)
	owner := m.playerByID(m.Ball().Owner)
	target := owner.Pos.Add(pitch.Vec2{Y: 4})
	before := m.Recorder().Len()

	m.attempt(owner, proposal{Kind: ActDribble, Target: target})

	evs := m.Recorder().Snapshot()
	require.Greater(t, m.Recorder().Len(), before)
	ev := evs[before]
	switch ev.Action {
	case EvDribble:
		assert.Equal(t, target, owner.Pos)
		assert.Equal(t, target, m.Ball().Pos)
		assert.Equal(t, owner.ID, m.Ball().Owner)
	case EvDribbleFailed:
		assert.Equal(t, -0.15, ev.XThreatDelta)
		assert.True(t, m.Ball().Loose())
	default:
		t.Fatalf("unexpected action %q", ev.Action)
	}
}
