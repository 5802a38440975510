package match

import (
	"fmt"
	"math/rand"

	"github.com/Vicathor/PM-ABMS/internal/config"
	"github.com/Vicathor/PM-ABMS/internal/pitch"
	"github.com/Vicathor/PM-ABMS/internal/threat"
	"github.com/Vicathor/PM-ABMS/internal/util"
	"github.com/Vicathor/PM-ABMS/pkg/logger"
)

// Match is the owned aggregate of one simulation run. All state lives here;
// every tick derives the next state from the previous one plus the seeded
// random stream, so a (config, seed) pair fully determines the trace.
type Match struct {
	cfg    *config.Config
	tables *config.Tables
	field  *pitch.Pitch
	threat *threat.Grid
	rng    *rand.Rand
	seed   int64
	log    logger.Logger

	players  []*Player
	ball     *Ball
	referee  *Referee
	recorder *Recorder

	tick             int
	ticksSinceChange int
}

// Result summarizes a finished run together with its full trace.
type Result struct {
	Seed     int64   `json:"seed"`
	Score    [2]int  `json:"score"`
	Reason   string  `json:"reason"`
	Ticks    int     `json:"ticks"`
	Duration float64 `json:"duration"`
	Events   []Event `json:"events,omitempty"`
	Cases    []Case  `json:"-"`
}

// New validates the configuration, builds the pitch, threat surface, both
// squads and the ball, and gives kickoff possession to team 0. Construction
// faults are fatal; no partial match is returned.
func New(cfg *config.Config, tables *config.Tables, seed int64, log logger.Logger) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tables == nil {
		return nil, fmt.Errorf("%w: nil calibration tables", config.ErrInvalidConfig)
	}
	if log == nil {
		log = logger.Nop()
	}

	field := pitch.New(cfg.PitchWidth, cfg.PitchLength)

	var grid *threat.Grid
	var err error
	if len(tables.Threat.Zones) > 0 {
		grid, err = threat.New(cfg.PitchWidth, cfg.PitchLength, tables.Threat.Zones)
	} else {
		grid, err = threat.NewToy(cfg.PitchWidth, cfg.PitchLength)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	m := &Match{
		cfg:      cfg,
		tables:   tables,
		field:    field,
		threat:   grid,
		rng:      util.New(seed),
		seed:     seed,
		log:      log.Named("match"),
		ball:     NewBall(field.Center()),
		referee:  NewReferee(),
		recorder: NewRecorder(cfg.Kickoff(), cfg.DT),
	}

	nextID := 1
	for teamID := 0; teamID <= 1; teamID++ {
		for _, slot := range cfg.Formations[fmt.Sprintf("team_%d", teamID)] {
			pos := field.Clamp(pitch.Vec2{X: slot.X, Y: slot.Y})
			m.players = append(m.players, NewPlayer(nextID, teamID, Role(slot.Role), pos))
			nextID++
		}
	}

	if kicker := m.nearestOfTeam(0, field.Center(), -1); kicker != nil {
		m.setOwner(kicker)
	}
	m.ticksSinceChange = 0
	return m, nil
}

// Step advances the simulation one tick: clock, role adaptation, shuffled
// player activations, ball physics and possession, then terminal checks.
func (m *Match) Step() {
	if m.referee.Ended() {
		return
	}
	m.tick++
	m.referee.Advance(m.cfg.DT)
	startOwner := m.ball.Owner

	ownerTeam := m.ownerTeam()
	for _, p := range m.players {
		p.Role = AdaptRole(p.BaseRole, possessionState(ownerTeam, p.TeamID), p.Stamina)
	}

	scoreBefore := m.referee.Score
	for _, idx := range m.rng.Perm(len(m.players)) {
		p := m.players[idx]
		if m.ball.Owner == p.ID {
			if prop, ok := m.chooseAction(p); ok {
				m.attempt(p, prop)
			}
		} else {
			m.attempt(p, proposal{Kind: ActMoveOffBall})
		}
		p.Integrate(m.cfg.DT, m.field)
		p.DrainStamina(m.ball.Owner == p.ID)
		// A goal stops play for the rest of the tick; the kickoff side
		// first moves next tick.
		if m.referee.Score != scoreBefore {
			break
		}
	}

	if m.ball.Owner >= 0 {
		if own := m.playerByID(m.ball.Owner); own != nil {
			m.ball.Pos = own.Pos
			m.ball.Vel = pitch.Vec2{}
		}
	} else {
		struck := m.ball.Step(m.cfg.DT, m.field)
		if struck {
			m.outOfBoundsRestart()
		} else {
			m.tryCapture()
		}
	}

	if m.ball.Owner != startOwner {
		m.ticksSinceChange = 0
	} else {
		m.ticksSinceChange++
	}

	m.referee.Evaluate(m.cfg.MaxGameTime, m.ticksSinceChange, m.cfg.MaxTicksWithoutChange)
	if m.referee.Ended() {
		m.recorder.CloseActive(m.tick)
		m.log.Info("match ended",
			logger.String("reason", m.referee.Reason()),
			logger.Int("ticks", m.tick),
			logger.Int("score_0", m.referee.Score[0]),
			logger.Int("score_1", m.referee.Score[1]))
	}
}

// Run drives the match to completion and returns the result with the trace.
func (m *Match) Run() Result {
	for !m.referee.Ended() {
		m.Step()
	}
	return Result{
		Seed:     m.seed,
		Score:    m.referee.Score,
		Reason:   m.referee.Reason(),
		Ticks:    m.tick,
		Duration: m.referee.MatchTime,
		Events:   m.recorder.Snapshot(),
		Cases:    m.recorder.Cases(),
	}
}

// setOwner transfers exclusive possession, emitting POSSESSION and opening
// a new case when control moves to the other team.
func (m *Match) setOwner(p *Player) {
	if m.ball.Owner == p.ID {
		return
	}
	m.ball.Owner = p.ID
	m.ball.Vel = pitch.Vec2{}
	if c := m.recorder.ActiveCase(); c == nil || c.TeamID != p.TeamID {
		m.recorder.OpenCase(p.TeamID, m.tick)
	}
	m.recorder.Record(p.ID, p.TeamID, EvPossession, m.ball.Pos, 0.0, m.tick)
}

// tryCapture awards a loose ball to the closest player inside the capture
// radius. When the ball was just played and the duel is tight, the side that
// did not touch it last gets the benefit of the doubt, as in a challenge.
func (m *Match) tryCapture() {
	type cand struct {
		p *Player
		d float64
	}
	var cands []cand
	for _, p := range m.players {
		if d := pitch.Distance(p.Pos, m.ball.Pos); d < m.cfg.CaptureRadius {
			cands = append(cands, cand{p, d})
		}
	}
	if len(cands) == 0 {
		return
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.d < best.d {
			best = c
		}
	}
	if len(cands) > 1 && m.ball.LastTouch >= 0 && best.d < 1.5 {
		if last := m.playerByID(m.ball.LastTouch); last != nil {
			for _, c := range cands {
				if c.p.TeamID != last.TeamID && c.d < best.d+0.5 {
					best = c
					break
				}
			}
		}
	}
	m.setOwner(best.p)
}

// outOfBoundsRestart hands a ball that struck the boundary to the nearest
// player of the side that did not touch it last.
func (m *Match) outOfBoundsRestart() {
	defending := 0
	if last := m.playerByID(m.ball.LastTouch); last != nil {
		defending = 1 - last.TeamID
	}
	m.ball.Vel = pitch.Vec2{}
	if p := m.nearestOfTeam(defending, m.ball.Pos, -1); p != nil {
		m.setOwner(p)
	}
}

// kickoffRestart resets the ball to the centre spot after a goal and opens
// the conceding team's possession.
func (m *Match) kickoffRestart(teamID int) {
	m.recorder.CloseActive(m.tick)
	m.ball.Owner = -1
	m.ball.LastTouch = -1
	m.ball.Pos = m.field.Center()
	m.ball.Vel = pitch.Vec2{}
	if p := m.nearestOfTeam(teamID, m.field.Center(), -1); p != nil {
		m.setOwner(p)
	}
}

func (m *Match) ownerTeam() int {
	if p := m.playerByID(m.ball.Owner); p != nil {
		return p.TeamID
	}
	return -1
}

func possessionState(ownerTeam, teamID int) PossessionState {
	switch ownerTeam {
	case -1:
		return Transitioning
	case teamID:
		return InPossession
	default:
		return OutOfPossession
	}
}

func (m *Match) possessionStateFor(p *Player) PossessionState {
	return possessionState(m.ownerTeam(), p.TeamID)
}

func (m *Match) playerByID(id int) *Player {
	if id < 0 {
		return nil
	}
	for _, p := range m.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// nearestOfTeam returns the team's closest player to a point, skipping the
// excluded id. Returns nil when the team has no players.
func (m *Match) nearestOfTeam(teamID int, target pitch.Vec2, exclude int) *Player {
	var best *Player
	bestDist := 0.0
	for _, p := range m.players {
		if p.TeamID != teamID || p.ID == exclude {
			continue
		}
		d := pitch.Distance(p.Pos, target)
		if best == nil || d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// Accessors used by tests and the driver.
func (m *Match) Tick() int           { return m.tick }
func (m *Match) Ball() *Ball         { return m.ball }
func (m *Match) Players() []*Player  { return m.players }
func (m *Match) Referee() *Referee   { return m.referee }
func (m *Match) Recorder() *Recorder { return m.recorder }

func logFieldPlayer(p *Player) logger.Field { return logger.Int("player", p.ID) }
func logFieldKind(k ActionKind) logger.Field {
	return logger.String("action", k.String())
}
