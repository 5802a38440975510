package match

// Referee keeps the match clock and the termination state machine. A goal
// changes the score but never ends the match; only the time limit and the
// inactivity guard do.
type Referee struct {
	MatchTime float64
	Score     [2]int

	ended  bool
	reason string
}

func NewReferee() *Referee { return &Referee{} }

func (r *Referee) Advance(dt float64) {
	if r.ended {
		return
	}
	r.MatchTime += dt
}

func (r *Referee) Ended() bool    { return r.ended }
func (r *Referee) Reason() string { return r.reason }

func (r *Referee) RecordGoal(teamID int) {
	if teamID == 0 || teamID == 1 {
		r.Score[teamID]++
	}
}

// Evaluate checks the terminal transitions, first match wins.
func (r *Referee) Evaluate(maxGameTime float64, ticksSinceChange, maxTicksWithoutChange int) {
	if r.ended {
		return
	}
	if r.MatchTime >= maxGameTime {
		r.ended = true
		r.reason = ReasonTimeLimit
		return
	}
	if ticksSinceChange >= maxTicksWithoutChange {
		r.ended = true
		r.reason = ReasonInactivity
	}
}
