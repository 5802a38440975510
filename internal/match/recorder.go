package match

import (
	"fmt"
	"time"

	"github.com/Vicathor/PM-ABMS/internal/pitch"
)

// Case is a process-mining case: one maximal interval of same-team ball
// control. CloseTick stays -1 while the case is live.
type Case struct {
	ID        string
	TeamID    int
	OpenTick  int
	CloseTick int
	OpenedAt  time.Time
}

// Recorder is the append-only event sink. Record is the sole mutator of the
// sequence; nothing is ever rewritten or dropped after emission.
type Recorder struct {
	kickoff time.Time
	dt      float64

	events []Event
	cases  []Case
	active int // index into cases, -1 when no case is open
}

func NewRecorder(kickoff time.Time, dt float64) *Recorder {
	return &Recorder{kickoff: kickoff, dt: dt, active: -1}
}

// At converts a tick to its simulated wall-clock timestamp.
func (r *Recorder) At(tick int) time.Time {
	return r.kickoff.Add(time.Duration(float64(tick) * r.dt * float64(time.Second)))
}

// OpenCase closes the active case (if any) and opens a new one for the given
// team. The case id is derived from the opening timestamp.
func (r *Recorder) OpenCase(teamID, tick int) {
	r.CloseActive(tick)
	ts := r.At(tick)
	c := Case{
		ID:        fmt.Sprintf("team%d_%s", teamID, ts.UTC().Format("20060102_150405.000")),
		TeamID:    teamID,
		OpenTick:  tick,
		CloseTick: -1,
		OpenedAt:  ts,
	}
	r.cases = append(r.cases, c)
	r.active = len(r.cases) - 1
}

// CloseActive ends the live case at the given tick. No-op when none is open.
func (r *Recorder) CloseActive(tick int) {
	if r.active < 0 {
		return
	}
	r.cases[r.active].CloseTick = tick
	r.active = -1
}

// ActiveCase returns the live case, or nil.
func (r *Recorder) ActiveCase() *Case {
	if r.active < 0 {
		return nil
	}
	return &r.cases[r.active]
}

// Record appends one event, stamping it with the active case and the
// simulated timestamp for the tick.
func (r *Recorder) Record(playerID, teamID int, action string, dest pitch.Vec2, xtDelta float64, tick int) {
	caseID := ""
	if c := r.ActiveCase(); c != nil {
		caseID = c.ID
	}
	r.events = append(r.events, Event{
		CaseID:       caseID,
		Timestamp:    r.At(tick),
		PlayerID:     playerID,
		TeamID:       teamID,
		Action:       action,
		DestX:        dest.X,
		DestY:        dest.Y,
		XThreatDelta: xtDelta,
		Tick:         tick,
	})
}

// Snapshot returns the full causally ordered trace.
func (r *Recorder) Snapshot() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Cases returns every possession case opened so far, in opening order.
func (r *Recorder) Cases() []Case {
	out := make([]Case, len(r.cases))
	copy(out, r.cases)
	return out
}

func (r *Recorder) Len() int { return len(r.events) }
