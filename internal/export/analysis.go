package export

import (
	"strings"

	"github.com/Vicathor/PM-ABMS/internal/match"
)

// Sequence is one possession case viewed as an ordered slice of events with
// a classified outcome.
type Sequence struct {
	CaseID       string        `json:"case_id"`
	TeamID       int           `json:"team_id"`
	Events       []match.Event `json:"-"`
	Length       int           `json:"length"`
	TotalXThreat float64       `json:"total_xthreat"`
	Outcome      string        `json:"outcome"`
}

// Possession outcomes.
const (
	OutcomeGoal     = "GOAL"
	OutcomeShot     = "SHOT"
	OutcomeTurnover = "TURNOVER"
	OutcomeClear    = "CLEAR"
	OutcomeOngoing  = "ONGOING"
)

// Sequences groups the trace into possession sequences, one per case, in
// case-opening order.
func Sequences(events []match.Event) []Sequence {
	var out []Sequence
	idx := map[string]int{}
	for _, ev := range events {
		i, ok := idx[ev.CaseID]
		if !ok {
			i = len(out)
			idx[ev.CaseID] = i
			out = append(out, Sequence{CaseID: ev.CaseID, TeamID: ev.TeamID})
		}
		out[i].Events = append(out[i].Events, ev)
		out[i].Length++
		out[i].TotalXThreat += ev.XThreatDelta
	}
	for i := range out {
		out[i].Outcome = classify(out[i].Events)
	}
	return out
}

func classify(events []match.Event) string {
	if len(events) == 0 {
		return OutcomeOngoing
	}
	last := events[len(events)-1].Action
	switch {
	case last == match.EvGoal:
		return OutcomeGoal
	case last == match.EvShot || last == match.EvShotMissed:
		return OutcomeShot
	case strings.Contains(last, "FAILED"):
		return OutcomeTurnover
	case last == match.EvClear:
		return OutcomeClear
	}
	return OutcomeOngoing
}

// Summary aggregates the match KPIs the analysis notebooks care about.
type Summary struct {
	TotalEvents              int            `json:"total_events"`
	TotalPossessions         int            `json:"total_possessions"`
	MeanXThreatPerPossession float64        `json:"mean_xthreat_per_possession"`
	Turnovers                int            `json:"turnovers"`
	Goals                    int            `json:"goals"`
	Shots                    int            `json:"shots"`
	Passes                   int            `json:"passes"`
	Dribbles                 int            `json:"dribbles"`
	Clears                   int            `json:"clears"`
	ActionDistribution       map[string]int `json:"action_distribution"`
}

// Summarize counts event kinds and derives possession-level ratios.
func Summarize(events []match.Event) Summary {
	s := Summary{ActionDistribution: map[string]int{}}
	totalXT := 0.0
	for _, ev := range events {
		s.TotalEvents++
		s.ActionDistribution[ev.Action]++
		totalXT += ev.XThreatDelta
		if strings.Contains(ev.Action, "FAILED") {
			s.Turnovers++
		}
	}
	s.TotalPossessions = s.ActionDistribution[match.EvPossession]
	s.Goals = s.ActionDistribution[match.EvGoal]
	s.Shots = s.ActionDistribution[match.EvShot] +
		s.ActionDistribution[match.EvShotMissed] + s.Goals
	s.Passes = s.ActionDistribution[match.EvPass]
	s.Dribbles = s.ActionDistribution[match.EvDribble]
	s.Clears = s.ActionDistribution[match.EvClear]
	if s.TotalPossessions > 0 {
		s.MeanXThreatPerPossession = totalXT / float64(s.TotalPossessions)
	}
	return s
}
