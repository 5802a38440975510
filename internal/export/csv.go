// Package export turns a recorded trace into downstream artifacts: CSV and
// XES event logs plus possession-level summaries. Everything here is a pure
// transform over the event sequence and never feeds back into the engine.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/Vicathor/PM-ABMS/internal/match"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var csvHeader = []string{
	"case_id", "timestamp", "player_id", "team_id",
	"action_type", "dest_x", "dest_y", "xthreat_delta", "tick",
}

// WriteCSV streams the trace as one row per event.
func WriteCSV(w io.Writer, events []match.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			ev.CaseID,
			ev.Timestamp.UTC().Format(timestampLayout),
			strconv.Itoa(ev.PlayerID),
			strconv.Itoa(ev.TeamID),
			ev.Action,
			strconv.FormatFloat(round2(ev.DestX), 'f', 2, 64),
			strconv.FormatFloat(round2(ev.DestY), 'f', 2, 64),
			strconv.FormatFloat(ev.XThreatDelta, 'f', 4, 64),
			strconv.Itoa(ev.Tick),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the trace to a file.
func SaveCSV(path string, events []match.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteCSV(f, events); err != nil {
		return err
	}
	return f.Close()
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int(v*100-0.5)) / 100
	}
	return float64(int(v*100+0.5)) / 100
}
