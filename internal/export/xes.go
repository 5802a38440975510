package export

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/Vicathor/PM-ABMS/internal/match"
)

// XES document shape, enough for PM4Py and friends.

type xesAttr struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type xesExtension struct {
	Name   string `xml:"name,attr"`
	Prefix string `xml:"prefix,attr"`
	URI    string `xml:"uri,attr"`
}

type xesGlobal struct {
	Scope   string    `xml:"scope,attr"`
	Strings []xesAttr `xml:"string"`
	Dates   []xesAttr `xml:"date"`
}

type xesClassifier struct {
	Name string `xml:"name,attr"`
	Keys string `xml:"keys,attr"`
}

type xesEvent struct {
	Strings []xesAttr `xml:"string"`
	Dates   []xesAttr `xml:"date"`
	Ints    []xesAttr `xml:"int"`
	Floats  []xesAttr `xml:"float"`
}

type xesTrace struct {
	Strings []xesAttr  `xml:"string"`
	Events  []xesEvent `xml:"event"`
}

type xesLog struct {
	XMLName     xml.Name        `xml:"log"`
	Version     string          `xml:"xes.version,attr"`
	Features    string          `xml:"xes.features,attr"`
	Extensions  []xesExtension  `xml:"extension"`
	Globals     []xesGlobal     `xml:"global"`
	Classifiers []xesClassifier `xml:"classifier"`
	Traces      []xesTrace      `xml:"trace"`
}

// WriteXES serializes the trace as an XES log with one trace per possession
// case, preserving event order within each case.
func WriteXES(w io.Writer, events []match.Event) error {
	doc := xesLog{
		Version:  "1.0",
		Features: "nested-attributes",
		Extensions: []xesExtension{
			{Name: "Lifecycle", Prefix: "lifecycle", URI: "http://www.xes-standard.org/lifecycle.xesext"},
			{Name: "Organizational", Prefix: "org", URI: "http://www.xes-standard.org/org.xesext"},
			{Name: "Time", Prefix: "time", URI: "http://www.xes-standard.org/time.xesext"},
			{Name: "Concept", Prefix: "concept", URI: "http://www.xes-standard.org/concept.xesext"},
		},
		Globals: []xesGlobal{
			{Scope: "trace", Strings: []xesAttr{{Key: "concept:name", Value: "name"}}},
			{
				Scope:   "event",
				Strings: []xesAttr{{Key: "concept:name", Value: "name"}},
				Dates:   []xesAttr{{Key: "time:timestamp", Value: "1970-01-01T00:00:00.000+00:00"}},
			},
		},
		Classifiers: []xesClassifier{{Name: "Event Name", Keys: "concept:name"}},
	}

	// Group by case id, keeping first-seen order.
	order := []string{}
	byCase := map[string][]match.Event{}
	for _, ev := range events {
		if _, seen := byCase[ev.CaseID]; !seen {
			order = append(order, ev.CaseID)
		}
		byCase[ev.CaseID] = append(byCase[ev.CaseID], ev)
	}

	for _, caseID := range order {
		trace := xesTrace{Strings: []xesAttr{{Key: "concept:name", Value: caseID}}}
		for _, ev := range byCase[caseID] {
			trace.Events = append(trace.Events, xesEvent{
				Strings: []xesAttr{{Key: "concept:name", Value: ev.Action}},
				Dates: []xesAttr{{
					Key:   "time:timestamp",
					Value: ev.Timestamp.UTC().Format(timestampLayout),
				}},
				Ints: []xesAttr{
					{Key: "player", Value: strconv.Itoa(ev.PlayerID)},
					{Key: "team", Value: strconv.Itoa(ev.TeamID)},
					{Key: "tick", Value: strconv.Itoa(ev.Tick)},
				},
				Floats: []xesAttr{
					{Key: "dest_x", Value: strconv.FormatFloat(round2(ev.DestX), 'f', 2, 64)},
					{Key: "dest_y", Value: strconv.FormatFloat(round2(ev.DestY), 'f', 2, 64)},
					{Key: "xthreat_delta", Value: strconv.FormatFloat(ev.XThreatDelta, 'f', 4, 64)},
				},
			})
		}
		doc.Traces = append(doc.Traces, trace)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// SaveXES writes the trace to a file.
func SaveXES(path string, events []match.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteXES(f, events); err != nil {
		return err
	}
	return f.Close()
}
