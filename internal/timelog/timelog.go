package timelog

import (
	"encoding/json"
	"slices"
	"sort"
	"time"

	"pomodoro_tui/internal/phase"
)

// isoMillis is the toISOString layout: UTC with milliseconds.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Record is one completed phase.
type Record struct {
	Mode            phase.Phase
	Start           time.Time
	End             time.Time
	DurationSeconds int

	// raw holds the stored bytes of a record that did not decode cleanly.
	// It is written back unchanged so other sessions can still be saved.
	raw json.RawMessage
}

type recordJSON struct {
	Mode            phase.Phase `json:"mode"`
	Start           string      `json:"start"`
	End             string      `json:"end"`
	DurationSeconds int         `json:"durationSeconds"`
}

// Malformed reports whether the record was kept verbatim from storage.
func (r Record) Malformed() bool {
	return r.raw != nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	return json.Marshal(recordJSON{
		Mode:            r.Mode,
		Start:           r.Start.UTC().Format(isoMillis),
		End:             r.End.UTC().Format(isoMillis),
		DurationSeconds: r.DurationSeconds,
	})
}

// UnmarshalJSON never fails on a single record. Whatever can be read is
// kept: an unreadable mode counts as a break, an unreadable duration as 0.
func (r *Record) UnmarshalJSON(data []byte) error {
	var loose struct {
		Mode            any `json:"mode"`
		Start           any `json:"start"`
		End             any `json:"end"`
		DurationSeconds any `json:"durationSeconds"`
	}
	*r = Record{}
	if err := json.Unmarshal(data, &loose); err != nil {
		r.raw = slices.Clone(json.RawMessage(data))
		return nil
	}

	mode, modeOK := loose.Mode.(string)
	r.Mode = phase.Phase(mode)
	start, startOK := parseTimestamp(loose.Start)
	end, endOK := parseTimestamp(loose.End)
	r.Start, r.End = start, end

	clean := modeOK && startOK && endOK
	switch d := loose.DurationSeconds.(type) {
	case float64:
		r.DurationSeconds = int(d)
	case nil:
	default:
		clean = false
	}

	if !clean {
		r.raw = slices.Clone(json.RawMessage(data))
	}
	return nil
}

func parseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Sessions maps a day-key (YYYY-MM-DD) to that day's records in completion
// order. A missing key is an empty day.
type Sessions map[string][]Record

// Days returns the day-keys in ascending order.
func (s Sessions) Days() []string {
	days := make([]string, 0, len(s))
	for day := range s {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func Encode(s Sessions) ([]byte, error) {
	if s == nil {
		s = Sessions{}
	}
	return json.Marshal(s)
}

func Decode(data []byte) (Sessions, error) {
	var s Sessions
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = Sessions{}
	}
	return s, nil
}
