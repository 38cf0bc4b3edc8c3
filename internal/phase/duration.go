package phase

import (
	"strconv"
	"strings"
	"unicode"
)

// MinMinutes is the floor applied to any configured phase length.
const MinMinutes = 1

// Durations supplies the raw, user-edited phase lengths in minutes. The
// values are read on every computation and may be malformed.
type Durations interface {
	FocusMinutes() string
	BreakMinutes() string
}

// Fixed is a Durations that never changes.
type Fixed struct {
	Focus string
	Break string
}

func (f Fixed) FocusMinutes() string { return f.Focus }
func (f Fixed) BreakMinutes() string { return f.Break }

// ParseMinutes reads a leading integer from raw, ignoring leading spaces and
// anything after the digits. Unparsable or out-of-range input yields 0.
func ParseMinutes(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

// DurationSeconds returns the full length of p in seconds, never less than
// one minute.
func DurationSeconds(p Phase, focusRaw, breakRaw string) int {
	raw := breakRaw
	if p == Focus {
		raw = focusRaw
	}
	return max(MinMinutes, ParseMinutes(raw)) * 60
}

// Nominal is DurationSeconds with the minutes read from d.
func Nominal(p Phase, d Durations) int {
	return DurationSeconds(p, d.FocusMinutes(), d.BreakMinutes())
}
