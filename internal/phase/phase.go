package phase

// Phase is one of the two alternating interval types.
type Phase string

const (
	Focus Phase = "focus"
	Break Phase = "break"
)

// Next returns the phase that follows p. Anything that is not Focus is
// treated as a break.
func (p Phase) Next() Phase {
	if p == Focus {
		return Break
	}
	return Focus
}

func (p Phase) Label() string {
	if p == Focus {
		return "Focus"
	}
	return "Break"
}

// Parse accepts "focus" or "break" and a few short aliases used on the command line.
func Parse(raw string) (Phase, bool) {
	switch raw {
	case "focus", "f", "work":
		return Focus, true
	case "break", "b", "rest":
		return Break, true
	}
	return "", false
}
