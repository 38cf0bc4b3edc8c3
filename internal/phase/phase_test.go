package phase

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAlternates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Break, Focus.Next())
	assert.Equal(t, Focus, Break.Next())
	assert.Equal(t, Focus, Phase("legacy").Next())
}

func TestParse(t *testing.T) {
	t.Parallel()

	p, ok := Parse("focus")
	assert.True(t, ok)
	assert.Equal(t, Focus, p)

	p, ok = Parse("b")
	assert.True(t, ok)
	assert.Equal(t, Break, p)

	_, ok = Parse("lunch")
	assert.False(t, ok)
}

func TestParseMinutes(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"25":          25,
		"  7":         7,
		"30min":       30,
		"+4":          4,
		"-3":          -3,
		"":            0,
		"abc":         0,
		"-":           0,
		"1.5":         1,
		"99999999999": 0,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseMinutes(raw), "input %q", raw)
	}
}

func TestDurationSecondsFloorsAtOneMinute(t *testing.T) {
	t.Parallel()

	for f := -2; f <= 90; f++ {
		for _, b := range []int{-1, 0, 1, 5, 15} {
			fr, br := strconv.Itoa(f), strconv.Itoa(b)
			assert.Equal(t, max(1, f)*60, DurationSeconds(Focus, fr, br))
			assert.Equal(t, max(1, b)*60, DurationSeconds(Break, fr, br))
		}
	}
}

func TestDurationSecondsMalformedInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 60, DurationSeconds(Focus, "soon", "5"))
	assert.Equal(t, 60, DurationSeconds(Break, "25", ""))
}

func TestNominalReadsDurations(t *testing.T) {
	t.Parallel()

	d := Fixed{Focus: "25", Break: "5"}
	assert.Equal(t, 1500, Nominal(Focus, d))
	assert.Equal(t, 300, Nominal(Break, d))
}
