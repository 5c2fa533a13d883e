package timerange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Interval {
	t.Helper()

	i, err := Parse(s)
	require.NoError(t, err)
	return i
}

func TestParse(t *testing.T) {
	i, err := Parse("09:00-18:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00-18:00", i.String())
	assert.Equal(t, 9, i.Start().Hour())
	assert.Equal(t, 18, i.End().Hour())

	// zero-length interval is syntactically fine
	_, err = Parse("12:30-12:30")
	assert.NoError(t, err)
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"0900-11:00",
		"09:0011:00",
		"09:00-11:",
		"09:00%11:00",
		"09:00-11:00-12:00",
		"24:00-11:00",
		"09:60-11:00",
		"",
	}

	for _, s := range cases {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrMalformedInterval, "input %q", s)
	}
}

func TestParseInverted(t *testing.T) {
	_, err := Parse("18:00-09:00")
	assert.ErrorIs(t, err, ErrInvertedInterval)
}

func TestParseAll(t *testing.T) {
	intervals, err := ParseAll([]string{"11:35-14:05", "09:00-18:00"})
	require.NoError(t, err)
	require.Len(t, intervals, 2)

	_, err = ParseAll([]string{"09:00-18:00", "18:00-09:00"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedInterval))
}

func TestResolveAllSortsByStart(t *testing.T) {
	day := time.Date(2021, time.March, 21, 11, 0, 0, 0, time.UTC)

	intervals := []Interval{
		mustParse(t, "11:35-14:05"),
		mustParse(t, "09:00-18:00"),
	}

	resolved := ResolveAll(intervals, day)
	require.Len(t, resolved, 2)

	assert.Equal(t, time.Date(2021, time.March, 21, 9, 0, 0, 0, time.UTC), resolved[0].Start())
	assert.Equal(t, time.Date(2021, time.March, 21, 18, 0, 0, 0, time.UTC), resolved[0].End())
	assert.Equal(t, time.Date(2021, time.March, 21, 11, 35, 0, 0, time.UTC), resolved[1].Start())
}

func TestPruneElapsed(t *testing.T) {
	day := time.Date(2021, time.March, 21, 0, 0, 0, 0, time.UTC)
	now := time.Date(2021, time.March, 21, 12, 0, 0, 0, time.UTC)

	intervals := ResolveAll([]Interval{
		mustParse(t, "09:00-11:00"), // fully elapsed
		mustParse(t, "10:00-12:00"), // ends exactly at now: elapsed
		mustParse(t, "11:00-13:00"), // still open
		mustParse(t, "16:00-21:30"), // future
	}, day)

	kept := PruneElapsed(intervals, now)
	require.Len(t, kept, 2)
	assert.Equal(t, 13, kept[0].End().Hour())
	assert.Equal(t, 16, kept[1].Start().Hour())
}

func TestPruneElapsedAll(t *testing.T) {
	day := time.Date(2021, time.March, 21, 0, 0, 0, 0, time.UTC)
	now := time.Date(2021, time.March, 21, 23, 0, 0, 0, time.UTC)

	intervals := ResolveAll([]Interval{mustParse(t, "09:00-18:00")}, day)
	assert.Empty(t, PruneElapsed(intervals, now))
}

func TestOverlaps(t *testing.T) {
	day := time.Date(2021, time.March, 21, 0, 0, 0, 0, time.UTC)
	resolve := func(s string) Interval { return mustParse(t, s).Resolve(day) }

	cases := []struct {
		a, b string
		want bool
	}{
		{"09:00-18:00", "11:00-12:00", true},
		{"09:00-18:00", "18:00-19:00", false}, // boundary touch only
		{"09:00-18:01", "18:00-19:00", true},  // one minute shared
		{"09:00-10:00", "11:00-12:00", false},
		{"09:00-18:00", "09:00-18:00", true},
		{"12:00-12:00", "09:00-18:00", false}, // zero-length never overlaps
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Overlaps(resolve(c.a), resolve(c.b)), "%s vs %s", c.a, c.b)
		assert.Equal(t, c.want, Overlaps(resolve(c.b), resolve(c.a)), "%s vs %s", c.b, c.a)
	}
}

func TestAnyOverlap(t *testing.T) {
	day := time.Date(2021, time.March, 21, 0, 0, 0, 0, time.UTC)

	working := ResolveAll([]Interval{
		mustParse(t, "11:35-14:05"),
		mustParse(t, "09:00-18:00"),
	}, day)

	delivery := ResolveAll([]Interval{
		mustParse(t, "09:00-12:00"),
		mustParse(t, "16:00-21:30"),
	}, day)

	assert.True(t, AnyOverlap(delivery, working))
	assert.False(t, AnyOverlap(
		ResolveAll([]Interval{mustParse(t, "18:00-19:00")}, day),
		ResolveAll([]Interval{mustParse(t, "09:00-18:00")}, day),
	))
	assert.False(t, AnyOverlap(nil, working))
}

func TestFromClock(t *testing.T) {
	start := time.Date(2021, time.March, 21, 9, 30, 0, 0, time.UTC)
	end := time.Date(2021, time.March, 21, 18, 15, 0, 0, time.UTC)

	i := FromClock(start, end)
	assert.Equal(t, "09:30-18:15", i.String())
}
