// Package timerange models HH:MM-HH:MM time windows: parsing, anchoring to a
// concrete day, pruning of elapsed windows and overlap checks.
package timerange

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

var (
	// ErrMalformedInterval reports input that does not match HH:MM-HH:MM.
	ErrMalformedInterval = errors.New("time interval must match HH:MM-HH:MM")
	// ErrInvertedInterval reports an interval whose start is after its end.
	ErrInvertedInterval = errors.New("time interval start is after its end")
)

var intervalRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])-([01][0-9]|2[0-3]):([0-5][0-9])$`)

const clockLayout = "15:04"

// Interval is a time window within a single day. Until resolved against a
// reference day its endpoints live on the zero date; after Resolve they are
// absolute instants. Wraparound past midnight is not supported.
type Interval struct {
	start time.Time
	end   time.Time
}

// Parse builds an Interval from an HH:MM-HH:MM string.
func Parse(s string) (Interval, error) {
	if !intervalRe.MatchString(s) {
		return Interval{}, fmt.Errorf("%q: %w", s, ErrMalformedInterval)
	}

	start, err := time.Parse(clockLayout, s[:5])
	if err != nil {
		return Interval{}, fmt.Errorf("%q: %w", s, ErrMalformedInterval)
	}
	end, err := time.Parse(clockLayout, s[6:])
	if err != nil {
		return Interval{}, fmt.Errorf("%q: %w", s, ErrMalformedInterval)
	}

	if start.After(end) {
		return Interval{}, fmt.Errorf("%q: %w", s, ErrInvertedInterval)
	}

	return Interval{start: start, end: end}, nil
}

// ParseAll parses a list of interval strings, failing on the first bad one.
func ParseAll(ss []string) ([]Interval, error) {
	intervals := make([]Interval, 0, len(ss))
	for _, s := range ss {
		i, err := Parse(s)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, i)
	}
	return intervals, nil
}

// FromClock builds an Interval from the time-of-day of two instants,
// discarding their dates. It does not re-validate ordering; callers are
// expected to pass endpoints that were stored in parsed order.
func FromClock(start, end time.Time) Interval {
	return Interval{
		start: onZeroDay(start),
		end:   onZeroDay(end),
	}
}

func onZeroDay(t time.Time) time.Time {
	return time.Date(0, time.January, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// Start returns the interval's start endpoint.
func (i Interval) Start() time.Time { return i.start }

// End returns the interval's end endpoint.
func (i Interval) End() time.Time { return i.end }

// String renders the interval back to HH:MM-HH:MM.
func (i Interval) String() string {
	return i.start.Format(clockLayout) + "-" + i.end.Format(clockLayout)
}

// Resolve anchors the interval's clock times to day's date and location.
func (i Interval) Resolve(day time.Time) Interval {
	return Interval{
		start: anchor(i.start, day),
		end:   anchor(i.end, day),
	}
}

func anchor(clock, day time.Time) time.Time {
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		day.Location(),
	)
}

// ResolveAll anchors every interval to day and returns them sorted ascending
// by start. The input slice is not modified.
func ResolveAll(intervals []Interval, day time.Time) []Interval {
	resolved := make([]Interval, 0, len(intervals))
	for _, i := range intervals {
		resolved = append(resolved, i.Resolve(day))
	}

	sort.Slice(resolved, func(a, b int) bool {
		return resolved[a].start.Before(resolved[b].start)
	})

	return resolved
}

// PruneElapsed keeps only intervals whose end time-of-day is strictly after
// now's time-of-day. An interval ending exactly at now has fully elapsed.
func PruneElapsed(intervals []Interval, now time.Time) []Interval {
	kept := make([]Interval, 0, len(intervals))
	for _, i := range intervals {
		if clockSeconds(i.end) > clockSeconds(now) {
			kept = append(kept, i)
		}
	}
	return kept
}

func clockSeconds(t time.Time) int {
	h, m, s := t.Clock()
	return h*3600 + m*60 + s
}

// Overlaps reports whether the intersection of a and b lasts strictly longer
// than zero. Touching boundaries (a ends exactly where b starts) do not
// count: 09:00-18:00 and 18:00-19:00 do not overlap.
func Overlaps(a, b Interval) bool {
	start := a.start
	if b.start.After(start) {
		start = b.start
	}

	end := a.end
	if b.end.Before(end) {
		end = b.end
	}

	return end.After(start)
}

// AnyOverlap reports whether any interval of as overlaps any interval of bs.
func AnyOverlap(as, bs []Interval) bool {
	for _, a := range as {
		for _, b := range bs {
			if Overlaps(a, b) {
				return true
			}
		}
	}
	return false
}
