package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end must be on or after start")
)

// DateRange represents an inclusive interval of calendar days [Start, End].
// Time-of-day is irrelevant for rental pricing and availability, so both
// bounds are normalized to UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New builds a DateRange from two calendar dates, normalizing to UTC midnight.
func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Day(start), End: Day(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Day truncates a timestamp to its UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if dr.End.Before(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the inclusive day count: a range whose end equals its start is
// one day long.
func (dr DateRange) Days() int {
	return int(dr.End.Sub(dr.Start).Hours()/24) + 1
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	d := Day(t)
	return !d.Before(dr.Start) && !d.After(dr.End)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.Start.After(other.End) && !other.Start.After(dr.End)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.Start.After(other.Start) && !dr.End.Before(other.End)
}

// EachDay invokes fn for every calendar date in the range, in order, stopping
// early when fn returns false.
func (dr DateRange) EachDay(fn func(day time.Time) bool) {
	for d := dr.Start; !d.After(dr.End); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}
