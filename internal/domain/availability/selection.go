package availability

import (
	"time"

	"roamvan/internal/domain/shared/daterange"
)

// Selection mirrors the state of a date picker mid-interaction: no date
// chosen yet, only a start chosen, or a completed range.
type Selection struct {
	Start time.Time
	End   time.Time
}

func (s Selection) hasStart() bool { return !s.Start.IsZero() }
func (s Selection) complete() bool { return !s.Start.IsZero() && !s.End.IsZero() }

// SelectableEnd decides whether candidate may be picked given the current
// selection. The rules, in order:
//   - nothing chosen yet: every date is a valid start candidate;
//   - range already complete: every date is selectable again, so the user
//     can begin a fresh range;
//   - candidate on/before the chosen start: selectable, redefining the start;
//   - candidate after the chosen start: it must fall on/after minEnd AND
//     outside every committed block. The two conditions are independent;
//     both must hold.
func (c *Calendar) SelectableEnd(sel Selection, candidate time.Time, minEnd time.Time) bool {
	if !sel.hasStart() || sel.complete() {
		return true
	}
	day := daterange.Day(candidate)
	start := daterange.Day(sel.Start)
	if !day.After(start) {
		return true
	}
	if day.Before(daterange.Day(minEnd)) {
		return false
	}
	return !c.Booked(day)
}
