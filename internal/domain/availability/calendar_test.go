package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamvan/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	return dr
}

func TestCalendar_Reserve(t *testing.T) {
	now := date(2026, 6, 1)

	t.Run("free range reserves and records event", func(t *testing.T) {
		cal := NewCalendar("camper-1")
		err := cal.Reserve(mustRange(t, date(2026, 7, 10), date(2026, 7, 12)), "booking-1", now)
		require.NoError(t, err)
		require.Len(t, cal.Blocks, 1)
		assert.Equal(t, ReasonBooking, cal.Blocks[0].Reason)
		assert.Equal(t, "booking-1", cal.Blocks[0].Reference)
		require.Len(t, cal.PendingEvents(), 1)
		assert.IsType(t, RangeBlocked{}, cal.PendingEvents()[0])
	})

	t.Run("overlapping range is rejected", func(t *testing.T) {
		cal := NewCalendar("camper-1")
		require.NoError(t, cal.Reserve(mustRange(t, date(2026, 7, 10), date(2026, 7, 12)), "booking-1", now))
		cal.ClearEvents()

		err := cal.Reserve(mustRange(t, date(2026, 7, 12), date(2026, 7, 14)), "booking-2", now)
		assert.ErrorIs(t, err, ErrOverlappingRange)
		assert.Len(t, cal.Blocks, 1, "rejected reservation leaves the calendar untouched")
		require.Len(t, cal.PendingEvents(), 1)
		assert.IsType(t, OverbookingPrevented{}, cal.PendingEvents()[0])
	})

	t.Run("adjacent non-overlapping ranges coexist", func(t *testing.T) {
		cal := NewCalendar("camper-1")
		require.NoError(t, cal.Reserve(mustRange(t, date(2026, 7, 10), date(2026, 7, 12)), "booking-1", now))
		require.NoError(t, cal.Reserve(mustRange(t, date(2026, 7, 13), date(2026, 7, 15)), "booking-2", now))
		assert.Len(t, cal.Blocks, 2)
	})
}

func TestCalendar_BlockRange(t *testing.T) {
	now := date(2026, 6, 1)
	cal := NewCalendar("camper-1")

	err := cal.BlockRange(mustRange(t, date(2026, 7, 1), date(2026, 7, 3)), "", "workshop", now)
	require.NoError(t, err)
	assert.Equal(t, ReasonMaintenance, cal.Blocks[0].Reason, "empty reason defaults to maintenance")

	err = cal.BlockRange(mustRange(t, date(2026, 7, 2), date(2026, 7, 5)), ReasonMaintenance, "workshop-2", now)
	assert.ErrorIs(t, err, ErrOverlappingRange)
}

func TestCalendar_Release(t *testing.T) {
	now := date(2026, 6, 1)
	cal := NewCalendar("camper-1")
	require.NoError(t, cal.Reserve(mustRange(t, date(2026, 7, 10), date(2026, 7, 12)), "booking-1", now))
	cal.ClearEvents()

	require.NoError(t, cal.Release("booking-1", now))
	assert.Empty(t, cal.Blocks)
	require.Len(t, cal.PendingEvents(), 1)
	assert.IsType(t, RangeReleased{}, cal.PendingEvents()[0])

	assert.ErrorIs(t, cal.Release("booking-1", now), ErrRangeNotFound)

	// freed dates are reservable again
	assert.NoError(t, cal.Reserve(mustRange(t, date(2026, 7, 10), date(2026, 7, 12)), "booking-2", now))
}

func TestCalendar_Booked(t *testing.T) {
	cal := NewCalendar("camper-1")
	require.NoError(t, cal.Reserve(mustRange(t, date(2026, 7, 10), date(2026, 7, 12)), "booking-1", date(2026, 6, 1)))

	assert.True(t, cal.Booked(date(2026, 7, 10)))
	assert.True(t, cal.Booked(date(2026, 7, 12)))
	assert.False(t, cal.Booked(date(2026, 7, 13)))
}

func TestSelectableEnd(t *testing.T) {
	cal := NewCalendar("camper-1")
	require.NoError(t, cal.Reserve(mustRange(t, date(2026, 7, 20), date(2026, 7, 22)), "booking-1", date(2026, 6, 1)))

	start := date(2026, 7, 10)
	minEnd := date(2026, 7, 12) // 3-day minimum stay

	t.Run("empty selection allows any date", func(t *testing.T) {
		assert.True(t, cal.SelectableEnd(Selection{}, date(2026, 7, 21), minEnd))
	})

	t.Run("complete selection allows restarting anywhere", func(t *testing.T) {
		sel := Selection{Start: start, End: date(2026, 7, 14)}
		assert.True(t, cal.SelectableEnd(sel, date(2026, 7, 21), minEnd))
	})

	t.Run("candidate on or before start redefines the start", func(t *testing.T) {
		sel := Selection{Start: start}
		assert.True(t, cal.SelectableEnd(sel, start, minEnd))
		assert.True(t, cal.SelectableEnd(sel, date(2026, 7, 5), minEnd))
	})

	t.Run("candidate below minimum end is not selectable", func(t *testing.T) {
		sel := Selection{Start: start}
		assert.False(t, cal.SelectableEnd(sel, date(2026, 7, 11), minEnd))
	})

	t.Run("candidate at minimum end is selectable", func(t *testing.T) {
		sel := Selection{Start: start}
		assert.True(t, cal.SelectableEnd(sel, minEnd, minEnd))
	})

	t.Run("booked candidate is not selectable even past minimum", func(t *testing.T) {
		sel := Selection{Start: start}
		assert.False(t, cal.SelectableEnd(sel, date(2026, 7, 21), minEnd))
	})

	t.Run("free candidate past minimum is selectable", func(t *testing.T) {
		sel := Selection{Start: start}
		assert.True(t, cal.SelectableEnd(sel, date(2026, 7, 15), minEnd))
	})
}
