package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	t.Run("normalizes to UTC midnight", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		start := time.Date(2026, time.July, 10, 15, 30, 0, 0, loc)
		end := time.Date(2026, time.July, 12, 23, 59, 0, 0, loc)

		dr, err := New(start, end)
		require.NoError(t, err)
		assert.Equal(t, date(2026, time.July, 10), dr.Start)
		assert.Equal(t, date(2026, time.July, 12), dr.End)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		_, err := New(date(2026, time.July, 12), date(2026, time.July, 10))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("single day range is valid", func(t *testing.T) {
		dr, err := New(date(2026, time.July, 10), date(2026, time.July, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, dr.Days())
	})
}

func TestDays_Inclusive(t *testing.T) {
	dr, err := New(date(2026, time.July, 10), date(2026, time.July, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Days())

	fiveDays, err := New(date(2026, time.March, 1), date(2026, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, fiveDays.Days())
}

func TestContainsDate(t *testing.T) {
	dr, err := New(date(2026, time.July, 10), date(2026, time.July, 12))
	require.NoError(t, err)

	assert.True(t, dr.ContainsDate(date(2026, time.July, 10)))
	assert.True(t, dr.ContainsDate(date(2026, time.July, 12)))
	assert.False(t, dr.ContainsDate(date(2026, time.July, 9)))
	assert.False(t, dr.ContainsDate(date(2026, time.July, 13)))
}

func TestOverlaps(t *testing.T) {
	base, err := New(date(2026, time.July, 10), date(2026, time.July, 15))
	require.NoError(t, err)

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{"identical", date(2026, time.July, 10), date(2026, time.July, 15), true},
		{"touching at end day", date(2026, time.July, 15), date(2026, time.July, 20), true},
		{"touching at start day", date(2026, time.July, 5), date(2026, time.July, 10), true},
		{"fully inside", date(2026, time.July, 11), date(2026, time.July, 12), true},
		{"before", date(2026, time.July, 1), date(2026, time.July, 9), false},
		{"after", date(2026, time.July, 16), date(2026, time.July, 20), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other, err := New(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.overlaps, base.Overlaps(other))
		})
	}
}

func TestEachDay(t *testing.T) {
	dr, err := New(date(2026, time.July, 10), date(2026, time.July, 12))
	require.NoError(t, err)

	var visited []time.Time
	dr.EachDay(func(day time.Time) bool {
		visited = append(visited, day)
		return true
	})
	require.Len(t, visited, 3)
	assert.Equal(t, date(2026, time.July, 10), visited[0])
	assert.Equal(t, date(2026, time.July, 12), visited[2])

	var stopped int
	dr.EachDay(func(time.Time) bool {
		stopped++
		return false
	})
	assert.Equal(t, 1, stopped)
}
