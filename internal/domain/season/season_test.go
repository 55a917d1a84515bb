package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustSeason(t *testing.T, id, name string, start, end time.Time, multiplier float64, minDays int) Season {
	t.Helper()
	s, err := New(CreateParams{
		ID:         ID(id),
		Name:       name,
		Start:      start,
		End:        end,
		Multiplier: multiplier,
		MinDays:    minDays,
	})
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{
			name:    "missing id",
			params:  CreateParams{Name: "High Summer", Start: date(2026, 7, 1), End: date(2026, 7, 31), Multiplier: 1.5, MinDays: 3},
			wantErr: ErrIDRequired,
		},
		{
			name:    "missing name",
			params:  CreateParams{ID: "s1", Start: date(2026, 7, 1), End: date(2026, 7, 31), Multiplier: 1.5, MinDays: 3},
			wantErr: ErrNameRequired,
		},
		{
			name:    "end before start",
			params:  CreateParams{ID: "s1", Name: "High Summer", Start: date(2026, 7, 31), End: date(2026, 7, 1), Multiplier: 1.5, MinDays: 3},
			wantErr: ErrInvalidDates,
		},
		{
			name:    "zero multiplier",
			params:  CreateParams{ID: "s1", Name: "High Summer", Start: date(2026, 7, 1), End: date(2026, 7, 31), Multiplier: 0, MinDays: 3},
			wantErr: ErrInvalidMultiplier,
		},
		{
			name:    "negative multiplier",
			params:  CreateParams{ID: "s1", Name: "High Summer", Start: date(2026, 7, 1), End: date(2026, 7, 31), Multiplier: -1, MinDays: 3},
			wantErr: ErrInvalidMultiplier,
		},
		{
			name:    "min days below one",
			params:  CreateParams{ID: "s1", Name: "High Summer", Start: date(2026, 7, 1), End: date(2026, 7, 31), Multiplier: 1.5, MinDays: 0},
			wantErr: ErrInvalidMinDays,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.params)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSeason_Contains_InclusiveBounds(t *testing.T) {
	s := mustSeason(t, "summer", "High Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 3)

	assert.True(t, s.Contains(date(2026, 7, 1)))
	assert.True(t, s.Contains(date(2026, 7, 31)))
	assert.False(t, s.Contains(date(2026, 6, 30)))
	assert.False(t, s.Contains(date(2026, 8, 1)))

	// time-of-day must not affect date membership
	assert.True(t, s.Contains(time.Date(2026, 7, 31, 23, 59, 0, 0, time.UTC)))
}

func TestCatalog_ForDate_FirstMatchWins(t *testing.T) {
	first := mustSeason(t, "early", "Early Bird", date(2026, 7, 1), date(2026, 7, 15), 1.2, 2)
	second := mustSeason(t, "summer", "High Summer", date(2026, 7, 10), date(2026, 7, 31), 1.5, 3)
	catalog := Catalog{first, second}

	matched, ok := catalog.ForDate(date(2026, 7, 12))
	require.True(t, ok)
	assert.Equal(t, first.ID, matched.ID, "overlap resolves to the first season in catalog order")

	matched, ok = catalog.ForDate(date(2026, 7, 20))
	require.True(t, ok)
	assert.Equal(t, second.ID, matched.ID)

	_, ok = catalog.ForDate(date(2026, 9, 1))
	assert.False(t, ok)

	// reversed order flips the winner for the overlapping day
	reversed := Catalog{second, first}
	matched, ok = reversed.ForDate(date(2026, 7, 12))
	require.True(t, ok)
	assert.Equal(t, second.ID, matched.ID)
}

func TestCatalog_Validate(t *testing.T) {
	valid := mustSeason(t, "summer", "High Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 3)
	broken := valid
	broken.Multiplier = 0

	assert.NoError(t, Catalog{valid}.Validate())
	assert.ErrorIs(t, Catalog{valid, broken}.Validate(), ErrInvalidMultiplier)
}
