package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/season"
	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newItem(t *testing.T, id string, priceCents int64, minDays int) *fleet.Item {
	t.Helper()
	item, err := fleet.NewItem(fleet.CreateParams{
		ID:              fleet.ItemID(id),
		Name:            id,
		Category:        fleet.CategoryCampervan,
		BasePricePerDay: money.Must(priceCents, "EUR"),
		MinRentalDays:   minDays,
		Now:             date(2026, 1, 1),
	})
	require.NoError(t, err)
	return item
}

func newSeason(t *testing.T, id string, start, end time.Time, multiplier float64, minDays int) season.Season {
	t.Helper()
	s, err := season.New(season.CreateParams{
		ID:         season.ID(id),
		Name:       id,
		Start:      start,
		End:        end,
		Multiplier: multiplier,
		MinDays:    minDays,
	})
	require.NoError(t, err)
	return s
}

func mustRange(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	return dr
}

func TestQuote_SeasonMultiplier(t *testing.T) {
	// High Summer, July 1-31, x1.5, min 3 days; item base 100.00/day.
	highSummer := newSeason(t, "High Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 3)
	item := newItem(t, "camper-1", 10000, 0)
	rng := mustRange(t, date(2026, 7, 10), date(2026, 7, 12))

	result := Quote([]*fleet.Item{item}, rng, season.Catalog{highSummer})

	assert.Equal(t, int64(45000), result.TotalCents, "3 days x 100.00 x 1.5")
	assert.Equal(t, "EUR", result.Currency)
	assert.Equal(t, 3, result.Days)
	require.Len(t, result.Breakdown, 3)
	for _, entry := range result.Breakdown {
		assert.Equal(t, "High Summer", entry.SeasonName)
		assert.InDelta(t, 15000, entry.PriceCents, 0.001)
	}
}

func TestQuote_NoSeasons(t *testing.T) {
	item := newItem(t, "tent-1", 8000, 0)
	rng := mustRange(t, date(2026, 3, 1), date(2026, 3, 5))

	result := Quote([]*fleet.Item{item}, rng, nil)

	assert.Equal(t, int64(40000), result.TotalCents, "5 days x 80.00 at base price")
	assert.Equal(t, 5, result.Days)
	require.Len(t, result.Breakdown, 5)
	for _, entry := range result.Breakdown {
		assert.Empty(t, entry.SeasonName)
		assert.InDelta(t, 8000, entry.PriceCents, 0.001)
	}
}

func TestQuote_Additive(t *testing.T) {
	// Per-day prices stay integral under the x1.5 multiplier, so the
	// combined quote must equal the sum of the per-item quotes.
	summer := newSeason(t, "Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 1)
	camper := newItem(t, "camper-1", 10000, 0)
	kayak := newItem(t, "kayak-1", 8000, 0)
	rng := mustRange(t, date(2026, 7, 10), date(2026, 7, 12))
	catalog := season.Catalog{summer}

	combined := Quote([]*fleet.Item{camper, kayak}, rng, catalog)
	camperOnly := Quote([]*fleet.Item{camper}, rng, catalog)
	kayakOnly := Quote([]*fleet.Item{kayak}, rng, catalog)

	assert.Equal(t, camperOnly.TotalCents+kayakOnly.TotalCents, combined.TotalCents)
	assert.Equal(t, int64(45000+36000), combined.TotalCents)
	assert.Len(t, combined.Breakdown, len(camperOnly.Breakdown)+len(kayakOnly.Breakdown))
}

func TestQuote_SingleDay(t *testing.T) {
	item := newItem(t, "tent-1", 8000, 0)
	rng := mustRange(t, date(2026, 3, 1), date(2026, 3, 1))

	result := Quote([]*fleet.Item{item}, rng, nil)

	assert.Equal(t, int64(8000), result.TotalCents)
	assert.Equal(t, 1, result.Days)
	assert.Len(t, result.Breakdown, 1)
}

func TestQuote_MultipleItems(t *testing.T) {
	// Two items, one season covering the whole range with x2.0:
	// (50 + 70) x 2 days x 2.0 = 480.00.
	double := newSeason(t, "Peak", date(2026, 8, 1), date(2026, 8, 31), 2.0, 1)
	camper := newItem(t, "camper-1", 5000, 0)
	kayak := newItem(t, "kayak-1", 7000, 0)
	rng := mustRange(t, date(2026, 8, 10), date(2026, 8, 11))

	result := Quote([]*fleet.Item{camper, kayak}, rng, season.Catalog{double})

	assert.Equal(t, int64(48000), result.TotalCents)
	assert.Len(t, result.Breakdown, 4, "one entry per day per item")
}

func TestQuote_RoundsOnceAtTotal(t *testing.T) {
	// 3 days x 33.33 x 1.5 = 149.985 -> sums to 14998.5 raw cents,
	// rounded half-up once to 14999. Per-day rounding would give 14998.
	s := newSeason(t, "Odd", date(2026, 7, 1), date(2026, 7, 31), 1.5, 1)
	item := newItem(t, "camper-1", 3333, 0)
	rng := mustRange(t, date(2026, 7, 10), date(2026, 7, 12))

	result := Quote([]*fleet.Item{item}, rng, season.Catalog{s})

	assert.Equal(t, int64(14999), result.TotalCents)
	for _, entry := range result.Breakdown {
		assert.InDelta(t, 4999.5, entry.PriceCents, 0.001, "per-day values stay unrounded")
	}
}

func TestQuote_Deterministic(t *testing.T) {
	s := newSeason(t, "High Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 3)
	item := newItem(t, "camper-1", 10000, 0)
	rng := mustRange(t, date(2026, 7, 10), date(2026, 7, 12))

	first := Quote([]*fleet.Item{item}, rng, season.Catalog{s})
	second := Quote([]*fleet.Item{item}, rng, season.Catalog{s})
	assert.Equal(t, first, second)
}

func TestQuote_NoItems(t *testing.T) {
	rng := mustRange(t, date(2026, 7, 10), date(2026, 7, 12))
	result := Quote(nil, rng, nil)
	assert.Zero(t, result.TotalCents)
	assert.Empty(t, result.Breakdown)
}

func TestMinimumDaysRequired(t *testing.T) {
	highSummer := newSeason(t, "High Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 3)
	catalog := season.Catalog{highSummer}

	t.Run("season minimum dominates item override", func(t *testing.T) {
		strict := newItem(t, "camper-1", 10000, 7)
		lax := newItem(t, "tent-1", 5000, 1)
		assert.Equal(t, 3, MinimumDaysRequired(date(2026, 7, 10), catalog, []*fleet.Item{strict}))
		assert.Equal(t, 3, MinimumDaysRequired(date(2026, 7, 10), catalog, []*fleet.Item{lax}))
	})

	t.Run("largest item minimum applies outside seasons", func(t *testing.T) {
		strict := newItem(t, "camper-1", 10000, 5)
		lax := newItem(t, "tent-1", 5000, 2)
		assert.Equal(t, 5, MinimumDaysRequired(date(2026, 3, 10), catalog, []*fleet.Item{strict, lax}))
	})

	t.Run("defaults to one", func(t *testing.T) {
		plain := newItem(t, "tent-1", 5000, 0)
		assert.Equal(t, 1, MinimumDaysRequired(date(2026, 3, 10), catalog, []*fleet.Item{plain}))
	})
}

func TestMinimumEndDate(t *testing.T) {
	highSummer := newSeason(t, "High Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 3)
	catalog := season.Catalog{highSummer}
	item := newItem(t, "camper-1", 10000, 0)

	t.Run("minimum of one returns the start itself", func(t *testing.T) {
		end := MinimumEndDate(date(2026, 3, 10), catalog, []*fleet.Item{item})
		assert.Equal(t, date(2026, 3, 10), end)
	})

	t.Run("three day minimum", func(t *testing.T) {
		end := MinimumEndDate(date(2026, 7, 10), catalog, []*fleet.Item{item})
		assert.Equal(t, date(2026, 7, 12), end, "start plus minDays-1 under the inclusive convention")
	})
}

func TestPricePerDay(t *testing.T) {
	highSummer := newSeason(t, "High Summer", date(2026, 7, 1), date(2026, 7, 31), 1.5, 3)
	item := newItem(t, "camper-1", 10000, 0)

	assert.InDelta(t, 15000, PricePerDay(item, date(2026, 7, 10), season.Catalog{highSummer}), 0.001)
	assert.InDelta(t, 10000, PricePerDay(item, date(2026, 3, 10), season.Catalog{highSummer}), 0.001)
}
