package pricing

import (
	"math"
	"time"

	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/season"
	"roamvan/internal/domain/shared/daterange"
)

// The engine is pure: all inputs are handed in wholesale, nothing is fetched,
// nothing is cached. Callers are responsible for validating the range
// (End >= Start) before quoting; the engine assumes it.

// BreakdownEntry records how a single (day, item) pair was priced. PriceCents
// stays unrounded: rounding happens exactly once, at the quote total,
// so per-day values never accumulate rounding drift.
type BreakdownEntry struct {
	Day        time.Time    `json:"day"`
	ItemID     fleet.ItemID `json:"item_id"`
	ItemName   string       `json:"item_name"`
	PriceCents float64      `json:"price_cents"`
	SeasonName string       `json:"season_name,omitempty"`
}

// Result is recomputed fresh on every call and never persisted; the same
// items, range and catalog always produce the same Result.
type Result struct {
	TotalCents int64            `json:"total_cents"`
	Currency   string           `json:"currency"`
	Days       int              `json:"days"`
	Breakdown  []BreakdownEntry `json:"breakdown"`
}

// PricePerDay resolves the unrounded daily rate in cents for one item on one
// date: base price times the multiplier of the first catalog season
// containing the date, or the plain base price when no season matches.
func PricePerDay(item *fleet.Item, day time.Time, seasons season.Catalog) float64 {
	base := float64(item.BasePricePerDay.Amount)
	if s, ok := seasons.ForDate(day); ok {
		return base * s.Multiplier
	}
	return base
}

// Quote prices every calendar date in the inclusive range for every item,
// sums the unrounded per-day amounts and rounds half-up to whole cents once
// at the end. Zero items yields a zero total and an empty breakdown.
func Quote(items []*fleet.Item, rng daterange.DateRange, seasons season.Catalog) Result {
	result := Result{
		Days:      rng.Days(),
		Breakdown: make([]BreakdownEntry, 0, rng.Days()*len(items)),
	}
	if len(items) == 0 {
		return result
	}
	result.Currency = items[0].BasePricePerDay.Currency

	var sum float64
	rng.EachDay(func(day time.Time) bool {
		active, matched := seasons.ForDate(day)
		for _, item := range items {
			price := float64(item.BasePricePerDay.Amount)
			name := ""
			if matched {
				price *= active.Multiplier
				name = active.Name
			}
			sum += price
			result.Breakdown = append(result.Breakdown, BreakdownEntry{
				Day:        day,
				ItemID:     item.ID,
				ItemName:   item.Name,
				PriceCents: price,
				SeasonName: name,
			})
		}
		return true
	})
	result.TotalCents = roundHalfUp(sum)
	return result
}

// MinimumDaysRequired resolves the minimum stay for a rental starting on
// start. A season containing the start date dominates any item-level
// override; item minimums only apply outside every season window. Items
// without an override count as 1.
func MinimumDaysRequired(start time.Time, seasons season.Catalog, items []*fleet.Item) int {
	if s, ok := seasons.ForDate(start); ok {
		return s.MinDays
	}
	minDays := 1
	for _, item := range items {
		if item.MinRentalDays > minDays {
			minDays = item.MinRentalDays
		}
	}
	return minDays
}

// MinimumEndDate returns the earliest selectable end date for a rental
// starting on start. With a 1-day minimum the start date itself is a valid
// end date, matching the inclusive day-count convention.
func MinimumEndDate(start time.Time, seasons season.Catalog, items []*fleet.Item) time.Time {
	minDays := MinimumDaysRequired(start, seasons, items)
	return daterange.Day(start).AddDate(0, 0, minDays-1)
}

func roundHalfUp(cents float64) int64 {
	return int64(math.Floor(cents + 0.5))
}
