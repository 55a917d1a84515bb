package availability

import (
	"time"

	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/daterange"
)

type RangeBlocked struct {
	ItemID fleet.ItemID
	Range  daterange.DateRange
	Reason BlockReason
	At     time.Time
}

func (e RangeBlocked) EventName() string     { return "availability.range_blocked" }
func (e RangeBlocked) AggregateID() string   { return string(e.ItemID) }
func (e RangeBlocked) OccurredAt() time.Time { return e.At }

type RangeReleased struct {
	ItemID fleet.ItemID
	Range  daterange.DateRange
	Reason BlockReason
	At     time.Time
}

func (e RangeReleased) EventName() string     { return "availability.range_released" }
func (e RangeReleased) AggregateID() string   { return string(e.ItemID) }
func (e RangeReleased) OccurredAt() time.Time { return e.At }

type OverbookingPrevented struct {
	ItemID fleet.ItemID
	Range  daterange.DateRange
	At     time.Time
}

func (e OverbookingPrevented) EventName() string     { return "availability.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return string(e.ItemID) }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }
