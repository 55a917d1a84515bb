package availability

import (
	"context"
	"errors"
	"time"

	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/events"
)

var (
	ErrOverlappingRange = errors.New("availability: range overlaps with an existing block")
	ErrRangeNotFound    = errors.New("availability: range not found")
	ErrCalendarNotFound = errors.New("availability: calendar not found")
)

type BlockReason string

const (
	ReasonBooking     BlockReason = "BOOKING"
	ReasonMaintenance BlockReason = "MAINTENANCE"
)

type Block struct {
	Range     daterange.DateRange
	Reason    BlockReason
	Reference string
	CreatedAt time.Time
}

// Calendar tracks the committed date ranges of a single fleet item. Blocks
// use the same inclusive-day convention as bookings.
type Calendar struct {
	ItemID  fleet.ItemID
	Blocks  []Block
	Version int64
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id fleet.ItemID) (*Calendar, error)
	Save(ctx context.Context, calendar *Calendar) error
}

func NewCalendar(id fleet.ItemID) *Calendar {
	return &Calendar{ItemID: id}
}

func (c *Calendar) CanReserve(r daterange.DateRange) bool {
	for _, block := range c.Blocks {
		if block.Range.Overlaps(r) {
			return false
		}
	}
	return true
}

// Booked reports whether the date falls inside any committed block.
func (c *Calendar) Booked(day time.Time) bool {
	for _, block := range c.Blocks {
		if block.Range.ContainsDate(day) {
			return true
		}
	}
	return false
}

func (c *Calendar) Reserve(r daterange.DateRange, bookingID string, now time.Time) error {
	if !c.CanReserve(r) {
		c.Record(OverbookingPrevented{ItemID: c.ItemID, Range: r, At: now.UTC()})
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: ReasonBooking, Reference: bookingID, CreatedAt: now.UTC()})
	c.Record(RangeBlocked{ItemID: c.ItemID, Range: r, Reason: ReasonBooking, At: now.UTC()})
	return nil
}

func (c *Calendar) BlockRange(r daterange.DateRange, reason BlockReason, reference string, now time.Time) error {
	if reason == "" {
		reason = ReasonMaintenance
	}
	if !c.CanReserve(r) {
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: reason, Reference: reference, CreatedAt: now.UTC()})
	c.Record(RangeBlocked{ItemID: c.ItemID, Range: r, Reason: reason, At: now.UTC()})
	return nil
}

func (c *Calendar) Release(reference string, now time.Time) error {
	idx := -1
	for i, block := range c.Blocks {
		if block.Reference == reference {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrRangeNotFound
	}
	removed := c.Blocks[idx]
	c.Blocks = append(c.Blocks[:idx], c.Blocks[idx+1:]...)
	c.Record(RangeReleased{ItemID: c.ItemID, Range: removed.Range, Reason: removed.Reason, At: now.UTC()})
	return nil
}
