package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/events"
	"roamvan/internal/domain/shared/money"
)

var (
	ErrItemsRequired    = errors.New("booking: at least one item is required")
	ErrContactRequired  = errors.New("booking: contact email is required")
	ErrInvalidState     = errors.New("booking: invalid state transition")
	ErrDeadlinePassed   = errors.New("booking: payment deadline has passed")
	ErrBookingNotFound  = errors.New("booking: not found")
	ErrStartDateInPast  = errors.New("booking: start date is in the past")
	ErrBelowMinimumStay = errors.New("booking: below minimum stay")
)

type BookingID string

type BookingState string

const (
	StatePending   BookingState = "PENDING"
	StateConfirmed BookingState = "CONFIRMED"
	StateCancelled BookingState = "CANCELLED"
	StateExpired   BookingState = "EXPIRED"
)

// ItemRef snapshots the identity and display name of a booked item so
// stored bookings render without a fleet lookup.
type ItemRef struct {
	ID   fleet.ItemID
	Name string
}

// Booking is the aggregate created by the checkout flow. Days and Total are
// derived from the pricing engine at creation; redisplay re-derives the same
// values from the same stored dates and items, so neither may be mutated
// after creation.
type Booking struct {
	ID              BookingID
	Items           []ItemRef
	Range           daterange.DateRange
	Days            int
	Total           money.Money
	State           BookingState
	PaymentDeadline time.Time
	ContactName     string
	ContactEmail    string
	// RequiresDriver is set when any booked item is a campervan; checkout
	// must then name a licensed driver.
	RequiresDriver bool
	Checkout       *CheckoutDetails
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)
}

// ListFilter drives the staff calendar: bookings overlapping [From, To],
// optionally narrowed by state, item, or an elapsed payment deadline.
type ListFilter struct {
	From           time.Time
	To             time.Time
	States         []BookingState
	ItemID         fleet.ItemID
	DeadlineBefore time.Time
}

type CreateParams struct {
	ID              BookingID
	Items           []ItemRef
	Range           daterange.DateRange
	Days            int
	Total           money.Money
	PaymentDeadline time.Time
	ContactName     string
	ContactEmail    string
	RequiresDriver  bool
	CreatedAt       time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("booking: id is required")
	}
	if len(params.Items) == 0 {
		return nil, ErrItemsRequired
	}
	if strings.TrimSpace(params.ContactEmail) == "" {
		return nil, ErrContactRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		Items:           append([]ItemRef(nil), params.Items...),
		Range:           params.Range,
		Days:            params.Days,
		Total:           params.Total,
		State:           StatePending,
		PaymentDeadline: params.PaymentDeadline.UTC(),
		ContactName:     strings.TrimSpace(params.ContactName),
		ContactEmail:    strings.TrimSpace(params.ContactEmail),
		RequiresDriver:  params.RequiresDriver,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(BookingRequested{
		BookingID: b.ID,
		Items:     itemIDs(b.Items),
		Range:     b.Range,
		Days:      b.Days,
		Total:     b.Total,
		At:        now,
	})
	return b, nil
}

// ValidateStartDate rejects ranges starting before today.
func ValidateStartDate(dr daterange.DateRange, now time.Time) error {
	if dr.Start.Before(daterange.Day(now)) {
		return ErrStartDateInPast
	}
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	if !b.PaymentDeadline.IsZero() && now.UTC().After(b.PaymentDeadline) {
		return ErrDeadlinePassed
	}
	b.State = StateConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, Items: itemIDs(b.Items), Range: b.Range, Total: b.Total, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.State {
	case StatePending, StateConfirmed:
	default:
		return ErrInvalidState
	}
	b.State = StateCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Expire moves an unpaid PENDING booking past its deadline to EXPIRED. The
// deadline sweeper is the only expected caller.
func (b *Booking) Expire(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	if b.PaymentDeadline.IsZero() || now.UTC().Before(b.PaymentDeadline) {
		return ErrInvalidState
	}
	b.State = StateExpired
	b.UpdatedAt = now.UTC()
	b.Record(BookingExpired{BookingID: b.ID, Deadline: b.PaymentDeadline, At: b.UpdatedAt})
	return nil
}

func itemIDs(refs []ItemRef) []fleet.ItemID {
	ids := make([]fleet.ItemID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}
