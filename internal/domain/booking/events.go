package booking

import (
	"time"

	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID BookingID
	Items     []fleet.ItemID
	Range     daterange.DateRange
	Days      int
	Total     money.Money
	At        time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID
	Items     []fleet.ItemID
	Range     daterange.DateRange
	Total     money.Money
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID
	Reason    string
	At        time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingExpired struct {
	BookingID BookingID
	Deadline  time.Time
	At        time.Time
}

func (e BookingExpired) EventName() string     { return "booking.expired" }
func (e BookingExpired) AggregateID() string   { return string(e.BookingID) }
func (e BookingExpired) OccurredAt() time.Time { return e.At }

type CheckoutAttached struct {
	BookingID BookingID
	Guests    int
	At        time.Time
}

func (e CheckoutAttached) EventName() string     { return "booking.checkout_attached" }
func (e CheckoutAttached) AggregateID() string   { return string(e.BookingID) }
func (e CheckoutAttached) OccurredAt() time.Time { return e.At }
