package booking

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrGuestsRequired   = errors.New("booking: at least one guest is required")
	ErrDriverRequired   = errors.New("booking: driver name and licence number are required")
	ErrTermsNotAccepted = errors.New("booking: rental terms must be accepted")
	ErrPickupOutOfRange = errors.New("booking: pickup and return must fall on the booked dates")
)

type Guest struct {
	Name string
	Age  int
}

type Driver struct {
	Name          string
	LicenceNumber string
}

// ExtraService is an add-on sold with the booking (bedding set, camping
// table, child seat). Prices are flat, not per-day.
type ExtraService struct {
	Name       string
	PriceCents int64
	Quantity   int
}

// CheckoutDetails are attached after the booking record exists. They never
// change the booked dates, items, or total.
type CheckoutDetails struct {
	Guests          []Guest
	Driver          *Driver
	Extras          []ExtraService
	PickupAt        time.Time
	ReturnAt        time.Time
	TermsAccepted   bool
	PrivacyAccepted bool
	AttachedAt      time.Time
}

// AttachCheckout stores the checkout details. Allowed while the booking is
// PENDING or CONFIRMED; the guest completes this step between creating the
// record and paying.
func (b *Booking) AttachCheckout(details CheckoutDetails, now time.Time) error {
	switch b.State {
	case StatePending, StateConfirmed:
	default:
		return ErrInvalidState
	}
	if len(details.Guests) == 0 {
		return ErrGuestsRequired
	}
	if b.needsDriver() {
		if details.Driver == nil || strings.TrimSpace(details.Driver.Name) == "" || strings.TrimSpace(details.Driver.LicenceNumber) == "" {
			return ErrDriverRequired
		}
	}
	if !details.TermsAccepted {
		return ErrTermsNotAccepted
	}
	if !details.PickupAt.IsZero() && !b.Range.ContainsDate(details.PickupAt) {
		return ErrPickupOutOfRange
	}
	if !details.ReturnAt.IsZero() && !b.Range.ContainsDate(details.ReturnAt) {
		return ErrPickupOutOfRange
	}
	details.AttachedAt = now.UTC()
	copied := details
	copied.Guests = append([]Guest(nil), details.Guests...)
	copied.Extras = append([]ExtraService(nil), details.Extras...)
	if details.Driver != nil {
		driver := *details.Driver
		copied.Driver = &driver
	}
	b.Checkout = &copied
	b.UpdatedAt = now.UTC()
	b.Record(CheckoutAttached{BookingID: b.ID, Guests: len(details.Guests), At: b.UpdatedAt})
	return nil
}

func (b *Booking) needsDriver() bool {
	return b.RequiresDriver
}
