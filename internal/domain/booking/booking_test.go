package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	rng, err := daterange.New(date(2026, 7, 10), date(2026, 7, 12))
	require.NoError(t, err)
	b, err := NewBooking(CreateParams{
		ID:              "booking-1",
		Items:           []ItemRef{{ID: "camper-1", Name: "Adria Twin"}},
		Range:           rng,
		Days:            3,
		Total:           money.Must(45000, "EUR"),
		PaymentDeadline: date(2026, 7, 5),
		ContactName:     "Jana Novak",
		ContactEmail:    "jana@example.com",
		RequiresDriver:  true,
		CreatedAt:       date(2026, 7, 1),
	})
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("starts pending and records the request", func(t *testing.T) {
		b := newTestBooking(t)
		assert.Equal(t, StatePending, b.State)
		require.Len(t, b.PendingEvents(), 1)
		assert.IsType(t, BookingRequested{}, b.PendingEvents()[0])
	})

	t.Run("requires items", func(t *testing.T) {
		rng, err := daterange.New(date(2026, 7, 10), date(2026, 7, 12))
		require.NoError(t, err)
		_, err = NewBooking(CreateParams{
			ID:           "booking-2",
			Range:        rng,
			ContactEmail: "jana@example.com",
			CreatedAt:    date(2026, 7, 1),
		})
		assert.ErrorIs(t, err, ErrItemsRequired)
	})

	t.Run("requires contact email", func(t *testing.T) {
		rng, err := daterange.New(date(2026, 7, 10), date(2026, 7, 12))
		require.NoError(t, err)
		_, err = NewBooking(CreateParams{
			ID:        "booking-3",
			Items:     []ItemRef{{ID: "camper-1"}},
			Range:     rng,
			CreatedAt: date(2026, 7, 1),
		})
		assert.ErrorIs(t, err, ErrContactRequired)
	})
}

func TestValidateStartDate(t *testing.T) {
	rng, err := daterange.New(date(2026, 7, 10), date(2026, 7, 12))
	require.NoError(t, err)

	assert.NoError(t, ValidateStartDate(rng, date(2026, 7, 10)))
	assert.NoError(t, ValidateStartDate(rng, date(2026, 7, 1)))
	assert.ErrorIs(t, ValidateStartDate(rng, date(2026, 7, 11)), ErrStartDateInPast)
}

func TestBooking_Confirm(t *testing.T) {
	t.Run("pending before deadline", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(date(2026, 7, 3)))
		assert.Equal(t, StateConfirmed, b.State)
	})

	t.Run("past deadline", func(t *testing.T) {
		b := newTestBooking(t)
		assert.ErrorIs(t, b.Confirm(date(2026, 7, 6)), ErrDeadlinePassed)
		assert.Equal(t, StatePending, b.State)
	})

	t.Run("already confirmed", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(date(2026, 7, 3)))
		assert.ErrorIs(t, b.Confirm(date(2026, 7, 3)), ErrInvalidState)
	})
}

func TestBooking_Cancel(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel("guest request", date(2026, 7, 3)))
		assert.Equal(t, StateCancelled, b.State)
	})

	t.Run("from confirmed", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(date(2026, 7, 3)))
		require.NoError(t, b.Cancel("guest request", date(2026, 7, 4)))
		assert.Equal(t, StateCancelled, b.State)
	})

	t.Run("cancelled bookings stay cancelled", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel("guest request", date(2026, 7, 3)))
		assert.ErrorIs(t, b.Cancel("again", date(2026, 7, 4)), ErrInvalidState)
	})
}

func TestBooking_Expire(t *testing.T) {
	t.Run("pending past deadline", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Expire(date(2026, 7, 6)))
		assert.Equal(t, StateExpired, b.State)
	})

	t.Run("deadline not reached", func(t *testing.T) {
		b := newTestBooking(t)
		assert.ErrorIs(t, b.Expire(date(2026, 7, 4)), ErrInvalidState)
	})

	t.Run("confirmed bookings never expire", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(date(2026, 7, 3)))
		assert.ErrorIs(t, b.Expire(date(2026, 7, 6)), ErrInvalidState)
	})
}

func TestBooking_AttachCheckout(t *testing.T) {
	details := CheckoutDetails{
		Guests:          []Guest{{Name: "Jana Novak", Age: 34}},
		Driver:          &Driver{Name: "Jana Novak", LicenceNumber: "CZ-123456"},
		Extras:          []ExtraService{{Name: "bedding set", PriceCents: 1500, Quantity: 2}},
		PickupAt:        date(2026, 7, 10),
		ReturnAt:        date(2026, 7, 12),
		TermsAccepted:   true,
		PrivacyAccepted: true,
	}

	t.Run("attaches without touching dates or total", func(t *testing.T) {
		b := newTestBooking(t)
		rngBefore, totalBefore := b.Range, b.Total
		require.NoError(t, b.AttachCheckout(details, date(2026, 7, 2)))
		require.NotNil(t, b.Checkout)
		assert.Equal(t, rngBefore, b.Range)
		assert.Equal(t, totalBefore, b.Total)
		assert.Len(t, b.Checkout.Guests, 1)
		require.NotNil(t, b.Checkout.Driver)
		assert.Equal(t, "CZ-123456", b.Checkout.Driver.LicenceNumber)
	})

	t.Run("requires guests", func(t *testing.T) {
		b := newTestBooking(t)
		d := details
		d.Guests = nil
		assert.ErrorIs(t, b.AttachCheckout(d, date(2026, 7, 2)), ErrGuestsRequired)
	})

	t.Run("campervan bookings require a driver", func(t *testing.T) {
		b := newTestBooking(t)
		d := details
		d.Driver = nil
		assert.ErrorIs(t, b.AttachCheckout(d, date(2026, 7, 2)), ErrDriverRequired)

		d.Driver = &Driver{}
		assert.ErrorIs(t, b.AttachCheckout(d, date(2026, 7, 2)), ErrDriverRequired)
	})

	t.Run("equipment-only bookings skip the driver", func(t *testing.T) {
		b := newTestBooking(t)
		b.RequiresDriver = false
		d := details
		d.Driver = nil
		assert.NoError(t, b.AttachCheckout(d, date(2026, 7, 2)))
	})

	t.Run("requires accepted terms", func(t *testing.T) {
		b := newTestBooking(t)
		d := details
		d.TermsAccepted = false
		assert.ErrorIs(t, b.AttachCheckout(d, date(2026, 7, 2)), ErrTermsNotAccepted)
	})

	t.Run("pickup must fall on booked dates", func(t *testing.T) {
		b := newTestBooking(t)
		d := details
		d.PickupAt = date(2026, 7, 9)
		assert.ErrorIs(t, b.AttachCheckout(d, date(2026, 7, 2)), ErrPickupOutOfRange)
	})

	t.Run("allowed while confirmed, rejected after cancel", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm(date(2026, 7, 3)))
		require.NoError(t, b.AttachCheckout(details, date(2026, 7, 4)))

		cancelled := newTestBooking(t)
		require.NoError(t, cancelled.Cancel("guest request", date(2026, 7, 3)))
		assert.ErrorIs(t, cancelled.AttachCheckout(details, date(2026, 7, 4)), ErrInvalidState)
	})
}
