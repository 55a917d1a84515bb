package staffcal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "roamvan/internal/domain/booking"
	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
	"roamvan/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedBooking(t *testing.T, repo *memory.BookingRepository, id, itemID string, start, end time.Time, confirm bool) {
	t.Helper()
	rng, err := daterange.New(start, end)
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:              domainbooking.BookingID(id),
		Items:           []domainbooking.ItemRef{{ID: fleet.ItemID(itemID), Name: itemID}},
		Range:           rng,
		Days:            rng.Days(),
		Total:           money.Must(10000, "EUR"),
		PaymentDeadline: date(2026, 12, 31),
		ContactEmail:    "guest@example.com",
		CreatedAt:       date(2026, 6, 1),
	})
	require.NoError(t, err)
	if confirm {
		require.NoError(t, b.Confirm(date(2026, 6, 2)))
	}
	require.NoError(t, repo.Save(context.Background(), b))
}

func newListHandler(t *testing.T) (*ListBookingsHandler, *memory.BookingRepository) {
	t.Helper()
	bookingRepo := memory.NewBookingRepository()
	return &ListBookingsHandler{UoWFactory: memory.Factory{
		FleetRepo:        memory.NewItemRepository(),
		SeasonRepo:       memory.NewSeasonRepository(),
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      bookingRepo,
	}}, bookingRepo
}

func TestListBookings_Window(t *testing.T) {
	handler, repo := newListHandler(t)
	seedBooking(t, repo, "booking-july", "camper-1", date(2026, 7, 10), date(2026, 7, 12), false)
	seedBooking(t, repo, "booking-august", "camper-1", date(2026, 8, 1), date(2026, 8, 5), false)

	result, err := handler.Handle(context.Background(), ListBookingsQuery{
		From: date(2026, 7, 1),
		To:   date(2026, 7, 31),
	})
	require.NoError(t, err)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, "booking-july", result.Bookings[0].ID)

	// a booking straddling the window edge still shows
	overlapping, err := handler.Handle(context.Background(), ListBookingsQuery{
		From: date(2026, 7, 12),
		To:   date(2026, 8, 2),
	})
	require.NoError(t, err)
	assert.Len(t, overlapping.Bookings, 2)
}

func TestListBookings_StateFilter(t *testing.T) {
	handler, repo := newListHandler(t)
	seedBooking(t, repo, "booking-pending", "camper-1", date(2026, 7, 10), date(2026, 7, 12), false)
	seedBooking(t, repo, "booking-confirmed", "camper-1", date(2026, 7, 14), date(2026, 7, 16), true)

	result, err := handler.Handle(context.Background(), ListBookingsQuery{
		From:   date(2026, 7, 1),
		To:     date(2026, 7, 31),
		States: []string{"CONFIRMED"},
	})
	require.NoError(t, err)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, "booking-confirmed", result.Bookings[0].ID)
	assert.Equal(t, "CONFIRMED", result.Bookings[0].State)
}

func TestListBookings_ItemFilter(t *testing.T) {
	handler, repo := newListHandler(t)
	seedBooking(t, repo, "booking-camper", "camper-1", date(2026, 7, 10), date(2026, 7, 12), false)
	seedBooking(t, repo, "booking-kayak", "kayak-1", date(2026, 7, 10), date(2026, 7, 12), false)

	result, err := handler.Handle(context.Background(), ListBookingsQuery{
		From:   date(2026, 7, 1),
		To:     date(2026, 7, 31),
		ItemID: "kayak-1",
	})
	require.NoError(t, err)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, "booking-kayak", result.Bookings[0].ID)
}
