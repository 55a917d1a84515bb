package booking

import (
	"context"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/outbox"
	"roamvan/internal/app/uow"
	domainbooking "roamvan/internal/domain/booking"
)

const confirmBookingKey = "booking.confirm"

type ConfirmBookingCommand struct {
	BookingID string
	Now       time.Time
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ConfirmBookingResult struct {
	BookingID string `json:"booking_id"`
	State     string `json:"state"`
}

type ConfirmBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*ConfirmBookingResult, error) {
	return withBooking(ctx, h.UoWFactory, cmd.BookingID, h.Outbox, h.Encoder,
		func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking, now time.Time) error {
			return b.Confirm(now)
		}, cmd.Now, func(b *domainbooking.Booking) *ConfirmBookingResult {
			return &ConfirmBookingResult{BookingID: string(b.ID), State: string(b.State)}
		})
}

var _ commands.Handler[ConfirmBookingCommand, *ConfirmBookingResult] = (*ConfirmBookingHandler)(nil)
