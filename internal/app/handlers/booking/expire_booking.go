package booking

import (
	"context"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/outbox"
	"roamvan/internal/app/uow"
	domainbooking "roamvan/internal/domain/booking"
)

const expireBookingKey = "booking.expire"

// ExpireBookingCommand is dispatched by the deadline sweeper, not by clients.
type ExpireBookingCommand struct {
	BookingID string
	Now       time.Time
}

func (c ExpireBookingCommand) Key() string { return expireBookingKey }

type ExpireBookingResult struct {
	BookingID string `json:"booking_id"`
	State     string `json:"state"`
}

type ExpireBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ExpireBookingHandler) Handle(ctx context.Context, cmd ExpireBookingCommand) (*ExpireBookingResult, error) {
	return withBooking(ctx, h.UoWFactory, cmd.BookingID, h.Outbox, h.Encoder,
		func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking, now time.Time) error {
			if err := b.Expire(now); err != nil {
				return err
			}
			return releaseBlocks(ctx, unit, h.Outbox, h.Encoder, b, now)
		}, cmd.Now, func(b *domainbooking.Booking) *ExpireBookingResult {
			return &ExpireBookingResult{BookingID: string(b.ID), State: string(b.State)}
		})
}

var _ commands.Handler[ExpireBookingCommand, *ExpireBookingResult] = (*ExpireBookingHandler)(nil)
