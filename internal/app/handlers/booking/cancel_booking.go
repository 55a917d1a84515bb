package booking

import (
	"context"
	"errors"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/outbox"
	"roamvan/internal/app/uow"
	domainavailability "roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string
	Reason    string
	Now       time.Time
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID string `json:"booking_id"`
	State     string `json:"state"`
}

type CancelBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	return withBooking(ctx, h.UoWFactory, cmd.BookingID, h.Outbox, h.Encoder,
		func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking, now time.Time) error {
			if err := b.Cancel(cmd.Reason, now); err != nil {
				return err
			}
			return releaseBlocks(ctx, unit, h.Outbox, h.Encoder, b, now)
		}, cmd.Now, func(b *domainbooking.Booking) *CancelBookingResult {
			return &CancelBookingResult{BookingID: string(b.ID), State: string(b.State)}
		})
}

// releaseBlocks frees every calendar block held under the booking's reference.
// A missing block is not an error; the calendar may have been rebuilt.
func releaseBlocks(ctx context.Context, unit uow.UnitOfWork, box outbox.Outbox, encoder outbox.EventEncoder, b *domainbooking.Booking, now time.Time) error {
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	for _, ref := range b.Items {
		calendar, err := unit.Availability().Calendar(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, domainavailability.ErrCalendarNotFound) {
				continue
			}
			return err
		}
		if err := calendar.Release(string(b.ID), now); err != nil {
			if errors.Is(err, domainavailability.ErrRangeNotFound) {
				continue
			}
			return err
		}
		if err := unit.Availability().Save(ctx, calendar); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, box, encoder, drain(&calendar.EventRecorder)); err != nil {
			return err
		}
	}
	return nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
