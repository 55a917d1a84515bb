package booking

import (
	"context"
	"time"

	"roamvan/internal/app/outbox"
	"roamvan/internal/app/uow"
	domainbooking "roamvan/internal/domain/booking"
	"roamvan/internal/domain/shared/events"
)

// drain takes the pending events off a recorder so they are staged exactly once.
func drain(recorder *events.EventRecorder) []events.DomainEvent {
	pending := recorder.PendingEvents()
	recorder.ClearEvents()
	return pending
}

// withBooking loads one booking inside a unit of work, applies a mutation,
// saves it and stages its events. The unit is inherited from the context when
// a transaction middleware already opened one.
func withBooking[R any](
	ctx context.Context,
	factory uow.Factory,
	id string,
	box outbox.Outbox,
	encoder outbox.EventEncoder,
	mutate func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking, now time.Time) error,
	at time.Time,
	result func(b *domainbooking.Booking) R,
) (R, error) {
	var zero R
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if factory == nil {
			return zero, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = factory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return zero, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := at
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(id))
	if err != nil {
		return zero, err
	}
	if err := mutate(ctx, unit, b, now); err != nil {
		return zero, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return zero, err
	}
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	if err := outbox.RecordDomainEvents(ctx, box, encoder, drain(&b.EventRecorder)); err != nil {
		return zero, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return zero, err
		}
		committed = true
	}
	return result(b), nil
}
