package expiry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"roamvan/internal/app/commands"
	bookinghandlers "roamvan/internal/app/handlers/booking"
	"roamvan/internal/app/uow"
	domainbooking "roamvan/internal/domain/booking"
)

var ErrSweeperNotConfigured = errors.New("expiry: sweeper missing dependencies")

// Sweeper walks PENDING bookings whose payment deadline has passed and
// dispatches an expire command for each, which frees their calendar blocks.
type Sweeper struct {
	UoWFactory uow.Factory
	Bus        commands.Bus
	Interval   time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

func (s *Sweeper) Run(ctx context.Context) error {
	if s.UoWFactory == nil || s.Bus == nil {
		return ErrSweeperNotConfigured
	}
	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				if s.Logger != nil {
					s.Logger.Error("deadline sweep failed", "error", err)
				}
			}
		}
	}
}

// SweepOnce expires every overdue PENDING booking found at call time.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	now := s.now()

	unit, err := s.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	overdue, err := unit.Bookings().List(ctx, domainbooking.ListFilter{
		States:         []domainbooking.BookingState{domainbooking.StatePending},
		DeadlineBefore: now,
	})
	_ = unit.Rollback(ctx)
	if err != nil {
		return err
	}

	for _, b := range overdue {
		_, err := commands.Dispatch[bookinghandlers.ExpireBookingCommand, *bookinghandlers.ExpireBookingResult](
			ctx, s.Bus, bookinghandlers.ExpireBookingCommand{BookingID: string(b.ID), Now: now})
		if err != nil {
			// already transitioned by a concurrent writer, skip
			if errors.Is(err, domainbooking.ErrInvalidState) {
				continue
			}
			if s.Logger != nil {
				s.Logger.Error("booking expiry failed", "booking_id", b.ID, "error", err)
			}
			continue
		}
		if s.Logger != nil {
			s.Logger.Info("booking expired", "booking_id", b.ID, "deadline", b.PaymentDeadline)
		}
	}
	return nil
}

func (s *Sweeper) interval() time.Duration {
	if s.Interval <= 0 {
		return time.Minute
	}
	return s.Interval
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
