package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/middleware"
	"roamvan/internal/app/outbox"
	"roamvan/internal/app/uow"
	domainavailability "roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/pricing"
	domainrange "roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
)

const createBookingKey = "booking.create"

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrItemInactive       = errors.New("booking: item is not available for rental")
)

// DefaultPaymentTTL is how long a new booking stays PENDING before the
// deadline sweeper expires it.
const DefaultPaymentTTL = 72 * time.Hour

type CreateBookingCommand struct {
	CommandID       string
	ItemIDs         []string
	Start           time.Time
	End             time.Time
	ContactName     string
	ContactEmail    string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

func (c CreateBookingCommand) Validate() error {
	if len(c.ItemIDs) == 0 {
		return domainbooking.ErrItemsRequired
	}
	if c.ContactEmail == "" {
		return domainbooking.ErrContactRequired
	}
	return nil
}

type CreateBookingResult struct {
	BookingID       string    `json:"booking_id"`
	TotalCents      int64     `json:"total_cents"`
	Currency        string    `json:"currency"`
	Days            int       `json:"days"`
	PaymentDeadline time.Time `json:"payment_deadline"`
}

type CreateBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	PaymentTTL time.Duration
	Now        func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
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

	now := h.now()
	rng, err := domainrange.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}
	if err := domainbooking.ValidateStartDate(rng, now); err != nil {
		return nil, err
	}

	items := make([]*fleet.Item, 0, len(cmd.ItemIDs))
	refs := make([]domainbooking.ItemRef, 0, len(cmd.ItemIDs))
	for _, id := range cmd.ItemIDs {
		item, err := unit.Fleet().ByID(ctx, fleet.ItemID(id))
		if err != nil {
			return nil, err
		}
		if !item.Active {
			return nil, fmt.Errorf("%w: %s", ErrItemInactive, item.ID)
		}
		items = append(items, item)
		refs = append(refs, domainbooking.ItemRef{ID: item.ID, Name: item.Name})
	}

	seasons, err := unit.Seasons().List(ctx)
	if err != nil {
		return nil, err
	}

	minDays := pricing.MinimumDaysRequired(rng.Start, seasons, items)
	if rng.Days() < minDays {
		return nil, fmt.Errorf("%w: need at least %d days", domainbooking.ErrBelowMinimumStay, minDays)
	}

	quote := pricing.Quote(items, rng, seasons)
	total, err := money.New(quote.TotalCents, quote.Currency)
	if err != nil {
		return nil, err
	}

	bookingID := domainbooking.BookingID(cmd.CommandID)
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:              bookingID,
		Items:           refs,
		Range:           rng,
		Days:            quote.Days,
		Total:           total,
		PaymentDeadline: now.Add(h.paymentTTL()),
		ContactName:     cmd.ContactName,
		ContactEmail:    cmd.ContactEmail,
		RequiresDriver:  requiresDriver(items),
		CreatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		calendar, err := unit.Availability().Calendar(ctx, item.ID)
		if err != nil {
			if !errors.Is(err, domainavailability.ErrCalendarNotFound) {
				return nil, err
			}
			calendar = domainavailability.NewCalendar(item.ID)
		}
		if err := calendar.Reserve(rng, string(bookingID), now); err != nil {
			// persist the rejection event before surfacing the conflict
			_ = outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), drain(&calendar.EventRecorder))
			return nil, err
		}
		if err := unit.Availability().Save(ctx, calendar); err != nil {
			return nil, err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), drain(&calendar.EventRecorder)); err != nil {
			return nil, err
		}
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), drain(&booking.EventRecorder)); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateBookingResult{
		BookingID:       string(booking.ID),
		TotalCents:      booking.Total.Amount,
		Currency:        booking.Total.Currency,
		Days:            booking.Days,
		PaymentDeadline: booking.PaymentDeadline,
	}, nil
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CreateBookingHandler) paymentTTL() time.Duration {
	if h.PaymentTTL > 0 {
		return h.PaymentTTL
	}
	return DefaultPaymentTTL
}

func (h *CreateBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func requiresDriver(items []*fleet.Item) bool {
	for _, item := range items {
		if item.Category == fleet.CategoryCampervan {
			return true
		}
	}
	return false
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
