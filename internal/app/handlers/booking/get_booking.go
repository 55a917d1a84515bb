package booking

import (
	"context"
	"time"

	"roamvan/internal/app/handlers/support"
	"roamvan/internal/app/queries"
	"roamvan/internal/app/uow"
	domainbooking "roamvan/internal/domain/booking"
)

const getBookingKey = "booking.get"

type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type BookingItemView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookingView renders a stored booking. Dates, day count and total come
// straight from the record; redisplaying a booking never re-prices it.
type BookingView struct {
	ID              string            `json:"id"`
	Items           []BookingItemView `json:"items"`
	Start           time.Time         `json:"start"`
	End             time.Time         `json:"end"`
	Days            int               `json:"days"`
	TotalCents      int64             `json:"total_cents"`
	Currency        string            `json:"currency"`
	State           string            `json:"state"`
	PaymentDeadline time.Time         `json:"payment_deadline"`
	RequiresDriver  bool              `json:"requires_driver"`
	HasCheckout     bool              `json:"has_checkout"`
}

type GetBookingHandler struct {
	UoWFactory uow.Factory
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (*BookingView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return nil, err
	}
	view := &BookingView{
		ID:              string(b.ID),
		Items:           make([]BookingItemView, 0, len(b.Items)),
		Start:           b.Range.Start,
		End:             b.Range.End,
		Days:            b.Days,
		TotalCents:      b.Total.Amount,
		Currency:        b.Total.Currency,
		State:           string(b.State),
		PaymentDeadline: b.PaymentDeadline,
		RequiresDriver:  b.RequiresDriver,
		HasCheckout:     b.Checkout != nil,
	}
	for _, ref := range b.Items {
		view.Items = append(view.Items, BookingItemView{ID: string(ref.ID), Name: ref.Name})
	}
	return view, nil
}

var _ queries.Handler[GetBookingQuery, *BookingView] = (*GetBookingHandler)(nil)
