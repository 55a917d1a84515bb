package staffcal

import (
	"context"
	"time"

	"roamvan/internal/app/handlers/support"
	"roamvan/internal/app/queries"
	"roamvan/internal/app/uow"
	domainbooking "roamvan/internal/domain/booking"
	"roamvan/internal/domain/fleet"
)

const listBookingsKey = "staffcal.bookings"

// ListBookingsQuery feeds the back-office calendar: bookings overlapping the
// window, narrowed by state or item when set.
type ListBookingsQuery struct {
	From   time.Time
	To     time.Time
	States []string
	ItemID string
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type BookingItemView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

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
	ContactName     string            `json:"contact_name"`
	ContactEmail    string            `json:"contact_email"`
	HasCheckout     bool              `json:"has_checkout"`
	CreatedAt       time.Time         `json:"created_at"`
}

type ListBookingsResult struct {
	Bookings []BookingView `json:"bookings"`
}

type ListBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (*ListBookingsResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	filter := domainbooking.ListFilter{
		From:   q.From,
		To:     q.To,
		ItemID: fleet.ItemID(q.ItemID),
	}
	for _, state := range q.States {
		filter.States = append(filter.States, domainbooking.BookingState(state))
	}

	bookings, err := unit.Bookings().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := &ListBookingsResult{Bookings: make([]BookingView, 0, len(bookings))}
	for _, b := range bookings {
		view := BookingView{
			ID:              string(b.ID),
			Items:           make([]BookingItemView, 0, len(b.Items)),
			Start:           b.Range.Start,
			End:             b.Range.End,
			Days:            b.Days,
			TotalCents:      b.Total.Amount,
			Currency:        b.Total.Currency,
			State:           string(b.State),
			PaymentDeadline: b.PaymentDeadline,
			ContactName:     b.ContactName,
			ContactEmail:    b.ContactEmail,
			HasCheckout:     b.Checkout != nil,
			CreatedAt:       b.CreatedAt,
		}
		for _, ref := range b.Items {
			view.Items = append(view.Items, BookingItemView{ID: string(ref.ID), Name: ref.Name})
		}
		res.Bookings = append(res.Bookings, view)
	}
	return res, nil
}

var _ queries.Handler[ListBookingsQuery, *ListBookingsResult] = (*ListBookingsHandler)(nil)
