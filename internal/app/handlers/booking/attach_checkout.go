package booking

import (
	"context"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/outbox"
	"roamvan/internal/app/uow"
	domainbooking "roamvan/internal/domain/booking"
)

const attachCheckoutKey = "booking.attach_checkout"

type GuestInput struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type DriverInput struct {
	Name          string `json:"name"`
	LicenceNumber string `json:"licence_number"`
}

type ExtraServiceInput struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

type AttachCheckoutCommand struct {
	BookingID       string
	Guests          []GuestInput
	Driver          *DriverInput
	Extras          []ExtraServiceInput
	PickupAt        time.Time
	ReturnAt        time.Time
	TermsAccepted   bool
	PrivacyAccepted bool
	Now             time.Time
}

func (c AttachCheckoutCommand) Key() string { return attachCheckoutKey }

type AttachCheckoutResult struct {
	BookingID string `json:"booking_id"`
}

type AttachCheckoutHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *AttachCheckoutHandler) Handle(ctx context.Context, cmd AttachCheckoutCommand) (*AttachCheckoutResult, error) {
	return withBooking(ctx, h.UoWFactory, cmd.BookingID, h.Outbox, h.Encoder,
		func(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking, now time.Time) error {
			details := domainbooking.CheckoutDetails{
				PickupAt:        cmd.PickupAt,
				ReturnAt:        cmd.ReturnAt,
				TermsAccepted:   cmd.TermsAccepted,
				PrivacyAccepted: cmd.PrivacyAccepted,
			}
			for _, g := range cmd.Guests {
				details.Guests = append(details.Guests, domainbooking.Guest{Name: g.Name, Age: g.Age})
			}
			if cmd.Driver != nil {
				details.Driver = &domainbooking.Driver{
					Name:          cmd.Driver.Name,
					LicenceNumber: cmd.Driver.LicenceNumber,
				}
			}
			for _, e := range cmd.Extras {
				details.Extras = append(details.Extras, domainbooking.ExtraService{
					Name:       e.Name,
					PriceCents: e.PriceCents,
					Quantity:   e.Quantity,
				})
			}
			return b.AttachCheckout(details, now)
		}, cmd.Now, attachResult)
}

func attachResult(b *domainbooking.Booking) *AttachCheckoutResult {
	return &AttachCheckoutResult{BookingID: string(b.ID)}
}

var _ commands.Handler[AttachCheckoutCommand, *AttachCheckoutResult] = (*AttachCheckoutHandler)(nil)
