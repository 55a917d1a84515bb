package memory

import (
	"context"
	"errors"

	"roamvan/internal/app/uow"
	domainavailability "roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
	domainfleet "roamvan/internal/domain/fleet"
	domainseason "roamvan/internal/domain/season"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	FleetRepo        domainfleet.Repository
	SeasonRepo       domainseason.Repository
	AvailabilityRepo domainavailability.Repository
	BookingRepo      domainbooking.Repository
}

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.FleetRepo == nil || f.SeasonRepo == nil || f.AvailabilityRepo == nil || f.BookingRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		fleet:        f.FleetRepo,
		seasons:      f.SeasonRepo,
		availability: f.AvailabilityRepo,
		bookings:     f.BookingRepo,
	}, nil
}

// Unit is a uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	fleet        domainfleet.Repository
	seasons      domainseason.Repository
	availability domainavailability.Repository
	bookings     domainbooking.Repository
}

func (u *Unit) Fleet() domainfleet.Repository { return u.fleet }

func (u *Unit) Seasons() domainseason.Repository { return u.seasons }

func (u *Unit) Availability() domainavailability.Repository { return u.availability }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error { return nil }

func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.Factory = Factory{}
