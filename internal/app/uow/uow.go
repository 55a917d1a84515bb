package uow

import (
	"context"

	domainavailability "roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
	domainfleet "roamvan/internal/domain/fleet"
	domainseason "roamvan/internal/domain/season"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Fleet() domainfleet.Repository
	Seasons() domainseason.Repository
	Availability() domainavailability.Repository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
