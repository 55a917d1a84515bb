package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roamvan/internal/app/uow"
	domainavailability "roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
	domainfleet "roamvan/internal/domain/fleet"
	domainseason "roamvan/internal/domain/season"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	FleetRepo        domainfleet.Repository
	SeasonRepo       domainseason.Repository
	AvailabilityRepo domainavailability.Repository
	BookingRepo      domainbooking.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:           f.DB,
		session:      session,
		fleet:        f.FleetRepo,
		seasons:      f.SeasonRepo,
		availability: f.AvailabilityRepo,
		bookings:     f.BookingRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	fleet        domainfleet.Repository
	seasons      domainseason.Repository
	availability domainavailability.Repository
	bookings     domainbooking.Repository
}

func (u *Unit) Fleet() domainfleet.Repository { return u.fleet }

func (u *Unit) Seasons() domainseason.Repository { return u.seasons }

func (u *Unit) Availability() domainavailability.Repository { return u.availability }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session visible to downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.Factory = Factory{}
