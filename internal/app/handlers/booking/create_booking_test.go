package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/middleware"
	appoutbox "roamvan/internal/app/outbox"
	"roamvan/internal/app/uow"
	domainavailability "roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/season"
	"roamvan/internal/domain/shared/money"
	"roamvan/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type bookingFixture struct {
	bus     commands.Bus
	factory memory.Factory
	outbox  *memory.Outbox
}

func newBookingFixture(t *testing.T, now time.Time) bookingFixture {
	t.Helper()
	ctx := context.Background()

	itemRepo := memory.NewItemRepository()
	seasonRepo := memory.NewSeasonRepository()
	factory := memory.Factory{
		FleetRepo:        itemRepo,
		SeasonRepo:       seasonRepo,
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
	}

	camper, err := fleet.NewItem(fleet.CreateParams{
		ID:              "camper-1",
		Name:            "Adria Twin",
		Category:        fleet.CategoryCampervan,
		BasePricePerDay: money.Must(10000, "EUR"),
		Now:             now,
	})
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, camper))

	idle, err := fleet.NewItem(fleet.CreateParams{
		ID:              "camper-idle",
		Name:            "Retired Van",
		Category:        fleet.CategoryCampervan,
		BasePricePerDay: money.Must(9000, "EUR"),
		Now:             now,
	})
	require.NoError(t, err)
	idle.Deactivate(now)
	require.NoError(t, itemRepo.Save(ctx, idle))

	highSummer, err := season.New(season.CreateParams{
		ID:         "high-summer",
		Name:       "High Summer",
		Start:      date(2026, 7, 1),
		End:        date(2026, 7, 31),
		Multiplier: 1.5,
		MinDays:    3,
	})
	require.NoError(t, err)
	require.NoError(t, seasonRepo.Save(ctx, highSummer))

	box := memory.NewOutbox()
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, CreateBookingCommand{}.Key(), &CreateBookingHandler{
		UoWFactory: factory,
		Outbox:     box,
		Encoder:    appoutbox.JSONEventEncoder{},
		Now:        func() time.Time { return now },
	})

	chained := middleware.ChainCommands(
		bus,
		middleware.Validation(),
		middleware.Idempotency(memory.NewIdempotencyStore(), nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	return bookingFixture{bus: chained, factory: factory, outbox: box}
}

func createCommand(id string) CreateBookingCommand {
	return CreateBookingCommand{
		CommandID:    id,
		ItemIDs:      []string{"camper-1"},
		Start:        date(2026, 7, 10),
		End:          date(2026, 7, 12),
		ContactName:  "Jana Novak",
		ContactEmail: "jana@example.com",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	now := date(2026, 6, 1)
	fx := newBookingFixture(t, now)
	ctx := context.Background()

	result, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, createCommand("booking-1"))
	require.NoError(t, err)
	assert.Equal(t, "booking-1", result.BookingID)
	assert.Equal(t, int64(45000), result.TotalCents, "3 days x 100.00 x 1.5 season multiplier")
	assert.Equal(t, "EUR", result.Currency)
	assert.Equal(t, 3, result.Days)
	assert.Equal(t, now.Add(DefaultPaymentTTL), result.PaymentDeadline)

	unit, err := fx.factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	stored, err := unit.Bookings().ByID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatePending, stored.State)
	assert.Equal(t, money.Must(45000, "EUR"), stored.Total)

	calendar, err := unit.Availability().Calendar(ctx, "camper-1")
	require.NoError(t, err)
	require.Len(t, calendar.Blocks, 1)
	assert.Equal(t, domainavailability.ReasonBooking, calendar.Blocks[0].Reason)
	assert.Equal(t, "booking-1", calendar.Blocks[0].Reference)
}

func TestCreateBooking_OverlapRejected(t *testing.T) {
	now := date(2026, 6, 1)
	fx := newBookingFixture(t, now)
	ctx := context.Background()

	_, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, createCommand("booking-1"))
	require.NoError(t, err)

	second := createCommand("booking-2")
	second.Start = date(2026, 7, 12)
	second.End = date(2026, 7, 14)
	_, err = commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, second)
	assert.ErrorIs(t, err, domainavailability.ErrOverlappingRange)

	unit, err := fx.factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	_, err = unit.Bookings().ByID(ctx, "booking-2")
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)
}

func TestCreateBooking_BelowMinimumStay(t *testing.T) {
	now := date(2026, 6, 1)
	fx := newBookingFixture(t, now)
	ctx := context.Background()

	cmd := createCommand("booking-1")
	cmd.End = date(2026, 7, 11) // 2 days inside a 3-day-minimum season
	_, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, cmd)
	assert.ErrorIs(t, err, domainbooking.ErrBelowMinimumStay)
}

func TestCreateBooking_StartDateInPast(t *testing.T) {
	now := date(2026, 8, 1)
	fx := newBookingFixture(t, now)
	ctx := context.Background()

	_, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, createCommand("booking-1"))
	assert.ErrorIs(t, err, domainbooking.ErrStartDateInPast)
}

func TestCreateBooking_InactiveItem(t *testing.T) {
	now := date(2026, 6, 1)
	fx := newBookingFixture(t, now)
	ctx := context.Background()

	cmd := createCommand("booking-1")
	cmd.ItemIDs = []string{"camper-idle"}
	_, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, cmd)
	assert.ErrorIs(t, err, ErrItemInactive)
}

func TestCreateBooking_IdempotentReplay(t *testing.T) {
	now := date(2026, 6, 1)
	fx := newBookingFixture(t, now)
	ctx := context.Background()

	cmd := createCommand("booking-1")
	cmd.IdempotencyKeyV = "req-42"
	first, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, cmd)
	require.NoError(t, err)

	// same key dispatched again must replay the stored result instead of
	// touching the calendar a second time
	replayed, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, first.BookingID, replayed.BookingID)
	assert.Equal(t, first.TotalCents, replayed.TotalCents)

	unit, err := fx.factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	calendar, err := unit.Availability().Calendar(ctx, "camper-1")
	require.NoError(t, err)
	assert.Len(t, calendar.Blocks, 1)
}

func TestCreateBooking_ValidationRejectsEmptyItems(t *testing.T) {
	now := date(2026, 6, 1)
	fx := newBookingFixture(t, now)
	ctx := context.Background()

	cmd := createCommand("booking-1")
	cmd.ItemIDs = nil
	_, err := commands.Dispatch[CreateBookingCommand, *CreateBookingResult](ctx, fx.bus, cmd)
	assert.ErrorIs(t, err, domainbooking.ErrItemsRequired)
}
