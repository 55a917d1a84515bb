package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainavailability "roamvan/internal/domain/availability"
	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/season"
	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
	"roamvan/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newPickerFixture seeds one campervan, a three-day-minimum summer season and
// an existing reservation for July 20-22.
func newPickerFixture(t *testing.T) (*GetSelectableDatesHandler, *GetCalendarHandler) {
	t.Helper()
	ctx := context.Background()

	itemRepo := memory.NewItemRepository()
	seasonRepo := memory.NewSeasonRepository()
	availRepo := memory.NewAvailabilityRepository()

	camper, err := fleet.NewItem(fleet.CreateParams{
		ID:              "camper-1",
		Name:            "Adria Twin",
		Category:        fleet.CategoryCampervan,
		BasePricePerDay: money.Must(10000, "EUR"),
		Now:             date(2026, 1, 1),
	})
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, camper))

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

	calendar, err := availRepo.Calendar(ctx, camper.ID)
	require.NoError(t, err)
	booked, err := daterange.New(date(2026, 7, 20), date(2026, 7, 22))
	require.NoError(t, err)
	require.NoError(t, calendar.Reserve(booked, "booking-1", date(2026, 6, 1)))
	require.NoError(t, availRepo.Save(ctx, calendar))

	factory := memory.Factory{
		FleetRepo:        itemRepo,
		SeasonRepo:       seasonRepo,
		AvailabilityRepo: availRepo,
		BookingRepo:      memory.NewBookingRepository(),
	}
	return &GetSelectableDatesHandler{UoWFactory: factory}, &GetCalendarHandler{UoWFactory: factory}
}

func TestGetSelectableDates(t *testing.T) {
	handler, _ := newPickerFixture(t)
	ctx := context.Background()

	t.Run("no selection leaves every candidate open", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetSelectableDatesQuery{
			ItemIDs:    []string{"camper-1"},
			Candidates: []time.Time{date(2026, 7, 10), date(2026, 7, 21)},
		})
		require.NoError(t, err)
		assert.True(t, result.MinEndDate.IsZero())
		for _, c := range result.Candidates {
			assert.True(t, c.Selectable, c.Day)
		}
	})

	t.Run("start picked enforces minimum stay and booked days", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetSelectableDatesQuery{
			ItemIDs:        []string{"camper-1"},
			SelectionStart: date(2026, 7, 10),
			Candidates: []time.Time{
				date(2026, 7, 9),  // before start, would restart selection
				date(2026, 7, 11), // below the three day minimum
				date(2026, 7, 12), // exactly the minimum end
				date(2026, 7, 21), // booked
				date(2026, 7, 25), // free and past the minimum
			},
		})
		require.NoError(t, err)
		require.Equal(t, date(2026, 7, 12), result.MinEndDate)
		require.Len(t, result.Candidates, 5)
		assert.True(t, result.Candidates[0].Selectable)
		assert.False(t, result.Candidates[1].Selectable)
		assert.True(t, result.Candidates[2].Selectable)
		assert.False(t, result.Candidates[3].Selectable)
		assert.True(t, result.Candidates[4].Selectable)
	})

	t.Run("complete selection resets the picker", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetSelectableDatesQuery{
			ItemIDs:        []string{"camper-1"},
			SelectionStart: date(2026, 7, 10),
			SelectionEnd:   date(2026, 7, 12),
			Candidates:     []time.Time{date(2026, 7, 11), date(2026, 7, 21)},
		})
		require.NoError(t, err)
		for _, c := range result.Candidates {
			assert.True(t, c.Selectable, c.Day)
		}
	})

	t.Run("missing item ids rejected", func(t *testing.T) {
		err := GetSelectableDatesQuery{}.Validate()
		assert.ErrorIs(t, err, ErrItemRequired)
	})
}

func TestGetCalendar(t *testing.T) {
	_, handler := newPickerFixture(t)
	ctx := context.Background()

	t.Run("returns blocks inside the window", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetCalendarQuery{
			ItemID: "camper-1",
			From:   date(2026, 7, 1),
			To:     date(2026, 7, 31),
		})
		require.NoError(t, err)
		require.Len(t, result.Blocks, 1)
		assert.Equal(t, date(2026, 7, 20), result.Blocks[0].Start)
		assert.Equal(t, date(2026, 7, 22), result.Blocks[0].End)
		assert.Equal(t, string(domainavailability.ReasonBooking), result.Blocks[0].Reason)
	})

	t.Run("window excludes distant blocks", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetCalendarQuery{
			ItemID: "camper-1",
			From:   date(2026, 9, 1),
			To:     date(2026, 9, 30),
		})
		require.NoError(t, err)
		assert.Empty(t, result.Blocks)
	})

	t.Run("unknown item yields an empty calendar", func(t *testing.T) {
		result, err := handler.Handle(ctx, GetCalendarQuery{ItemID: "ghost"})
		require.NoError(t, err)
		assert.Empty(t, result.Blocks)
	})
}
