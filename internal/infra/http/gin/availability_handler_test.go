package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityapp "roamvan/internal/app/handlers/availability"
	"roamvan/internal/app/queries"
	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/season"
	"roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
	"roamvan/internal/infra/storage/memory"
)

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newSelectableDatesRouter(t *testing.T) *gin.Engine {
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
		Now:             testDate(2026, 1, 1),
	})
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, camper))

	highSummer, err := season.New(season.CreateParams{
		ID:         "high-summer",
		Name:       "High Summer",
		Start:      testDate(2026, 7, 1),
		End:        testDate(2026, 7, 31),
		Multiplier: 1.5,
		MinDays:    3,
	})
	require.NoError(t, err)
	require.NoError(t, seasonRepo.Save(ctx, highSummer))

	calendar, err := availRepo.Calendar(ctx, camper.ID)
	require.NoError(t, err)
	booked, err := daterange.New(testDate(2026, 7, 20), testDate(2026, 7, 22))
	require.NoError(t, err)
	require.NoError(t, calendar.Reserve(booked, "booking-1", testDate(2026, 6, 1)))
	require.NoError(t, availRepo.Save(ctx, calendar))

	bus := queries.NewInMemoryBus()
	queries.RegisterHandler(bus, availabilityapp.GetSelectableDatesQuery{}.Key(), &availabilityapp.GetSelectableDatesHandler{
		UoWFactory: memory.Factory{
			FleetRepo:        itemRepo,
			SeasonRepo:       seasonRepo,
			AvailabilityRepo: availRepo,
			BookingRepo:      memory.NewBookingRepository(),
		},
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := AvailabilityHandler{Queries: bus}
	router.POST("/api/v1/availability/selectable-dates", handler.SelectableDates)
	return router
}

func postSelectableDates(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/selectable-dates", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSelectableDatesEndpoint(t *testing.T) {
	router := newSelectableDatesRouter(t)

	t.Run("no start date picked leaves every candidate open", func(t *testing.T) {
		rec := postSelectableDates(t, router, map[string]any{
			"item_ids":   []string{"camper-1"},
			"candidates": []string{"2026-07-10", "2026-07-21"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result availabilityapp.GetSelectableDatesResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.MinEndDate.IsZero())
		require.Len(t, result.Candidates, 2)
		for _, c := range result.Candidates {
			assert.True(t, c.Selectable, c.Day)
		}
	})

	t.Run("start date picked filters candidates", func(t *testing.T) {
		rec := postSelectableDates(t, router, map[string]any{
			"item_ids":        []string{"camper-1"},
			"selection_start": "2026-07-10",
			"candidates":      []string{"2026-07-11", "2026-07-12", "2026-07-21"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result availabilityapp.GetSelectableDatesResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, testDate(2026, 7, 12), result.MinEndDate.UTC())
		require.Len(t, result.Candidates, 3)
		assert.False(t, result.Candidates[0].Selectable, "below the minimum stay")
		assert.True(t, result.Candidates[1].Selectable, "exactly the minimum end")
		assert.False(t, result.Candidates[2].Selectable, "booked")
	})

	t.Run("garbled start date rejected", func(t *testing.T) {
		rec := postSelectableDates(t, router, map[string]any{
			"item_ids":        []string{"camper-1"},
			"selection_start": "not-a-date",
			"candidates":      []string{"2026-07-12"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing item ids rejected", func(t *testing.T) {
		rec := postSelectableDates(t, router, map[string]any{
			"candidates": []string{"2026-07-12"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
