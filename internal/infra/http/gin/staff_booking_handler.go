package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"roamvan/internal/app/commands"
	bookingapp "roamvan/internal/app/handlers/booking"
	staffcalapp "roamvan/internal/app/handlers/staffcal"
	"roamvan/internal/app/queries"
	domainbooking "roamvan/internal/domain/booking"
)

// StaffBookingHandler serves the back-office calendar and the manual
// booking state transitions.
type StaffBookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h StaffBookingHandler) Calendar(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	from, to := resolveWindow(c.Query("from"), c.Query("to"))
	query := staffcalapp.ListBookingsQuery{
		From:   from,
		To:     to,
		States: splitCSV(c.Query("states")),
		ItemID: c.Query("item_id"),
	}
	result, err := queries.Ask[staffcalapp.ListBookingsQuery, *staffcalapp.ListBookingsResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h StaffBookingHandler) Confirm(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := bookingapp.ConfirmBookingCommand{
		BookingID: c.Param("id"),
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[bookingapp.ConfirmBookingCommand, *bookingapp.ConfirmBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h StaffBookingHandler) Cancel(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd := bookingapp.CancelBookingCommand{
		BookingID: c.Param("id"),
		Reason:    req.Reason,
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h StaffBookingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainbooking.ErrDeadlinePassed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("staff booking request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ StaffBookingHTTP = StaffBookingHandler{}
