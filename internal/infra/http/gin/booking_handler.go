package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roamvan/internal/app/commands"
	bookingapp "roamvan/internal/app/handlers/booking"
	"roamvan/internal/app/queries"
	"roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
	domainfleet "roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	ItemIDs      []string `json:"item_ids"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	ContactName  string   `json:"contact_name"`
	ContactEmail string   `json:"contact_email"`
}

func (h BookingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, ok := parseFlexibleTime(req.Start)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a valid date"})
		return
	}
	end, ok := parseFlexibleTime(req.End)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be a valid date"})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       generateCommandID(),
		ItemIDs:         req.ItemIDs,
		Start:           truncateToDay(start),
		End:             truncateToDay(end),
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id is required"})
		return
	}
	result, err := queries.Ask[bookingapp.GetBookingQuery, *bookingapp.BookingView](c.Request.Context(), h.Queries, bookingapp.GetBookingQuery{BookingID: bookingID})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type checkoutRequest struct {
	Guests          []bookingapp.GuestInput        `json:"guests"`
	Driver          *bookingapp.DriverInput        `json:"driver"`
	Extras          []bookingapp.ExtraServiceInput `json:"extras"`
	PickupAt        time.Time                      `json:"pickup_at"`
	ReturnAt        time.Time                      `json:"return_at"`
	TermsAccepted   bool                           `json:"terms_accepted"`
	PrivacyAccepted bool                           `json:"privacy_accepted"`
}

func (h BookingHandler) AttachCheckout(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking id is required"})
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.AttachCheckoutCommand{
		BookingID:       bookingID,
		Guests:          req.Guests,
		Driver:          req.Driver,
		Extras:          req.Extras,
		PickupAt:        req.PickupAt,
		ReturnAt:        req.ReturnAt,
		TermsAccepted:   req.TermsAccepted,
		PrivacyAccepted: req.PrivacyAccepted,
		Now:             time.Now().UTC(),
	}
	result, err := commands.Dispatch[bookingapp.AttachCheckoutCommand, *bookingapp.AttachCheckoutResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainfleet.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrOverlappingRange),
		errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainbooking.ErrDeadlinePassed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrBelowMinimumStay),
		errors.Is(err, domainbooking.ErrStartDateInPast),
		errors.Is(err, domainbooking.ErrItemsRequired),
		errors.Is(err, domainbooking.ErrContactRequired),
		errors.Is(err, domainbooking.ErrGuestsRequired),
		errors.Is(err, domainbooking.ErrDriverRequired),
		errors.Is(err, domainbooking.ErrTermsNotAccepted),
		errors.Is(err, domainbooking.ErrPickupOutOfRange),
		errors.Is(err, bookingapp.ErrItemInactive),
		errors.Is(err, daterange.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("booking request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
