package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	quoteapp "roamvan/internal/app/handlers/quote"
	"roamvan/internal/app/queries"
	domainfleet "roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/daterange"
)

// QuoteHandler prices a stay without reserving anything.
type QuoteHandler struct {
	Queries queries.Bus
}

func (h QuoteHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "quote handler unavailable"})
		return
	}
	itemIDs := splitCSV(c.Query("items"))
	if len(itemIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items is required"})
		return
	}
	start, ok := parseFlexibleTime(c.Query("start"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a valid date"})
		return
	}
	end, ok := parseFlexibleTime(c.Query("end"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be a valid date"})
		return
	}

	query := quoteapp.GetQuoteQuery{
		ItemIDs: itemIDs,
		Start:   truncateToDay(start),
		End:     truncateToDay(end),
	}
	result, err := queries.Ask[quoteapp.GetQuoteQuery, *quoteapp.GetQuoteResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		switch {
		case errors.Is(err, domainfleet.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, daterange.ErrInvalidRange), errors.Is(err, quoteapp.ErrNoItems):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ QuoteHTTP = QuoteHandler{}
