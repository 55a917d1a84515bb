package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	availabilityapp "roamvan/internal/app/handlers/availability"
	"roamvan/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability handler unavailable"})
		return
	}
	itemID := c.Param("id")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id is required"})
		return
	}
	from, to := resolveWindow(c.Query("from"), c.Query("to"))
	query := availabilityapp.GetCalendarQuery{
		ItemID: itemID,
		From:   from,
		To:     to,
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, *availabilityapp.GetCalendarResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type selectableDatesRequest struct {
	ItemIDs        []string `json:"item_ids"`
	SelectionStart string   `json:"selection_start"`
	SelectionEnd   string   `json:"selection_end"`
	Candidates     []string `json:"candidates"`
}

func (h AvailabilityHandler) SelectableDates(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability handler unavailable"})
		return
	}
	var req selectableDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.ItemIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_ids is required"})
		return
	}
	var start time.Time
	if req.SelectionStart != "" {
		parsed, ok := parseFlexibleTime(req.SelectionStart)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "selection_start must be a valid date"})
			return
		}
		start = truncateToDay(parsed)
	}
	var end time.Time
	if req.SelectionEnd != "" {
		parsed, ok := parseFlexibleTime(req.SelectionEnd)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "selection_end must be a valid date"})
			return
		}
		end = truncateToDay(parsed)
	}
	candidates := make([]time.Time, 0, len(req.Candidates))
	for _, raw := range req.Candidates {
		day, ok := parseFlexibleTime(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "candidates must be valid dates"})
			return
		}
		candidates = append(candidates, truncateToDay(day))
	}

	query := availabilityapp.GetSelectableDatesQuery{
		ItemIDs:        req.ItemIDs,
		SelectionStart: start,
		SelectionEnd:   end,
		Candidates:     candidates,
	}
	result, err := queries.Ask[availabilityapp.GetSelectableDatesQuery, *availabilityapp.GetSelectableDatesResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func resolveWindow(fromRaw, toRaw string) (time.Time, time.Time) {
	now := time.Now().UTC()
	from, ok := parseFlexibleTime(fromRaw)
	if !ok {
		from = now
	}
	from = truncateToDay(from)
	to, ok := parseFlexibleTime(toRaw)
	if !ok {
		to = from.AddDate(0, 0, 90)
	}
	to = truncateToDay(to)
	if !to.After(from) {
		to = from.AddDate(0, 0, 90)
	}
	return from, to
}

var _ AvailabilityHTTP = AvailabilityHandler{}
