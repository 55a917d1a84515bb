package ginserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	fleetapp "roamvan/internal/app/handlers/fleet"
	"roamvan/internal/app/queries"
	domainfleet "roamvan/internal/domain/fleet"
)

// FleetHandler serves the public catalogue. Deactivated items never show here.
type FleetHandler struct {
	Queries queries.Bus
}

func (h FleetHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "fleet handler unavailable"})
		return
	}
	query := fleetapp.ListItemsQuery{
		Category: strings.TrimSpace(c.Query("category")),
	}
	result, err := queries.Ask[fleetapp.ListItemsQuery, *fleetapp.ListItemsResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FleetHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "fleet handler unavailable"})
		return
	}
	itemID := c.Param("id")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id is required"})
		return
	}
	result, err := queries.Ask[fleetapp.GetItemQuery, *fleetapp.ItemView](c.Request.Context(), h.Queries, fleetapp.GetItemQuery{ItemID: itemID})
	if err != nil {
		if errors.Is(err, domainfleet.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ FleetHTTP = FleetHandler{}

func parseFlexibleTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
