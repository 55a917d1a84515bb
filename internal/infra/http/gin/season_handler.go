package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roamvan/internal/app/commands"
	seasonapp "roamvan/internal/app/handlers/seasons"
	"roamvan/internal/app/queries"
	domainseason "roamvan/internal/domain/season"
)

// SeasonHandler manages the pricing season catalog. Catalog order matters:
// the first season containing a day wins, so upserts keep insertion order.
type SeasonHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h SeasonHandler) List(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	result, err := queries.Ask[seasonapp.ListSeasonsQuery, *seasonapp.ListSeasonsResult](c.Request.Context(), h.Queries, seasonapp.ListSeasonsQuery{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type upsertSeasonRequest struct {
	Name       string  `json:"name"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Multiplier float64 `json:"multiplier"`
	MinDays    int     `json:"min_days"`
}

func (h SeasonHandler) Upsert(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req upsertSeasonRequest
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
	cmd := seasonapp.UpsertSeasonCommand{
		SeasonID:   c.Param("id"),
		Name:       req.Name,
		Start:      truncateToDay(start),
		End:        truncateToDay(end),
		Multiplier: req.Multiplier,
		MinDays:    req.MinDays,
	}
	result, err := commands.Dispatch[seasonapp.UpsertSeasonCommand, *seasonapp.UpsertSeasonResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SeasonHandler) Delete(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := seasonapp.DeleteSeasonCommand{SeasonID: c.Param("id")}
	result, err := commands.Dispatch[seasonapp.DeleteSeasonCommand, *seasonapp.DeleteSeasonResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SeasonHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainseason.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainseason.ErrIDRequired),
		errors.Is(err, domainseason.ErrNameRequired),
		errors.Is(err, domainseason.ErrInvalidDates),
		errors.Is(err, domainseason.ErrInvalidMultiplier),
		errors.Is(err, domainseason.ErrInvalidMinDays):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("season request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ SeasonHTTP = SeasonHandler{}
