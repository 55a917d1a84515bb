package ginserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roamvan/internal/app/commands"
	fleetapp "roamvan/internal/app/handlers/fleet"
	"roamvan/internal/app/queries"
	domainfleet "roamvan/internal/domain/fleet"
)

const maxItemPhotoSizeBytes int64 = 10 * 1024 * 1024

type StaffFleetHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h StaffFleetHandler) List(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := fleetapp.ListItemsQuery{
		Category:    strings.TrimSpace(c.Query("category")),
		IncludeIdle: true,
	}
	result, err := queries.Ask[fleetapp.ListItemsQuery, *fleetapp.ListItemsResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createItemRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
	MinRentalDays int    `json:"min_rental_days"`
}

func (h StaffFleetHandler) Create(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := fleetapp.CreateItemCommand{
		ItemID:        uuid.NewString(),
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		Currency:      req.Currency,
		MinRentalDays: req.MinRentalDays,
		Now:           time.Now().UTC(),
	}
	result, err := commands.Dispatch[fleetapp.CreateItemCommand, *fleetapp.CreateItemResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/items/%s", result.ItemID))
	c.JSON(http.StatusCreated, result)
}

type updatePriceRequest struct {
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

func (h StaffFleetHandler) UpdatePrice(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := fleetapp.UpdateItemPriceCommand{
		ItemID:     c.Param("id"),
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		Now:        time.Now().UTC(),
	}
	result, err := commands.Dispatch[fleetapp.UpdateItemPriceCommand, *fleetapp.ItemView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h StaffFleetHandler) SetActive(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := fleetapp.SetItemActiveCommand{
		ItemID: c.Param("id"),
		Active: req.Active,
		Now:    time.Now().UTC(),
	}
	result, err := commands.Dispatch[fleetapp.SetItemActiveCommand, *fleetapp.ItemView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h StaffFleetHandler) UploadPhoto(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	itemID := strings.TrimSpace(c.Param("id"))
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file is required: %v", err)})
		return
	}
	if fileHeader.Size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}
	if fileHeader.Size > maxItemPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file too large (max %d MB)", maxItemPhotoSizeBytes/1024/1024)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxItemPhotoSizeBytes+1024))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("cannot read file: %v", err)})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}
	if int64(len(data)) > maxItemPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file too large (max %d MB)", maxItemPhotoSizeBytes/1024/1024)})
		return
	}

	contentType := http.DetectContentType(data)
	if !isAllowedImageType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported content type: %s", contentType)})
		return
	}

	cmd := fleetapp.UploadItemPhotoCommand{
		ItemID:      itemID,
		ObjectKey:   buildPhotoObjectKey(itemID, fileHeader.Filename, contentType),
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
	}
	result, err := commands.Dispatch[fleetapp.UploadItemPhotoCommand, *fleetapp.UploadItemPhotoResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h StaffFleetHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainfleet.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainfleet.ErrIDRequired),
		errors.Is(err, domainfleet.ErrNameRequired),
		errors.Is(err, domainfleet.ErrInvalidCategory),
		errors.Is(err, domainfleet.ErrNegativePrice),
		errors.Is(err, domainfleet.ErrInvalidMinDays):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("staff fleet request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func buildPhotoObjectKey(itemID, filename, contentType string) string {
	ext := extensionForContentType(contentType)
	if ext == "" {
		ext = strings.ToLower(path.Ext(filename))
	}
	if ext == "" {
		ext = ".img"
	}
	return fmt.Sprintf("items/%s/%s%s", sanitizePathToken(itemID), uuid.NewString(), ext)
}

func sanitizePathToken(value string) string {
	if strings.TrimSpace(value) == "" {
		return "item"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	result := strings.Trim(b.String(), "-")
	if result == "" {
		return "item"
	}
	return result
}

var _ StaffFleetHTTP = StaffFleetHandler{}
