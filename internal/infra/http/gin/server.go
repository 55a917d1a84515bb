package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roamvan/internal/infra/config"
	"roamvan/internal/infra/obs"
)

type FleetHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
}

type QuoteHTTP interface {
	Quote(c *gin.Context)
}

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
	SelectableDates(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	AttachCheckout(c *gin.Context)
}

type StaffBookingHTTP interface {
	Calendar(c *gin.Context)
	Confirm(c *gin.Context)
	Cancel(c *gin.Context)
}

type StaffFleetHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	UpdatePrice(c *gin.Context)
	SetActive(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type SeasonHTTP interface {
	List(c *gin.Context)
	Upsert(c *gin.Context)
	Delete(c *gin.Context)
}

type Handlers struct {
	Fleet          FleetHTTP
	Quote          QuoteHTTP
	Availability   AvailabilityHTTP
	Booking        BookingHTTP
	StaffBooking   StaffBookingHTTP
	StaffFleet     StaffFleetHTTP
	Seasons        SeasonHTTP
	Auth           AuthHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Fleet != nil {
		api.GET("/items", h.Fleet.Catalog)
		api.GET("/items/:id", h.Fleet.Get)
	}
	if h.Quote != nil {
		api.GET("/quote", h.Quote.Quote)
	}
	if h.Availability != nil {
		api.GET("/items/:id/calendar", h.Availability.Calendar)
		api.POST("/availability/selectable-dates", h.Availability.SelectableDates)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.POST("/bookings/:id/checkout", h.Booking.AttachCheckout)
	}
	if h.Auth != nil {
		api.POST("/staff/auth/login", h.Auth.Login)
		api.POST("/staff/auth/logout", h.Auth.Logout)
		api.GET("/staff/auth/me", h.Auth.Me)
	}
	staff := api.Group("/staff")
	if h.StaffBooking != nil {
		staff.GET("/calendar", h.StaffBooking.Calendar)
		staff.POST("/bookings/:id/confirm", h.StaffBooking.Confirm)
		staff.POST("/bookings/:id/cancel", h.StaffBooking.Cancel)
	}
	if h.StaffFleet != nil {
		staff.GET("/items", h.StaffFleet.List)
		staff.POST("/items", h.StaffFleet.Create)
		staff.PUT("/items/:id/price", h.StaffFleet.UpdatePrice)
		staff.PUT("/items/:id/active", h.StaffFleet.SetActive)
		staff.POST("/items/:id/photos", h.StaffFleet.UploadPhoto)
	}
	if h.Seasons != nil {
		staff.GET("/seasons", h.Seasons.List)
		staff.PUT("/seasons/:id", h.Seasons.Upsert)
		staff.DELETE("/seasons/:id", h.Seasons.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
