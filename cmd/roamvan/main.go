package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/expiry"
	availabilityapp "roamvan/internal/app/handlers/availability"
	bookingapp "roamvan/internal/app/handlers/booking"
	fleetapp "roamvan/internal/app/handlers/fleet"
	quoteapp "roamvan/internal/app/handlers/quote"
	seasonapp "roamvan/internal/app/handlers/seasons"
	staffcalapp "roamvan/internal/app/handlers/staffcal"
	"roamvan/internal/app/middleware"
	appoutbox "roamvan/internal/app/outbox"
	"roamvan/internal/app/queries"
	authsvc "roamvan/internal/app/services/auth"
	"roamvan/internal/app/uow"
	domainstaff "roamvan/internal/domain/staff"
	"roamvan/internal/infra/broker/kafka"
	"roamvan/internal/infra/config"
	mongodb "roamvan/internal/infra/db/mongo"
	ginserver "roamvan/internal/infra/http/gin"
	"roamvan/internal/infra/obs"
	outboxinfra "roamvan/internal/infra/outbox"
	"roamvan/internal/infra/security"
	"roamvan/internal/infra/storage/memory"
	"roamvan/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	if err := app.seedStaffAccount(ctx, cfg, logger); err != nil {
		logger.Warn("staff seed skipped", "error", err)
	}

	go func() {
		if err := app.sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("expiry sweeper stopped", "error", err)
		}
	}()
	if app.outboxWorker != nil {
		go func() {
			if err := app.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	sweeper      *expiry.Sweeper
	outboxWorker *outboxinfra.Worker
	auth         *authsvc.Service
	ready        func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory  uow.Factory
		outboxStore appoutbox.Outbox
		idStore     middleware.IdempotencyStore
		staffRepo   domainstaff.Repository
		worker      *outboxinfra.Worker
		ready       = func() error { return nil }
	)
	sessionStore := domainstaff.SessionStore(memory.NewSessionStore())

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		if err := client.Ping(ctx); err != nil {
			return application{}, err
		}
		db := client.DB
		uowFactory = mongodb.Factory{
			DB:               db,
			FleetRepo:        mongodb.NewItemRepository(db),
			SeasonRepo:       mongodb.NewSeasonRepository(db),
			AvailabilityRepo: mongodb.NewCalendarRepository(db),
			BookingRepo:      mongodb.NewBookingRepository(db),
		}
		store := outboxinfra.NewStore(db)
		outboxStore = store
		idStore = mongodb.NewIdempotencyStore(db, cfg.IdempotencyTTL)
		staffRepo = mongodb.NewStaffRepository(db)

		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		worker = &outboxinfra.Worker{
			Store:       store,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		ready = func() error { return client.Ping(context.Background()) }
	default:
		uowFactory = memory.Factory{
			FleetRepo:        memory.NewItemRepository(),
			SeasonRepo:       memory.NewSeasonRepository(),
			AvailabilityRepo: memory.NewAvailabilityRepository(),
			BookingRepo:      memory.NewBookingRepository(),
		}
		outboxStore = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		staffRepo = memory.NewStaffRepository()
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("photo storage unavailable, uploads disabled", "error", err)
		} else {
			uploader = client
		}
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		PaymentTTL: cfg.PaymentTTL,
	})
	commands.RegisterHandler(commandBus, bookingapp.AttachCheckoutCommand{}.Key(), &bookingapp.AttachCheckoutHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ExpireBookingCommand{}.Key(), &bookingapp.ExpireBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, fleetapp.CreateItemCommand{}.Key(), &fleetapp.CreateItemHandler{UoWFactory: uowFactory})
	commands.RegisterHandler(commandBus, fleetapp.UpdateItemPriceCommand{}.Key(), &fleetapp.UpdateItemPriceHandler{UoWFactory: uowFactory})
	commands.RegisterHandler(commandBus, fleetapp.SetItemActiveCommand{}.Key(), &fleetapp.SetItemActiveHandler{UoWFactory: uowFactory})
	commands.RegisterHandler(commandBus, fleetapp.UploadItemPhotoCommand{}.Key(), &fleetapp.UploadItemPhotoHandler{
		Logger:   logger,
		Uploader: uploader,
	})
	commands.RegisterHandler(commandBus, seasonapp.UpsertSeasonCommand{}.Key(), &seasonapp.UpsertSeasonHandler{UoWFactory: uowFactory})
	commands.RegisterHandler(commandBus, seasonapp.DeleteSeasonCommand{}.Key(), &seasonapp.DeleteSeasonHandler{UoWFactory: uowFactory})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, quoteapp.GetQuoteQuery{}.Key(), &quoteapp.GetQuoteHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.GetSelectableDatesQuery{}.Key(), &availabilityapp.GetSelectableDatesHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, fleetapp.ListItemsQuery{}.Key(), &fleetapp.ListItemsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, fleetapp.GetItemQuery{}.Key(), &fleetapp.GetItemHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, seasonapp.ListSeasonsQuery{}.Key(), &seasonapp.ListSeasonsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, staffcalapp.ListBookingsQuery{}.Key(), &staffcalapp.ListBookingsHandler{UoWFactory: uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus, middleware.QueryValidation())

	authService := &authsvc.Service{
		Accounts:   staffRepo,
		Sessions:   sessionStore,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	sweeper := &expiry.Sweeper{
		UoWFactory: uowFactory,
		Bus:        commandBusWithMiddleware,
		Interval:   cfg.ExpirySweep,
		Logger:     logger,
	}

	handlers := ginserver.Handlers{
		Fleet:        ginserver.FleetHandler{Queries: queryBusWithMiddleware},
		Quote:        ginserver.QuoteHandler{Queries: queryBusWithMiddleware},
		Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		StaffBooking: ginserver.StaffBookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		StaffFleet: ginserver.StaffFleetHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Seasons: ginserver.SeasonHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	return application{
		handlers:     handlers,
		sweeper:      sweeper,
		outboxWorker: worker,
		auth:         authService,
		ready:        ready,
	}, nil
}

func (a application) seedStaffAccount(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.SeedStaffEmail == "" || cfg.SeedStaffPassword == "" {
		return nil
	}
	_, err := a.auth.Provision(ctx, authsvc.ProvisionParams{
		Email:    cfg.SeedStaffEmail,
		Name:     "Seed Admin",
		Password: cfg.SeedStaffPassword,
		Role:     domainstaff.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domainstaff.ErrEmailAlreadyUsed) {
			return nil
		}
		return err
	}
	logger.Info("seed staff account ready", "email", cfg.SeedStaffEmail)
	return nil
}
