package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staffing-service/internal/api/http"
	"github.com/spec-kit/staffing-service/internal/api/http/handlers"
	"github.com/spec-kit/staffing-service/internal/auth"
	"github.com/spec-kit/staffing-service/internal/config"
	"github.com/spec-kit/staffing-service/internal/mail"
	"github.com/spec-kit/staffing-service/internal/notify"
	"github.com/spec-kit/staffing-service/internal/observability"
	"github.com/spec-kit/staffing-service/internal/persistence"
	"github.com/spec-kit/staffing-service/internal/reminder"
	"github.com/spec-kit/staffing-service/internal/repository"
	"github.com/spec-kit/staffing-service/internal/service"
	"github.com/spec-kit/staffing-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	shiftRepo := repository.NewShiftRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	var mailer mail.Mailer
	if cfg.Notification.SESRegion != "" {
		sesMailer, err := mail.NewSESMailer(ctx, cfg.Notification.SESRegion, cfg.Notification.EmailFrom)
		if err != nil {
			logger.Fatal("failed to init ses mailer", zap.Error(err))
		}
		mailer = sesMailer
	} else {
		logger.Warn("NOTIFY_SES_REGION not set; using log mail transport")
		mailer = mail.NewLogMailer(logger)
	}
	dispatcher := notify.NewDispatcher(mailer, logger)

	var tracker reminder.Tracker
	if redis.Client != nil && redis.Ping(ctx) == nil {
		tracker = reminder.NewRedisTracker(redis.Client, cfg.Reminder.SentKeyTTL())
	} else {
		logger.Warn("redis unavailable; reminder de-dup kept in memory")
		tracker = reminder.NewMemoryTracker()
	}

	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, userRepo)
	shiftService := service.NewShiftService(shiftRepo)
	userService := service.NewUserService(userRepo, dispatcher, logger)
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ShiftRepo:       shiftRepo,
		ApplicationRepo: applicationRepo,
		BookingRepo:     bookingRepo,
		UserRepo:        userRepo,
		Notifier:        dispatcher,
		Metrics:         metrics,
		Logger:          logger,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo: bookingRepo,
		ShiftRepo:   shiftRepo,
		Metrics:     metrics,
		Logger:      logger,
	})
	reminderService := service.NewReminderService(service.ReminderDependencies{
		BookingRepo: bookingRepo,
		ShiftRepo:   shiftRepo,
		UserRepo:    userRepo,
		Tracker:     tracker,
		Notifier:    dispatcher,
		Logger:      logger,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(func() error { return redis.Ping(ctx) }, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Shifts:         handlers.NewShiftsHandler(shiftService),
		Applications:   handlers.NewApplicationsHandler(applicationService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		AuthMiddleware: authMiddleware,
	})

	if cfg.Reminder.Enabled {
		reminderWorker := worker.NewReminderWorker(reminderService, cfg.Reminder.Interval(), logger)
		go reminderWorker.Run(ctx)
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
