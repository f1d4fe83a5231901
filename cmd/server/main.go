package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/app"
	"github.com/lyceetalmest/rdv-backend/internal/config"
	"github.com/lyceetalmest/rdv-backend/internal/controller"
	"github.com/lyceetalmest/rdv-backend/internal/repository"
	"github.com/lyceetalmest/rdv-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to reach database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	appointmentRepo := repository.NewAppointmentRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	closedDayRepo := repository.NewClosedDayRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	appointmentService := service.NewAppointmentService(appointmentRepo, logger)
	availabilityService := service.NewAvailabilityService(
		slotRepo, closedDayRepo, appointmentRepo,
		cfg.BookingWindowDays, cfg.ExcludedWeekdays, logger)
	timeSlotService := service.NewTimeSlotService(slotRepo, appointmentRepo, logger)
	closedDayService := service.NewClosedDayService(closedDayRepo, logger)
	statsService := service.NewStatsService(statsRepo, logger)

	cleanup := app.NewCleanup(appointmentService, cfg.CleanupRetentionMonths, logger)
	cleanup.Start(ctx)
	defer cleanup.Stop()

	ctl := controller.New(
		appointmentService,
		availabilityService,
		timeSlotService,
		closedDayService,
		statsService,
		logger,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: controller.NewRouter(ctl, cfg, logger),
	}

	go func() {
		logger.Info("Starting appointment server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
