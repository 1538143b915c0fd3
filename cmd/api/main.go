package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/grievance-service/internal/api/http"
	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/cache"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/notify"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/persistence"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/service"
	"github.com/spec-kit/grievance-service/internal/storage"
	"github.com/spec-kit/grievance-service/internal/triage"
	"github.com/spec-kit/grievance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	profileRepo := repository.NewProfileRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	grievanceRepo := repository.NewGrievanceRepository(pool)
	historyRepo := repository.NewGrievanceHistoryRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	profileCache := cache.NewProfileCache(cfg.Grievance.ProfileCacheTTL(), clockwork.NewRealClock())
	stopEviction := profileCache.StartEvictionTimer(time.Minute)
	defer stopEviction()

	dispatcher := events.NewInMemoryDispatcher(logger)

	jobs := worker.NewPool(worker.Options{
		Workers:   cfg.Notification.Workers,
		QueueSize: cfg.Notification.QueueSize,
		Logger:    logger,
	})
	jobs.Start(ctx)

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:   staffRepo,
		ProfileRepo: profileRepo,
		RosterCache: cache.NewRosterCache(redis.ClientHandle(), cfg.Grievance.RosterCacheTTL()),
		Logger:      logger,
	})
	grievanceService := service.NewGrievanceService(service.GrievanceDependencies{
		GrievanceRepo: grievanceRepo,
		ProfileRepo:   profileRepo,
		HistoryRepo:   historyRepo,
		Staff:         staffService,
		ProfileCache:  profileCache,
		Scorer:        triage.DefaultScorer(),
		IDs:           triage.NewDefaultGenerator(),
		Assigner:      triage.NewDefaultAssigner(),
		Dispatcher:    dispatcher,
		Logger:        logger,
		Config:        cfg.Grievance,
	})
	commentService := service.NewCommentService(commentRepo, grievanceRepo)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		ProfileRepo: profileRepo,
		StaffRepo:   staffRepo,
	})

	notifications := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher:   dispatcher,
		Pool:         jobs,
		Sender:       notify.NewResendSender(cfg.Notification, logger),
		ProfileRepo:  profileRepo,
		ProfileCache: profileCache,
		Logger:       logger,
	})
	notifications.RegisterHandlers()

	attachments, err := storage.NewAttachmentStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init attachment storage", zap.Error(err))
	}
	if attachments == nil {
		logger.Warn("attachment storage disabled")
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), profileRepo, staffService)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:            handlers.NewAuthHandler(authService),
		Grievances:      handlers.NewGrievancesHandler(grievanceService, commentService),
		StaffGrievances: handlers.NewStaffGrievancesHandler(grievanceService),
		Admin:           handlers.NewAdminHandler(grievanceService, staffService),
		Attachments:     handlers.NewAttachmentsHandler(attachments),
		AuthMiddleware:  authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer drainCancel()
	if err := jobs.Stop(drainCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
