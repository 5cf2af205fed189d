package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/heardesk/complaint-service/internal/api/http"
	"github.com/heardesk/complaint-service/internal/api/http/handlers"
	"github.com/heardesk/complaint-service/internal/auth"
	"github.com/heardesk/complaint-service/internal/config"
	"github.com/heardesk/complaint-service/internal/events"
	"github.com/heardesk/complaint-service/internal/observability"
	"github.com/heardesk/complaint-service/internal/persistence"
	"github.com/heardesk/complaint-service/internal/repository"
	"github.com/heardesk/complaint-service/internal/service"
	"github.com/heardesk/complaint-service/internal/store"
	"github.com/heardesk/complaint-service/internal/worker"
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

	metrics := observability.NewMetrics()
	policy := auth.NewStaticRolePolicy(cfg.Admin.Emails)
	dispatcher := events.NewInMemoryDispatcher()
	roleGated := cfg.Storage.Mode == config.StorageModeRemote

	var (
		complaintRepo repository.ComplaintRepository
		userRepo      repository.UserRepository
		pg            *persistence.Postgres
		rd            *persistence.Redis
	)

	switch cfg.Storage.Mode {
	case config.StorageModeLocal:
		complaintRepo = repository.NewLocalComplaintRepository(cfg.Storage.LocalPath, logger)
		userRepo = repository.NewLocalUserRepository(cfg.Storage.LocalUsersPath, logger)
		logger.Info("using local file slots",
			zap.String("complaints", cfg.Storage.LocalPath),
			zap.String("users", cfg.Storage.LocalUsersPath))
	default:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		rd = persistence.NewRedis(cfg.Redis, logger)
		defer rd.Close()

		bridge := events.NewRedisBridge(dispatcher, rd.Client, logger)
		go bridge.Listen(ctx)
		dispatcher = bridge

		complaintRepo = repository.NewComplaintRepository(pg.PoolHandle())
		userRepo = repository.NewUserRepository(pg.PoolHandle())
	}

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		Dispatcher:    dispatcher,
		RoleGated:     roleGated,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Policy:   policy,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	syncer := store.NewSyncer(complaintRepo, dispatcher)

	notifications := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notifications)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.Mode, pg, rd),
		Users:              handlers.NewUsersHandler(authService),
		Complaints:         handlers.NewComplaintsHandler(complaintService),
		AdminComplaints:    handlers.NewAdminComplaintsHandler(complaintService),
		Stream:             handlers.NewStreamHandler(syncer),
		AuthMiddleware:     authMiddleware,
		RoleGatedMutations: roleGated,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
