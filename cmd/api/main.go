package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/issue-reporting-service/internal/api/http"
	"github.com/spec-kit/issue-reporting-service/internal/api/http/handlers"
	"github.com/spec-kit/issue-reporting-service/internal/auth"
	"github.com/spec-kit/issue-reporting-service/internal/config"
	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/events"
	"github.com/spec-kit/issue-reporting-service/internal/observability"
	"github.com/spec-kit/issue-reporting-service/internal/persistence"
	"github.com/spec-kit/issue-reporting-service/internal/repository"
	"github.com/spec-kit/issue-reporting-service/internal/service"
	"github.com/spec-kit/issue-reporting-service/internal/worker"
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

	var (
		userRepo         repository.UserRepository
		issueRepo        repository.IssueRepository
		commentRepo      repository.CommentRepository
		notificationRepo repository.NotificationRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pool)
		issueRepo = repository.NewIssueRepository(pool)
		commentRepo = repository.NewCommentRepository(pool)
		notificationRepo = repository.NewNotificationRepository(pool)
	} else {
		logger.Info("postgres DSN empty, using in-memory repositories")
		store := repository.NewMemoryStore()
		userRepo = store.Users()
		issueRepo = store.Issues()
		commentRepo = store.Comments()
		notificationRepo = store.Notifications()
		seedDemoAccounts(ctx, userRepo, cfg.Auth.BcryptCost, logger)
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:   issueRepo,
		UserRepo:    userRepo,
		CommentRepo: commentRepo,
		Dispatcher:  dispatcher,
	})
	statsService := service.NewStatsService(issueRepo, redis, cfg.Stats.CacheTTL(), logger)
	statsService.RegisterInvalidation(dispatcher)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		StaffIssues:    handlers.NewStaffIssuesHandler(issueService),
		Stats:          handlers.NewStatsHandler(statsService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// seedDemoAccounts provisions one account per role so the in-memory mode
// is usable right after boot.
func seedDemoAccounts(ctx context.Context, users repository.UserRepository, bcryptCost int, logger *zap.Logger) {
	staffDept := "Computer Science & Engineering"
	studentNumber := "011201234"

	demo := []struct {
		user     domain.User
		password string
	}{
		{
			user: domain.User{
				Email:         "student@uiu.ac.bd",
				FullName:      "Demo Student",
				Role:          domain.RoleStudent,
				StudentNumber: &studentNumber,
			},
			password: "student123",
		},
		{
			user: domain.User{
				Email:    "admin@uiu.ac.bd",
				FullName: "Demo DSW Admin",
				Role:     domain.RoleDSWAdmin,
			},
			password: "admin123",
		},
		{
			user: domain.User{
				Email:      "staff@uiu.ac.bd",
				FullName:   "Demo Department Staff",
				Role:       domain.RoleDeptStaff,
				Department: &staffDept,
			},
			password: "staff123",
		},
	}

	for i := range demo {
		hash, err := auth.HashPassword(demo[i].password, bcryptCost)
		if err != nil {
			logger.Warn("failed to hash demo password", zap.Error(err))
			continue
		}
		demo[i].user.PasswordHash = hash
		demo[i].user.CreatedAt = time.Now().UTC()
		if err := users.Create(ctx, &demo[i].user); err != nil {
			logger.Warn("failed to seed demo account", zap.String("email", demo[i].user.Email), zap.Error(err))
			continue
		}
		logger.Info("seeded demo account", zap.String("email", demo[i].user.Email), zap.String("role", string(demo[i].user.Role)))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
