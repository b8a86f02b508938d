package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/serviexpress/scheduling-api/internal/config"
	"github.com/serviexpress/scheduling-api/internal/email"
	appointmentHandler "github.com/serviexpress/scheduling-api/internal/handler/appointment"
	auditHandler "github.com/serviexpress/scheduling-api/internal/handler/audit"
	authHandler "github.com/serviexpress/scheduling-api/internal/handler/auth"
	branchHandler "github.com/serviexpress/scheduling-api/internal/handler/branch"
	clientHandler "github.com/serviexpress/scheduling-api/internal/handler/client"
	healthHandler "github.com/serviexpress/scheduling-api/internal/handler/health"
	holidayHandler "github.com/serviexpress/scheduling-api/internal/handler/holiday"
	pqrHandler "github.com/serviexpress/scheduling-api/internal/handler/pqr"
	rbacHandler "github.com/serviexpress/scheduling-api/internal/handler/rbac"
	settingHandler "github.com/serviexpress/scheduling-api/internal/handler/setting"
	userHandler "github.com/serviexpress/scheduling-api/internal/handler/user"
	"github.com/serviexpress/scheduling-api/internal/middleware"
	"github.com/serviexpress/scheduling-api/internal/repository/postgres"
	"github.com/serviexpress/scheduling-api/internal/router"
	appointmentService "github.com/serviexpress/scheduling-api/internal/service/appointment"
	auditService "github.com/serviexpress/scheduling-api/internal/service/audit"
	authService "github.com/serviexpress/scheduling-api/internal/service/auth"
	branchService "github.com/serviexpress/scheduling-api/internal/service/branch"
	clientService "github.com/serviexpress/scheduling-api/internal/service/client"
	holidayService "github.com/serviexpress/scheduling-api/internal/service/holiday"
	notificationService "github.com/serviexpress/scheduling-api/internal/service/notification"
	pqrService "github.com/serviexpress/scheduling-api/internal/service/pqr"
	rbacService "github.com/serviexpress/scheduling-api/internal/service/rbac"
	settingService "github.com/serviexpress/scheduling-api/internal/service/setting"
	userService "github.com/serviexpress/scheduling-api/internal/service/user"
	pkgauth "github.com/serviexpress/scheduling-api/pkg/auth"
	"github.com/serviexpress/scheduling-api/pkg/logger"
	redisBroker "github.com/serviexpress/scheduling-api/pkg/messaging/redis"
	"github.com/serviexpress/scheduling-api/pkg/metrics"
	"github.com/serviexpress/scheduling-api/pkg/security"
	"github.com/serviexpress/scheduling-api/pkg/worker"
)

func main() {
	log := logger.NewLogger(&logger.Config{Level: logger.InfoLevel})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("scheduling", "api")

	// Repositories
	clientRepo := postgres.NewClientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	branchRepo := postgres.NewBranchRepository(db)
	holidayRepo := postgres.NewHolidayRepository(db)
	pqrRepo := postgres.NewPQRRepository(db)
	userRepo := postgres.NewUserRepository(db)
	rbacRepo := postgres.NewRBACRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	settingRepo := postgres.NewSettingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Services
	auditor := auditService.NewService(auditRepo)
	hasher := security.NewBcryptHasher(12)
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})

	emailSvc := email.NewService(cfg.SMTP)
	notifier := notificationService.NewService(notificationRepo, emailSvc, m, log)

	rbacSvc := rbacService.NewService(rbacRepo, auditor)
	authSvc := authService.NewService(userRepo, hasher, jwtSvc, auditor)
	clientSvc := clientService.NewService(clientRepo, auditor)
	branchSvc := branchService.NewService(branchRepo, auditor)
	holidaySvc := holidayService.NewService(holidayRepo, auditor)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, clientRepo, branchRepo, holidayRepo, outboxRepo, notifier, auditor)
	pqrSvc := pqrService.NewService(pqrRepo, clientRepo, auditor)
	userSvc := userService.NewService(userRepo, hasher, auditor)
	settingSvc := settingService.NewService(settingRepo, auditor)

	// HTTP surface
	authMW := middleware.NewAuthMiddleware(authSvc, rbacSvc)

	r := router.NewRouter(
		authMW,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		[]router.Handler{
			clientHandler.NewHandler(clientSvc, authMW),
			appointmentHandler.NewHandler(appointmentSvc, authMW),
			branchHandler.NewHandler(branchSvc, authMW),
			holidayHandler.NewHandler(holidaySvc, authMW),
			pqrHandler.NewHandler(pqrSvc, authMW),
			userHandler.NewHandler(userSvc, authMW),
			rbacHandler.NewHandler(rbacSvc, authMW),
			settingHandler.NewHandler(settingSvc, authMW),
			auditHandler.NewHandler(auditor, authMW),
		},
		router.Config{
			RateLimit: rate.Limit(cfg.Server.RateLimit),
			RateBurst: cfg.Server.RateBurst,
			CORS:      corsConfig(cfg.Server.AllowedOrigins),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Outbox pipeline
	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, log, m)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go processor.Start(workerCtx)

	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited")
}

func corsConfig(origins []string) middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	}
	return cfg
}
