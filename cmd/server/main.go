package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mockwiseai/backend/internal/catalog"
	"github.com/mockwiseai/backend/internal/config"
	"github.com/mockwiseai/backend/internal/events"
	"github.com/mockwiseai/backend/internal/handlers"
	"github.com/mockwiseai/backend/internal/jobs"
	"github.com/mockwiseai/backend/internal/judge"
	"github.com/mockwiseai/backend/internal/notify"
	"github.com/mockwiseai/backend/internal/routers"
	"github.com/mockwiseai/backend/internal/scheduler"
	"github.com/mockwiseai/backend/internal/services"
	"github.com/mockwiseai/backend/internal/stores"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// no config means no APP_ENV either
		logger, _ := zap.NewProduction()
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := utils.NewLogger(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := stores.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	logger.Info("Store connected", zap.String("driver", backend.Driver))

	seeded, err := catalog.Seed(ctx, backend.Questions, cfg.QuestionSeedFile)
	if err != nil {
		logger.Fatal("Failed to seed question catalog", zap.Error(err))
	}
	logger.Info("Question catalog seeded", zap.Int("questions", seeded))

	bus := events.NewBus(logger)
	services.NewEvaluator(backend.Submissions, services.DefaultKeywordPolicy(), logger).Register(bus)

	checks := map[string]handlers.Check{"store": backend.Ping}

	// redis is optional: it shares deadlines and events between replicas
	var (
		publisher events.Publisher = bus
		index     scheduler.DeadlineIndex
		rdb       *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		index = scheduler.NewRedisIndex(rdb, scheduler.DefaultDeadlineKey)
		publisher = events.NewRedisPublisher(rdb, events.DefaultChannel)
		go events.NewRedisSubscriber(rdb, events.DefaultChannel, bus, logger).Run(ctx)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("Redis deadline index and event relay enabled", zap.String("addr", cfg.RedisAddr))
	}

	var notifier notify.Notifier = notify.LogNotifier{Logger: logger}
	if cfg.SMTP.Enabled() {
		notifier = notify.NewSMTPNotifier(cfg.SMTP)
		logger.Info("SMTP notifier enabled", zap.String("host", cfg.SMTP.Host))
	} else {
		logger.Warn("SMTP not configured, invitation emails will only be logged")
	}

	sessionSvc := services.NewSessionService(services.SessionDeps{
		Interviews:  backend.Interviews,
		Invitations: backend.Invitations,
		Submissions: backend.Submissions,
		Questions:   backend.Questions,
		Index:       index,
		Publisher:   publisher,
		Logger:      logger,
	})
	interviewSvc := services.NewInterviewService(backend.Interviews)
	invitationSvc := services.NewInvitationService(services.InvitationDeps{
		Interviews:  backend.Interviews,
		Invitations: backend.Invitations,
		Notifier:    notifier,
		FrontendURL: cfg.FrontendURL,
		TTL:         cfg.InvitationTTL,
		Logger:      logger,
	})
	questionSvc := services.NewQuestionService(backend.Questions)
	authSvc := services.NewAuthService(backend.Recruiters, cfg.JWTSecret, cfg.TokenTTL)

	armed, err := sessionSvc.ResumeTimers(ctx)
	if err != nil {
		logger.Error("Failed to resume session timers", zap.Error(err))
	} else {
		logger.Info("Session timers resumed", zap.Int("armed", armed))
	}

	sweeper := jobs.NewSweepJob(sessionSvc, cfg.SweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", zap.Error(err))
	}

	router := routers.New(routers.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSOrigins,
		AccessLog:      true,
	}, routers.Handlers{
		Health:      handlers.NewHealthHandler(checks),
		Auth:        handlers.NewAuthHandler(authSvc, logger),
		Interviews:  handlers.NewInterviewHandler(interviewSvc, sessionSvc, logger),
		Invitations: handlers.NewInvitationHandler(interviewSvc, invitationSvc, logger),
		Sessions:    handlers.NewSessionHandler(sessionSvc, interviewSvc, logger),
		Questions:   handlers.NewQuestionHandler(questionSvc, logger),
		Judge:       handlers.NewJudgeHandler(judge.NewClient(cfg.Judge), questionSvc, logger),
	})

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Interview service shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	sweeper.Stop()
	sessionSvc.Shutdown()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if err := backend.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
