package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	membershipapp "github.com/leaguebase/leaguebase/internal/application/membership"
	orgapp "github.com/leaguebase/leaguebase/internal/application/organization"
	"github.com/leaguebase/leaguebase/internal/application/ports"
	syncapp "github.com/leaguebase/leaguebase/internal/application/sync"
	"github.com/leaguebase/leaguebase/internal/config"
	httprouter "github.com/leaguebase/leaguebase/internal/infrastructure/http"
	"github.com/leaguebase/leaguebase/internal/infrastructure/http/handlers"
	"github.com/leaguebase/leaguebase/internal/infrastructure/http/middleware"
	"github.com/leaguebase/leaguebase/internal/infrastructure/persistence/postgres"
	"github.com/leaguebase/leaguebase/internal/infrastructure/queue"
	"github.com/leaguebase/leaguebase/internal/infrastructure/runlock"
	"github.com/leaguebase/leaguebase/internal/infrastructure/scheduler"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	orgRepo := postgres.NewOrganizationRepository(pool)
	seasonRepo := postgres.NewSeasonRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	seasonMembershipRepo := postgres.NewSeasonMembershipRepository(pool)

	reconciler := syncapp.NewReconciler(orgRepo, seasonRepo, membershipRepo, seasonMembershipRepo, log)

	var runLock ports.RunLock = runlock.NewNoopLock()
	if redisClient != nil {
		runLock = runlock.NewRedisLock(redisClient, cfg.Sync.RunLockTTL)
	}

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, reconciler, runLock, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	sched := scheduler.New(scheduler.Config{
		Enabled:  cfg.Scheduler.Enabled,
		Interval: cfg.Scheduler.Interval,
	}, taskEnqueuer, log)
	sched.Start()

	createOrgUC := orgapp.NewCreateOrganization(orgRepo)
	createSeasonUC := orgapp.NewCreateSeason(orgRepo, seasonRepo)
	activateSeasonUC := orgapp.NewActivateSeason(seasonRepo)
	joinUC := membershipapp.NewJoinOrganization(orgRepo, membershipRepo)
	approveUC := membershipapp.NewApproveRequest(membershipRepo)
	removeUC := membershipapp.NewRemoveMember(membershipRepo)
	registerUC := membershipapp.NewRegisterForSeason(membershipRepo, seasonRepo, seasonMembershipRepo)

	orgsHandler := handlers.NewOrganizationsHandler(orgRepo, seasonRepo, createOrgUC, createSeasonUC, activateSeasonUC, log)
	membershipsHandler := handlers.NewMembershipsHandler(joinUC, approveUC, removeUC, registerUC, log)
	tasksHandler := handlers.NewTasksHandler(taskEnqueuer, log)
	requireAdmin := middleware.RequireAdminSecret(cfg.Admin.Secret)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))

	router := httprouter.NewRouter(httprouter.RouterConfig{
		OrganizationsHandler: orgsHandler,
		MembershipsHandler:   membershipsHandler,
		TasksHandler:         tasksHandler,
		HealthHandler:        healthHandler,
		RequireAdmin:         requireAdmin,
		Log:                  log,
		Secure:               secureMiddleware,
		IPRateLimit:          ipLimit,
		Metrics:              true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
