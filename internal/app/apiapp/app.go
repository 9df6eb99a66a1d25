package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bandhan-app/matrimony/internal/config"
	"github.com/bandhan-app/matrimony/internal/infra/metrics"
	"github.com/bandhan-app/matrimony/internal/jobs/cleanup"
	s3infra "github.com/bandhan-app/matrimony/internal/infra/s3"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
	redrepo "github.com/bandhan-app/matrimony/internal/repo/redis"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	interestsvc "github.com/bandhan-app/matrimony/internal/services/interests"
	mediasvc "github.com/bandhan-app/matrimony/internal/services/media"
	messagesvc "github.com/bandhan-app/matrimony/internal/services/messages"
	profilesvc "github.com/bandhan-app/matrimony/internal/services/profiles"
	ratesvc "github.com/bandhan-app/matrimony/internal/services/rate"
	userssvc "github.com/bandhan-app/matrimony/internal/services/users"
)

const (
	tenSeconds = 10 * time.Second
	minute     = time.Minute
	day        = 24 * time.Hour
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
	cleanupJob *cleanup.Job
	stopJobs   context.CancelFunc
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	registry := metrics.New()
	r := chi.NewRouter()
	ApplyMiddlewares(r, log, registry, cfg.HTTP.RequestTimeout)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
		if cfg.Postgres.AutoMigrate {
			if err := pgrepo.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			log.Info("postgres schema applied")
		}
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	interestRepo := pgrepo.NewInterestRepo(pool)
	messageRepo := pgrepo.NewMessageRepo(pool)

	limits := cfg.Remote.Limits
	rateLimiter := ratesvc.NewLimiter(rateRepo).
		WithRule(ratesvc.ActionInterest, minute, limits.InterestsPerMinute).
		WithRule(ratesvc.ActionInterest, day, limits.InterestsPerDay).
		WithRule(ratesvc.ActionMessage, tenSeconds, limits.MessagesPer10Seconds).
		WithRule(ratesvc.ActionMessage, minute, limits.MessagesPerMinute)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.RefreshTTL)
	authService.AttachTOTP(userRepo, redrepo.NewTOTPSetupRepo(redisClient), authsvc.TOTPConfig{
		Issuer:   cfg.Auth.TOTPIssuer,
		SetupTTL: cfg.Auth.TOTPSetupTTL,
	})
	profileService := profilesvc.NewService(profileRepo, profilesvc.Config{
		DefaultLimit: cfg.Remote.Filters.DefaultLimit,
		MaxLimit:     cfg.Remote.Filters.MaxLimit,
	})
	interestService := interestsvc.NewService(interestsvc.Dependencies{
		Store:       interestRepo,
		Users:       userRepo,
		RateLimiter: rateLimiter,
		Metrics:     registry,
	})
	messageService := messagesvc.NewService(messagesvc.Dependencies{
		Store:       messageRepo,
		Users:       userRepo,
		Matches:     interestRepo,
		RateLimiter: rateLimiter,
		Metrics:     registry,
	}, messagesvc.Config{
		RequireMatch: cfg.Messaging.RequireMatch,
		MaxLength:    cfg.Messaging.MaxLength,
		PageLimit:    cfg.Messaging.PageLimit,
	})
	userService := userssvc.NewService(userRepo, profileRepo)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.S3.Region)
	mediaService := mediasvc.NewService(profileRepo, mediaStorage)
	mediaService.AttachLogger(log.Named("media"))

	var cleanupJob *cleanup.Job
	if cfg.Cleanup.Enabled && pool != nil && s3Client != nil {
		cleanupJob = cleanup.NewOrphanPhotoJob(mediaStorage, profileRepo, cfg.Cleanup.OrphanGrace, log)
	}

	RegisterRoutes(r, Dependencies{
		AuthService:     authService,
		ProfileService:  profileService,
		MediaService:    mediaService,
		InterestService: interestService,
		MessageService:  messageService,
		UserService:     userService,
		Metrics:         registry,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
		cleanupJob: cleanupJob,
	}, nil
}

func (a *App) Run() error {
	if a.cleanupJob != nil {
		jobCtx, cancel := context.WithCancel(context.Background())
		a.stopJobs = cancel
		a.cleanupJob.Start(jobCtx, a.cfg.Cleanup.Interval)
	}

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.stopJobs != nil {
		a.stopJobs()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
