package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fawkesdbs/roadguard/internal/app"
	"github.com/fawkesdbs/roadguard/internal/config"
	"github.com/fawkesdbs/roadguard/internal/database"
	"github.com/fawkesdbs/roadguard/internal/genai"
	"github.com/fawkesdbs/roadguard/internal/health"
	"github.com/fawkesdbs/roadguard/internal/http/handler"
	"github.com/fawkesdbs/roadguard/internal/http/middleware"
	"github.com/fawkesdbs/roadguard/internal/http/router"
	"github.com/fawkesdbs/roadguard/internal/observability"
	"github.com/fawkesdbs/roadguard/internal/repository"
	"github.com/fawkesdbs/roadguard/internal/service"
	"github.com/fawkesdbs/roadguard/internal/supabase"
)

const (
	readinessProbeTimeout = 2 * time.Second
	startupGracePeriod    = 0
	rateLimitRedisPrefix  = "roadguard:rl"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideSupabaseClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewProfileRepository,
	repository.NewFleetRepository,
)

var ServiceSet = wire.NewSet(
	service.NewAuthService,
	service.NewDashboardService,
	provideAssistant,
	wire.Bind(new(service.CredentialStore), new(*supabase.Client)),
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.DashboardServiceInterface), new(*service.DashboardService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewDashboardHandler,
	handler.NewAssistantHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

type MigrationRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db}
}

func (m *MigrationRunner) Run() error {
	return database.Migrate(m.db)
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideSupabaseClient(cfg *config.Config) *supabase.Client {
	return supabase.NewClient(supabase.Config{
		BaseURL:    cfg.SupabaseURL,
		ServiceKey: cfg.SupabaseServiceKey,
		JWTSecret:  cfg.SupabaseJWTSecret,
	})
}

func provideAssistant(cfg *config.Config) service.Assistant {
	return genai.NewClient(genai.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	dashboardHandler *handler.DashboardHandler,
	assistantHandler *handler.AssistantHandler,
	creds *supabase.Client,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	tokenSource := "remote"
	if cfg.SupabaseJWTSecret != "" {
		tokenSource = "local"
	}
	return router.Dependencies{
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		DashboardHandler:  dashboardHandler,
		AssistantHandler:  assistantHandler,
		TokenVerifier:     creds,
		TokenSource:       tokenSource,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		AuthRateLimitRPM:  cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:   cfg.APIRateLimitPerMin,
		GlobalRateLimiter: provideAPIRateLimiter(cfg, redisClient),
		AuthRateLimiter:   provideAuthRateLimiter(cfg, redisClient),
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

// provideAPIRateLimiter prefers the shared Redis window when Redis is
// configured. The broad API limit fails open so a Redis outage does not take
// the whole surface down.
func provideAPIRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) func(http.Handler) http.Handler {
	if redisClient != nil {
		limiter := middleware.NewRedisFixedWindowLimiter(redisClient, rateLimitRedisPrefix+":api")
		return middleware.NewDistributedRateLimiter(limiter, cfg.APIRateLimitPerMin, time.Minute, middleware.FailOpen, "api").Middleware()
	}
	return middleware.NewRateLimiter(cfg.APIRateLimitPerMin, time.Minute, "api").Middleware()
}

// The auth limit fails closed; unauthenticated brute force is exactly what it
// exists to stop.
func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) func(http.Handler) http.Handler {
	if redisClient != nil {
		limiter := middleware.NewRedisFixedWindowLimiter(redisClient, rateLimitRedisPrefix+":auth")
		return middleware.NewDistributedRateLimiter(limiter, cfg.AuthRateLimitPerMin, time.Minute, middleware.FailClosed, "auth").Middleware()
	}
	return middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute, "auth").Middleware()
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(db *gorm.DB, redisClient redis.UniversalClient, creds *supabase.Client) *health.ProbeRunner {
	return health.NewProbeRunner(readinessProbeTimeout, startupGracePeriod,
		health.NewDBChecker(db),
		health.NewRedisChecker(redisClient),
		health.NewCredentialStoreChecker(creds),
	)
}
