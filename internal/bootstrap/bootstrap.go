package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/coursehub/internal/app/auth"
	appControllers "github.com/yigit/coursehub/internal/app/controllers"
	appMigrations "github.com/yigit/coursehub/internal/app/migrations"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
	appRoutes "github.com/yigit/coursehub/internal/app/routes"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/db"
	appMiddleware "github.com/yigit/coursehub/internal/middleware"
	pkgAuth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/cache"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	AuthzService           *appAuth.AuthorizationService
	AuthService            *appServices.AuthService
	CourseService          appServices.CourseService
	CourseStructureService appServices.CourseStructureService
	UserService            appServices.UserService
	Controllers            appRoutes.Controllers
	AuthMiddleware         *appMiddleware.AuthMiddleware
	RateLimiter            *appMiddleware.RateLimiter
	Logger                 zerolog.Logger
}

// Stores are the optional shared stores behind rate limiting and logout
type Stores struct {
	Counter  cache.Counter
	Denylist cache.TokenDenylist
	Redis    *redis.Client
}

// Close releases the redis connection, if any
func (s *Stores) Close() error {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin when enabled.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if cfg.Seed.Enabled {
		_, err := seed.CreateDefaultAdmin(ctx, appRepos.NewUserRepository(database), seed.AdminAccount{
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
			Name:     cfg.Seed.AdminName,
		}, lgr)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
		}
	}

	return database, nil
}

// SetupStores connects to redis when enabled. Without redis the login limiter
// counts in process memory and logout cannot revoke tokens.
func SetupStores(cfg *config.Config, lgr zerolog.Logger) (*Stores, error) {
	if !cfg.Redis.Enabled {
		lgr.Warn().Msg("Redis disabled: using in-memory rate limiting, token revocation is unavailable")
		return &Stores{
			Counter:  cache.NewMemoryStore(time.Now),
			Denylist: cache.NoopTokenDenylist{},
		}, nil
	}

	client, err := cache.NewRedisClient(context.Background(), cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to redis")
		return nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection successfully established.")

	return &Stores{
		Counter:  cache.NewRedisCounter(client),
		Denylist: cache.NewRedisTokenDenylist(client),
		Redis:    client,
	}, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, health appControllers.Pinger, stores *Stores, lgr zerolog.Logger) (*Dependencies, error) {
	expiration, err := helpers.ParseDurationWithDays(cfg.JWT.Expiration)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT expiration: %w", err)
	}

	deps := &Dependencies{Repos: repos, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    expiration,
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(repos.CourseRepository, repos.CourseStructureRepository)

	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, stores.Denylist, lgr)
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository)
	deps.CourseStructureService = appServices.NewCourseStructureService(repos.CourseRepository, repos.CourseStructureRepository, deps.AuthzService)
	deps.UserService = appServices.NewUserService(repos.UserRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.UserRepository, stores.Denylist)
	deps.RateLimiter = appMiddleware.NewRateLimiter(stores.Counter)

	deps.Controllers = appRoutes.Controllers{
		Auth:            appControllers.NewAuthController(deps.AuthService, lgr),
		Course:          appControllers.NewCourseController(deps.CourseService),
		CourseStructure: appControllers.NewCourseStructureController(deps.CourseStructureService),
		User:            appControllers.NewUserController(deps.UserService),
		Health:          appControllers.NewHealthController(health),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	// Debug mode exposes stack traces in 500 responses
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	} else {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), appMiddleware.Recovery(lgr))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router, "localhost:"+cfg.Server.Port)
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.RateLimiter, appRoutes.LoginLimit{
		Attempts: cfg.RateLimit.LoginAttempts,
		Window:   helpers.ParseDuration(cfg.RateLimit.LoginWindow, 15*time.Minute),
	})

	return router
}

// corsConfig allows the configured origins, or any origin without
// credentials when none are configured.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
