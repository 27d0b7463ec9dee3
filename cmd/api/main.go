package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/bookdiary-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/bookdiary-api/internal/auth"
	"github.com/redmonkez12/bookdiary-api/internal/book"
	"github.com/redmonkez12/bookdiary-api/internal/config"
	"github.com/redmonkez12/bookdiary-api/internal/database"
	"github.com/redmonkez12/bookdiary-api/internal/diary"
	"github.com/redmonkez12/bookdiary-api/internal/follow"
	httpServer "github.com/redmonkez12/bookdiary-api/internal/http"
	"github.com/redmonkez12/bookdiary-api/internal/logging"
	"github.com/redmonkez12/bookdiary-api/internal/metrics"
	"github.com/redmonkez12/bookdiary-api/internal/ratelimit"
	"github.com/redmonkez12/bookdiary-api/internal/rating"
	"github.com/redmonkez12/bookdiary-api/internal/social"
	"github.com/redmonkez12/bookdiary-api/internal/user"
)

// @title           Book Diary API
// @version         1.0
// @description     Accounts, bearer authentication, books, diary entries, follows and ratings for the book diary.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_format", cfg.Auth.TokenFormat,
	)

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database.ConnectionString(), database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	userRepo := user.NewRepository(db)
	followRepo := follow.NewRepository(db)
	ratingRepo := rating.NewRepository(db)
	bookRepo := book.NewRepository(db)
	diaryRepo := diary.NewRepository(db)

	tokens, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	hasher := auth.NewArgon2Hasher(auth.Argon2Params{
		Time:      cfg.Auth.Argon2Time,
		MemoryKiB: cfg.Auth.Argon2MemoryKiB,
		Threads:   cfg.Auth.Argon2Threads,
	})
	denylist := auth.NewRedisDenylist(redisClient)
	m := metrics.New()

	resolver := auth.NewResolver(tokens, userRepo, denylist, m)
	policy := auth.NewVisibilityPolicy(followRepo)
	authService := auth.NewService(userRepo, hasher, tokens, denylist, logger)
	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:       auth.NewHandler(authService, rateLimiter, m),
		Social:     social.NewHandler(userRepo, followRepo, ratingRepo, policy),
		Books:      book.NewHandler(bookRepo),
		Diary:      diary.NewHandler(diaryRepo),
		Ratings:    rating.NewHandler(ratingRepo),
		Middleware: auth.NewMiddleware(resolver),
	}, logger, m)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newTokenService picks the token envelope configured by AUTH_TOKEN_FORMAT.
func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenFormat == config.TokenFormatPaseto {
		svc, err := auth.NewPasetoService(cfg.PasetoKey, cfg.AccessTokenDuration)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	svc, err := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
