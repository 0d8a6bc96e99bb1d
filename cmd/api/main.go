package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/cache"
	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/clients"
	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/handler"
	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/repository"
	"github.com/AchilleasB/school-portal/auth-service/internal/config"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/services"
	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
)

const (
	collaboratorTimeout = 10 * time.Second
	shutdownTimeout     = 15 * time.Second
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.AppEnv)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	userRepo := repository.NewSQLRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("address", cfg.RedisAddress))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	httpClient := &http.Client{Timeout: collaboratorTimeout}
	directory := cache.NewCachedDirectory(
		clients.NewDirectoryClient(cfg.DirectoryServiceURL, httpClient, m, logger),
		redisClient,
		cfg.SubjectCacheTTL,
		logger,
	)
	notifier := clients.NewNotificationClient(cfg.NotificationServiceURL, httpClient, m, logger)
	linkage := clients.NewLinkageClient(cfg.LinkageServiceURL, httpClient, m, logger)

	sessionStore := cache.NewSessionStore(redisClient)
	limiter := cache.NewRateLimiter(redisClient, cfg.VerificationCodeWindow, cfg.VerificationCodeMaxPerWindow)

	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	tokens := services.NewSessionTokens(cfg.JWTPrivateKey, cfg.JWTPublicKey, cfg.SessionTTL, sessionStore)
	dispatcher := services.NewDispatcher(logger)

	authService := services.NewAuthService(userRepo, hasher, tokens, sessionStore, logger)
	registrationService := services.NewRegistrationService(userRepo, directory, notifier, linkage, hasher, dispatcher, logger)
	verificationService := services.NewVerificationService(userRepo, notifier, limiter, hasher, cfg.VerificationCodeTTL, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authService, cfg.CookieSecure, logger),
		Registration:   handler.NewRegistrationHandler(registrationService, m, logger),
		Verification:   handler.NewVerificationHandler(verificationService, logger),
		Health:         handler.NewHealthHandler(db, handler.PingerFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }), logger),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens, logger),
		Metrics:        m,
		Gatherer:       reg,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error("server error, shutting down", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down server", zap.Error(err))
	}

	// Let detached notices finish before the process exits.
	dispatcher.Wait()
	logger.Info("shutdown complete")
}
