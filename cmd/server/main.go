package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruralpay/accounts/docs"
	"github.com/ruralpay/accounts/internal/audit"
	"github.com/ruralpay/accounts/internal/config"
	"github.com/ruralpay/accounts/internal/database"
	"github.com/ruralpay/accounts/internal/handlers"
	"github.com/ruralpay/accounts/internal/lock"
	"github.com/ruralpay/accounts/internal/services"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// @title Accounts API
// @version 1.0
// @description Account balance use and cancellation under per-account locks
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	loadConfig()

	logger, err := newLogger(viper.GetBool("log.development"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	lockConfig := config.LoadLockConfig()
	if err := lockConfig.Validate(); err != nil {
		zap.L().Fatal("Invalid lock configuration", zap.Error(err))
	}
	txConfig := config.LoadTransactionConfig()
	if err := txConfig.Validate(lockConfig); err != nil {
		zap.L().Fatal("Invalid transaction configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize storage
	dbConfig := database.GetConfig()
	db, err := database.InitDB(ctx, dbConfig)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if dbConfig.MigrateOnStart {
		if err := database.RunMigrations(ctx, db); err != nil {
			zap.L().Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	redisClient, err := database.InitRedis(ctx)
	if err != nil {
		zap.L().Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize services
	store := database.NewPostgresStore(db)
	auditLogger := audit.NewAuditLogger(logger)
	transactionService := services.NewTransactionService(store, auditLogger, txConfig)
	accountService := services.NewAccountService(store, auditLogger)

	locker, err := lock.NewManager(lock.NewRedisStore(redisClient), lockConfig)
	if err != nil {
		zap.L().Fatal("Failed to initialize lock manager", zap.Error(err))
	}

	docs.SwaggerInfo.Host = viper.GetString("server.public_host")

	router := handlers.NewRouter(handlers.RouterConfig{
		Transactions:   handlers.NewTransactionHandler(transactionService, locker),
		Accounts:       handlers.NewAccountHandler(accountService, locker),
		RequireAuth:    viper.GetBool("auth.enabled"),
		AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
		RequestTimeout: viper.GetDuration("server.request_timeout"),
		ServeDocs:      viper.GetBool("server.docs_enabled"),
		HealthChecks: map[string]handlers.HealthCheck{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})

	server := &http.Server{
		Addr:         ":" + viper.GetString("server.port"),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: viper.GetDuration("server.request_timeout") + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		zap.L().Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
		return
	}

	zap.L().Info("Server stopped")
}

func loadConfig() {
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.request_timeout", 60*time.Second)
	viper.SetDefault("server.public_host", "localhost:8080")
	viper.SetDefault("server.docs_enabled", true)
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("log.development", false)

	bindings := map[string]string{
		"server.port":            "PORT",
		"server.request_timeout": "SERVER_REQUEST_TIMEOUT",
		"server.allowed_origins": "SERVER_ALLOWED_ORIGINS",
		"server.public_host":     "SERVER_PUBLIC_HOST",
		"server.docs_enabled":    "SERVER_DOCS_ENABLED",

		"database.host":     "DATABASE_HOST",
		"database.port":     "DATABASE_PORT",
		"database.user":     "DATABASE_USER",
		"database.password": "DATABASE_PASSWORD",
		"database.name":     "DATABASE_NAME",
		"database.ssl_mode": "DATABASE_SSL_MODE",
		"database.migrate":  "DATABASE_MIGRATE",

		"redis.host":     "REDIS_HOST",
		"redis.port":     "REDIS_PORT",
		"redis.password": "REDIS_PASSWORD",
		"redis.db":       "REDIS_DB",

		"lock.ttl":             "LOCK_TTL",
		"lock.max_attempts":    "LOCK_MAX_ATTEMPTS",
		"lock.retry_delay":     "LOCK_RETRY_DELAY",
		"lock.max_retry_delay": "LOCK_MAX_RETRY_DELAY",
		"lock.backoff":         "LOCK_BACKOFF",
		"lock.jitter":          "LOCK_JITTER",
		"lock.key_prefix":      "LOCK_KEY_PREFIX",

		"transaction.cancel_window_years": "TRANSACTION_CANCEL_WINDOW_YEARS",
		"transaction.use_delay":           "TRANSACTION_USE_DELAY",

		"auth.enabled":   "AUTH_ENABLED",
		"jwt.secret_key": "JWT_SECRET_KEY",

		"log.development": "LOG_DEVELOPMENT",
	}
	for key, env := range bindings {
		viper.BindEnv(key, env)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
