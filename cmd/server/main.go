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

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fintrack/docs" // swagger docs
	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/handler"
	"fintrack/internal/logger"
	"fintrack/internal/repository"
	"fintrack/internal/router"
	"fintrack/internal/service"
)

// @title fintrack API
// @version 1.0
// @description Personal finance tracking API with expenses, incomes and JWT authentication.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(ctx, gormDB, cfg.DBMigrator); err != nil {
		zlog.Fatal("migrate", zap.String("migrator", cfg.DBMigrator), zap.Error(err))
	}

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer func() { _ = cacheClient.Close() }()
		if err := cacheClient.Ping(ctx); err != nil {
			zlog.Warn("redis unreachable, identity cache disabled until it recovers", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)
	incomeRepo := repository.NewIncomeRepository(gormDB)

	// Initialize auth components
	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		zlog.Fatal("jwt init", zap.Error(err))
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, cacheClient, zlog, cfg.AdminUsername)
	userService := service.NewUserService(userRepo, cacheClient, zlog)
	expenseService := service.NewExpenseService(expenseRepo)
	incomeService := service.NewIncomeService(incomeRepo)
	summaryService := service.NewSummaryService(expenseRepo, incomeRepo)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, zlog, authService, router.Handlers{
		Users:    handler.NewUserHandler(authService, userService),
		Expenses: handler.NewExpenseHandler(expenseService),
		Incomes:  handler.NewIncomeHandler(incomeService),
		Summary:  handler.NewSummaryHandler(summaryService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	zlog.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.ServerPort
		zlog.Info("server starting", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
}
