package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/logger"
	"fintrack/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("starting seed")
	ctx := context.Background()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(ctx, gormDB, cfg.DBMigrator); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		zlog.Fatal("jwt init", zap.Error(err))
	}

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer func() { _ = cacheClient.Close() }()
	}

	s := &seeder{
		db:            gormDB,
		hasher:        hasher,
		tokens:        jwtService,
		identities:    service.NewIdentityCache(cacheClient),
		adminUsername: cfg.AdminUsername,
		log:           zlog,
	}

	created, err := s.seedAdmin(ctx, cfg.AdminUsername, os.Getenv("ADMIN_FULLNAME"), os.Getenv("ADMIN_PASSWORD"))
	if err != nil {
		zlog.Fatal("failed to seed admin", zap.String("username", cfg.AdminUsername), zap.Error(err))
	}
	zlog.Info("admin ready", zap.String("username", cfg.AdminUsername), zap.Bool("created", created))

	source := os.Getenv("SEED_SOURCE")
	if source == "" {
		return
	}

	users, err := loadSeedUsers(ctx, source)
	if err != nil {
		zlog.Fatal("failed to load seed data", zap.String("source", source), zap.Error(err))
	}
	stats, err := s.seedUsers(ctx, users)
	if err != nil {
		zlog.Fatal("failed to seed users", zap.Error(err))
	}

	zlog.Info("seed completed",
		zap.Int("users_created", stats.UsersCreated),
		zap.Int("users_skipped", stats.UsersSkipped),
		zap.Int("expenses", stats.Expenses),
		zap.Int("incomes", stats.Incomes),
	)
}
