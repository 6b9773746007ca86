package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satsun/backend/internal/config"
	"github.com/satsun/backend/internal/database"
	"github.com/satsun/backend/internal/handler"
	"github.com/satsun/backend/internal/logger"
	"github.com/satsun/backend/internal/middleware"
	"github.com/satsun/backend/internal/queue"
	"github.com/satsun/backend/internal/repository"
	"github.com/satsun/backend/internal/router"
	"github.com/satsun/backend/internal/service/exportqueue"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zlog.Fatal("database open failed", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.DBName, zlog); err != nil {
		zlog.Fatal("migrations failed", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		zlog.Warn("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	weekends := repository.NewWeekendRepo(db)
	days := repository.NewDayRepo(db)
	instances := repository.NewInstanceRepo(db)
	activities := repository.NewActivityRepo(db)
	shares := repository.NewShareRepo(db)
	exports := repository.NewExportRepo(db)

	publisher := exportqueue.New(cfg.AMQPURL, zlog)
	go queue.StartExportConsumer(cfg.AMQPURL, zlog)

	e := echo.New()
	e.HideBanner = true

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users)
	weekendH := handler.NewWeekendHandler(weekends, days, instances)
	dayH := handler.NewDayHandler(days, instances, activities)
	instanceH := handler.NewInstanceHandler(instances, days)
	catalogH := handler.NewCatalogHandler(activities)
	moodH := handler.NewMoodHandler(activities)
	shareH := handler.NewShareHandler(shares, weekends, days, instances)
	exportH := handler.NewExportHandler(exports, weekends, publisher)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterPlanner(e, weekendH, dayH, instanceH, catalogH, shareH, exportH, cfg.JWTSecret)
	router.RegisterPublic(e, catalogH, moodH, shareH, cache)

	addr := ":" + cfg.Port
	zlog.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
