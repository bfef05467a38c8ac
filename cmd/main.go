package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"pairwave/backend/internal/api/handler"
	"pairwave/backend/internal/chathub"
	"pairwave/backend/internal/config"
	"pairwave/backend/internal/consent"
	"pairwave/backend/internal/localization"
	"pairwave/backend/internal/logger"
	"pairwave/backend/internal/models"
	"pairwave/backend/internal/notify"
	"pairwave/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config, zlog *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		zlog.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			zlog.Fatal("failed to connect Redis", zap.Error(err))
		}
	}

	zlog.Info("database connection established, migrations complete")
	return db, rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New(cfg.LogFile, cfg.LogProd)
	defer zlog.Sync()

	db, rdb := setupDependencies(cfg, zlog)
	s := storage.NewStorageService(db, rdb, zlog)

	localizer, err := localization.NewLocalizer(cfg.LocalePath)
	if err != nil {
		zlog.Fatal("failed to load localization catalog", zap.Error(err))
	}
	sink := notify.NewSink(s, localizer, cfg.Lang, zlog)
	gate := consent.NewGate(s, sink, zlog)

	// Single instance keeps fan-out in-process; with Redis configured,
	// rooms span every instance subscribed to the same channels.
	var broadcaster chathub.Broadcaster
	if rdb != nil {
		broadcaster = chathub.NewRedisBroadcaster(s, zlog)
	} else {
		broadcaster = chathub.NewLoopbackBroadcaster()
	}

	hub := chathub.NewHub(s, sink, broadcaster, zlog)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, gate, s, cfg.JWTSecret, zlog)

	api := r.Group("/api", h.AuthRequired())
	{
		api.GET("/chat/:peerID/ws", h.ServeChat)
		api.GET("/chat/:peerID/history", h.GetHistory)
		api.GET("/chat/:peerID/updates/:lastTimestamp", h.GetNewMessages)
		api.GET("/inbox", h.GetInbox)
		api.POST("/likes/:peerID", h.AddLike)
		api.GET("/likes/received", h.GetLikesReceived)
		api.GET("/notifications", h.ListNotifications)
	}

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	zlog.Info("starting chat backend", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
