package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hotel_backend/internal/api"
	"hotel_backend/internal/middleware"
	"hotel_backend/internal/repository"
	"hotel_backend/internal/service"
	"hotel_backend/internal/storage"
	"hotel_backend/internal/utils"
	"hotel_backend/pkg/config"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := utils.InitLogger(cfg.Log.Level)

	// 初始化資料庫連接
	db, err := storage.Open(cfg.DB)
	if err != nil {
		logger.Error("failed to initialize database", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構
	if err := repository.Migrate(db); err != nil {
		logger.Error("failed to auto migrate database", "error", err)
		os.Exit(1)
	}

	// token 撤銷表，沒有設定 redis 時使用記憶體
	var revoker utils.TokenRevoker
	if cfg.Redis.Addr != "" {
		redisRevoker := utils.NewRedisTokenRevoker(cfg.Redis.Addr, cfg.Redis.Password)
		defer redisRevoker.Close()
		revoker = redisRevoker
	} else {
		revoker = utils.NewMemoryTokenRevoker()
	}
	tokens, err := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, revoker)
	if err != nil {
		logger.Error("failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	var store storage.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		minioStore, err := storage.NewMinioStore(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
			cfg.MinIO.Bucket, cfg.MinIO.PublicURL, cfg.MinIO.UseSSL)
		if err != nil {
			logger.Warn("object storage unavailable, image upload disabled", "endpoint", cfg.MinIO.Endpoint, "error", err)
		} else {
			store = minioStore
		}
	}

	// 初始化 repositories 與 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, tokens, store, cfg.Chat)

	// 設置 Gin 路由
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger), middleware.CORS(cfg.Server.AllowedOrigin))
	api.SetupRoutes(r, services, api.RouteOptions{AllowedOrigin: cfg.Server.AllowedOrigin})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 收到結束訊號時，請求的 context 會被取消，websocket 連線也會跟著結束
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("server started", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to run server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
