package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/fleetbook/internal/api/handlers"
	"github.com/langchou/fleetbook/internal/config"
	"github.com/langchou/fleetbook/internal/repository"
	"github.com/langchou/fleetbook/internal/service"
	"github.com/langchou/fleetbook/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting Fleetbook",
		zap.String("addr", cfg.Addr()),
		zap.String("store", cfg.StoreDriver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接存储
	kv, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer kv.Close()

	stores := service.NewStores(repository.NewStore(kv, cfg.StoreKeyPrefix, logger))

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run(ctx)

	// 创建服务
	duties := service.NewDutyService(logger, stores, wsHub)
	handler := handlers.NewHandler(
		logger,
		service.NewTripService(logger, stores, duties, wsHub),
		duties,
		service.NewFleetService(logger, stores, cfg.ExpiryWarningDays),
		service.NewEstimateService(stores),
		service.NewSettingsService(logger, stores),
		wsHub,
	)
	wsHub.SetInitDataProvider(handler.InitData)
	wsHub.SetMessageHandler(handler.HandleMessage)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.CORSOrigins))

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("Server exited")
}

// openStore 按配置选择存储后端
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.KV, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("Using in-memory store, data is lost on exit")
		return repository.NewMemory(), nil
	case config.StoreRedis:
		kv, err := repository.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to redis", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
		return kv, nil
	default:
		db, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("Database migrated successfully")
		return db, nil
	}
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS 中间件，"*" 表示允许所有来源
func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
		}
	}
	if !c.AllowAllOrigins {
		c.AllowOrigins = origins
	}
	return cors.New(c)
}
