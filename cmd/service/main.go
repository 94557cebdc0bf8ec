package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HovVathana/shoppink-backend/config"
	"github.com/HovVathana/shoppink-backend/internal/cache"
	"github.com/HovVathana/shoppink-backend/internal/producer"
	"github.com/HovVathana/shoppink-backend/internal/repository"
	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/router"
	"github.com/HovVathana/shoppink-backend/pkg/database"
	"github.com/HovVathana/shoppink-backend/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Shoppink Backoffice API
// @Version 1.0
// @Description API бэк-офиса: каталог с деревом опций, варианты, остатки и заказы
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var treeCache service.TreeCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warn("Redis недоступен, кэш деревьев остатков отключён", zap.Error(err))
		} else {
			defer rc.Close()
			treeCache = rc
		}
	}

	var events service.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		p := producer.NewOrderProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer p.Close()
		events = p
	}

	svc := router.Services{
		Products: service.NewProductService(repos, treeCache),
		Catalog:  service.NewCatalogService(repos, treeCache),
		Variants: service.NewVariantService(repos, treeCache, log),
		Stock:    service.NewStockService(repos, treeCache, log),
		Orders:   service.NewOrderService(repos, events, log),
		Drivers:  service.NewDriverService(repos),
	}

	r := router.Router(cfg, svc, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to run http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
