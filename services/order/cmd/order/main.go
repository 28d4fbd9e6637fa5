package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_orders/pkg/authclient"
	pkgconfig "github.com/Skotchmaster/shop_orders/pkg/config"
	"github.com/Skotchmaster/shop_orders/pkg/db"
	"github.com/Skotchmaster/shop_orders/pkg/kafka"
	"github.com/Skotchmaster/shop_orders/pkg/logging"
	loggingmw "github.com/Skotchmaster/shop_orders/pkg/middleware/logging"
	"github.com/Skotchmaster/shop_orders/services/order/internal/cache"
	"github.com/Skotchmaster/shop_orders/services/order/internal/config"
	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
	"github.com/Skotchmaster/shop_orders/services/order/internal/httpserver"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
	"github.com/Skotchmaster/shop_orders/services/order/internal/repo"
	"github.com/Skotchmaster/shop_orders/services/order/internal/search"
	"github.com/Skotchmaster/shop_orders/services/order/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "order")

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := models.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var (
		sinks []events.Sink
		store *cache.Store
	)

	if pkgconfig.Enabled(cfg.RedisURL, "REDIS_URL", "order cache") {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		store = cache.NewStore(client, cfg.CacheTTL)
		defer store.Close()
		sinks = append(sinks, &cache.Invalidator{Store: store})
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
		sinks = append(sinks, &events.KafkaSink{Producer: producer, Topic: cfg.OrderEventsTopic})
	} else {
		log.Printf("notice: KAFKA_BROKERS is empty, order event publishing disabled")
	}

	orderHandler := &httpserver.OrderHTTP{SearchIndex: cfg.SearchIndex}
	if pkgconfig.Enabled(cfg.ElasticURL, "ES_URL", "order search") {
		es, err := search.NewClient(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		orderHandler.ES = es
		sinks = append(sinks, &search.Indexer{ES: es, Index: cfg.SearchIndex})
	}

	bus := events.NewBus(sinks...)
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error("event bus close error", "error", err)
		}
	}()

	orderService := &service.OrderService{
		Repo:       repo.New(gdb),
		Gateway:    service.ApproveAllGateway{},
		Shipping:   service.FlatShipping{Amount: cfg.ShippingFlatPrice},
		Events:     bus,
		PointsRate: &cfg.PointsRate,
		Currency:   cfg.Currency,
	}
	orderHandler.Svc = orderService
	if store != nil {
		orderHandler.Reads = &cache.CachedOrders{Next: orderService, Store: store}
	}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:       orderHandler,
		TransactionHandler: &httpserver.TransactionHTTP{Svc: orderService},
		JWTSecret:          cfg.JWTAccessSecret,
		AuthClient:         authclient.NewClient(cfg.AuthHTTPURL),
		Ready: func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return sqlDB.PingContext(ctx)
		},
	})

	addr := ":" + strconv.Itoa(cfg.ServerPort)
	go func() {
		logger.Info("starting order service", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("server stopped")
}
