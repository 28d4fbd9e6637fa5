package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_orders/pkg/config"
)

type ServiceConfig struct {
	config.Config

	ShippingFlatPrice decimal.Decimal
	PointsRate        decimal.Decimal
	Currency          string

	OrderEventsTopic string
	SearchIndex      string
	CacheTTL         time.Duration
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.AuthHTTPURL, "AUTH_URL")

	return ServiceConfig{
		Config:            cfg,
		ShippingFlatPrice: mustDecimal("SHIPPING_FLAT_PRICE", "10.00"),
		PointsRate:        mustDecimal("POINTS_RATE", "0.10"),
		Currency:          config.EnvDefault("CURRENCY", "IDR"),
		OrderEventsTopic:  config.EnvDefault("ORDER_EVENTS_TOPIC", "order_events"),
		SearchIndex:       config.EnvDefault("ES_ORDERS_INDEX", "orders"),
		CacheTTL:          time.Duration(config.EnvIntDefault("CACHE_TTL_SECONDS", 3600)) * time.Second,
	}
}

func mustDecimal(envName, def string) decimal.Decimal {
	raw := config.EnvDefault(envName, def)
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		log.Fatalf("invalid %s=%q: must be a non-negative decimal", envName, raw)
	}
	return d
}
