package config

import (
	"os"

	"github.com/Skotchmaster/shop_orders/pkg/config"
)

type Config struct {
	ListenAddr string
	LogLevel   string
	AuthURL    string
	CartURL    string
	OrderURL   string
}

func Load() *Config {
	shared := config.Load()

	cfg := &Config{
		ListenAddr: config.EnvDefault("GATEWAY_ADDR", ":8080"),
		LogLevel:   shared.LogLevel,
		AuthURL:    shared.AuthHTTPURL,
		CartURL:    os.Getenv("CART_URL"),
		OrderURL:   os.Getenv("ORDER_URL"),
	}
	config.MustNonEmpty(cfg.AuthURL, "AUTH_URL")
	config.MustNonEmpty(cfg.CartURL, "CART_URL")
	config.MustNonEmpty(cfg.OrderURL, "ORDER_URL")
	return cfg
}
