package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	HTTPPort         int    `mapstructure:"HTTP_PORT"`
	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`

	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     int    `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresMaxConns int32  `mapstructure:"POSTGRES_MAX_CONNS"`
	AutoMigrate      bool   `mapstructure:"AUTO_MIGRATE"`

	// CartStore selects the cart persistence backend: "postgres" or "redis".
	CartStore     string `mapstructure:"CART_STORE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// SignalBackend lists where cart refresh signals go, comma separated:
	// "none", "redis", "kafka" or "redis,kafka".
	SignalBackend string `mapstructure:"SIGNAL_BACKEND"`
	SignalTopic   string `mapstructure:"SIGNAL_TOPIC"`
	KafkaBrokers  string `mapstructure:"KAFKA_BROKERS"`

	CatalogFanout    int    `mapstructure:"CATALOG_FANOUT"`
	AuthUserHeader   string `mapstructure:"AUTH_USER_HEADER"`
	CartCookieName   string `mapstructure:"CART_COOKIE_NAME"`
	CartCookieSecure bool   `mapstructure:"CART_COOKIE_SECURE"`
	MaxQuantity      int    `mapstructure:"MAX_QUANTITY"`
}

var defaults = map[string]any{
	"APP_ENV":   "dev",
	"LOG_LEVEL": "info",
	"HTTP_PORT": 8080,

	"CORS_ALLOW_ORIGINS": "http://localhost:3000",

	"POSTGRES_HOST":      "localhost",
	"POSTGRES_PORT":      5432,
	"POSTGRES_USER":      "shopping",
	"POSTGRES_PASSWORD":  "shoppingpassword",
	"POSTGRES_DB":        "shopping_db",
	"POSTGRES_SSLMODE":   "disable",
	"POSTGRES_MAX_CONNS": 10,
	"AUTO_MIGRATE":       true,

	"CART_STORE":     "postgres",
	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"SIGNAL_BACKEND": "none",
	"SIGNAL_TOPIC":   "cart.changed",
	"KAFKA_BROKERS":  "localhost:9092",

	"CATALOG_FANOUT":     10,
	"AUTH_USER_HEADER":   "X-User-ID",
	"CART_COOKIE_NAME":   "localCartId",
	"CART_COOKIE_SECURE": false,
	"MAX_QUANTITY":       100,
}

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE (any format viper understands, .env included).
func Load() (Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.CartStore = strings.ToLower(strings.TrimSpace(cfg.CartStore))
	cfg.SignalBackend = strings.ToLower(strings.TrimSpace(cfg.SignalBackend))
	if cfg.CatalogFanout <= 0 {
		cfg.CatalogFanout = 10
	}
	if cfg.MaxQuantity <= 0 {
		cfg.MaxQuantity = 100
	}

	switch cfg.CartStore {
	case "postgres", "redis":
	default:
		return Config{}, fmt.Errorf("unsupported CART_STORE %q", cfg.CartStore)
	}
	for _, b := range cfg.SignalBackends() {
		switch b {
		case "none", "redis", "kafka":
		default:
			return Config{}, fmt.Errorf("unsupported SIGNAL_BACKEND %q", b)
		}
	}

	return cfg, nil
}

// Brokers splits KAFKA_BROKERS on commas, dropping blanks.
func (c Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

// SignalBackends returns the configured signal backends with "none" removed.
func (c Config) SignalBackends() []string {
	var out []string
	for _, b := range splitList(c.SignalBackend) {
		if b != "none" {
			out = append(out, b)
		}
	}
	return out
}

// UsesSignal reports whether backend is one of the configured signal backends.
func (c Config) UsesSignal(backend string) bool {
	for _, b := range c.SignalBackends() {
		if b == backend {
			return true
		}
	}
	return false
}

func (c Config) AllowOrigins() []string {
	return splitList(c.CORSAllowOrigins)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
