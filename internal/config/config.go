package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type CheckoutConfig struct {
	Env        string `yaml:"env" env:"CHECKOUT_ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	GRPCServer `yaml:"grpc_server"`
	StoreDB    `yaml:"store_db"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
	LogConfig  `yaml:"log_config"`
	Currency   `yaml:"currency"`
	GeoIP      `yaml:"geoip"`
	Stores     `yaml:"stores"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type StoreDB struct {
	Dsn            string `yaml:"dsn" env:"STORE_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"STORE_DB_MIGRATIONS_PATH"`
}

type Redis struct {
	Addr       string        `yaml:"addr" env:"REDIS_ADDR"`
	Password   string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"REDIS_SESSION_TTL" env-default:"12h"`
}

type Kafka struct {
	Brokers    []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Username   string   `yaml:"username" env:"KAFKA_USERNAME"`
	Password   string   `yaml:"password" env:"KAFKA_PASSWORD"`
	Mechanism  string   `yaml:"mechanism" env:"KAFKA_MECHANISM"`
	TLSEnabled bool     `yaml:"tls_enabled" env:"KAFKA_TLS_ENABLED"`
	GroupID    string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"checkout-dashboard"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type Currency struct {
	RatesURL       string        `yaml:"rates_url" env:"CURRENCY_RATES_URL"`
	RatesTTL       time.Duration `yaml:"rates_ttl" env:"CURRENCY_RATES_TTL" env-default:"1h"`
	StaticFallback bool          `yaml:"static_fallback" env:"CURRENCY_STATIC_FALLBACK" env-default:"true"`
	WarmupBase     string        `yaml:"warmup_base" env:"CURRENCY_WARMUP_BASE" env-default:"BRL"`
	WarmupInterval time.Duration `yaml:"warmup_interval" env:"CURRENCY_WARMUP_INTERVAL" env-default:"30m"`
}

type GeoIP struct {
	EchoURL      string        `yaml:"echo_url" env:"GEOIP_ECHO_URL"`
	LookupURL    string        `yaml:"lookup_url" env:"GEOIP_LOOKUP_URL"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"GEOIP_CACHE_TTL" env-default:"24h"`
	DefaultsFile string        `yaml:"defaults_file" env:"GEOIP_DEFAULTS_FILE"`
}

type Stores struct {
	SeedDemo    bool `yaml:"seed_demo" env:"STORES_SEED_DEMO" env-default:"true"`
	ProtectDemo bool `yaml:"protect_demo" env:"STORES_PROTECT_DEMO" env-default:"false"`
}

func (c *CheckoutConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.HTTPServer.Host, c.HTTPServer.Port)
}

func (c *CheckoutConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%s", c.GRPCServer.Host, c.GRPCServer.Port)
}

func Load(configPath string) (*CheckoutConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg CheckoutConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *CheckoutConfig {
	// Processing env config variable and file
	configPath := os.Getenv("CHECKOUT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("CHECKOUT_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
