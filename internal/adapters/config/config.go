package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"zoracoin/pkg/errors"
)

type Config struct {
	App           AppConfig
	Chain         ChainConfig
	Server        ServerConfig
	Zora          ZoraConfig
	ErrorTracking ErrorTrackingConfig
	ClickHouse    ClickHouseConfig
	Kafka         KafkaConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"zora-coin-mcp"`
	Version  string `envconfig:"APP_VERSION" default:"1.0.0"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ChainConfig holds the signing secret and RPC endpoint.
// Both are checked again by gateway.New, which owns the format rules.
type ChainConfig struct {
	PrivateKey string `envconfig:"PRIVATE_KEY" required:"true"`
	RPCURL     string `envconfig:"RPC_URL" required:"true"`
	ChainID    int64  `envconfig:"CHAIN_ID" default:"8453"`
}

type ServerConfig struct {
	Transport   string `envconfig:"MCP_TRANSPORT" default:"stdio"` // stdio|http
	HTTPAddr    string `envconfig:"MCP_HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

type ZoraConfig struct {
	APIURL           string `envconfig:"ZORA_API_URL" default:"https://api-sdk.zora.engineering"`
	APIKey           string `envconfig:"ZORA_API_KEY"`
	APIRatePerMinute int    `envconfig:"ZORA_API_RATE_PER_MINUTE" default:"120"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// ClickHouseConfig is optional; an empty host disables the invocation journal
type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"zoracoin"`
}

func (c ClickHouseConfig) Enabled() bool {
	return c.Host != ""
}

func (c ClickHouseConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig is optional; no brokers disables coin events
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	switch cfg.Server.Transport {
	case "stdio", "http":
	default:
		return nil, errors.NewConfigurationError("MCP_TRANSPORT", fmt.Sprintf("must be stdio or http, got %q", cfg.Server.Transport))
	}

	return &cfg, nil
}
