package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

// Config is read from the environment once at startup.
type Config struct {
	Port     string
	LogLevel string
	Backend  string

	Dynamo   DynamoConfig
	Postgres PostgresConfig
	Metrics  MetricsConfig

	CORSOrigins []string
}

type DynamoConfig struct {
	Region   string
	Table    string
	Endpoint string
}

type PostgresConfig struct {
	URL string
}

type MetricsConfig struct {
	Enabled bool
	Token   string
}

func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	env := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:     env("PORT", "8080"),
		LogLevel: strings.ToLower(env("LOG_LEVEL", "info")),
		Backend:  strings.ToLower(env("STORE_BACKEND", BackendMemory)),
		Dynamo: DynamoConfig{
			Region:   env("PRODUCTS_TABLE_REGION", "eu-west-1"),
			Table:    env("PRODUCTS_TABLE_NAME", "products"),
			Endpoint: env("DYNAMODB_ENDPOINT", ""),
		},
		Postgres: PostgresConfig{
			URL: env("DATABASE_URL", ""),
		},
		Metrics: MetricsConfig{
			Token: env("METRICS_TOKEN", ""),
		},
		CORSOrigins: splitList(env("CORS_ALLOWED_ORIGINS", "*")),
	}

	enabled, err := strconv.ParseBool(env("METRICS_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: METRICS_ENABLED: %w", err)
	}
	cfg.Metrics.Enabled = enabled

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("PORT %q is not a valid port", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.Dynamo.Table == "" || c.Dynamo.Region == "" {
			return fmt.Errorf("PRODUCTS_TABLE_NAME and PRODUCTS_TABLE_REGION are required for %s", BackendDynamoDB)
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (must be memory, dynamodb, or postgres)", c.Backend)
	}

	if c.Metrics.Enabled && c.Metrics.Token == "" {
		return fmt.Errorf("METRICS_TOKEN is required when METRICS_ENABLED is set")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
