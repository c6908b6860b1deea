// Package config defines the service configuration, loaded from environment
// variables.
package config

import (
	"time"

	"github.com/novametrics/reviewpulse/pkg/config"
	"github.com/novametrics/reviewpulse/pkg/database"
)

// Config holds all service configuration.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"reviewpulse"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"reviewpulse"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"reviewpulse"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	ClassifierURL     string        `env:"CLASSIFIER_URL" envDefault:"http://localhost:8081"`
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"10s"`

	LLMURL     string        `env:"LLM_URL" envDefault:"http://localhost:8082"`
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	// MailRelayURL empty means deliveries are logged instead of sent.
	MailRelayURL     string        `env:"MAIL_RELAY_URL"`
	MailRelayTimeout time.Duration `env:"MAIL_RELAY_TIMEOUT" envDefault:"15s"`
	MailFrom         string        `env:"MAIL_FROM" envDefault:"reports@reviewpulse.local"`

	DatasetPath string `env:"DATASET_PATH" envDefault:"data/reviews.csv"`

	SimulationInterval    time.Duration `env:"SIMULATION_INTERVAL" envDefault:"2s"`
	SimulationMaxDuration time.Duration `env:"SIMULATION_MAX_DURATION" envDefault:"10m"`

	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSample   float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Postgres assembles the database pool configuration.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPassword,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSLMode,
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}
