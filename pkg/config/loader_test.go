package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int           `env:"TEST_LOADER_PORT" envDefault:"8080"`
	Interval time.Duration `env:"TEST_LOADER_INTERVAL" envDefault:"2s"`
	Brokers  []string      `env:"TEST_LOADER_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TEST_LOADER_PORT", "9000")
	t.Setenv("TEST_LOADER_BROKERS", "a:9092,b:9092")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("TEST_LOADER_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}
