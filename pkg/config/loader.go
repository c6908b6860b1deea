// Package config loads typed configuration from the process environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from environment variables declared with `env` struct tags.
// Fallbacks come from `envDefault`; nested structs and slices follow the tag
// conventions of caarlos0/env.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
