package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays cfg with environment variables. Only variables that are
// actually set touch the corresponding field, so defaults and JSON values
// survive. Panics on malformed values, like the other loaders.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
