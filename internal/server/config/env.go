package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with values from SPLITVAULT_-prefixed environment
// variables, e.g. SPLITVAULT_DATABASE_DSN. Unset variables leave the current
// values untouched. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SPLITVAULT_"}); err != nil {
		panic(err)
	}
}
