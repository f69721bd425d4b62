package strata

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	defaultLogLevel          = "info"
	defaultArchetypeCapacity = 256
)

// EngineConfig holds the ambient engine settings. Fields are populated from
// matching environment variables; WorldOption values override them.
type EngineConfig struct {
	// StrataLogLevel is any zerolog level string (env: STRATA_LOG_LEVEL).
	StrataLogLevel string `config:"STRATA_LOG_LEVEL"`
	// StrataArchetypeCapacity is the initial per-column capacity of new
	// archetypes (env: STRATA_ARCHETYPE_CAPACITY).
	StrataArchetypeCapacity int `config:"STRATA_ARCHETYPE_CAPACITY"`
}

func defaultConfig() EngineConfig {
	return EngineConfig{
		StrataLogLevel:          defaultLogLevel,
		StrataArchetypeCapacity: defaultArchetypeCapacity,
	}
}

// loadConfig loads any matching environment variables into an EngineConfig.
// Unset variables keep their defaults.
func loadConfig() (EngineConfig, error) {
	cfg := defaultConfig()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load engine config from env")
	}
	if cfg.StrataArchetypeCapacity <= 0 {
		cfg.StrataArchetypeCapacity = defaultArchetypeCapacity
	}
	return cfg, nil
}

func (c EngineConfig) logLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.StrataLogLevel)
	if err != nil {
		return zerolog.InfoLevel, eris.Wrapf(err, "invalid log level %q", c.StrataLogLevel)
	}
	return level, nil
}
