package strata

import (
	"github.com/rs/zerolog"
)

// WorldOption represents an option that can be used to augment how a World is
// created.
type WorldOption struct {
	worldOption func(*World)
}

// WithLogger sets the world's logger. The default logs to stderr at the level
// named by STRATA_LOG_LEVEL.
func WithLogger(logger zerolog.Logger) WorldOption {
	return WorldOption{
		worldOption: func(w *World) {
			w.logger = logger
		},
	}
}

// WithArchetypeCapacity sets the initial per-column capacity of new
// archetypes. The default is 256, or STRATA_ARCHETYPE_CAPACITY when set.
func WithArchetypeCapacity(capacity int) WorldOption {
	return WorldOption{
		worldOption: func(w *World) {
			if capacity > 0 {
				w.archetypeCapacity = capacity
			}
		},
	}
}
