package strata_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/strata-engine/strata"
	"github.com/strata-engine/strata/assert"
)

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	world, err := strata.NewWorld(strata.WithLogger(logger))
	assert.NilError(t, err)

	world.Logger().Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestWithArchetypeCapacity(t *testing.T) {
	world, err := strata.NewWorld(strata.WithArchetypeCapacity(8))
	assert.NilError(t, err)
	assert.NilError(t, strata.RegisterComponent[Position](world))

	// The capacity is a sizing hint, not a limit.
	for i := 0; i < 32; i++ {
		_, err := world.Push(Position{X: float64(i)})
		assert.NilError(t, err)
	}
	assert.Equal(t, 32, world.Len())
}
