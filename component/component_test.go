package component_test

import (
	"testing"

	"github.com/strata-engine/strata/assert"
	"github.com/strata-engine/strata/component"
	"github.com/strata-engine/strata/types"
)

type Energy struct {
	Amount int
	Cap    int
}

func (Energy) Name() string { return "energy" }

type Ownable struct {
	Owner string
}

func (Ownable) Name() string { return "ownable" }

func TestNewComponentMetadata(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)
	assert.Equal(t, "energy", ct.Name())
	assert.True(t, len(ct.GetSchema()) > 0)
}

func TestComponentMetadataNewReturnsZeroValue(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)

	value, err := ct.New()
	assert.NilError(t, err)
	assert.Equal(t, Energy{}, value)
}

func TestComponentMetadataNewReturnsDefault(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy](component.WithDefault(Energy{Amount: 10, Cap: 100}))
	assert.NilError(t, err)

	value, err := ct.New()
	assert.NilError(t, err)
	got, ok := value.(Energy)
	assert.True(t, ok)
	assert.Equal(t, 10, got.Amount)
	assert.Equal(t, 100, got.Cap)

	// Mutating the returned value must not touch the registered default.
	got.Amount = 999
	again, err := ct.New()
	assert.NilError(t, err)
	assert.Equal(t, 10, again.(Energy).Amount)
}

func TestComponentMetadataSetID(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)

	assert.NilError(t, ct.SetID(7))
	assert.Equal(t, types.ComponentID(7), ct.ID())

	// Setting the same id again is allowed, changing it is not.
	assert.NilError(t, ct.SetID(7))
	err = ct.SetID(8)
	assert.ErrorContains(t, err, "already set")
}

func TestComponentMetadataSetIDRejectsOutOfRange(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)
	assert.ErrorContains(t, ct.SetID(types.MaxComponentTypes), "out of range")

	ct, err = component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)
	assert.ErrorContains(t, ct.SetID(-1), "out of range")
}

func TestComponentMetadataEncodeDecodeRoundTrip(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)

	bz, err := ct.Encode(Energy{Amount: 3, Cap: 9})
	assert.NilError(t, err)

	value, err := ct.Decode(bz)
	assert.NilError(t, err)
	assert.Equal(t, Energy{Amount: 3, Cap: 9}, value)
}

func TestComponentMetadataValidate(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)

	assert.NilError(t, ct.Validate(Energy{}))
	assert.NilError(t, ct.Validate(&Energy{}))
	assert.ErrorContains(t, ct.Validate(Ownable{}), "not a")
	assert.ErrorContains(t, ct.Validate(42), "not a")
}

func TestComponentMetadataEncodeRejectsWrongType(t *testing.T) {
	ct, err := component.NewComponentMetadata[Energy]()
	assert.NilError(t, err)

	_, err = ct.Encode(Ownable{Owner: "nobody"})
	assert.ErrorContains(t, err, "not a")
}
