// Package component turns user-defined component structs into the metadata
// the storage engine tracks them by.
package component

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"

	"github.com/strata-engine/strata/codec"
	"github.com/strata-engine/strata/types"
)

// Interface guard
var _ types.ComponentMetadata = (*componentMetadata[types.Component])(nil)

// Option is a type that can be passed to NewComponentMetadata to augment the
// creation of the component type.
type Option[T types.Component] func(c *componentMetadata[T])

// WithDefault sets the value returned by New for this component type. Without
// it New returns the zero value of T.
func WithDefault[T types.Component](defaultVal T) Option[T] {
	return func(c *componentMetadata[T]) {
		c.defaultVal = &defaultVal
	}
}

// componentMetadata represents a type of component. It is used to identify
// a component when getting or setting the component of an entity.
type componentMetadata[T types.Component] struct {
	isIDSet    bool
	id         types.ComponentID
	compType   reflect.Type
	name       string
	schema     []byte
	defaultVal *T
}

// NewComponentMetadata creates a new component type.
func NewComponentMetadata[T types.Component](opts ...Option[T]) (types.ComponentMetadata, error) {
	var t T
	compType := reflect.TypeOf(t)

	schema, err := jsonschema.ReflectFromType(compType).MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}

	compMetadata := &componentMetadata[T]{
		compType: compType,
		name:     t.Name(),
		schema:   schema,
	}
	for _, opt := range opts {
		opt(compMetadata)
	}

	return compMetadata, nil
}

func (c *componentMetadata[T]) GetSchema() []byte {
	return c.schema
}

// SetID sets this component's ID. It must be unique across the world object.
func (c *componentMetadata[T]) SetID(id types.ComponentID) error {
	if c.isIDSet {
		// Components are usually initialized one time on startup. In tests
		// it's often useful to reuse the same component across worlds, so
		// re-initialization is allowed as long as the ID doesn't change.
		if id == c.id {
			return nil
		}
		return eris.Errorf("id for component %v is already set to %v, cannot change to %v", c, c.id, id)
	}
	if id < 0 || id >= types.MaxComponentTypes {
		return eris.Errorf("component id %v is out of range [0, %d)", id, types.MaxComponentTypes)
	}
	c.id = id
	c.isIDSet = true
	return nil
}

// String returns the component type name.
func (c *componentMetadata[T]) String() string {
	return c.name
}

// Name returns the component type name.
func (c *componentMetadata[T]) Name() string {
	return c.name
}

// ID returns the component type id.
func (c *componentMetadata[T]) ID() types.ComponentID {
	return c.id
}

// New returns the default value for this component type.
func (c *componentMetadata[T]) New() (types.Component, error) {
	if c.defaultVal != nil {
		// Copy so callers can't mutate the registered default.
		return codec.DeepCopy(*c.defaultVal)
	}
	var t T
	return t, nil
}

// Encode marshals a value of this component type to JSON bytes.
func (c *componentMetadata[T]) Encode(v any) ([]byte, error) {
	if err := c.Validate(v); err != nil {
		return nil, err
	}
	return codec.Encode(v)
}

// Decode unmarshals JSON bytes into a value of this component type.
func (c *componentMetadata[T]) Decode(bz []byte) (types.Component, error) {
	return codec.Decode[T](bz)
}

// Validate reports whether v is a value (or pointer to a value) of this
// component type.
func (c *componentMetadata[T]) Validate(v any) error {
	if _, ok := v.(T); ok {
		return nil
	}
	if _, ok := v.(*T); ok {
		return nil
	}
	return eris.Errorf("value of type %T is not a %q component", v, c.name)
}
