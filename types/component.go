package types

import (
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

// ComponentID is the dense identifier a world's component manager assigns to a
// registered component type. IDs index into layout masks, so they must stay
// below MaxComponentTypes.
type ComponentID int

// MaxComponentTypes is the number of distinct component types a single world
// can register.
const MaxComponentTypes = 256

// Component is the interface user-defined component structs implement.
type Component interface {
	// Name returns the name of the component. Two component types with the
	// same name are treated as the same type.
	Name() string
}

// ComponentMetadata wraps a user-defined Component struct with the
// functionality the engine needs to store and move its values.
type ComponentMetadata interface { //revive:disable-line:exported
	// SetID sets the ComponentID of this component. It must only be set once.
	SetID(ComponentID) error
	// ID returns the ComponentID of the component.
	ID() ComponentID
	// New returns a freshly constructed default value for the component.
	New() (Component, error)
	// Encode marshals a component value to JSON bytes.
	Encode(any) ([]byte, error)
	// Decode unmarshals JSON bytes into a component value.
	Decode([]byte) (Component, error)
	// Validate reports whether the given value is of this component's type.
	Validate(any) error
	// GetSchema returns the JSON schema of the component struct.
	GetSchema() []byte

	Component
}

// SerializeComponentSchema reflects the JSON schema of a component struct.
func SerializeComponentSchema(component Component) ([]byte, error) {
	componentSchema := jsonschema.Reflect(component)
	schema, err := componentSchema.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}
	return schema, nil
}

// IsSchemaValid returns true if two component schemas are identical.
func IsSchemaValid(jsonSchemaBytes1 []byte, jsonSchemaBytes2 []byte) (bool, error) {
	patch, err := jsondiff.CompareJSON(jsonSchemaBytes1, jsonSchemaBytes2)
	if err != nil {
		return false, eris.Wrap(err, "")
	}
	return patch.String() == "", nil
}

// ConvertComponentMetadatasToComponents casts a slice of ComponentMetadata
// into a slice of Component.
func ConvertComponentMetadatasToComponents(comps []ComponentMetadata) []Component {
	ret := make([]Component, len(comps))
	for i, comp := range comps {
		ret[i] = comp
	}
	return ret
}
