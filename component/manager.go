package component

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/strata-engine/strata/types"
)

var (
	ErrComponentNotRegistered = eris.New("component not registered")
	ErrComponentRegistered    = eris.New("component is already registered")
	ErrSchemaMismatch         = eris.New("component schema does not match registered schema")
)

// Manager owns one world's component registry. It hands out dense
// ComponentIDs in registration order, starting at 0 so IDs index directly
// into layout masks.
type Manager struct {
	registeredComponents map[string]types.ComponentMetadata
	componentsByID       []types.ComponentMetadata
	mask                 types.Mask
}

// NewManager creates a new component manager.
func NewManager() *Manager {
	return &Manager{
		registeredComponents: make(map[string]types.ComponentMetadata),
	}
}

// Register registers a component with the component manager. There can only
// be one component with a given name, which is declared by the user by
// implementing the Name() method. Registering the same name twice is an
// error, unless both registrations carry an identical schema, in which case
// the call is a no-op.
func (m *Manager) Register(compMetadata types.ComponentMetadata) error {
	if existing, ok := m.registeredComponents[compMetadata.Name()]; ok {
		matches, err := types.IsSchemaValid(existing.GetSchema(), compMetadata.GetSchema())
		if err != nil {
			return err
		}
		if !matches {
			return eris.Wrap(ErrSchemaMismatch,
				fmt.Sprintf("component %q is already registered with a different schema", compMetadata.Name()))
		}
		return compMetadata.SetID(existing.ID())
	}

	if err := compMetadata.SetID(types.ComponentID(len(m.componentsByID))); err != nil {
		return err
	}
	m.registeredComponents[compMetadata.Name()] = compMetadata
	m.componentsByID = append(m.componentsByID, compMetadata)
	m.mask.Set(compMetadata.ID())
	return nil
}

// GetComponents returns all registered components in ID order.
func (m *Manager) GetComponents() []types.ComponentMetadata {
	registeredComponents := make([]types.ComponentMetadata, len(m.componentsByID))
	copy(registeredComponents, m.componentsByID)
	return registeredComponents
}

// GetComponentByName returns the component metadata for the given component name.
func (m *Manager) GetComponentByName(name string) (types.ComponentMetadata, error) {
	c, ok := m.registeredComponents[name]
	if !ok {
		return nil, eris.Wrap(ErrComponentNotRegistered, fmt.Sprintf("component %q is not registered", name))
	}
	return c, nil
}

// GetComponentByID returns the component metadata for the given ComponentID.
func (m *Manager) GetComponentByID(id types.ComponentID) (types.ComponentMetadata, error) {
	if int(id) < 0 || int(id) >= len(m.componentsByID) {
		return nil, eris.Wrap(ErrComponentNotRegistered, fmt.Sprintf("component id %d is not registered", id))
	}
	return m.componentsByID[id], nil
}

// Mask returns the set of all registered ComponentIDs. This is the component
// universe a world split partitions.
func (m *Manager) Mask() types.Mask {
	return m.mask
}

// Count returns the number of registered component types.
func (m *Manager) Count() int {
	return len(m.componentsByID)
}
