// Package codec marshals component values to and from JSON bytes.
package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

func Decode[T any](bz []byte) (T, error) {
	comp := new(T)
	err := json.Unmarshal(bz, comp)
	if err != nil {
		return *comp, eris.Wrap(err, "")
	}
	return *comp, nil
}

func Encode(comp any) ([]byte, error) {
	bz, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}

// DeepCopy clones a component value through an encode/decode round trip.
// Used by duplicating merges so source and target never share pointers.
func DeepCopy[T any](comp T) (T, error) {
	bz, err := Encode(comp)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](bz)
}
