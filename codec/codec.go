// Package codec encodes the self-describing parts of persisted formats.
//
// Snapshots record the codec name in their header and pick the decoder with
// ByName, so changing Default never breaks existing files.
package codec

import "fmt"

// Codec encodes and decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used for new snapshots.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case JSON{}.Name():
		return JSON{}, true
	case GoJSON{}.Name():
		return GoJSON{}, true
	case Sonnet{}.Name():
		return Sonnet{}, true
	default:
		return nil, false
	}
}

// MustMarshal marshals v with c, or Default when c is nil, and panics on
// error.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
