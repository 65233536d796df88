package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes with github.com/goccy/go-json. It is Default, so snapshot
// descriptors written without WithCodec carry the name "go-json".
type GoJSON struct{}

// Marshal implements Codec.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal implements Codec. Unknown descriptor fields are ignored.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name implements Codec.
func (GoJSON) Name() string { return "go-json" }
