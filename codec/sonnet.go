package codec

import "github.com/sugawarayuuta/sonnet"

// Sonnet is a JSON codec backed by github.com/sugawarayuuta/sonnet. Its
// output is plain JSON, readable by the other codecs.
type Sonnet struct{}

// Marshal encodes the value to JSON.
func (Sonnet) Marshal(v any) ([]byte, error) { return sonnet.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (Sonnet) Unmarshal(data []byte, v any) error { return sonnet.Unmarshal(data, v) }

// Name returns the unique name of the codec ("sonnet").
func (Sonnet) Name() string { return "sonnet" }
