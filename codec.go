package hatchery

import (
	"bytes"
	"encoding/gob"

	"github.com/bytedance/sonic"
)

// Codec encodes and decodes the values that cross a process boundary: the
// spawn parameter handed off through the context file, and values sent over a
// channel with Endpoint.Send/Recv. The wire format is opaque to this package;
// both sides only need to agree on the codec, which they do automatically
// because parent and child run the same binary.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// DefaultCodec is used by Register, Spawn and newly created channel pairs.
// Override it during startup, before any Register call, or the parent and a
// re-executed child may disagree on the format.
var DefaultCodec Codec = GobCodec{}

// GobCodec is the default Codec. Gob is self-describing and round-trips
// arbitrary Go values (including exact integer types) without shared schema,
// which is what the parameter handoff needs.
type GobCodec struct{}

func (GobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// JSONCodec is an alternative Codec for callers that want a stable,
// inspectable wire format, for example when worker output is archived or the
// two sides may run different builds. Decoding targets the concrete type the
// entry was registered with, so JSON's loose number handling is not a problem
// in practice.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}
