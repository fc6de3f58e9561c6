// Package jsoniter implements port.Serializer with json-iterator/go.
package jsoniter

import (
	jsoniterator "github.com/json-iterator/go"

	"doclingo/internal/port"
)

// Name identifies this serializer in the plugin registry.
const Name = "jsoniter"

// api keeps struct tag, TextMarshaler and error semantics identical to encoding/json.
var api = jsoniterator.ConfigCompatibleWithStandardLibrary

// Serializer encodes values with json-iterator.
type Serializer struct{}

// New returns a Serializer.
func New() *Serializer {
	return &Serializer{}
}

// Factory adapts New to discovery.SerializerFactory.
func Factory() (port.Serializer, error) {
	return New(), nil
}

func (Serializer) Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func (Serializer) Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

func (Serializer) Name() string {
	return Name
}
