// Package stdjson implements port.Serializer with encoding/json. It is the
// default serializer when plugins are discovered.
package stdjson

import (
	"encoding/json"

	"doclingo/internal/port"
)

// Name identifies this serializer in the plugin registry.
const Name = "encoding/json"

// Serializer encodes values with encoding/json.
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
	return json.Marshal(v)
}

func (Serializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Serializer) Name() string {
	return Name
}
