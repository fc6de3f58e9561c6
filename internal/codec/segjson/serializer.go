// Package segjson implements port.Serializer with segmentio/encoding/json.
package segjson

import (
	json "github.com/segmentio/encoding/json"

	"doclingo/internal/port"
)

// Name identifies this serializer in the plugin registry.
const Name = "segmentio"

// Serializer encodes values with segmentio/encoding/json.
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
