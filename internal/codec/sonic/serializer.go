// Package sonic implements port.Serializer with bytedance/sonic.
//
// ConfigStd is used so map keys are sorted and HTML is escaped the same way
// encoding/json does; on platforms sonic does not JIT for it falls back to
// the standard library internally.
package sonic

import (
	gosonic "github.com/bytedance/sonic"

	"doclingo/internal/port"
)

// Name identifies this serializer in the plugin registry.
const Name = "sonic"

var api = gosonic.ConfigStd

type Serializer struct{}

func New() *Serializer { return &Serializer{} }

// Factory adapts New to discovery.SerializerFactory.
func Factory() (port.Serializer, error) {
	return New(), nil
}

func (Serializer) Marshal(v any) ([]byte, error)      { return api.Marshal(v) }
func (Serializer) Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }
func (Serializer) Name() string                       { return Name }
