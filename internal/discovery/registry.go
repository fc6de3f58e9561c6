// Package discovery is the process-wide registry of transport and serializer
// plugins. Importing doclingo/internal/plugins registers all bundled plugins
// into Default in a fixed order.
//
// When a client is built without an explicit implementation, the first
// registered candidate of the capability wins.
package discovery

import (
	"fmt"
	"sync"

	"doclingo/internal/config"
	"doclingo/internal/domain"
	"doclingo/internal/port"
)

const (
	CapabilityTransport  = "transport"
	CapabilitySerializer = "serializer"
)

// TransportFactory creates a Transport. cfg is never nil.
type TransportFactory func(cfg *config.TransportConfig) (port.Transport, error)

// SerializerFactory creates a Serializer.
type SerializerFactory func() (port.Serializer, error)

type entry[F any] struct {
	name    string
	factory F
}

// Registry holds plugin factories per capability in registration order.
type Registry struct {
	mu          sync.RWMutex
	transports  []entry[TransportFactory]
	serializers []entry[SerializerFactory]
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

func upsert[F any](entries []entry[F], name string, factory F) []entry[F] {
	for i := range entries {
		if entries[i].name == name {
			entries[i].factory = factory
			return entries
		}
	}
	return append(entries, entry[F]{name: name, factory: factory})
}

func names[F any](entries []entry[F]) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func lookup[F any](entries []entry[F], name string) (F, bool) {
	for _, e := range entries {
		if e.name == name {
			return e.factory, true
		}
	}
	var zero F
	return zero, false
}

// RegisterTransport adds a transport factory. Registering an existing name
// replaces its factory and keeps its position.
func (r *Registry) RegisterTransport(name string, factory TransportFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transports = upsert(r.transports, name, factory)
}

// RegisterSerializer adds a serializer factory with the same replace semantics
// as RegisterTransport.
func (r *Registry) RegisterSerializer(name string, factory SerializerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers = upsert(r.serializers, name, factory)
}

// Transports returns registered transport names in registration order.
func (r *Registry) Transports() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return names(r.transports)
}

// Serializers returns registered serializer names in registration order.
func (r *Registry) Serializers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return names(r.serializers)
}

// NewTransport creates the transport registered under name.
func (r *Registry) NewTransport(name string, cfg *config.TransportConfig) (port.Transport, error) {
	r.mu.RLock()
	factory, ok := lookup(r.transports, name)
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: transport %q (registered: %v)", domain.ErrUnknownPlugin, name, r.Transports())
	}
	if cfg == nil {
		cfg = config.DefaultTransportConfig()
	}
	return factory(cfg)
}

// NewSerializer creates the serializer registered under name.
func (r *Registry) NewSerializer(name string) (port.Serializer, error) {
	r.mu.RLock()
	factory, ok := lookup(r.serializers, name)
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: serializer %q (registered: %v)", domain.ErrUnknownPlugin, name, r.Serializers())
	}
	return factory()
}

// FirstTransport creates the first registered transport. It fails with a
// *domain.ConfigError when none is registered.
func (r *Registry) FirstTransport(cfg *config.TransportConfig) (port.Transport, error) {
	r.mu.RLock()
	if len(r.transports) == 0 {
		r.mu.RUnlock()
		return nil, &domain.ConfigError{
			Capability: CapabilityTransport,
			Hint:       `pass one with Builder.Transport or link the bundled plugins with import _ "doclingo/internal/plugins"`,
		}
	}
	name := r.transports[0].name
	r.mu.RUnlock()
	return r.NewTransport(name, cfg)
}

// FirstSerializer creates the first registered serializer. It fails with a
// *domain.ConfigError when none is registered.
func (r *Registry) FirstSerializer() (port.Serializer, error) {
	r.mu.RLock()
	if len(r.serializers) == 0 {
		r.mu.RUnlock()
		return nil, &domain.ConfigError{
			Capability: CapabilitySerializer,
			Hint:       `pass one with Builder.Serializer or link the bundled plugins with import _ "doclingo/internal/plugins"`,
		}
	}
	name := r.serializers[0].name
	r.mu.RUnlock()
	return r.NewSerializer(name)
}

var defaultRegistry = New()

// Default returns the process-wide registry plugins register into.
func Default() *Registry {
	return defaultRegistry
}

// RegisterTransport registers a transport factory with the default registry.
func RegisterTransport(name string, factory TransportFactory) {
	defaultRegistry.RegisterTransport(name, factory)
}

// RegisterSerializer registers a serializer factory with the default registry.
func RegisterSerializer(name string, factory SerializerFactory) {
	defaultRegistry.RegisterSerializer(name, factory)
}
