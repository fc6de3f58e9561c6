package discovery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclingo/internal/config"
	"doclingo/internal/discovery"
	"doclingo/internal/domain"
	"doclingo/internal/port"
	"doclingo/mocks"
)

func namedTransport(name string) discovery.TransportFactory {
	return func(_ *config.TransportConfig) (port.Transport, error) {
		tr := &mocks.MockTransport{}
		tr.On("Name").Return(name)
		return tr, nil
	}
}

func namedSerializer(name string) discovery.SerializerFactory {
	return func() (port.Serializer, error) {
		s := &mocks.MockSerializer{}
		s.On("Name").Return(name)
		return s, nil
	}
}

func TestRegistry_EmptyFailsWithConfigError(t *testing.T) {
	r := discovery.New()

	tr, err := r.FirstTransport(nil)
	assert.Nil(t, tr)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, discovery.CapabilityTransport, cfgErr.Capability)
	assert.ErrorIs(t, err, domain.ErrNoImplementation)
	assert.Contains(t, err.Error(), "transport")
	assert.Contains(t, err.Error(), "Builder.Transport")

	s, err := r.FirstSerializer()
	assert.Nil(t, s)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, discovery.CapabilitySerializer, cfgErr.Capability)
	assert.Contains(t, err.Error(), "serializer")
}

func TestRegistry_FirstRegisteredWins(t *testing.T) {
	r := discovery.New()
	r.RegisterTransport("a", namedTransport("a"))
	r.RegisterTransport("b", namedTransport("b"))
	r.RegisterSerializer("x", namedSerializer("x"))
	r.RegisterSerializer("y", namedSerializer("y"))

	tr, err := r.FirstTransport(nil)
	require.NoError(t, err)
	assert.Equal(t, "a", tr.Name())

	s, err := r.FirstSerializer()
	require.NoError(t, err)
	assert.Equal(t, "x", s.Name())

	assert.Equal(t, []string{"a", "b"}, r.Transports())
	assert.Equal(t, []string{"x", "y"}, r.Serializers())
}

func TestRegistry_ReRegisterKeepsPosition(t *testing.T) {
	r := discovery.New()
	r.RegisterTransport("a", namedTransport("a-old"))
	r.RegisterTransport("b", namedTransport("b"))
	r.RegisterTransport("a", namedTransport("a-new"))

	assert.Equal(t, []string{"a", "b"}, r.Transports())
	tr, err := r.FirstTransport(nil)
	require.NoError(t, err)
	assert.Equal(t, "a-new", tr.Name())
}

func TestRegistry_NewByName(t *testing.T) {
	r := discovery.New()
	r.RegisterTransport("a", namedTransport("a"))
	r.RegisterTransport("b", namedTransport("b"))
	r.RegisterSerializer("x", namedSerializer("x"))

	tr, err := r.NewTransport("b", nil)
	require.NoError(t, err)
	assert.Equal(t, "b", tr.Name())

	_, err = r.NewTransport("missing", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownPlugin)
	assert.Contains(t, err.Error(), "missing")

	_, err = r.NewSerializer("missing")
	assert.ErrorIs(t, err, domain.ErrUnknownPlugin)
}

func TestRegistry_FactoryReceivesDefaultConfig(t *testing.T) {
	r := discovery.New()
	var got *config.TransportConfig
	r.RegisterTransport("a", func(cfg *config.TransportConfig) (port.Transport, error) {
		got = cfg
		return &mocks.MockTransport{}, nil
	})

	_, err := r.NewTransport("a", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, config.DefaultTransportConfig(), got)
}

func TestRegistry_FactoryErrorPropagates(t *testing.T) {
	r := discovery.New()
	boom := errors.New("cannot dial")
	r.RegisterTransport("a", func(*config.TransportConfig) (port.Transport, error) { return nil, boom })

	_, err := r.FirstTransport(nil)
	assert.ErrorIs(t, err, boom)
}
