package h3_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclingo/internal/config"
	"doclingo/internal/port"
	"doclingo/internal/transport/h3"
)

func TestFactory_NameAndClose(t *testing.T) {
	tr, err := h3.Factory(config.DefaultTransportConfig())
	require.NoError(t, err)

	assert.Equal(t, h3.Name, tr.Name())
	assert.NoError(t, tr.Close())
	assert.NoError(t, tr.Close())
}

func TestTransport_UnreachableServerFails(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := conn.LocalAddr().String()
	require.NoError(t, conn.Close())

	tr := h3.New(nil)
	defer func() { _ = tr.Close() }()

	req := port.NewRequest(http.MethodGet, "https://"+addr+"/health").
		Timeout(300 * time.Millisecond).
		Build()
	resp, err := tr.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.Error(t, err)
}
