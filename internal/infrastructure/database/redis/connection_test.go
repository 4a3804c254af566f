package redis

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pharmacy-checkout/internal/config"
)

func testConfig(t *testing.T, addr string) *config.Config {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return &config.Config{Redis: config.RedisConfig{Host: host, Port: port, PoolSize: 2}}
}

func TestNewConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := NewConnection(testConfig(t, mr.Addr()), logger)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestNewConnection_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err := NewConnection(testConfig(t, addr), logger)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
