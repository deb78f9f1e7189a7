package client

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/session"
	"github.com/suiticket/v1/client/core/ticketing"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/transport/transporttest"
)

func TestNewWithTransportReadOnly(t *testing.T) {
	fake := transporttest.New()
	c, err := NewWithTransport(fake, config.Testnet, Options{Cache: &transport.CacheConfig{}})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, config.Testnet, c.Env())
	assert.Equal(t, config.Testnet, c.Reconciler().Env())
	assert.NotEmpty(t, c.Market().Stages())
	require.NoError(t, c.Refresh())

	quote, err := c.Quote(context.Background(), 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_075_000_000), quote.TotalCost)
	assert.Equal(t, fees.SourceFallback, quote.Royalty.Source)

	// 没有钱包时写操作被拦截
	sess := session.New(config.Testnet, "0x"+strings.Repeat("a", 64))
	res := c.Actions().CreateKiosk(context.Background(), sess)
	assert.False(t, res.OK())
	assert.Equal(t, ticketing.StatusNotConnected, res.Status)
}

func TestNewWithTransportUnknownEnv(t *testing.T) {
	_, err := NewWithTransport(transporttest.New(), config.Environment("localnet"), Options{})
	assert.Error(t, err)
}

func TestProfileToTransportConfig(t *testing.T) {
	p := config.DefaultProfile(config.Testnet)
	p.Endpoints = nil
	cfg := ProfileToTransportConfig(p)
	require.Len(t, cfg.Endpoints, 1)
	assert.Equal(t, config.Testnet.RPCEndpoint(), cfg.Endpoints[0].JSONRPC)
}
