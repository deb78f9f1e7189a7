package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient 只实现参考Gas价格查询
type stubClient struct {
	Client
	price  uint64
	err    error
	calls  int
	closed bool
}

func (s *stubClient) GetReferenceGasPrice(context.Context) (uint64, error) {
	s.calls++
	return s.price, s.err
}

func (s *stubClient) Close() error {
	s.closed = true
	return nil
}

func testFallbackConfig() ClientConfig {
	return ClientConfig{
		RetryAttempts:       3,
		RetryBackoff:        time.Millisecond,
		HealthCheckInterval: -1,
	}
}

func TestFallbackClientFailsOver(t *testing.T) {
	primary := &stubClient{err: errors.New("connection refused")}
	secondary := &stubClient{price: 750}

	fc, err := newFallbackClient(testFallbackConfig(), []namedClient{
		{Name: "backup", Priority: 2, Client: secondary},
		{Name: "primary", Priority: 1, Client: primary},
	})
	require.NoError(t, err)
	defer fc.Close()

	price, err := fc.GetReferenceGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(750), price)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)

	// 失败的端点被标记为不健康，后续请求直接走备用端点
	_, err = fc.GetReferenceGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallbackClientAllEndpointsFail(t *testing.T) {
	boom := errors.New("boom")
	only := &stubClient{err: boom}

	fc, err := newFallbackClient(testFallbackConfig(), []namedClient{{Name: "only", Client: only}})
	require.NoError(t, err)

	_, err = fc.GetReferenceGasPrice(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "all endpoints failed")
	assert.Equal(t, 3, only.calls)

	require.NoError(t, fc.Close())
	require.NoError(t, fc.Close())
	assert.True(t, only.closed)
}

func TestFallbackClientStopsOnCancel(t *testing.T) {
	only := &stubClient{err: errors.New("down")}
	cfg := testFallbackConfig()
	cfg.RetryBackoff = time.Hour

	fc, err := newFallbackClient(cfg, []namedClient{{Name: "only", Client: only}})
	require.NoError(t, err)
	defer fc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fc.GetReferenceGasPrice(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, only.calls)
}

func TestNewFallbackClientRequiresEndpoints(t *testing.T) {
	_, err := NewFallbackClient(ClientConfig{})
	assert.Error(t, err)
}
