package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMergesUserConfig(t *testing.T) {
	assert.Equal(t, Default(), New(nil))

	port := 0
	rpm := 0
	timeout := 5 * time.Second
	cfg := New(&UserHTTPConfig{Port: &port, RateLimitRequestsPerMinute: &rpm, RequestTimeout: &timeout})
	assert.Equal(t, 0, cfg.Port)
	assert.Equal(t, 0, cfg.RateLimitRequestsPerMinute)
	assert.Equal(t, timeout, cfg.RequestTimeout)
	assert.Equal(t, defaultHTTPHost, cfg.Host)
	assert.Equal(t, "127.0.0.1:0", cfg.Addr())
}
