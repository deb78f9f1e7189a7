package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/suiticket/v1/internal/api/http/types"
)

// RateLimit 按客户端 IP 限流
type RateLimit struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	swept    time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimit 每个 IP 每分钟最多 perMinute 个请求，允许同等大小的突发
func NewRateLimit(perMinute int) *RateLimit {
	return &RateLimit{
		limiters: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		idle:     10 * time.Minute,
	}
}

func (m *RateLimit) allow(ip string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[ip] = v
	}
	v.lastSeen = now

	if now.Sub(m.swept) > m.idle {
		for k, other := range m.limiters {
			if now.Sub(other.lastSeen) > m.idle {
				delete(m.limiters, k)
			}
		}
		m.swept = now
	}
	return v.limiter.AllowN(now, 1)
}

// Middleware 返回 Gin 中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.allow(c.ClientIP(), time.Now()) {
			WriteError(c, http.StatusTooManyRequests, types.ErrRateLimitExceeded, "too many requests")
			return
		}
		c.Next()
	}
}
