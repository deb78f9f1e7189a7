package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suiticket/v1/internal/core/infrastructure/metrics"
)

// Metrics 请求计数与耗时
//
// path 标签使用路由模板(如 /v1/:env/tickets/:id)，未匹配路由记为 "unmatched"，
// 避免对象ID进入标签。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.APIRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
