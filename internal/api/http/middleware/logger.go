package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	infralog "github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// Logger 记录每个请求的访问日志，logger 为 nil 时不记录
func Logger(logger infralog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger == nil {
			c.Next()
			return
		}
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		zl := logger.GetZapLogger()
		if zl == nil {
			logger.Infof("HTTP request | id=%s method=%s path=%s?%s status=%d latency=%s",
				GetRequestID(c), c.Request.Method, path, query, status, latency)
			return
		}
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			zl.Error("HTTP request", fields...)
		case status >= 400:
			zl.Warn("HTTP request", fields...)
		default:
			zl.Info("HTTP request", fields...)
		}
	}
}
