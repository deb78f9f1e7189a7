package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suiticket/v1/internal/api/http/types"
	infralog "github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// Recovery 捕获处理器 panic 并返回统一错误响应
func Recovery(logger infralog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if logger != nil {
					logger.Errorf("panic in handler %s: %v", c.FullPath(), r)
				}
				WriteError(c, http.StatusInternalServerError, types.ErrInternal, fmt.Sprintf("internal error: %v", r))
			}
		}()
		c.Next()
	}
}

// WriteError 写入错误响应并终止处理链
func WriteError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, types.NewErrorResponse(code, message, GetRequestID(c)))
}

// BodyLimit 限制请求体大小，limit<=0 时不限制
func BodyLimit(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.ContentLength > int64(limit) {
			WriteError(c, http.StatusRequestEntityTooLarge, types.ErrRequestTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", limit))
			return
		}
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(limit))
		}
		c.Next()
	}
}
