// Package handlers 实现票务读接口
//
// 每个请求绑定路径中的网络环境，读取链上实体后以 {data} 包装返回；
// 失败时返回 {error:{code,message}}。接口只读，不持有任何密钥。
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suiticket/v1/client"
	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/internal/api/http/middleware"
	"github.com/suiticket/v1/internal/api/http/types"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// Backends 按网络环境提供客户端
type Backends interface {
	Backend(env config.Environment) (*client.Client, bool)
}

// Clients 以 map 实现 Backends
type Clients map[config.Environment]*client.Client

// Backend 实现 Backends
func (m Clients) Backend(env config.Environment) (*client.Client, bool) {
	c, ok := m[env]
	return c, ok
}

// Handler 读接口处理器
type Handler struct {
	backends Backends
	timeout  time.Duration
	logger   log.Logger
	started  time.Time
	version  string
}

// New 创建处理器，timeout 为单个请求的节点调用总时限
func New(backends Backends, timeout time.Duration, version string, logger log.Logger) *Handler {
	if logger != nil {
		logger = logger.With("module", log.ModuleAPI)
	}
	return &Handler{backends: backends, timeout: timeout, logger: logger, started: time.Now(), version: version}
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// client 解析路径中的 :env
func (h *Handler) client(c *gin.Context) (*client.Client, bool) {
	env, err := config.ParseEnvironment(c.Param("env"))
	if err != nil {
		middleware.WriteError(c, http.StatusNotFound, types.ErrUnknownNetwork, err.Error())
		return nil, false
	}
	cl, ok := h.backends.Backend(env)
	if !ok {
		middleware.WriteError(c, http.StatusNotFound, types.ErrUnknownNetwork,
			fmt.Sprintf("network %s is not served", env))
		return nil, false
	}
	return cl, true
}

// address 校验并规范化路径参数中的地址或对象ID
func address(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := config.ParseAddress(raw); err != nil {
		middleware.WriteError(c, http.StatusBadRequest, types.ErrInvalidArgument,
			fmt.Sprintf("invalid %s %q: %v", name, raw, err))
		return "", false
	}
	return config.NormalizeAddress(raw), true
}

func respond(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, types.NewSuccessResponse(data).WithRequestID(middleware.GetRequestID(c)))
}

// fail 把核心层错误映射为 HTTP 状态与错误码
func (h *Handler) fail(c *gin.Context, err error) {
	status, code := http.StatusBadGateway, types.ErrUpstream
	switch {
	case errors.Is(err, transport.ErrObjectNotFound), errors.Is(err, reconcile.ErrUnexpectedType):
		status, code = http.StatusNotFound, types.ErrNotFound
	case errors.Is(err, builder.ErrNotDeployed):
		status, code = http.StatusNotFound, types.ErrNotDeployed
	case errors.Is(err, builder.ErrInvalidArgument), errors.Is(err, builder.ErrInvalidAmount),
		errors.Is(err, builder.ErrNegativeAmount), errors.Is(err, builder.ErrAmountOverflow):
		status, code = http.StatusBadRequest, types.ErrInvalidArgument
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= 500 && h.logger != nil {
		h.logger.Warnf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	_ = c.Error(err)
	middleware.WriteError(c, status, code, err.Error())
}
