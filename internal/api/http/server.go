// Package http 提供票务读接口的 HTTP 服务
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suiticket/v1/internal/api/http/handlers"
	"github.com/suiticket/v1/internal/api/http/middleware"
	"github.com/suiticket/v1/internal/api/http/types"
	apiconfig "github.com/suiticket/v1/internal/config/api"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// Server HTTP 读接口服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	config     apiconfig.HTTPConfig
	logger     log.Logger
	done       chan error
}

// NewServer 创建服务器并注册路由，logger 可为 nil
func NewServer(cfg apiconfig.HTTPConfig, backends handlers.Backends, version string, logger log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	if logger != nil {
		logger = logger.With("module", log.ModuleAPI)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.BodyLimit(cfg.MaxRequestSize),
	)
	if cfg.RateLimitRequestsPerMinute > 0 {
		router.Use(middleware.NewRateLimit(cfg.RateLimitRequestsPerMinute).Middleware())
	}

	s := &Server{router: router, config: cfg, logger: logger}
	s.setupRoutes(handlers.New(backends, cfg.RequestTimeout, version, logger))
	return s
}

func (s *Server) setupRoutes(h *handlers.Handler) {
	s.router.GET("/health", h.Health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1/:env")
	{
		v1.GET("/profiles/organizer/:owner", h.Organizer)
		v1.GET("/profiles/user/:owner", h.User)
		v1.GET("/accounts/:owner/tickets", h.OwnedTickets)
		v1.GET("/activities/:id", h.Activity)
		v1.GET("/tickets/:id", h.Ticket)
		v1.GET("/kiosks/:id/listings", h.Listings)
		v1.GET("/policy", h.Policy)
		v1.GET("/fees", h.Fees)
		v1.POST("/bundles/purchase-listed", h.PurchaseListed)
	}

	s.router.NoRoute(func(c *gin.Context) {
		middleware.WriteError(c, http.StatusNotFound, types.ErrNotFound, "route not found")
	})
}

// Handler 返回路由，供测试与嵌入使用
func (s *Server) Handler() http.Handler { return s.router }

// Start 监听端口并在后台提供服务
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr(), err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}
	s.done = make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	if s.logger != nil {
		s.logger.Infof("HTTP读接口已启动: %s", ln.Addr())
	}
	return nil
}

// Addr 实际监听地址，端口配置为 0 时由系统分配
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr()
	}
	return s.listener.Addr().String()
}

// Stop 等待活跃请求完成后关闭，最多等待 5 秒
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("HTTP读接口已关闭")
	}
	return <-s.done
}
