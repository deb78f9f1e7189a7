package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/suiticket/v1/client"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/transport"
	httpapi "github.com/suiticket/v1/internal/api/http"
	"github.com/suiticket/v1/internal/api/http/handlers"
	apiconfig "github.com/suiticket/v1/internal/config/api"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// serveCmd 启动 HTTP 读接口
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 读接口",
	Long: `启动只读 HTTP 接口，提供实体查询、挂单、费用与未签名的购买交易包。
服务不持有任何密钥，交易包由调用方自行签名提交。`,
	RunE: runServe,
}

// serveCacheWindow 常驻服务的对象缓存时间，过期后重新读取
const serveCacheWindow = 30 * time.Second

var serveFlags struct {
	host      string
	port      int
	networks  string
	rateLimit int
	timeout   time.Duration
}

// parseNetworks 解析逗号分隔的网络列表，空串表示全部网络
func parseNetworks(s string) ([]config.Environment, error) {
	if strings.TrimSpace(s) == "" {
		return config.Environments(), nil
	}
	var envs []config.Environment
	seen := make(map[config.Environment]bool)
	for _, part := range strings.Split(s, ",") {
		env, err := config.ParseEnvironment(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if !seen[env] {
			seen[env] = true
			envs = append(envs, env)
		}
	}
	return envs, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	envs, err := parseNetworks(serveFlags.networks)
	if err != nil {
		return err
	}

	clients := make(handlers.Clients, len(envs))
	defer func() {
		for _, c := range clients {
			_ = c.Close()
		}
	}()
	for _, env := range envs {
		p, err := profileFor(env)
		if err != nil {
			return err
		}
		c, err := client.New(p, client.Options{
			Logger:  logger,
			Bus:     bus,
			Cache:   &transport.CacheConfig{LifeWindow: serveCacheWindow},
			Workers: globalFlags.Workers,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		clients[env] = c
	}

	user := &apiconfig.UserHTTPConfig{}
	f := cmd.Flags()
	if f.Changed("host") {
		user.Host = &serveFlags.host
	}
	if f.Changed("port") {
		user.Port = &serveFlags.port
	}
	if f.Changed("rate-limit") {
		user.RateLimitRequestsPerMinute = &serveFlags.rateLimit
	}
	if f.Changed("timeout") {
		user.RequestTimeout = &serveFlags.timeout
	}
	cfg := apiconfig.New(user)

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			func() apiconfig.HTTPConfig { return cfg },
			func() handlers.Backends { return clients },
			func() log.Logger { return logger },
			fx.Annotate(func() string { return version }, fx.ResultTags(`name:"api_version"`)),
		),
		httpapi.Module(),
	)

	startCtx, cancel := context.WithTimeout(cmd.Context(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	formatter.PrintInfo(fmt.Sprintf("HTTP 读接口监听 %s，网络: %v", cfg.Addr(), envs))

	select {
	case <-cmd.Context().Done():
	case <-app.Done():
	}
	stopCtx, stop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stop()
	return app.Stop(stopCtx)
}

func init() {
	f := serveCmd.Flags()
	def := apiconfig.Default()
	f.StringVar(&serveFlags.host, "host", def.Host, "监听地址")
	f.IntVar(&serveFlags.port, "port", def.Port, "监听端口")
	f.StringVar(&serveFlags.networks, "networks", "", "提供服务的网络，逗号分隔 (默认全部)")
	f.IntVar(&serveFlags.rateLimit, "rate-limit", def.RateLimitRequestsPerMinute, "每个客户端每分钟请求数，0 不限流")
	f.DurationVar(&serveFlags.timeout, "timeout", def.RequestTimeout, "单个请求超时")
}
