// Package client 装配票务客户端的各个核心组件
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/market"
	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/ticketing"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/wallet"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/event"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// Options 客户端装配选项
type Options struct {
	Registry *config.Registry // 为空时使用内置注册表
	Wallet   wallet.Wallet    // 为空时只能读取，写操作返回"请先连接钱包"
	Bus      event.EventBus
	Logger   log.Logger

	// Cache 非空时为对象查询加一层内存缓存
	Cache *transport.CacheConfig

	// Workers 挂单并发物化的协程数，<=1 时顺序执行
	Workers int

	// SettleDelay 写操作提交后的等待时间，为空时使用默认值
	SettleDelay *time.Duration
}

// Client 票务客户端统一入口，绑定单个网络环境
//
// 读取、费用计算、挂单聚合与写操作共享同一个节点连接。
type Client struct {
	env       config.Environment
	registry  *config.Registry
	transport transport.Client
	cache     *transport.CachingClient
	service   *ticketing.Service
	market    *market.Aggregator
}

// New 连接到 profile 配置的节点
func New(profile *config.Profile, opts Options) (*Client, error) {
	if opts.Registry == nil {
		reg, err := profile.LoadRegistry()
		if err != nil {
			return nil, err
		}
		opts.Registry = reg
	}
	t, err := NewTransport(profile)
	if err != nil {
		return nil, err
	}
	if opts.SettleDelay == nil && profile.SettleDelay > 0 {
		d := time.Duration(profile.SettleDelay)
		opts.SettleDelay = &d
	}
	return NewWithTransport(t, profile.Network, opts)
}

// NewTransport 按 profile 创建节点客户端
//
// 配置了多个端点或重试次数时使用故障转移客户端，否则直接连接首选端点。
func NewTransport(profile *config.Profile) (transport.Client, error) {
	if len(profile.Endpoints) > 1 || profile.RetryAttempts > 0 {
		fc, err := transport.NewFallbackClient(ProfileToTransportConfig(profile))
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
	return transport.NewJSONRPCClient(profile.PrimaryEndpoint(), time.Duration(profile.Timeout)), nil
}

// NewWithTransport 使用已有的传输层创建客户端
func NewWithTransport(t transport.Client, env config.Environment, opts Options) (*Client, error) {
	if opts.Registry == nil {
		opts.Registry = config.DefaultRegistry()
	}
	if _, ok := opts.Registry.Entry(env); !ok {
		return nil, fmt.Errorf("environment %s has no registry entry", env)
	}

	c := &Client{env: env, registry: opts.Registry, transport: t}
	if opts.Cache != nil {
		cc, err := transport.NewCachingClient(t, *opts.Cache, opts.Logger)
		if err != nil {
			return nil, err
		}
		c.cache = cc
		t = cc
	}

	svcOpts := []ticketing.Option{ticketing.WithLogger(opts.Logger)}
	if opts.Bus != nil {
		svcOpts = append(svcOpts, ticketing.WithEventBus(opts.Bus))
	}
	if opts.SettleDelay != nil {
		svcOpts = append(svcOpts, ticketing.WithSettleDelay(*opts.SettleDelay))
	}
	c.service = ticketing.NewService(t, opts.Registry, env, opts.Wallet, svcOpts...)

	var mopts []market.Option
	if opts.Workers > 1 {
		mopts = append(mopts, market.WithRunner(market.PoolRunner{Workers: opts.Workers, Logger: opts.Logger}))
	}
	c.market = market.NewAggregator(t, c.service.Reconciler(), c.service.Contracts(),
		c.service.Executor(), c.service.Calculator(), opts.Registry, opts.Logger, mopts...)
	return c, nil
}

// ProfileToTransportConfig 将 profile 转换为故障转移客户端配置
func ProfileToTransportConfig(p *config.Profile) transport.ClientConfig {
	eps := make([]transport.EndpointConfig, 0, len(p.Endpoints))
	for _, e := range p.Endpoints {
		eps = append(eps, transport.EndpointConfig{Name: e.Name, Priority: e.Priority, JSONRPC: e.JSONRPC})
	}
	if len(eps) == 0 {
		eps = append(eps, transport.EndpointConfig{Name: string(p.Network), JSONRPC: p.Network.RPCEndpoint()})
	}
	return transport.ClientConfig{
		Endpoints:           eps,
		Timeout:             time.Duration(p.Timeout),
		RetryAttempts:       p.RetryAttempts,
		RetryBackoff:        time.Duration(p.RetryBackoff),
		HealthCheckInterval: time.Duration(p.HealthCheckInterval),
	}
}

// Env 绑定的网络环境
func (c *Client) Env() config.Environment { return c.env }

// Registry 生效的注册表
func (c *Client) Registry() *config.Registry { return c.registry }

// Transport 底层节点客户端
func (c *Client) Transport() transport.Client { return c.transport }

// Actions 写操作服务
func (c *Client) Actions() *ticketing.Service { return c.service }

// Reconciler 链上实体读取
func (c *Client) Reconciler() *reconcile.Reconciler { return c.service.Reconciler() }

// Contracts 交易包构建器
func (c *Client) Contracts() *builder.Contracts { return c.service.Contracts() }

// Fees 费用计算器
func (c *Client) Fees() *fees.Calculator { return c.service.Calculator() }

// Market 挂单聚合器
func (c *Client) Market() *market.Aggregator { return c.market }

// Listings 读取 Kiosk 中的全部挂单
func (c *Client) Listings(ctx context.Context, kioskID string) ([]market.Listing, error) {
	return c.market.Listings(ctx, kioskID)
}

// Quote 按默认转移策略计算买方总价
func (c *Client) Quote(ctx context.Context, price uint64) (fees.Quote, error) {
	return c.service.Calculator().Quote(ctx, "", price)
}

// Refresh 清空对象缓存，写操作之后读取最新状态前调用
func (c *Client) Refresh() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Reset()
}

// Close 释放缓存与连接
func (c *Client) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return c.transport.Close()
}
