package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ClientConfig 故障转移客户端配置
type ClientConfig struct {
	// 节点端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff"`

	// 健康检查间隔，为负数时不启动后台检查
	HealthCheckInterval time.Duration `json:"health_check_interval"`
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"` // 数字越小越优先
	JSONRPC  string `json:"jsonrpc"`
}

// FallbackClient 支持重试与故障转移的客户端
//
// 核心流程默认直接使用 JSONRPCClient，不做重试；需要时由调用方显式选用本客户端。
// 提交交易的方法同样会重试，调用方需自行确认幂等性。
type FallbackClient struct {
	config    ClientConfig
	clients   []clientWithPriority
	current   int
	mu        sync.RWMutex
	closeCh   chan struct{}
	closeOnce sync.Once
}

var _ Client = (*FallbackClient)(nil)

type clientWithPriority struct {
	name      string
	priority  int
	client    Client
	healthy   bool
	lastCheck time.Time
}

// NewFallbackClient 根据端点配置创建故障转移客户端
func NewFallbackClient(config ClientConfig) (*FallbackClient, error) {
	if len(config.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints configured")
	}

	clients := make([]namedClient, 0, len(config.Endpoints))
	for _, ep := range config.Endpoints {
		if ep.JSONRPC == "" {
			continue
		}
		clients = append(clients, namedClient{
			Name:     ep.Name,
			Priority: ep.Priority,
			Client:   NewJSONRPCClient(ep.JSONRPC, config.Timeout),
		})
	}
	return newFallbackClient(config, clients)
}

// namedClient 带名称和优先级的底层客户端
type namedClient struct {
	Name     string
	Priority int
	Client   Client
}

func newFallbackClient(config ClientConfig, clients []namedClient) (*FallbackClient, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("no valid clients created")
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryAttempts == 0 {
		config.RetryAttempts = 3
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = time.Second
	}
	if config.HealthCheckInterval == 0 {
		config.HealthCheckInterval = 30 * time.Second
	}

	fc := &FallbackClient{
		config:  config,
		clients: make([]clientWithPriority, 0, len(clients)),
		closeCh: make(chan struct{}),
	}
	for _, c := range clients {
		fc.clients = append(fc.clients, clientWithPriority{
			name:     c.Name,
			priority: c.Priority,
			client:   c.Client,
			healthy:  true, // 初始假设健康
		})
	}

	sort.SliceStable(fc.clients, func(i, j int) bool {
		return fc.clients[i].priority < fc.clients[j].priority
	})

	if config.HealthCheckInterval > 0 {
		go fc.healthCheckLoop()
	}

	return fc, nil
}

// healthCheckLoop 健康检查循环
func (fc *FallbackClient) healthCheckLoop() {
	ticker := time.NewTicker(fc.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fc.checkAllClients()
		case <-fc.closeCh:
			return
		}
	}
}

// checkAllClients 以获取参考Gas价格作为探活请求
func (fc *FallbackClient) checkAllClients() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fc.mu.RLock()
	targets := make([]Client, len(fc.clients))
	for i := range fc.clients {
		targets[i] = fc.clients[i].client
	}
	fc.mu.RUnlock()

	results := make([]bool, len(targets))
	for i, c := range targets {
		_, err := c.GetReferenceGasPrice(ctx)
		results[i] = err == nil
	}

	fc.mu.Lock()
	for i := range fc.clients {
		fc.clients[i].healthy = results[i]
		fc.clients[i].lastCheck = time.Now()
	}
	fc.mu.Unlock()
}

// getClient 获取当前可用客户端及其下标
func (fc *FallbackClient) getClient() (Client, int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.current < len(fc.clients) && fc.clients[fc.current].healthy {
		return fc.clients[fc.current].client, fc.current
	}

	for i, c := range fc.clients {
		if c.healthy {
			fc.current = i
			return c.client, i
		}
	}

	// 所有客户端都不健康，回到优先级最高的一个
	fc.current = 0
	return fc.clients[0].client, 0
}

// tryWithFallback 执行操作，失败时标记当前端点不健康并按线性退避重试
func (fc *FallbackClient) tryWithFallback(ctx context.Context, op func(Client) error) error {
	var lastErr error

	for attempt := 0; attempt < fc.config.RetryAttempts; attempt++ {
		client, idx := fc.getClient()

		err := op(client)
		if err == nil {
			return nil
		}
		lastErr = err

		fc.mu.Lock()
		fc.clients[idx].healthy = false
		fc.mu.Unlock()

		if attempt < fc.config.RetryAttempts-1 {
			select {
			case <-time.After(fc.config.RetryBackoff * time.Duration(attempt+1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("all endpoints failed: %w", lastErr)
}

// ===== Client接口实现(通过tryWithFallback降级) =====

func (fc *FallbackClient) GetObject(ctx context.Context, objectID string, options *ObjectDataOptions) (*ObjectResponse, error) {
	var result *ObjectResponse
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetObject(ctx, objectID, options)
		return e
	})
	return result, err
}

func (fc *FallbackClient) MultiGetObjects(ctx context.Context, objectIDs []string, options *ObjectDataOptions) ([]*ObjectResponse, error) {
	var result []*ObjectResponse
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.MultiGetObjects(ctx, objectIDs, options)
		return e
	})
	return result, err
}

func (fc *FallbackClient) GetOwnedObjects(ctx context.Context, owner string, query *ObjectResponseQuery, cursor *string, limit int) (*ObjectsPage, error) {
	var result *ObjectsPage
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetOwnedObjects(ctx, owner, query, cursor, limit)
		return e
	})
	return result, err
}

func (fc *FallbackClient) GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit int) (*DynamicFieldPage, error) {
	var result *DynamicFieldPage
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetDynamicFields(ctx, parentID, cursor, limit)
		return e
	})
	return result, err
}

func (fc *FallbackClient) DevInspectTransactionBlock(ctx context.Context, sender string, txKindBase64 string) (*DevInspectResults, error) {
	var result *DevInspectResults
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.DevInspectTransactionBlock(ctx, sender, txKindBase64)
		return e
	})
	return result, err
}

func (fc *FallbackClient) ExecuteTransactionBlock(ctx context.Context, txBytesBase64 string, signatures []string) (*TransactionBlockResponse, error) {
	var result *TransactionBlockResponse
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.ExecuteTransactionBlock(ctx, txBytesBase64, signatures)
		return e
	})
	return result, err
}

func (fc *FallbackClient) GetBalance(ctx context.Context, owner string, coinType string) (*Balance, error) {
	var result *Balance
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetBalance(ctx, owner, coinType)
		return e
	})
	return result, err
}

func (fc *FallbackClient) GetCoins(ctx context.Context, owner string, coinType string, cursor *string, limit int) (*CoinPage, error) {
	var result *CoinPage
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetCoins(ctx, owner, coinType, cursor, limit)
		return e
	})
	return result, err
}

func (fc *FallbackClient) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var result uint64
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetReferenceGasPrice(ctx)
		return e
	})
	return result, err
}

func (fc *FallbackClient) CallRaw(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.CallRaw(ctx, method, params)
		return e
	})
	return result, err
}

// Close 停止健康检查并关闭所有底层客户端
func (fc *FallbackClient) Close() error {
	var firstErr error
	fc.closeOnce.Do(func() {
		close(fc.closeCh)
		for _, c := range fc.clients {
			if err := c.client.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}
