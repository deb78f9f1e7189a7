package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/suiticket/v1/internal/core/infrastructure/metrics"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// CacheConfig 对象缓存配置
type CacheConfig struct {
	LifeWindow   time.Duration // 条目存活时间，0 表示 10 分钟
	MaxEntrySize int           // 单个条目预估大小(字节)
	Shards       int           // 分片数，必须为2的幂
}

// CachingClient 在另一个客户端之上缓存对象查询结果
//
// 读取到的对象视为不可变快照，没有自动失效机制，
// 需要看到最新状态时调用 Reset 清空全部缓存后重新获取。
// 除 GetObject/MultiGetObjects 外的调用直接透传。
type CachingClient struct {
	Client
	cache  *bigcache.BigCache
	logger log.Logger
}

var _ Client = (*CachingClient)(nil)

// NewCachingClient 创建带对象缓存的客户端
func NewCachingClient(inner Client, cfg CacheConfig, logger log.Logger) (*CachingClient, error) {
	if cfg.LifeWindow == 0 {
		cfg.LifeWindow = 10 * time.Minute
	}
	bigCacheConfig := bigcache.DefaultConfig(cfg.LifeWindow)
	if cfg.MaxEntrySize > 0 {
		bigCacheConfig.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.Shards > 0 {
		bigCacheConfig.Shards = cfg.Shards
	}
	bigCacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("create object cache: %w", err)
	}

	return &CachingClient{
		Client: inner,
		cache:  cache,
		logger: logger,
	}, nil
}

func cacheKey(objectID string, options *ObjectDataOptions) string {
	if options == nil {
		options = FullObjectOptions()
	}
	flags := 0
	for i, on := range []bool{options.ShowType, options.ShowOwner, options.ShowContent, options.ShowBcs, options.ShowDisplay} {
		if on {
			flags |= 1 << i
		}
	}
	return fmt.Sprintf("%s|%d", objectID, flags)
}

func (c *CachingClient) lookup(key string) (*ObjectResponse, bool) {
	data, err := c.cache.Get(key)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) && c.logger != nil {
			c.logger.Warnf("读取对象缓存失败 key=%s: %v", key, err)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var resp ObjectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		_ = c.cache.Delete(key)
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &resp, true
}

// store 只缓存存在的对象，错误响应不缓存
func (c *CachingClient) store(key string, resp *ObjectResponse) {
	if resp == nil || resp.Data == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.cache.Set(key, data); err != nil && c.logger != nil {
		c.logger.Warnf("写入对象缓存失败 key=%s: %v", key, err)
	}
}

// GetObject 优先返回缓存中的对象
func (c *CachingClient) GetObject(ctx context.Context, objectID string, options *ObjectDataOptions) (*ObjectResponse, error) {
	key := cacheKey(objectID, options)
	if resp, ok := c.lookup(key); ok {
		return resp, nil
	}

	resp, err := c.Client.GetObject(ctx, objectID, options)
	if err != nil {
		return nil, err
	}
	c.store(key, resp)
	return resp, nil
}

// MultiGetObjects 只对未命中的对象发起一次批量请求
func (c *CachingClient) MultiGetObjects(ctx context.Context, objectIDs []string, options *ObjectDataOptions) ([]*ObjectResponse, error) {
	results := make([]*ObjectResponse, len(objectIDs))
	var (
		missing    []string
		missingIdx []int
	)
	for i, id := range objectIDs {
		if resp, ok := c.lookup(cacheKey(id, options)); ok {
			results[i] = resp
			continue
		}
		missing = append(missing, id)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return results, nil
	}

	fetched, err := c.Client.MultiGetObjects(ctx, missing, options)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missing) {
		return nil, fmt.Errorf("multiGetObjects: requested %d objects, got %d", len(missing), len(fetched))
	}
	for j, resp := range fetched {
		results[missingIdx[j]] = resp
		c.store(cacheKey(missing[j], options), resp)
	}
	return results, nil
}

// Reset 清空全部缓存
func (c *CachingClient) Reset() error {
	return c.cache.Reset()
}

// Len 当前缓存条目数
func (c *CachingClient) Len() int {
	return c.cache.Len()
}

// Close 关闭缓存与底层客户端
func (c *CachingClient) Close() error {
	if err := c.cache.Close(); err != nil {
		return err
	}
	return c.Client.Close()
}
