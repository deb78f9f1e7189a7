package fees

import (
	"context"
	"errors"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/inspect"
	"github.com/suiticket/v1/internal/core/infrastructure/metrics"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// 回退计数使用的分量名
const (
	ComponentRoyalty  = "royalty"
	ComponentPlatform = "platform"
)

// Calculator 手续费与策略配置读取器
type Calculator struct {
	policy *builder.TransferPolicyContract
	exec   *inspect.Executor
	logger log.Logger
}

// NewCalculator 创建计算器，logger 可为 nil
func NewCalculator(policy *builder.TransferPolicyContract, exec *inspect.Executor, logger log.Logger) *Calculator {
	if logger != nil {
		logger = logger.With("module", log.ModuleFees)
	}
	return &Calculator{policy: policy, exec: exec, logger: logger}
}

func (c *Calculator) contract(policyID string) *builder.TransferPolicyContract {
	if policyID == "" {
		return c.policy
	}
	return c.policy.ForPolicy(policyID)
}

func (c *Calculator) warnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}

func (c *Calculator) debugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

// component 链上计算单个分量，任何失败都回退到本地公式
func (c *Calculator) component(ctx context.Context, name string, price uint64,
	build func(price uint64) (*builder.Bundle, error), fallback func(price uint64) uint64) FeeValue {
	b, err := build(price)
	if err == nil {
		var amount uint64
		if amount, err = c.exec.CallU64(ctx, b); err == nil {
			return Onchain(amount)
		}
	}
	metrics.FeeFallbacks.WithLabelValues(name).Inc()
	c.warnf("%s 链上计算失败，使用回退公式: %v", name, err)
	return Fallback(fallback(price))
}

// Quote 计算价格为 price 时的费用明细，policyID 为空时使用注册表中的策略
//
// 两个分量各自独立回退。返回的错误只可能是金额溢出。
func (c *Calculator) Quote(ctx context.Context, policyID string, price uint64) (Quote, error) {
	p := c.contract(policyID)
	royalty := c.component(ctx, ComponentRoyalty, price, p.CalculateRoyaltyFee, FallbackRoyalty)
	platform := c.component(ctx, ComponentPlatform, price, p.CalculatePlatformFee, FallbackPlatformFee)
	return NewQuote(price, royalty, platform)
}

// ResaleLimit 读取转售限价规则
//
// getter 模拟中止表示策略上没有该规则，返回 nil；交易包解析、节点访问或解码失败时返回错误，
// 调用方据此区分"未设置"与"无法确认"。
func (c *Calculator) ResaleLimit(ctx context.Context, policyID string) (*ResaleRule, error) {
	b, err := c.contract(policyID).ResaleLimitConfig()
	if err != nil {
		return nil, err
	}
	bp, err := c.exec.CallU16(ctx, b)
	if errors.Is(err, inspect.ErrSimulationFailed) {
		c.debugf("转售限价规则未设置: %v", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return NewResaleRule(bp), nil
}

// PolicyConfig 读取三条规则，读取失败的规则视为未设置
func (c *Calculator) PolicyConfig(ctx context.Context, policyID string) PolicyConfig {
	p := c.contract(policyID)
	var cfg PolicyConfig

	if b, err := p.RoyaltyRuleConfig(); err == nil {
		bp, minFee, err := c.exec.CallPair(ctx, b)
		if err == nil {
			cfg.Royalty, err = NewFeeRule(bp, minFee)
		}
		if err != nil {
			c.debugf("版税规则读取失败: %v", err)
		}
	}

	if rule, err := c.ResaleLimit(ctx, policyID); err != nil {
		c.debugf("转售限价规则读取失败: %v", err)
	} else {
		cfg.ResaleLimit = rule
	}

	if b, err := p.PlatformFeeConfig(); err == nil {
		bp, minFee, err := c.exec.CallPair(ctx, b)
		if err == nil {
			cfg.PlatformFee, err = NewFeeRule(bp, minFee)
		}
		if err != nil {
			c.debugf("平台费规则读取失败: %v", err)
		}
	}
	return cfg
}
