// Package inspect 以模拟方式执行只读调用并解码返回值
//
// 模拟调用不需要签名，也不修改链上状态，发送方固定为全零地址。
// 调用方应把这里返回的任何错误视为"值未知"，并退回到各自的降级路径。
package inspect

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/internal/core/infrastructure/metrics"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

var (
	// ErrSimulationFailed 模拟执行返回失败状态
	ErrSimulationFailed = errors.New("simulation failed")
	// ErrNoReturnValue 调用没有返回值
	ErrNoReturnValue = errors.New("no return value")
)

// Executor 只读调用执行器
type Executor struct {
	client   transport.Client
	resolver *builder.Resolver
	logger   log.Logger
}

// NewExecutor 创建执行器，logger 可为 nil
func NewExecutor(client transport.Client, logger log.Logger) *Executor {
	return &Executor{
		client:   client,
		resolver: builder.NewResolver(client),
		logger:   logger,
	}
}

// Inspect 模拟执行交易包，返回第一条命令的全部返回值
func (e *Executor) Inspect(ctx context.Context, b *builder.Bundle) ([]transport.ReturnValue, error) {
	kind, err := e.resolver.ResolveKind(ctx, b)
	if err != nil {
		metrics.DevInspectCalls.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("resolve bundle: %w", err)
	}

	res, err := e.client.DevInspectTransactionBlock(ctx, config.ZeroAddress, base64.StdEncoding.EncodeToString(kind))
	if err != nil {
		metrics.DevInspectCalls.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("dev inspect: %w", err)
	}

	if res.Error != "" || !res.Effects.Status.Succeeded() {
		metrics.DevInspectCalls.WithLabelValues("failure").Inc()
		msg := res.Error
		if msg == "" {
			msg = res.Effects.Status.Error
		}
		if e.logger != nil {
			e.logger.Debugf("模拟调用失败: %s", msg)
		}
		return nil, fmt.Errorf("%w: %s", ErrSimulationFailed, msg)
	}

	metrics.DevInspectCalls.WithLabelValues("success").Inc()
	if len(res.Results) == 0 || len(res.Results[0].ReturnValues) == 0 {
		return nil, ErrNoReturnValue
	}
	return res.Results[0].ReturnValues, nil
}

// CallU64 模拟执行并把第一个返回值解码为 u64
func (e *Executor) CallU64(ctx context.Context, b *builder.Bundle) (uint64, error) {
	values, err := e.Inspect(ctx, b)
	if err != nil {
		return 0, err
	}
	return DecodeU64(values)
}

// CallU16 模拟执行并把第一个返回值解码为 u16
func (e *Executor) CallU16(ctx context.Context, b *builder.Bundle) (uint16, error) {
	values, err := e.Inspect(ctx, b)
	if err != nil {
		return 0, err
	}
	return DecodeU16(values)
}

// CallBool 模拟执行并把第一个返回值解码为 bool
func (e *Executor) CallBool(ctx context.Context, b *builder.Bundle) (bool, error) {
	values, err := e.Inspect(ctx, b)
	if err != nil {
		return false, err
	}
	return DecodeBool(values)
}

// CallPair 模拟执行并解码 (整数, 整数) 二元组
func (e *Executor) CallPair(ctx context.Context, b *builder.Bundle) (uint64, uint64, error) {
	values, err := e.Inspect(ctx, b)
	if err != nil {
		return 0, 0, err
	}
	return DecodeU64Pair(values)
}
