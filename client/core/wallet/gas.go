package wallet

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/pkg/bcs"
)

var (
	// ErrNoGasCoins 账户没有原生币对象
	ErrNoGasCoins = errors.New("no gas coins")
	// ErrInsufficientGas 原生币余额不足以支付预算与交易包内的支出
	ErrInsufficientGas = errors.New("insufficient balance for gas")
)

// MaxGasCoins 单笔交易可使用的 Gas 币数量上限
const MaxGasCoins = 256

// CoinSelector Gas 币选择策略
type CoinSelector interface {
	// Select 选出总额不低于 target 的币集合，返回选中的币与其总额
	Select(coins []transport.Coin, target uint64) ([]transport.Coin, uint64, error)
}

// FirstFitSelector 优先找单个足够的币，找不到时按顺序累加
type FirstFitSelector struct{}

// Select 实现 CoinSelector
func (FirstFitSelector) Select(coins []transport.Coin, target uint64) ([]transport.Coin, uint64, error) {
	if len(coins) == 0 {
		return nil, 0, ErrNoGasCoins
	}
	for _, c := range coins {
		if uint64(c.Balance) >= target {
			return []transport.Coin{c}, uint64(c.Balance), nil
		}
	}
	return accumulateCoins(coins, target)
}

// GreedySelector 按余额从大到小累加，得到最少的币数量
type GreedySelector struct{}

// Select 实现 CoinSelector
func (GreedySelector) Select(coins []transport.Coin, target uint64) ([]transport.Coin, uint64, error) {
	if len(coins) == 0 {
		return nil, 0, ErrNoGasCoins
	}
	sorted := append([]transport.Coin(nil), coins...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Balance > sorted[j].Balance })
	return accumulateCoins(sorted, target)
}

func accumulateCoins(coins []transport.Coin, target uint64) ([]transport.Coin, uint64, error) {
	var (
		selected []transport.Coin
		total    uint64
	)
	for _, c := range coins {
		if len(selected) == MaxGasCoins {
			break
		}
		selected = append(selected, c)
		if total > math.MaxUint64-uint64(c.Balance) {
			total = math.MaxUint64
		} else {
			total += uint64(c.Balance)
		}
		if total >= target {
			return selected, total, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientGas, target, total)
}

// GasCoinSpend 交易包从 Gas 币中拆出的总额
//
// 只统计以纯值 u64 输入为金额的 SplitCoins(GasCoin, ...)，溢出时返回 MaxUint64。
func GasCoinSpend(b *builder.Bundle) uint64 {
	inputs := b.Inputs()
	var total uint64
	for _, cmd := range b.Commands() {
		if cmd.Kind != builder.CmdSplitCoins || cmd.Target == nil || cmd.Target.Kind != builder.ArgGasCoin {
			continue
		}
		for _, arg := range cmd.Arguments {
			if arg.Kind != builder.ArgInput || int(arg.Index) >= len(inputs) {
				continue
			}
			in := inputs[arg.Index]
			if in.Kind != builder.InputPure || len(in.Bytes) != 8 {
				continue
			}
			v, err := bcs.NewDecoder(in.Bytes).U64()
			if err != nil {
				continue
			}
			if total > math.MaxUint64-v {
				return math.MaxUint64
			}
			total += v
		}
	}
	return total
}

// GasTarget Gas 币需要覆盖的总额：预算加交易包内的支出
func GasTarget(b *builder.Bundle) uint64 {
	spend := GasCoinSpend(b)
	if spend > math.MaxUint64-b.GasBudget() {
		return math.MaxUint64
	}
	return spend + b.GasBudget()
}
