// Package fees 计算转售手续费并读取转移策略配置
//
// 手续费优先通过只读调用由链上策略计算；调用失败时按固定比例在本地回退。
// 每个分量都带有来源标记，回退值不会被当作链上值。
package fees

import (
	"errors"
	"fmt"
	"math/big"
)

// Source 手续费分量的来源
type Source string

const (
	// SourceOnchain 由链上策略函数计算
	SourceOnchain Source = "onchain"
	// SourceFallback 由本地回退公式计算
	SourceFallback Source = "fallback"
)

// 回退公式：版税 2.5%，平台费 5%，均向下取整；基点分母 10000
const (
	FallbackRoyaltyNum     = 25
	FallbackRoyaltyDen     = 1000
	FallbackPlatformNum    = 5
	FallbackPlatformDen    = 100
	BasisPointsDenominator = 10000
)

// ErrOverflow 金额合计超出 u64
var ErrOverflow = errors.New("fee total exceeds u64")

// FeeValue 带来源的手续费分量
type FeeValue struct {
	Source Source `json:"source"`
	Amount uint64 `json:"amount,string"`
}

// Onchain 链上计算的分量
func Onchain(amount uint64) FeeValue { return FeeValue{Source: SourceOnchain, Amount: amount} }

// Fallback 回退公式计算的分量
func Fallback(amount uint64) FeeValue { return FeeValue{Source: SourceFallback, Amount: amount} }

// IsFallback 是否为回退值
func (v FeeValue) IsFallback() bool { return v.Source == SourceFallback }

// Quote 一次购买的费用明细
//
// TotalFees 与 TotalCost 只由 NewQuote 从两个分量推导，不单独获取。
type Quote struct {
	Price       uint64   `json:"price,string"`
	Royalty     FeeValue `json:"royalty"`
	PlatformFee FeeValue `json:"platformFee"`
	TotalFees   uint64   `json:"totalFees,string"`
	TotalCost   uint64   `json:"totalCost,string"`
}

// NewQuote 由价格与两个分量组装费用明细
func NewQuote(price uint64, royalty, platform FeeValue) (Quote, error) {
	fees := new(big.Int).SetUint64(royalty.Amount)
	fees.Add(fees, new(big.Int).SetUint64(platform.Amount))
	total := new(big.Int).Add(fees, new(big.Int).SetUint64(price))
	if !total.IsUint64() {
		return Quote{}, fmt.Errorf("%w: price %d", ErrOverflow, price)
	}
	return Quote{
		Price:       price,
		Royalty:     royalty,
		PlatformFee: platform,
		TotalFees:   fees.Uint64(),
		TotalCost:   total.Uint64(),
	}, nil
}

// HasFallback 是否有任一分量来自回退公式
func (q Quote) HasFallback() bool {
	return q.Royalty.IsFallback() || q.PlatformFee.IsFallback()
}

func mulDiv(price uint64, num, den int64) uint64 {
	v := new(big.Int).SetUint64(price)
	v.Mul(v, big.NewInt(num))
	v.Quo(v, big.NewInt(den))
	return v.Uint64()
}

// FallbackRoyalty ⌊price × 25 / 1000⌋
func FallbackRoyalty(price uint64) uint64 {
	return mulDiv(price, FallbackRoyaltyNum, FallbackRoyaltyDen)
}

// FallbackPlatformFee ⌊price × 5 / 100⌋
func FallbackPlatformFee(price uint64) uint64 {
	return mulDiv(price, FallbackPlatformNum, FallbackPlatformDen)
}

// FallbackQuote 完全由回退公式计算的费用明细
func FallbackQuote(price uint64) (Quote, error) {
	return NewQuote(price, Fallback(FallbackRoyalty(price)), Fallback(FallbackPlatformFee(price)))
}
