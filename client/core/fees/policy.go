package fees

import (
	"fmt"
	"math"
	"math/big"
)

// DefaultPriceLimitBP 未设置转售限价时的默认值，10000 即不限制
const DefaultPriceLimitBP uint16 = 10000

// FeeRule 版税或平台费规则
type FeeRule struct {
	FeeBP  uint16 `json:"feeBp"`
	MinFee uint64 `json:"minFee,string"`
}

// ResaleRule 转售限价规则，PriceLimitBP 为相对原价的上限
type ResaleRule struct {
	PriceLimitBP uint16 `json:"priceLimitBp"`
}

// NewFeeRule 把链上 getter 返回的二元组转换为规则，(0,0) 表示未设置并返回 nil
func NewFeeRule(feeBP, minFee uint64) (*FeeRule, error) {
	if feeBP == 0 && minFee == 0 {
		return nil, nil
	}
	if feeBP > math.MaxUint16 {
		return nil, fmt.Errorf("fee basis points %d out of range", feeBP)
	}
	return &FeeRule{FeeBP: uint16(feeBP), MinFee: minFee}, nil
}

// NewResaleRule 把链上 getter 返回值转换为规则，0 表示未设置并返回 nil
func NewResaleRule(priceLimitBP uint16) *ResaleRule {
	if priceLimitBP == 0 {
		return nil
	}
	return &ResaleRule{PriceLimitBP: priceLimitBP}
}

// PolicyConfig 转移策略的三条规则，nil 表示未设置
type PolicyConfig struct {
	Royalty     *FeeRule
	ResaleLimit *ResaleRule
	PlatformFee *FeeRule
}

// PolicyView 展示用的策略配置，未设置的规则填入默认值
type PolicyView struct {
	HasRoyaltyRule bool   `json:"hasRoyaltyRule"`
	RoyaltyFeeBP   uint16 `json:"royaltyFeeBp"`
	RoyaltyMinFee  uint64 `json:"royaltyMinFee,string"`
	HasResaleLimit bool   `json:"hasResaleLimit"`
	PriceLimitBP   uint16 `json:"priceLimitBp"`
	HasPlatformFee bool   `json:"hasPlatformFee"`
	PlatformFeeBP  uint16 `json:"platformFeeBp"`
	PlatformMinFee uint64 `json:"platformMinFee,string"`
}

// View 生成展示视图
func (c PolicyConfig) View() PolicyView {
	v := PolicyView{PriceLimitBP: DefaultPriceLimitBP}
	if c.Royalty != nil {
		v.HasRoyaltyRule = true
		v.RoyaltyFeeBP = c.Royalty.FeeBP
		v.RoyaltyMinFee = c.Royalty.MinFee
	}
	if c.ResaleLimit != nil {
		v.HasResaleLimit = true
		v.PriceLimitBP = c.ResaleLimit.PriceLimitBP
	}
	if c.PlatformFee != nil {
		v.HasPlatformFee = true
		v.PlatformFeeBP = c.PlatformFee.FeeBP
		v.PlatformMinFee = c.PlatformFee.MinFee
	}
	return v
}

// MaxResalePrice 按转售限价规则计算允许的最高转售价
//
// 未设置规则时 limited 为 false，价格不受限制。
func (c PolicyConfig) MaxResalePrice(originalPrice uint64) (limit uint64, limited bool) {
	if c.ResaleLimit == nil {
		return 0, false
	}
	v := new(big.Int).SetUint64(originalPrice)
	v.Mul(v, big.NewInt(int64(c.ResaleLimit.PriceLimitBP)))
	v.Quo(v, big.NewInt(BasisPointsDenominator))
	if !v.IsUint64() {
		return math.MaxUint64, true
	}
	return v.Uint64(), true
}
