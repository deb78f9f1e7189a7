package wallet

import (
	"fmt"
	"strconv"
	"strings"
)

// BIP44 相关常量
const (
	// BIP44Purpose BIP44 标准的 purpose 值
	BIP44Purpose uint32 = 44

	// SuiCoinType SLIP-0044 登记的币种类型
	SuiCoinType uint32 = 784

	// HardenedOffset 硬化派生偏移量
	HardenedOffset uint32 = 0x80000000

	// DefaultAccount 默认账户索引
	DefaultAccount uint32 = 0

	// DefaultAddressIndex 默认地址索引
	DefaultAddressIndex uint32 = 0
)

// DerivationPath Ed25519 派生路径 m/44'/784'/account'/change'/index'
//
// SLIP-10 的 Ed25519 只支持硬化派生，因此五级全部硬化。
type DerivationPath struct {
	Purpose      uint32 `json:"purpose"`
	CoinType     uint32 `json:"coin_type"`
	Account      uint32 `json:"account"`
	Change       uint32 `json:"change"`
	AddressIndex uint32 `json:"address_index"`
}

// DefaultDerivationPath 返回默认派生路径 m/44'/784'/0'/0'/0'
func DefaultDerivationPath() *DerivationPath {
	return NewDerivationPath(DefaultAccount, 0, DefaultAddressIndex)
}

// NewDerivationPath 创建新的派生路径
func NewDerivationPath(account, change, addressIndex uint32) *DerivationPath {
	return &DerivationPath{
		Purpose:      BIP44Purpose,
		CoinType:     SuiCoinType,
		Account:      account,
		Change:       change,
		AddressIndex: addressIndex,
	}
}

// ParseDerivationPath 解析派生路径字符串
// 支持格式: m/44'/784'/0'/0'/0' 或 44'/784'/0'/0'/0'，硬化标记可写作 ' H h
func ParseDerivationPath(path string) (*DerivationPath, error) {
	path = strings.TrimPrefix(path, "m/")
	path = strings.TrimPrefix(path, "M/")

	parts := strings.Split(path, "/")
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid derivation path: expected 5 components, got %d", len(parts))
	}

	var values [5]uint32
	names := [5]string{"purpose", "coin type", "account", "change", "address index"}
	for i, part := range parts {
		v, err := parsePathComponent(part)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", names[i], err)
		}
		values[i] = v
	}

	dp := &DerivationPath{
		Purpose:      values[0],
		CoinType:     values[1],
		Account:      values[2],
		Change:       values[3],
		AddressIndex: values[4],
	}
	if err := dp.Validate(); err != nil {
		return nil, err
	}
	return dp, nil
}

// parsePathComponent 解析硬化路径组件
func parsePathComponent(component string) (uint32, error) {
	trimmed := strings.TrimRight(component, "'Hh")
	if trimmed == component || len(component)-len(trimmed) != 1 {
		return 0, fmt.Errorf("hardened derivation required for %s", component)
	}

	value, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", trimmed)
	}
	if uint32(value) >= HardenedOffset {
		return 0, fmt.Errorf("index %d out of range", value)
	}
	return uint32(value), nil
}

// String 返回路径字符串表示
func (dp *DerivationPath) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d'/%d'",
		dp.Purpose,
		dp.CoinType,
		dp.Account,
		dp.Change,
		dp.AddressIndex,
	)
}

// ToUint32Array 转换为带硬化标记的索引序列
func (dp *DerivationPath) ToUint32Array() []uint32 {
	return []uint32{
		dp.Purpose + HardenedOffset,
		dp.CoinType + HardenedOffset,
		dp.Account + HardenedOffset,
		dp.Change + HardenedOffset,
		dp.AddressIndex + HardenedOffset,
	}
}

// WithAccount 返回使用指定账户的新路径
func (dp *DerivationPath) WithAccount(account uint32) *DerivationPath {
	newPath := *dp
	newPath.Account = account
	return &newPath
}

// WithAddressIndex 返回使用指定地址索引的新路径
func (dp *DerivationPath) WithAddressIndex(index uint32) *DerivationPath {
	newPath := *dp
	newPath.AddressIndex = index
	return &newPath
}

// NextAddress 返回下一个地址的路径
func (dp *DerivationPath) NextAddress() *DerivationPath {
	return dp.WithAddressIndex(dp.AddressIndex + 1)
}

// Validate 验证路径是否有效
func (dp *DerivationPath) Validate() error {
	if dp.Purpose != BIP44Purpose {
		return fmt.Errorf("invalid purpose: expected %d, got %d", BIP44Purpose, dp.Purpose)
	}
	if dp.CoinType != SuiCoinType {
		return fmt.Errorf("invalid coin type: expected %d, got %d", SuiCoinType, dp.CoinType)
	}
	return nil
}
