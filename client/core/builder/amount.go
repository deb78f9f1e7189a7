package builder

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Amount 原生币金额(以 MIST 为单位)
//
// 金额系统：
//   - 1 SUI = 10^9 MIST
//   - 使用 *big.Int 做精确运算，不经过浮点数
type Amount struct {
	value *big.Int
}

const (
	// DecimalPlaces 原生币小数位数
	DecimalPlaces = 9

	// MistPerSUI 1 SUI 对应的 MIST 数量
	MistPerSUI = 1_000_000_000
)

var (
	// ErrInvalidAmount 无效的金额
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount 负数金额
	ErrNegativeAmount = errors.New("negative amount")

	// ErrAmountOverflow 金额超出 u64
	ErrAmountOverflow = errors.New("amount exceeds u64")

	mistPerSUI = big.NewInt(MistPerSUI)
)

// ParseAmount 解析金额字符串
//
// 支持格式：
//   - "100" → 100 MIST
//   - "1.5sui" 或 "1.5 SUI" → 1500000000 MIST
//   - "0.000000001sui" → 1 MIST
//
// 带小数点但没有单位的输入按 SUI 解析。小数位超过 9 位视为错误。
func ParseAmount(s string) (*Amount, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if strings.HasPrefix(raw, "-") {
		return nil, ErrNegativeAmount
	}

	inSUI := strings.HasSuffix(raw, "sui")
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "sui"))
	if strings.Contains(raw, ".") {
		inSUI = true
	}
	if !inSUI {
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
		}
		return checked(v)
	}

	whole, frac, _ := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > DecimalPlaces {
		return nil, fmt.Errorf("%w: more than %d decimal places in %s", ErrInvalidAmount, DecimalPlaces, s)
	}
	frac += strings.Repeat("0", DecimalPlaces-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	return checked(v)
}

func checked(v *big.Int) (*Amount, error) {
	if v.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if !v.IsUint64() {
		return nil, fmt.Errorf("%w: %s", ErrAmountOverflow, v.String())
	}
	return &Amount{value: v}, nil
}

// NewAmountFromMist 从 MIST 创建
func NewAmountFromMist(mist uint64) *Amount {
	return &Amount{value: new(big.Int).SetUint64(mist)}
}

// Mist 返回 MIST 数量
func (a *Amount) Mist() uint64 {
	if a == nil || !a.value.IsUint64() {
		return 0
	}
	return a.value.Uint64()
}

// IsZero 判断金额是否为零
func (a *Amount) IsZero() bool {
	return a == nil || a.value.Sign() == 0
}

// String 以 SUI 为单位输出，去掉末尾的 0
//
// 示例：
//
//	1500000000 → "1.5"
//	1 → "0.000000001"
//	1000000000 → "1"
func (a *Amount) String() string {
	if a == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(a.value, mistPerSUI, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := r.String()
	frac = strings.Repeat("0", DecimalPlaces-len(frac)) + frac
	return q.String() + "." + strings.TrimRight(frac, "0")
}

// FormatMist 将 MIST 金额格式化为带单位的 SUI 字符串
func FormatMist(mist uint64) string {
	return NewAmountFromMist(mist).String() + " SUI"
}
