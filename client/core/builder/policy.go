package builder

import "github.com/suiticket/v1/client/core/config"

// TransferPolicyContract ticket_transfer_policy 模块构建器
//
// 所有操作都作用于注册表中该环境的转移策略对象，修改规则需要策略 Cap。
type TransferPolicyContract struct {
	*BaseContract
	policy string
}

// ForPolicy 返回作用于指定策略对象的副本，policyID 为空时使用注册表中的策略
func (c *TransferPolicyContract) ForPolicy(policyID string) *TransferPolicyContract {
	return &TransferPolicyContract{BaseContract: c.BaseContract, policy: policyID}
}

func (c *TransferPolicyContract) policyAddress() (string, error) {
	if c.policy != "" {
		return c.policy, nil
	}
	return c.Address(config.RoleTransferPolicy)
}

func (c *TransferPolicyContract) policyAndCap() (policy, capability string, err error) {
	if policy, err = c.policyAddress(); err != nil {
		return "", "", err
	}
	if capability, err = c.Address(config.RoleTransferPolicyCap); err != nil {
		return "", "", err
	}
	return policy, capability, nil
}

// admin 构建需要策略 Cap 的调用，extra 追加在 (policy, cap) 之后
func (c *TransferPolicyContract) admin(function string, extra func(b *Bundle) []Argument) (*Bundle, Argument, error) {
	policy, capability, err := c.policyAndCap()
	if err != nil {
		return nil, Argument{}, err
	}
	return c.call(config.ModuleTransferPolicy, function, func(b *Bundle) []Argument {
		args := []Argument{b.Object(policy), b.Object(capability)}
		if extra != nil {
			args = append(args, extra(b)...)
		}
		return args
	})
}

// view 构建只读调用，extra 追加在 policy 之后
func (c *TransferPolicyContract) view(function string, extra func(b *Bundle) []Argument) (*Bundle, error) {
	policy, err := c.policyAddress()
	if err != nil {
		return nil, err
	}
	b, _, err := c.call(config.ModuleTransferPolicy, function, func(b *Bundle) []Argument {
		args := []Argument{b.ImmutableObject(policy)}
		if extra != nil {
			args = append(args, extra(b)...)
		}
		return args
	})
	return b, err
}

// SetRoyaltyRule 设置版税规则
func (c *TransferPolicyContract) SetRoyaltyRule(feeBP uint16, minFee uint64) (*Bundle, error) {
	b, _, err := c.admin(config.FnPolicyAddRoyaltyRule, func(b *Bundle) []Argument {
		return []Argument{b.PureU16(feeBP), b.PureU64(minFee)}
	})
	return b, err
}

// SetResaleLimitRule 设置转售限价规则，priceLimitBP 为相对原价的上限
func (c *TransferPolicyContract) SetResaleLimitRule(priceLimitBP uint16) (*Bundle, error) {
	b, _, err := c.admin(config.FnPolicyAddResaleLimitRule, func(b *Bundle) []Argument {
		return []Argument{b.PureU16(priceLimitBP)}
	})
	return b, err
}

// SetPlatformFeeRule 设置平台费规则
func (c *TransferPolicyContract) SetPlatformFeeRule(feeBP uint16, minFee uint64) (*Bundle, error) {
	b, _, err := c.admin(config.FnPolicyAddPlatformFeeRule, func(b *Bundle) []Argument {
		return []Argument{b.PureU16(feeBP), b.PureU64(minFee)}
	})
	return b, err
}

// RemoveRoyaltyRule 移除版税规则
func (c *TransferPolicyContract) RemoveRoyaltyRule() (*Bundle, error) {
	b, _, err := c.admin(config.FnPolicyRemoveRoyaltyRule, nil)
	return b, err
}

// RemoveResaleLimitRule 移除转售限价规则
func (c *TransferPolicyContract) RemoveResaleLimitRule() (*Bundle, error) {
	b, _, err := c.admin(config.FnPolicyRemoveResaleLimitRule, nil)
	return b, err
}

// RemovePlatformFeeRule 移除平台费规则
func (c *TransferPolicyContract) RemovePlatformFeeRule() (*Bundle, error) {
	b, _, err := c.admin(config.FnPolicyRemovePlatformFeeRule, nil)
	return b, err
}

// WithdrawPolicyProceeds 提取策略累积的收益，amount 为 nil 时全部提取
func (c *TransferPolicyContract) WithdrawPolicyProceeds(amount *uint64, recipient string) (*Bundle, error) {
	b, coin, err := c.admin(config.FnPolicyWithdraw, func(b *Bundle) []Argument {
		return []Argument{b.PureOptionU64(amount)}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{coin}, b.PureAddress(recipient))
	return b, nil
}

// ===== 只读调用 =====

// RoyaltyRuleConfig 查询版税规则 (fee_bp u16, min_fee u64)
func (c *TransferPolicyContract) RoyaltyRuleConfig() (*Bundle, error) {
	return c.view(config.FnPolicyGetRoyaltyRuleConfig, nil)
}

// ResaleLimitConfig 查询转售限价规则 (price_limit_bp u16)
func (c *TransferPolicyContract) ResaleLimitConfig() (*Bundle, error) {
	return c.view(config.FnPolicyGetResaleLimitRuleConfig, nil)
}

// PlatformFeeConfig 查询平台费规则 (fee_bp u16, min_fee u64)
func (c *TransferPolicyContract) PlatformFeeConfig() (*Bundle, error) {
	return c.view(config.FnPolicyGetPlatformFeeRuleConfig, nil)
}

// CalculateRoyaltyFee 按链上规则计算版税(u64)
func (c *TransferPolicyContract) CalculateRoyaltyFee(price uint64) (*Bundle, error) {
	return c.view(config.FnPolicyCalculateRoyaltyFee, func(b *Bundle) []Argument {
		return []Argument{b.PureU64(price)}
	})
}

// CalculatePlatformFee 按链上规则计算平台费(u64)
func (c *TransferPolicyContract) CalculatePlatformFee(price uint64) (*Bundle, error) {
	return c.view(config.FnPolicyCalculatePlatformFee, func(b *Bundle) []Argument {
		return []Argument{b.PureU64(price)}
	})
}
