package builder

import "github.com/suiticket/v1/client/core/config"

// PlatformContract platform 模块构建器
//
// 平台管理操作以 Publisher 对象作为授权凭证。
type PlatformContract struct {
	*BaseContract
}

func (c *PlatformContract) singletons() (publisher, platform string, err error) {
	if publisher, err = c.Address(config.RolePublisher); err != nil {
		return "", "", err
	}
	if platform, err = c.Address(config.RolePlatform); err != nil {
		return "", "", err
	}
	return publisher, platform, nil
}

// UpdatePlatformName 修改平台名称
func (c *PlatformContract) UpdatePlatformName(name string) (*Bundle, error) {
	publisher, platform, err := c.singletons()
	if err != nil {
		return nil, err
	}
	b, _, err := c.call(config.ModulePlatform, config.FnPlatformUpdateName, func(b *Bundle) []Argument {
		return []Argument{b.Object(publisher), b.Object(platform), b.PureString(name)}
	})
	return b, err
}

// WithdrawPlatformFees 提取平台手续费并转给 recipient
func (c *PlatformContract) WithdrawPlatformFees(amount uint64, recipient string) (*Bundle, error) {
	publisher, platform, err := c.singletons()
	if err != nil {
		return nil, err
	}
	b, coin, err := c.call(config.ModulePlatform, config.FnPlatformWithdrawFees, func(b *Bundle) []Argument {
		return []Argument{b.Object(publisher), b.Object(platform), b.PureU64(amount)}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{coin}, b.PureAddress(recipient))
	return b, nil
}
