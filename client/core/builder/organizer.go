package builder

import "github.com/suiticket/v1/client/core/config"

// OrganizerContract organizer 模块构建器
type OrganizerContract struct {
	*BaseContract
}

// RegisterOrganizer 注册主办方，新铸造的 OrganizerCap 转给 recipient
//
// 主办方档案作为共享对象创建，之后只能通过 Cap 的 profile_id 找到。
func (c *OrganizerContract) RegisterOrganizer(name, recipient string) (*Bundle, error) {
	platform, err := c.Address(config.RolePlatform)
	if err != nil {
		return nil, err
	}
	b, capability, err := c.call(config.ModuleOrganizer, config.FnOrganizerRegister, func(b *Bundle) []Argument {
		return []Argument{b.Object(platform), b.PureString(name), b.Clock()}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{capability}, b.PureAddress(recipient))
	return b, nil
}

// UpdateOrganizerName 修改主办方名称
func (c *OrganizerContract) UpdateOrganizerName(capID, profileID, name string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleOrganizer, config.FnOrganizerUpdateName, func(b *Bundle) []Argument {
		return []Argument{b.Object(capID), b.Object(profileID), b.PureString(name)}
	})
	return b, err
}

// WithdrawOrganizerBalance 从主办方金库提取 amount 并转给 recipient
func (c *OrganizerContract) WithdrawOrganizerBalance(capID, profileID string, amount uint64, recipient string) (*Bundle, error) {
	b, coin, err := c.call(config.ModuleOrganizer, config.FnOrganizerWithdrawBalance, func(b *Bundle) []Argument {
		return []Argument{b.Object(capID), b.Object(profileID), b.PureU64(amount)}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{coin}, b.PureAddress(recipient))
	return b, nil
}
