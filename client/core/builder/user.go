package builder

import "github.com/suiticket/v1/client/core/config"

// UserContract user 模块构建器
type UserContract struct {
	*BaseContract
}

// RegisterUser 注册用户，UserCap 转给 recipient
func (c *UserContract) RegisterUser(name, recipient string) (*Bundle, error) {
	b, capability, err := c.call(config.ModuleUser, config.FnUserRegister, func(b *Bundle) []Argument {
		return []Argument{b.PureString(name), b.Clock()}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{capability}, b.PureAddress(recipient))
	return b, nil
}

// UpdateUserName 修改用户名称
func (c *UserContract) UpdateUserName(capID, profileID, name string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleUser, config.FnUserUpdateName, func(b *Bundle) []Argument {
		return []Argument{b.Object(capID), b.Object(profileID), b.PureString(name)}
	})
	return b, err
}
