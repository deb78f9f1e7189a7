package builder

import (
	"fmt"

	"github.com/suiticket/v1/client/core/config"
)

// BaseContract 所有模块构建器共享的基础
//
// 绑定一个网络环境与注册表，负责分配新交易包并解析调用目标。
// 同一交易包内的所有地址都来自同一环境。
type BaseContract struct {
	env       config.Environment
	registry  *config.Registry
	gasBudget uint64
}

// NewBaseContract 创建基础构建器
func NewBaseContract(env config.Environment, registry *config.Registry) *BaseContract {
	return &BaseContract{env: env, registry: registry, gasBudget: config.DefaultGasBudget}
}

// WithGasBudget 返回使用另一Gas预算的副本
func (c *BaseContract) WithGasBudget(budget uint64) *BaseContract {
	cp := *c
	cp.gasBudget = budget
	return &cp
}

// Env 当前网络环境
func (c *BaseContract) Env() config.Environment { return c.env }

// Registry 注册表
func (c *BaseContract) Registry() *config.Registry { return c.registry }

// NewBundle 分配使用默认预算的空交易包
func (c *BaseContract) NewBundle() *Bundle {
	return NewBundle().SetGasBudget(c.gasBudget)
}

// Target 返回最新包下的调用目标，包未部署时返回 ErrNotDeployed
func (c *BaseContract) Target(module, function string) (string, error) {
	target := c.registry.Target(c.env, module, function)
	if target == "" {
		return "", fmt.Errorf("%w: %s (%s)", ErrNotDeployed, config.ModuleFunctionTarget(module, function), c.env)
	}
	return target, nil
}

// Address 按角色查询地址，未配置时返回 ErrNotDeployed
func (c *BaseContract) Address(role config.Role) (string, error) {
	addr := c.registry.AddressOf(c.env, role)
	if addr == "" {
		return "", fmt.Errorf("%w: %s (%s)", ErrNotDeployed, role, c.env)
	}
	return addr, nil
}

// StructType 返回最新包下的结构体类型
func (c *BaseContract) StructType(module, name string) (string, error) {
	pkg, err := c.Address(config.RolePackage)
	if err != nil {
		return "", err
	}
	return config.StructType(pkg, module, name), nil
}

// call 分配新交易包并追加对 module::function 的调用
func (c *BaseContract) call(module, function string, args func(b *Bundle) []Argument) (*Bundle, Argument, error) {
	target, err := c.Target(module, function)
	if err != nil {
		return nil, Argument{}, err
	}
	b := c.NewBundle()
	res := b.MoveCall(target, nil, args(b)...)
	return b, res, nil
}

// Contracts 一个环境下全部模块构建器的集合
type Contracts struct {
	Platform       *PlatformContract
	Organizer      *OrganizerContract
	User           *UserContract
	Activity       *ActivityContract
	Ticket         *TicketContract
	TransferPolicy *TransferPolicyContract
	App            *AppContract
}

// NewContracts 创建某环境下的全部构建器
func NewContracts(env config.Environment, registry *config.Registry) *Contracts {
	base := NewBaseContract(env, registry)
	return &Contracts{
		Platform:       &PlatformContract{base},
		Organizer:      &OrganizerContract{base},
		User:           &UserContract{base},
		Activity:       &ActivityContract{base},
		Ticket:         &TicketContract{base},
		TransferPolicy: &TransferPolicyContract{BaseContract: base},
		App:            &AppContract{base},
	}
}
