package builder

import "github.com/suiticket/v1/client/core/config"

// ActivityContract activity 模块构建器
type ActivityContract struct {
	*BaseContract
}

// CreateActivityRequest 创建活动参数
type CreateActivityRequest struct {
	OrganizerCapID     string
	OrganizerProfileID string
	Name               string
	Description        string
	TotalSupply        uint64
	TicketPrice        uint64 // MIST
	SaleEndedAt        uint64 // 毫秒时间戳
}

// CreateActivity 创建活动
func (c *ActivityContract) CreateActivity(req CreateActivityRequest) (*Bundle, error) {
	b, _, err := c.call(config.ModuleActivity, config.FnActivityCreate, func(b *Bundle) []Argument {
		return []Argument{
			b.Object(req.OrganizerCapID),
			b.Object(req.OrganizerProfileID),
			b.PureString(req.Name),
			b.PureString(req.Description),
			b.PureU64(req.TotalSupply),
			b.PureU64(req.TicketPrice),
			b.PureU64(req.SaleEndedAt),
			b.Clock(),
		}
	})
	return b, err
}

// UpdateActivityPrice 修改票价
func (c *ActivityContract) UpdateActivityPrice(capID, activityID string, price uint64) (*Bundle, error) {
	b, _, err := c.call(config.ModuleActivity, config.FnActivityUpdateTicketPrice, func(b *Bundle) []Argument {
		return []Argument{b.Object(capID), b.Object(activityID), b.PureU64(price)}
	})
	return b, err
}

// ===== 只读调用 =====

// TicketPrice 查询票价(u64)
func (c *ActivityContract) TicketPrice(activityID string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleActivity, config.FnActivityTicketPrice, func(b *Bundle) []Argument {
		return []Argument{b.ImmutableObject(activityID)}
	})
	return b, err
}

// IsSaleActive 查询是否在售(bool)
func (c *ActivityContract) IsSaleActive(activityID string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleActivity, config.FnActivityIsSaleActive, func(b *Bundle) []Argument {
		return []Argument{b.ImmutableObject(activityID), b.Clock()}
	})
	return b, err
}

// RemainingSupply 查询剩余票数(u64)
func (c *ActivityContract) RemainingSupply(activityID string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleActivity, config.FnActivityRemainingSupply, func(b *Bundle) []Argument {
		return []Argument{b.ImmutableObject(activityID)}
	})
	return b, err
}
