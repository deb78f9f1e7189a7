package builder

import "github.com/suiticket/v1/client/core/config"

// AppContract app 编排模块构建器，负责 Kiosk 二级市场
type AppContract struct {
	*BaseContract
}

// CreateKiosk 创建 Kiosk：共享 Kiosk 本身，KioskOwnerCap 转给 recipient
//
// 只使用框架函数，任何环境都可用。
func (c *AppContract) CreateKiosk(recipient string) *Bundle {
	b := c.NewBundle()
	pair := b.MoveCall(config.FrameworkKioskNew, nil)
	b.MoveCall(config.FrameworkPublicShare, []string{config.FrameworkKioskType}, pair.Item(0))
	b.TransferObjects([]Argument{pair.Item(1)}, b.PureAddress(recipient))
	return b
}

// ListTicket 将门票以 price 挂单到 Kiosk
func (c *AppContract) ListTicket(kioskID, kioskCapID, ticketID string, price uint64) (*Bundle, error) {
	policy, err := c.Address(config.RoleTransferPolicy)
	if err != nil {
		return nil, err
	}
	b, _, err := c.call(config.ModuleApp, config.FnAppListTicket, func(b *Bundle) []Argument {
		return []Argument{
			b.Object(kioskID),
			b.Object(kioskCapID),
			b.Object(ticketID),
			b.PureU64(price),
			b.ImmutableObject(policy),
		}
	})
	return b, err
}

// DelistTicket 撤单，取回的门票转给 recipient
func (c *AppContract) DelistTicket(kioskID, kioskCapID, ticketID, recipient string) (*Bundle, error) {
	b, ticket, err := c.call(config.ModuleApp, config.FnAppDelistTicket, func(b *Bundle) []Argument {
		return []Argument{b.Object(kioskID), b.Object(kioskCapID), b.PureAddress(ticketID)}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{ticket}, b.PureAddress(recipient))
	return b, nil
}

// PurchaseListedRequest 二级市场购票参数，所有对象ID由调用方事先查好
type PurchaseListedRequest struct {
	KioskID            string
	TicketID           string
	ActivityID         string
	OrganizerProfileID string
	TotalCost          uint64 // 挂单价 + 版税 + 平台费
	Recipient          string // 找零与收益币的接收方
}

// PurchaseListedTicket 从 Kiosk 购买挂单门票
//
// 命令顺序：
//  1. 从Gas币拆出恰好 TotalCost 的支付币
//  2. 调用购买函数 (kiosk, payment, ticket_id, activity, organizer_profile, platform, transfer_policy)
//  3. 将函数返回的币转回 Recipient
func (c *AppContract) PurchaseListedTicket(req PurchaseListedRequest) (*Bundle, error) {
	target, err := c.Target(config.ModuleApp, config.FnAppPurchaseTicket)
	if err != nil {
		return nil, err
	}
	platform, err := c.Address(config.RolePlatform)
	if err != nil {
		return nil, err
	}
	policy, err := c.Address(config.RoleTransferPolicy)
	if err != nil {
		return nil, err
	}

	b := c.NewBundle()
	payment := b.SplitCoins(GasCoin(), b.PureU64(req.TotalCost))
	change := b.MoveCall(target, nil,
		b.Object(req.KioskID),
		payment.Item(0),
		b.PureAddress(req.TicketID),
		b.Object(req.ActivityID),
		b.Object(req.OrganizerProfileID),
		b.Object(platform),
		b.Object(policy),
	)
	b.TransferObjects([]Argument{change}, b.PureAddress(req.Recipient))
	return b, nil
}

// ListedPrice 查询挂单价(u64)
func (c *AppContract) ListedPrice(kioskID, ticketID string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleApp, config.FnAppListedPrice, func(b *Bundle) []Argument {
		return []Argument{b.ImmutableObject(kioskID), b.PureAddress(ticketID)}
	})
	return b, err
}
