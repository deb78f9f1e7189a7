package builder

import "github.com/suiticket/v1/client/core/config"

// TicketContract ticket 模块构建器
type TicketContract struct {
	*BaseContract
}

// PurchaseTicket 一级市场购票
//
// 先从Gas币中拆出恰好 price 的支付币，再调用购票，最后把返回的门票转给 recipient。
func (c *TicketContract) PurchaseTicket(activityID, organizerProfileID string, price uint64, recipient string) (*Bundle, error) {
	target, err := c.Target(config.ModuleTicket, config.FnTicketPurchase)
	if err != nil {
		return nil, err
	}
	platform, err := c.Address(config.RolePlatform)
	if err != nil {
		return nil, err
	}

	b := c.NewBundle()
	payment := b.SplitCoins(GasCoin(), b.PureU64(price))
	ticket := b.MoveCall(target, nil,
		b.Object(platform),
		b.Object(activityID),
		b.Object(organizerProfileID),
		payment.Item(0),
		b.Clock(),
	)
	b.TransferObjects([]Argument{ticket}, b.PureAddress(recipient))
	return b, nil
}

// RedeemTicket 核销门票
func (c *TicketContract) RedeemTicket(ticketID, activityID string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleTicket, config.FnTicketRedeem, func(b *Bundle) []Argument {
		return []Argument{b.Object(ticketID), b.ImmutableObject(activityID), b.Clock()}
	})
	return b, err
}

// ProtectTicket 将门票包装为 ProtectedTicket 并转给 recipient
func (c *TicketContract) ProtectTicket(ticketID, recipient string) (*Bundle, error) {
	b, wrapped, err := c.call(config.ModuleTicket, config.FnTicketProtect, func(b *Bundle) []Argument {
		return []Argument{b.Object(ticketID)}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{wrapped}, b.PureAddress(recipient))
	return b, nil
}

// UnprotectTicket 解除包装，取出的门票转给 recipient
func (c *TicketContract) UnprotectTicket(protectedID, recipient string) (*Bundle, error) {
	b, ticket, err := c.call(config.ModuleTicket, config.FnTicketUnprotect, func(b *Bundle) []Argument {
		return []Argument{b.Object(protectedID)}
	})
	if err != nil {
		return nil, err
	}
	b.TransferObjects([]Argument{ticket}, b.PureAddress(recipient))
	return b, nil
}

// TransferTicket 直接转移门票
//
// 只依赖链上框架的转移命令，不需要合约地址。
func (c *TicketContract) TransferTicket(ticketID, recipient string) *Bundle {
	b := c.NewBundle()
	b.TransferObjects([]Argument{b.Object(ticketID)}, b.PureAddress(recipient))
	return b
}

// IsRedeemed 查询门票是否已核销(bool)
func (c *TicketContract) IsRedeemed(ticketID string) (*Bundle, error) {
	b, _, err := c.call(config.ModuleTicket, config.FnTicketIsRedeemed, func(b *Bundle) []Argument {
		return []Argument{b.ImmutableObject(ticketID)}
	})
	return b, err
}
