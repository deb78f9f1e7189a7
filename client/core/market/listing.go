// Package market 枚举 Kiosk 中的挂单并物化为展示实体
//
// 动态字段必须全部分页取回后再过滤，因为引用记录本身不足以判断对象类型。
// 每条挂单按阶段流水线独立物化：必需阶段失败只丢弃该条挂单，
// 可选阶段失败写入占位值与警告后继续。
package market

import (
	"github.com/suiticket/v1/client/core/fees"
)

// UnknownActivityName 活动信息读取失败时的名称占位
const UnknownActivityName = "未知活动"

// Listing 一条挂单的展示实体
type Listing struct {
	KioskID            string      `json:"kioskId"`
	ObjectID           string      `json:"objectId"`
	TicketID           string      `json:"ticketId"`
	ActivityID         string      `json:"activityId"`
	ListedPrice        uint64      `json:"listedPrice,string"`
	PriceKnown         bool        `json:"priceKnown"`
	Quote              *fees.Quote `json:"quote,omitempty"`
	ActivityName       string      `json:"activityName"`
	OriginalPrice      uint64      `json:"originalPrice,string"`
	OrganizerProfileID string      `json:"organizerProfileId"`
	SaleEndedAt        uint64      `json:"saleEndedAt"`
	TicketsSold        uint64      `json:"ticketsSold"`
	TotalSupply        uint64      `json:"totalSupply"`
	Warnings           []string    `json:"warnings,omitempty"`
}

// newListing 以占位值初始化挂单
func newListing(kioskID, objectID string) *Listing {
	return &Listing{
		KioskID:      kioskID,
		ObjectID:     objectID,
		ActivityName: UnknownActivityName,
	}
}

// TotalCost 买方需支付的总额，价格未知时返回 false
func (l Listing) TotalCost() (uint64, bool) {
	if l.Quote == nil {
		return 0, false
	}
	return l.Quote.TotalCost, true
}
