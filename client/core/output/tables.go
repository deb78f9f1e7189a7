package output

import (
	"strconv"
	"strings"
	"time"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/market"
	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/ticketing"
)

// ListingTable 挂单列表
type ListingTable []market.Listing

// TableRows 实现 Tabular
func (t ListingTable) TableRows() [][]string {
	rows := [][]string{{"门票", "活动", "挂单价", "总价", "余票", "提示"}}
	for _, l := range t {
		price, total := "未知", "未知"
		if l.PriceKnown {
			price = builder.FormatMist(l.ListedPrice)
		}
		if cost, ok := l.TotalCost(); ok {
			total = builder.FormatMist(cost)
			if l.Quote.HasFallback() {
				total += " (估算)"
			}
		}
		remaining := "-"
		if l.TotalSupply > 0 {
			remaining = strconv.FormatUint(l.TotalSupply-min(l.TicketsSold, l.TotalSupply), 10)
		}
		rows = append(rows, []string{l.TicketID, l.ActivityName, price, total, remaining, strings.Join(l.Warnings, "; ")})
	}
	return rows
}

// QuoteTable 费用明细
type QuoteTable fees.Quote

// TableRows 实现 Tabular
func (q QuoteTable) TableRows() [][]string {
	return [][]string{
		{"项目", "金额", "来源"},
		{"挂单价", builder.FormatMist(q.Price), ""},
		{"版税", builder.FormatMist(q.Royalty.Amount), string(q.Royalty.Source)},
		{"平台费", builder.FormatMist(q.PlatformFee.Amount), string(q.PlatformFee.Source)},
		{"费用合计", builder.FormatMist(q.TotalFees), ""},
		{"总价", builder.FormatMist(q.TotalCost), ""},
	}
}

// ResultTable 动作结果
type ResultTable ticketing.ActionResult

// TableRows 实现 Tabular
func (r ResultTable) TableRows() [][]string {
	rows := [][]string{{"动作", "状态", "交易摘要"}}
	digest := r.Digest
	if digest == "" {
		digest = "-"
	}
	return append(rows, []string{r.Action.Label(), r.Status, digest})
}

// TicketTable 门票列表
type TicketTable []reconcile.Ticket

// TableRows 实现 Tabular
func (t TicketTable) TableRows() [][]string {
	rows := [][]string{{"门票", "活动", "状态"}}
	for _, tk := range t {
		state := "可用"
		switch {
		case tk.Redeemed():
			state = "已核销 " + FormatTimestamp(tk.RedeemedAt)
		case tk.Protected:
			state = "已保护"
		}
		rows = append(rows, []string{tk.ID, tk.ActivityID, state})
	}
	return rows
}

// ActivityTable 活动详情
type ActivityTable reconcile.Activity

// TableRows 实现 Tabular
func (a ActivityTable) TableRows() [][]string {
	act := reconcile.Activity(a)
	return [][]string{
		{"字段", "值"},
		{"ID", act.ID},
		{"名称", act.Name},
		{"描述", act.Description},
		{"票价", builder.FormatMist(act.TicketPrice)},
		{"已售/总量", strconv.FormatUint(act.TicketsSold, 10) + "/" + strconv.FormatUint(act.TotalSupply, 10)},
		{"售票截止", FormatTimestamp(act.SaleEndedAt)},
		{"组织者", act.OrganizerProfileID},
	}
}

// FormatTimestamp 毫秒时间戳转本地时间，0 输出 "-"
func FormatTimestamp(ms uint64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(int64(ms)).Local().Format("2006-01-02 15:04:05")
}
