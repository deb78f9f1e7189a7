package market

import (
	"context"
	"fmt"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/inspect"
	"github.com/suiticket/v1/client/core/reconcile"
)

// 阶段名
const (
	StageTicket   = "fetch-ticket"
	StagePrice    = "price"
	StageFees     = "fees"
	StageActivity = "activity"
)

// Stage 挂单物化流水线中的一个阶段
//
// 阶段只读写传入的 Listing，彼此之间不共享状态。
type Stage interface {
	Name() string
	// Required 为 true 时失败会丢弃整条挂单
	Required() bool
	Run(ctx context.Context, l *Listing) error
}

// ticketStage 读取门票身份
type ticketStage struct {
	reconciler *reconcile.Reconciler
}

func (s ticketStage) Name() string   { return StageTicket }
func (s ticketStage) Required() bool { return true }

func (s ticketStage) Run(ctx context.Context, l *Listing) error {
	t, err := s.reconciler.Ticket(ctx, l.ObjectID)
	if err != nil {
		return err
	}
	l.TicketID = t.ID
	l.ActivityID = t.ActivityID
	return nil
}

// priceStage 通过只读调用获取当前挂单价
type priceStage struct {
	app  *builder.AppContract
	exec *inspect.Executor
}

func (s priceStage) Name() string   { return StagePrice }
func (s priceStage) Required() bool { return false }

func (s priceStage) Run(ctx context.Context, l *Listing) error {
	b, err := s.app.ListedPrice(l.KioskID, l.TicketID)
	if err != nil {
		return err
	}
	price, err := s.exec.CallU64(ctx, b)
	if err != nil {
		return err
	}
	l.ListedPrice = price
	l.PriceKnown = true
	return nil
}

// feeStage 按挂单价计算费用明细
type feeStage struct {
	calc     *fees.Calculator
	policyID string
}

func (s feeStage) Name() string   { return StageFees }
func (s feeStage) Required() bool { return false }

func (s feeStage) Run(ctx context.Context, l *Listing) error {
	if !l.PriceKnown {
		return fmt.Errorf("listed price unknown")
	}
	q, err := s.calc.Quote(ctx, s.policyID, l.ListedPrice)
	if err != nil {
		return err
	}
	l.Quote = &q
	return nil
}

// activityStage 读取活动展示信息
type activityStage struct {
	reconciler *reconcile.Reconciler
}

func (s activityStage) Name() string   { return StageActivity }
func (s activityStage) Required() bool { return false }

func (s activityStage) Run(ctx context.Context, l *Listing) error {
	a, err := s.reconciler.Activity(ctx, l.ActivityID)
	if err != nil {
		return err
	}
	l.ActivityName = a.Name
	l.OriginalPrice = a.TicketPrice
	l.OrganizerProfileID = a.OrganizerProfileID
	l.SaleEndedAt = a.SaleEndedAt
	l.TicketsSold = a.TicketsSold
	l.TotalSupply = a.TotalSupply
	return nil
}
