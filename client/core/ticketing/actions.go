package ticketing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/session"
)

// 动作特有的状态说明
const (
	StatusAlreadyUser        = "已注册用户"
	StatusAlreadyOrganizer   = "已注册为活动组织者"
	StatusSoldOut            = "门票已售罄"
	StatusSaleEnded          = "售票已结束"
	StatusNoKiosk            = "尚未创建 Kiosk"
	StatusAlreadyRedeemed    = "门票已核销"
	StatusTicketProtected    = "门票处于保护状态，不能挂单"
	StatusResaleLimitUnknown = "无法读取转售限价规则，请稍后重试"
	StatusEmptyName          = "名称不能为空"
	StatusInvalidPrice       = "价格必须大于 0"
)

func (s *Service) requireUser(ctx context.Context, sess session.Context) (reconcile.UserResult, error) {
	res, err := s.reconciler.ResolveUser(ctx, sess)
	if err != nil {
		return res, err
	}
	if !res.Found {
		return res, &Blocked{Status: res.Status}
	}
	return res, nil
}

func (s *Service) requireOrganizer(ctx context.Context, sess session.Context) (reconcile.OrganizerResult, error) {
	res, err := s.reconciler.ResolveOrganizer(ctx, sess)
	if err != nil {
		return res, err
	}
	if !res.Found {
		return res, &Blocked{Status: res.Status}
	}
	return res, nil
}

// RegisterUser 注册用户资料，已注册时不提交交易
func (s *Service) RegisterUser(ctx context.Context, sess session.Context, name string) ActionResult {
	return s.run(ctx, ActionRegisterUser, sess, func(ctx context.Context, account string) (*builder.Bundle, error) {
		if strings.TrimSpace(name) == "" {
			return nil, blocked(StatusEmptyName)
		}
		existing, err := s.reconciler.ResolveUser(ctx, sess)
		if err != nil {
			return nil, err
		}
		if existing.Found {
			return nil, blocked(StatusAlreadyUser)
		}
		return s.contracts.User.RegisterUser(name, account)
	})
}

// RegisterOrganizer 注册组织者资料，已注册时不提交交易
func (s *Service) RegisterOrganizer(ctx context.Context, sess session.Context, name string) ActionResult {
	return s.run(ctx, ActionRegisterOrganizer, sess, func(ctx context.Context, account string) (*builder.Bundle, error) {
		if strings.TrimSpace(name) == "" {
			return nil, blocked(StatusEmptyName)
		}
		existing, err := s.reconciler.ResolveOrganizer(ctx, sess)
		if err != nil {
			return nil, err
		}
		if existing.Found {
			return nil, blocked(StatusAlreadyOrganizer)
		}
		return s.contracts.Organizer.RegisterOrganizer(name, account)
	})
}

// ActivityInput 创建活动的参数
type ActivityInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalSupply uint64    `json:"total_supply"`
	TicketPrice uint64    `json:"ticket_price"`
	SaleEndsAt  time.Time `json:"sale_ends_at"`
}

// CreateActivity 以当前账户的组织者身份创建活动
func (s *Service) CreateActivity(ctx context.Context, sess session.Context, in ActivityInput) ActionResult {
	return s.run(ctx, ActionCreateActivity, sess, func(ctx context.Context, _ string) (*builder.Bundle, error) {
		if strings.TrimSpace(in.Name) == "" {
			return nil, blocked(StatusEmptyName)
		}
		if in.TotalSupply == 0 {
			return nil, blocked("票量必须大于 0")
		}
		if !in.SaleEndsAt.After(time.Now()) {
			return nil, blocked("售票截止时间必须晚于当前时间")
		}
		org, err := s.requireOrganizer(ctx, sess)
		if err != nil {
			return nil, err
		}
		return s.contracts.Activity.CreateActivity(builder.CreateActivityRequest{
			OrganizerCapID:     org.Cap.ID,
			OrganizerProfileID: org.Profile.ID,
			Name:               in.Name,
			Description:        in.Description,
			TotalSupply:        in.TotalSupply,
			TicketPrice:        in.TicketPrice,
			SaleEndedAt:        uint64(in.SaleEndsAt.UnixMilli()),
		})
	})
}

// BuyTicket 一级市场购票，门票转入当前账户
func (s *Service) BuyTicket(ctx context.Context, sess session.Context, activityID string) ActionResult {
	return s.run(ctx, ActionBuyTicket, sess, func(ctx context.Context, account string) (*builder.Bundle, error) {
		if _, err := s.requireUser(ctx, sess); err != nil {
			return nil, err
		}
		act, err := s.reconciler.Activity(ctx, activityID)
		if err != nil {
			return nil, err
		}
		if act.Remaining() == 0 {
			return nil, blocked(StatusSoldOut)
		}
		if act.SaleEndedAt != 0 && uint64(time.Now().UnixMilli()) >= act.SaleEndedAt {
			return nil, blocked(StatusSaleEnded)
		}
		return s.contracts.Ticket.PurchaseTicket(act.ID, act.OrganizerProfileID, act.TicketPrice, account)
	})
}

// CreateKiosk 为当前账户创建 Kiosk
func (s *Service) CreateKiosk(ctx context.Context, sess session.Context) ActionResult {
	return s.run(ctx, ActionCreateKiosk, sess, func(_ context.Context, account string) (*builder.Bundle, error) {
		return s.contracts.App.CreateKiosk(account), nil
	})
}

// ListTicket 将持有的门票挂单到当前账户的 Kiosk
//
// 挂单价受转让策略的转售上限约束，上限按活动原价计算。
func (s *Service) ListTicket(ctx context.Context, sess session.Context, ticketID string, price uint64) ActionResult {
	return s.run(ctx, ActionListTicket, sess, func(ctx context.Context, _ string) (*builder.Bundle, error) {
		if price == 0 {
			return nil, blocked(StatusInvalidPrice)
		}
		ticket, err := s.reconciler.Ticket(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if ticket.Protected {
			return nil, blocked(StatusTicketProtected)
		}
		if ticket.Redeemed() {
			return nil, blocked(StatusAlreadyRedeemed)
		}
		act, err := s.reconciler.Activity(ctx, ticket.ActivityID)
		if err != nil {
			return nil, err
		}
		rule, err := s.calc.ResaleLimit(ctx, "")
		if err != nil {
			s.warnf("读取转售限价规则失败，拒绝挂单 %s: %v", ticket.ID, err)
			return nil, blocked(StatusResaleLimitUnknown)
		}
		cfg := fees.PolicyConfig{ResaleLimit: rule}
		if limit, limited := cfg.MaxResalePrice(act.TicketPrice); limited && price > limit {
			return nil, blocked("挂单价超过转售上限 %s", builder.FormatMist(limit))
		}
		kioskCap, found, err := s.reconciler.KioskCap(ctx, sess, "")
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, blocked(StatusNoKiosk)
		}
		return s.contracts.App.ListTicket(kioskCap.KioskID, kioskCap.ID, ticket.ID, price)
	})
}

// DelistTicket 撤回 Kiosk 中的挂单，门票转回当前账户
func (s *Service) DelistTicket(ctx context.Context, sess session.Context, kioskID, ticketID string) ActionResult {
	return s.run(ctx, ActionDelistTicket, sess, func(ctx context.Context, account string) (*builder.Bundle, error) {
		kioskCap, found, err := s.reconciler.KioskCap(ctx, sess, kioskID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, blocked("不持有 Kiosk %s 的凭证", kioskID)
		}
		return s.contracts.App.DelistTicket(kioskCap.KioskID, kioskCap.ID, ticketID, account)
	})
}

// PurchasePlan 二级市场购票的报价与对象
type PurchasePlan struct {
	Request builder.PurchaseListedRequest `json:"request"`
	Quote   fees.Quote                    `json:"quote"`
}

// PlanPurchase 计算购买挂单门票所需的总价并收集对象ID，不提交交易
func (s *Service) PlanPurchase(ctx context.Context, kioskID, ticketID, recipient string) (PurchasePlan, error) {
	priceBundle, err := s.contracts.App.ListedPrice(kioskID, ticketID)
	if err != nil {
		return PurchasePlan{}, err
	}
	price, err := s.exec.CallU64(ctx, priceBundle)
	if err != nil {
		return PurchasePlan{}, fmt.Errorf("listed price of %s: %w", ticketID, err)
	}
	quote, err := s.calc.Quote(ctx, "", price)
	if err != nil {
		return PurchasePlan{}, err
	}
	ticket, err := s.reconciler.Ticket(ctx, ticketID)
	if err != nil {
		return PurchasePlan{}, err
	}
	act, err := s.reconciler.Activity(ctx, ticket.ActivityID)
	if err != nil {
		return PurchasePlan{}, err
	}
	return PurchasePlan{
		Request: builder.PurchaseListedRequest{
			KioskID:            kioskID,
			TicketID:           ticket.ID,
			ActivityID:         act.ID,
			OrganizerProfileID: act.OrganizerProfileID,
			TotalCost:          quote.TotalCost,
			Recipient:          recipient,
		},
		Quote: quote,
	}, nil
}

// BuyListedTicket 购买挂单门票，支付币恰好等于挂单价加全部费用
func (s *Service) BuyListedTicket(ctx context.Context, sess session.Context, kioskID, ticketID string) ActionResult {
	return s.run(ctx, ActionBuyListedTicket, sess, func(ctx context.Context, account string) (*builder.Bundle, error) {
		if _, err := s.requireUser(ctx, sess); err != nil {
			return nil, err
		}
		plan, err := s.PlanPurchase(ctx, kioskID, ticketID, account)
		if err != nil {
			return nil, err
		}
		if plan.Quote.HasFallback() {
			s.warnf("purchase of %s uses fallback fee estimates", ticketID)
		}
		return s.contracts.App.PurchaseListedTicket(plan.Request)
	})
}

// RedeemTicket 核销当前账户持有的门票
func (s *Service) RedeemTicket(ctx context.Context, sess session.Context, ticketID string) ActionResult {
	return s.run(ctx, ActionRedeemTicket, sess, func(ctx context.Context, _ string) (*builder.Bundle, error) {
		ticket, err := s.reconciler.Ticket(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if ticket.Protected {
			return nil, blocked(StatusTicketProtected)
		}
		if ticket.Redeemed() {
			return nil, blocked(StatusAlreadyRedeemed)
		}
		return s.contracts.Ticket.RedeemTicket(ticket.ID, ticket.ActivityID)
	})
}

// Rule 转让策略规则
type Rule string

const (
	RuleRoyalty     Rule = "royalty"
	RuleResaleLimit Rule = "resale-limit"
	RulePlatformFee Rule = "platform-fee"
)

// PolicyChange 单条规则的变更
//
// Remove 为 true 时移除规则；否则费率规则使用 FeeBP/MinFee，转售上限使用 PriceLimitBP。
type PolicyChange struct {
	Rule         Rule   `json:"rule"`
	Remove       bool   `json:"remove"`
	FeeBP        uint16 `json:"fee_bp"`
	MinFee       uint64 `json:"min_fee"`
	PriceLimitBP uint16 `json:"price_limit_bp"`
}

// ConfigurePolicy 更新转让策略的一条规则，需要当前账户持有策略凭证
func (s *Service) ConfigurePolicy(ctx context.Context, sess session.Context, change PolicyChange) ActionResult {
	return s.run(ctx, ActionConfigurePolicy, sess, func(context.Context, string) (*builder.Bundle, error) {
		p := s.contracts.TransferPolicy
		switch change.Rule {
		case RuleRoyalty:
			if change.Remove {
				return p.RemoveRoyaltyRule()
			}
			return p.SetRoyaltyRule(change.FeeBP, change.MinFee)
		case RuleResaleLimit:
			if change.Remove {
				return p.RemoveResaleLimitRule()
			}
			if change.PriceLimitBP == 0 {
				return nil, blocked("转售上限必须大于 0")
			}
			return p.SetResaleLimitRule(change.PriceLimitBP)
		case RulePlatformFee:
			if change.Remove {
				return p.RemovePlatformFeeRule()
			}
			return p.SetPlatformFeeRule(change.FeeBP, change.MinFee)
		default:
			return nil, blocked("未知的策略规则 %q", change.Rule)
		}
	})
}
