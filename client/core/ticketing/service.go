// Package ticketing 提供面向用户的顶层票务动作
//
// 每个动作依次检查网络配置、解析所需资料、构建交易包、交由钱包签名提交，
// 提交成功后等待一段结算时间再返回，以便随后的读取看到新状态。
// 所有失败都转换成 ActionResult 中的状态说明，不会以 panic 形式抵达调用方。
package ticketing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/inspect"
	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/session"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/wallet"
	eventbus "github.com/suiticket/v1/internal/core/infrastructure/event"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/event"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// DefaultSettleDelay 提交成功后到返回前的等待时间
const DefaultSettleDelay = 2 * time.Second

// 通用状态说明
const (
	StatusNotConfigured = "当前网络未部署票务合约"
	StatusNotConnected  = "请先连接钱包"
	StatusWrongNetwork  = "钱包网络与当前网络不一致"
)

// Action 动作名
type Action string

const (
	ActionRegisterUser      Action = "register-user"
	ActionRegisterOrganizer Action = "register-organizer"
	ActionCreateActivity    Action = "create-activity"
	ActionBuyTicket         Action = "buy-ticket"
	ActionCreateKiosk       Action = "create-kiosk"
	ActionListTicket        Action = "list-ticket"
	ActionDelistTicket      Action = "delist-ticket"
	ActionBuyListedTicket   Action = "buy-listed-ticket"
	ActionRedeemTicket      Action = "redeem-ticket"
	ActionConfigurePolicy   Action = "configure-policy"
)

var actionLabels = map[Action]string{
	ActionRegisterUser:      "注册用户",
	ActionRegisterOrganizer: "注册组织者",
	ActionCreateActivity:    "创建活动",
	ActionBuyTicket:         "购票",
	ActionCreateKiosk:       "创建 Kiosk",
	ActionListTicket:        "挂单",
	ActionDelistTicket:      "撤单",
	ActionBuyListedTicket:   "购买挂单门票",
	ActionRedeemTicket:      "核销门票",
	ActionConfigurePolicy:   "更新转让策略",
}

// Label 动作的中文名
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// ActionResult 动作结果
//
// Status 总是可直接展示的说明。Digest 仅在交易已提交时非空；
// Err 保留原始错误供程序判断，序列化时以字符串形式输出。
type ActionResult struct {
	ID     string `json:"id"`
	Action Action `json:"action"`
	Status string `json:"status"`
	Digest string `json:"digest,omitempty"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"`
}

// OK 交易已提交且执行成功
func (r ActionResult) OK() bool { return r.Err == nil && r.Digest != "" }

// Blocked 动作的前置条件不满足，Status 为展示给用户的原因
type Blocked struct {
	Status string
}

func (b *Blocked) Error() string { return b.Status }

func blocked(format string, args ...interface{}) error {
	return &Blocked{Status: fmt.Sprintf(format, args...)}
}

// Service 票务动作服务，绑定单个网络环境
type Service struct {
	env        config.Environment
	registry   *config.Registry
	contracts  *builder.Contracts
	reconciler *reconcile.Reconciler
	exec       *inspect.Executor
	calc       *fees.Calculator
	wallet     wallet.Wallet
	bus        event.EventBus
	logger     log.Logger
	settle     time.Duration
}

// Option 服务选项
type Option func(*Service)

// WithSettleDelay 设置结算等待时间，0 表示不等待
func WithSettleDelay(d time.Duration) Option {
	return func(s *Service) { s.settle = d }
}

// WithEventBus 提交完成后在总线上发布 tx:submitted
func WithEventBus(bus event.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithLogger 设置日志
func WithLogger(logger log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.With("module", log.ModuleActions)
		}
	}
}

// NewService 创建服务
func NewService(client transport.Client, registry *config.Registry, env config.Environment, w wallet.Wallet, opts ...Option) *Service {
	s := &Service{
		env:      env,
		registry: registry,
		wallet:   w,
		settle:   DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.contracts = builder.NewContracts(env, registry)
	s.reconciler = reconcile.New(client, registry, env, s.logger)
	s.exec = inspect.NewExecutor(client, s.logger)
	s.calc = fees.NewCalculator(s.contracts.TransferPolicy, s.exec, s.logger)
	return s
}

// Env 绑定的网络环境
func (s *Service) Env() config.Environment { return s.env }

// Reconciler 服务使用的实体读取器
func (s *Service) Reconciler() *reconcile.Reconciler { return s.reconciler }

// Contracts 服务使用的交易包构建器
func (s *Service) Contracts() *builder.Contracts { return s.contracts }

// Executor 只读调用执行器
func (s *Service) Executor() *inspect.Executor { return s.exec }

// Calculator 费用计算器
func (s *Service) Calculator() *fees.Calculator { return s.calc }

func (s *Service) infof(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Infof(format, args...)
	}
}

func (s *Service) warnf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warnf(format, args...)
	}
}

// buildFunc 为已连接账户构建交易包
type buildFunc func(ctx context.Context, account string) (*builder.Bundle, error)

// run 执行动作的公共流程
func (s *Service) run(ctx context.Context, action Action, sess session.Context, build buildFunc) ActionResult {
	res := ActionResult{ID: uuid.NewString(), Action: action}

	account, err := s.precheck(sess)
	if err != nil {
		return s.fail(res, err)
	}

	b, err := build(ctx, account)
	if err != nil {
		return s.fail(res, err)
	}
	b.SetSender(account)

	submitted, err := s.wallet.SignAndSubmit(ctx, b, s.env)
	if err != nil {
		var execErr *wallet.ExecutionError
		if errors.As(err, &execErr) {
			res.Digest = execErr.Digest
		}
		return s.fail(res, err)
	}

	res.Digest = submitted.Digest
	res.Status = fmt.Sprintf("%s成功", action.Label())
	s.infof("%s %s submitted as %s", res.ID, action, res.Digest)

	if err := s.wait(ctx); err != nil {
		res.Err = err
		res.Error = err.Error()
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.EventTransactionSubmitted, res)
	}
	return res
}

func (s *Service) precheck(sess session.Context) (string, error) {
	if !s.registry.Available(s.env, config.RolePackage) {
		return "", &Blocked{Status: StatusNotConfigured}
	}
	if sess.Env != s.env {
		return "", &Blocked{Status: StatusWrongNetwork}
	}
	account, err := sess.RequireAccount()
	if err != nil || s.wallet == nil {
		return "", &Blocked{Status: StatusNotConnected}
	}
	return account, nil
}

func (s *Service) fail(res ActionResult, err error) ActionResult {
	res.Err = err
	res.Error = err.Error()

	var b *Blocked
	switch {
	case errors.As(err, &b):
		res.Status = b.Status
	case errors.Is(err, builder.ErrNotDeployed):
		res.Status = StatusNotConfigured
	case errors.Is(err, wallet.ErrExecutionFailed):
		res.Status = fmt.Sprintf("%s失败，交易执行出错: %s", res.Action.Label(), err.Error())
	default:
		res.Status = fmt.Sprintf("%s失败: %s", res.Action.Label(), err.Error())
	}
	s.warnf("%s %s: %s", res.ID, res.Action, res.Status)
	return res
}

// wait 等待结算，ctx 取消时提前返回
func (s *Service) wait(ctx context.Context) error {
	if s.settle <= 0 {
		return nil
	}
	timer := time.NewTimer(s.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
