package market

import (
	"context"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/fees"
	"github.com/suiticket/v1/client/core/inspect"
	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// Aggregator Kiosk 挂单聚合器
type Aggregator struct {
	pager      *Pager
	reconciler *reconcile.Reconciler
	registry   *config.Registry
	stages     []Stage
	runner     Runner
	logger     log.Logger
}

// Option 聚合器选项
type Option func(*Aggregator)

// WithRunner 替换默认的顺序执行器
func WithRunner(r Runner) Option {
	return func(a *Aggregator) { a.runner = r }
}

// WithPolicy 使用指定的转移策略计算费用
func WithPolicy(policyID string) Option {
	return func(a *Aggregator) {
		for i, s := range a.stages {
			if fs, ok := s.(feeStage); ok {
				fs.policyID = policyID
				a.stages[i] = fs
			}
		}
	}
}

// WithPageLimit 设置动态字段分页大小
func WithPageLimit(limit int) Option {
	return func(a *Aggregator) {
		if limit > 0 && limit <= transport.PageLimit {
			a.pager.limit = limit
		}
	}
}

// NewAggregator 创建聚合器，logger 可为 nil
func NewAggregator(
	client transport.Client,
	reconciler *reconcile.Reconciler,
	contracts *builder.Contracts,
	exec *inspect.Executor,
	calc *fees.Calculator,
	registry *config.Registry,
	logger log.Logger,
	opts ...Option,
) *Aggregator {
	if logger != nil {
		logger = logger.With("module", log.ModuleMarket)
	}
	a := &Aggregator{
		pager:      NewPager(client, transport.PageLimit),
		reconciler: reconciler,
		registry:   registry,
		stages: []Stage{
			ticketStage{reconciler: reconciler},
			priceStage{app: contracts.App, exec: exec},
			feeStage{calc: calc},
			activityStage{reconciler: reconciler},
		},
		logger: logger,
	}
	a.runner = SequentialRunner{Logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stages 当前流水线的阶段名
func (a *Aggregator) Stages() []string {
	names := make([]string, len(a.stages))
	for i, s := range a.stages {
		names[i] = s.Name()
	}
	return names
}

// TicketEntries 取回 Kiosk 的全部动态字段并只保留门票条目
func (a *Aggregator) TicketEntries(ctx context.Context, kioskID string) ([]transport.DynamicFieldInfo, error) {
	fields, err := a.pager.All(ctx, kioskID)
	if err != nil {
		return nil, err
	}
	env := a.reconciler.Env()
	filters := append(
		reconcile.FiltersForAllVersions(a.registry, env, config.ModuleTicket, config.StructTicket),
		reconcile.FiltersForAllVersions(a.registry, env, config.ModuleTicket, config.StructProtectedTicket)...,
	)
	var out []transport.DynamicFieldInfo
	for _, f := range fields {
		if reconcile.MatchesAny(filters, f.ObjectType) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Listings 物化 Kiosk 中的全部挂单
//
// 只有取回动态字段失败时返回错误，单条挂单的失败不影响其他挂单。
func (a *Aggregator) Listings(ctx context.Context, kioskID string) ([]Listing, error) {
	entries, err := a.TicketEntries(ctx, kioskID)
	if err != nil {
		return nil, err
	}
	pending := make([]*Listing, len(entries))
	for i, e := range entries {
		pending[i] = newListing(kioskID, e.ObjectID)
	}
	listings := a.runner.Run(ctx, pending, a.stages)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.logger != nil {
		a.logger.Debugf("Kiosk %s: %d 条门票条目，物化 %d 条", kioskID, len(entries), len(listings))
	}
	return listings, nil
}
