package market

import (
	"context"
	"sync"

	"github.com/suiticket/v1/internal/core/infrastructure/metrics"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// Runner 对一组挂单执行阶段流水线
//
// 返回的挂单保持输入顺序，必需阶段失败的挂单被省略。
type Runner interface {
	Run(ctx context.Context, listings []*Listing, stages []Stage) []Listing
}

// materialize 依次执行阶段，返回 false 表示挂单应被丢弃
func materialize(ctx context.Context, l *Listing, stages []Stage, logger log.Logger) bool {
	for _, s := range stages {
		err := s.Run(ctx, l)
		if err == nil {
			continue
		}
		metrics.ListingFailures.WithLabelValues(s.Name()).Inc()
		if s.Required() {
			if logger != nil {
				logger.Warnf("丢弃挂单 %s: 阶段 %s 失败: %v", l.ObjectID, s.Name(), err)
			}
			return false
		}
		if logger != nil {
			logger.Debugf("挂单 %s 阶段 %s 失败，使用占位值: %v", l.ObjectID, s.Name(), err)
		}
		l.Warnings = append(l.Warnings, s.Name()+": "+err.Error())
	}
	return true
}

// SequentialRunner 逐条物化，任一时刻只有一条挂单在访问节点
type SequentialRunner struct {
	Logger log.Logger
}

// Run 实现 Runner
func (r SequentialRunner) Run(ctx context.Context, listings []*Listing, stages []Stage) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if ctx.Err() != nil {
			break
		}
		if materialize(ctx, l, stages, r.Logger) {
			out = append(out, *l)
		}
	}
	return out
}

// PoolRunner 最多 Workers 条挂单并发物化，结果顺序与输入一致
type PoolRunner struct {
	Workers int
	Logger  log.Logger
}

// Run 实现 Runner
func (r PoolRunner) Run(ctx context.Context, listings []*Listing, stages []Stage) []Listing {
	workers := r.Workers
	if workers <= 1 {
		return SequentialRunner{Logger: r.Logger}.Run(ctx, listings, stages)
	}

	keep := make([]bool, len(listings))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, l := range listings {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, l *Listing) {
			defer wg.Done()
			defer func() { <-sem }()
			keep[i] = materialize(ctx, l, stages, r.Logger)
		}(i, l)
	}
	wg.Wait()

	out := make([]Listing, 0, len(listings))
	for i, l := range listings {
		if keep[i] {
			out = append(out, *l)
		}
	}
	return out
}
