// Package metrics 集中定义客户端核心的 Prometheus 指标
//
// 指标在 init() 中注册到默认注册表，HTTP 读接口通过 promhttp 暴露。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "suiticket"

var (
	// RPCDuration 每个 JSON-RPC 方法的调用耗时
	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "duration_seconds",
		Help:      "Duration of JSON-RPC calls by method.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	// RPCErrors JSON-RPC 调用失败次数
	RPCErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "errors_total",
		Help:      "Total number of failed JSON-RPC calls by method.",
	}, []string{"method"})

	// DevInspectCalls 只读模拟调用次数，status 为 success/failure/error
	DevInspectCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "inspect",
		Name:      "calls_total",
		Help:      "Total number of read-only simulated calls by outcome.",
	}, []string{"status"})

	// FeeFallbacks 手续费回退到本地公式的次数，component 为 royalty/platform
	FeeFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fees",
		Name:      "fallback_total",
		Help:      "Total number of fee components computed by the local fallback formula.",
	}, []string{"component"})

	// ListingFailures 挂单物化阶段失败次数
	ListingFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "listing_stage_failures_total",
		Help:      "Total number of listing materialization stage failures by stage.",
	}, []string{"stage"})

	// CacheLookups 对象缓存命中情况，result 为 hit/miss
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Total number of object cache lookups by result.",
	}, []string{"result"})

	// APIRequests HTTP 读接口请求数
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of API requests.",
	}, []string{"method", "path", "status"})

	// APIRequestDuration HTTP 读接口请求耗时
	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method", "path"})
)

func init() {
	prometheus.MustRegister(
		RPCDuration,
		RPCErrors,
		DevInspectCalls,
		FeeFallbacks,
		ListingFailures,
		CacheLookups,
		APIRequests,
		APIRequestDuration,
	)
}

// ObserveRPC 记录一次 JSON-RPC 调用
func ObserveRPC(method string, start time.Time, err error) {
	RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		RPCErrors.WithLabelValues(method).Inc()
	}
}
