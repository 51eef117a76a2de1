// Package metrics 定义 bagrec 的 Prometheus 指标，通过 promauto 注册到默认 Registry。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendRequests 按请求类型与实际返回类型计数
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bagrec_recommend_requests_total",
			Help: "Recommendation requests by requested and served type",
		},
		[]string{"requested", "served"},
	)

	// RecommendFallbacks 记录降级链的每一次状态转移
	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bagrec_recommend_fallbacks_total",
			Help: "Fallback transitions in the recommendation state machine",
		},
		[]string{"from", "to"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bagrec_recommend_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"requested"},
	)

	// RecommendFailures 降级链耗尽的请求数
	RecommendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bagrec_recommend_failures_total",
			Help: "Requests that exhausted the fallback chain",
		},
		[]string{"requested"},
	)

	StoreCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bagrec_store_calls_total",
			Help: "Guarded store calls by store, operation and result (ok, not_found, error, timeout, rejected, canceled)",
		},
		[]string{"store", "op", "result"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bagrec_store_breaker_state",
			Help: "Circuit breaker state per store (0=closed, 1=half-open, 2=open)",
		},
		[]string{"store"},
	)

	SnapshotRefresh = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bagrec_snapshot_refresh_total",
			Help: "Snapshot refresh attempts by result",
		},
		[]string{"result"},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bagrec_snapshot_items",
			Help: "Number of catalog items in the active snapshot",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bagrec_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bagrec_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
