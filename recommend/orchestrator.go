// Package recommend 实现推荐编排：按请求类型选择召回源，并在失败时沿
// PRIMARY -> FALLBACK_POPULAR -> FALLBACK_ALL 降级。
//
// 空结果与错误是两条不同的路径：主策略成功但没有结果时原样返回（类型仍为主策略），
// 只有错误（存储不可用、超时、熔断、向量维度不一致）才触发降级。
// FALLBACK_ALL 也失败或目录为空时，返回包装了 core.ErrEmptyCatalog 的错误，这是唯一对外暴露的错误。
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/filter"
	"github.com/rushteam/bagrec/metrics"
	"github.com/rushteam/bagrec/pipeline"
	"github.com/rushteam/bagrec/pkg/logging"
	"github.com/rushteam/bagrec/recall"
)

// Config 是 Orchestrator 的参数。
type Config struct {
	// DefaultCount 个性化推荐 count 为 0 时的条数
	DefaultCount int
	// MaxCount 个性化推荐条数上限
	MaxCount int
	// FallbackLimit FALLBACK_ALL 返回的条数
	FallbackLimit int
}

// DefaultConfig 返回默认参数。
func DefaultConfig() Config {
	return Config{DefaultCount: 5, MaxCount: 50, FallbackLimit: 5}
}

// Deps 是 Orchestrator 依赖的存储。
type Deps struct {
	Users       core.VectorStore
	Items       core.VectorIndex
	Catalog     core.CatalogStore
	Signals     core.SignalStore
	TrendingKey string
	PopularKey  string
	// DefaultVectorValue 是未知用户中性向量的取值
	DefaultVectorValue float64
	// Pinner 非 nil 时，每个请求开始前固定存储版本，整条降级链读同一份数据
	Pinner core.Pinner
}

// Option 配置 Orchestrator。
type Option func(*Orchestrator)

// WithLogger 设置日志器。
//
//nolint:gocritic // zerolog.Logger 按值传递
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithFilters 为所有策略的输出加上过滤器（黑名单、规则等）。
func WithFilters(filters ...filter.Filter) Option {
	return func(o *Orchestrator) {
		for _, f := range filters {
			if f != nil {
				o.filters = append(o.filters, f)
			}
		}
	}
}

// Orchestrator 是无状态的推荐编排器，可被多个请求并发使用。
type Orchestrator struct {
	cfg     Config
	logger  zerolog.Logger
	filters []filter.Filter
	pinner  core.Pinner

	sources   map[core.Strategy]recall.Source
	pipelines map[core.Strategy]*pipeline.Pipeline
}

// New 创建 Orchestrator。
func New(deps Deps, cfg Config, opts ...Option) *Orchestrator {
	def := DefaultConfig()
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = def.DefaultCount
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = def.MaxCount
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = def.FallbackLimit
	}

	o := &Orchestrator{cfg: cfg, logger: zerolog.Nop(), pinner: deps.Pinner}
	for _, opt := range opts {
		opt(o)
	}

	agg := &recall.Aggregator{Store: deps.Signals, TrendingKey: deps.TrendingKey, PopularKey: deps.PopularKey}
	o.sources = map[core.Strategy]recall.Source{
		core.StrategyPersonalized: &recall.Personalized{
			Users:        deps.Users,
			Items:        deps.Items,
			Catalog:      deps.Catalog,
			DefaultValue: deps.DefaultVectorValue,
			Logger:       o.logger,
		},
		core.StrategyNearby:   &recall.Nearby{Catalog: deps.Catalog},
		core.StrategyTrending: recall.TrendingSource(agg, deps.Catalog),
		core.StrategyPopular:  recall.PopularSource(agg, deps.Catalog),
		core.StrategyAll:      &recall.All{Catalog: deps.Catalog},
	}

	o.pipelines = make(map[core.Strategy]*pipeline.Pipeline, len(o.sources))
	for strategy, src := range o.sources {
		p := &pipeline.Pipeline{Nodes: []pipeline.Node{&recall.Node{Source: src}}}
		if len(o.filters) > 0 {
			p = p.Append(&filter.FilterNode{Filters: o.filters, Logger: o.logger})
		}
		if strategy == core.StrategyAll {
			p = p.Append(&pipeline.Truncate{N: cfg.FallbackLimit})
		}
		o.pipelines[strategy] = p
	}
	return o
}

var errEmptyFallback = errors.New("catalog returned no items")

// chain 返回某个请求类型的降级链。popular 的主策略就是热门榜单，失败后直接进入 FALLBACK_ALL。
func chain(requested core.Strategy) []core.Strategy {
	if requested == core.StrategyPopular {
		return []core.Strategy{core.StrategyPopular, core.StrategyAll}
	}
	return []core.Strategy{requested, core.StrategyPopular, core.StrategyAll}
}

// Personalized 返回个性化推荐。count 为 0 使用默认条数，超过上限时截断为上限，负数得到空结果。
func (o *Orchestrator) Personalized(ctx context.Context, userID string, count int) (*Result, error) {
	return o.Recommend(ctx, &core.RecommendContext{
		Strategy: core.StrategyPersonalized,
		UserID:   userID,
		Count:    count,
	})
}

// Nearby 返回 (lat, lng) 附近 radiusKm 公里内的物品，由近到远。
// 坐标非法或半径不为正时返回空的 nearby 结果，不降级。
func (o *Orchestrator) Nearby(ctx context.Context, lat, lng, radiusKm float64) (*Result, error) {
	return o.Recommend(ctx, &core.RecommendContext{
		Strategy: core.StrategyNearby,
		Point:    core.Coordinate{Lat: lat, Lng: lng},
		RadiusKm: radiusKm,
	})
}

// Trending 返回趋势榜单中的物品，顺序即榜单顺序。
func (o *Orchestrator) Trending(ctx context.Context) (*Result, error) {
	return o.Recommend(ctx, &core.RecommendContext{Strategy: core.StrategyTrending})
}

// Popular 返回热门榜单中的物品，顺序即榜单顺序。
func (o *Orchestrator) Popular(ctx context.Context) (*Result, error) {
	return o.Recommend(ctx, &core.RecommendContext{Strategy: core.StrategyPopular})
}

// Recommend 按 rctx.Strategy 执行推荐与降级链。rctx 不会被修改。
func (o *Orchestrator) Recommend(ctx context.Context, rctx *core.RecommendContext) (*Result, error) {
	if rctx == nil || !rctx.Strategy.Valid() {
		return nil, fmt.Errorf("%w: unknown recommendation type", core.ErrInvalidInput)
	}

	req := *rctx
	if req.RequestID == "" {
		req.RequestID = logging.RequestID(ctx)
	}
	if req.RequestID == "" {
		req.RequestID = logging.NewRequestID()
	}
	if req.Strategy == core.StrategyPersonalized {
		req.Count = o.normalizeCount(req.Count)
	}

	if o.pinner != nil {
		ctx = o.pinner.Pin(ctx)
	}

	requested := req.Strategy
	logger := o.logger.With().Str("request_id", req.RequestID).Str("requested", string(requested)).Logger()
	start := time.Now()
	defer func() {
		metrics.RecommendDuration.WithLabelValues(string(requested)).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	stages := chain(requested)
	for i, stage := range stages {
		items, err := o.run(ctx, stage, req)
		if err == nil && stage == core.StrategyAll && len(items) == 0 {
			err = errEmptyFallback
		}
		if err == nil {
			metrics.RecommendRequests.WithLabelValues(string(requested), string(stage)).Inc()
			logger.Debug().
				Str("served", string(stage)).
				Int("count", len(items)).
				Dur("took", time.Since(start)).
				Msg("recommendation served")
			return &Result{
				Recommendations: items,
				Type:            stage,
				Explanation:     Explain(stage, req.RadiusKm),
				RequestedType:   requested,
			}, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			metrics.RecommendFailures.WithLabelValues(string(requested)).Inc()
			return nil, fmt.Errorf("recommend %s: %w", requested, ctxErr)
		}

		lastErr = err
		if i+1 < len(stages) {
			next := stages[i+1]
			metrics.RecommendFallbacks.WithLabelValues(string(stage), string(next)).Inc()
			logger.Warn().Err(err).Str("from", string(stage)).Str("to", string(next)).Msg("recommendation fallback")
		}
	}

	metrics.RecommendFailures.WithLabelValues(string(requested)).Inc()
	logger.Error().Err(lastErr).Msg("recommendation fallback chain exhausted")
	return nil, fmt.Errorf("%w: %w", core.ErrEmptyCatalog, lastErr)
}

func (o *Orchestrator) run(ctx context.Context, stage core.Strategy, req core.RecommendContext) ([]core.Item, error) {
	req.Strategy = stage
	items, err := o.pipelines[stage].Run(ctx, &req, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []core.Item{}
	}
	return items, nil
}

func (o *Orchestrator) normalizeCount(count int) int {
	switch {
	case count == 0:
		return o.cfg.DefaultCount
	case count > o.cfg.MaxCount:
		return o.cfg.MaxCount
	default:
		return count
	}
}
