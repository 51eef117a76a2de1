package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/metrics"
)

// BreakerConfig 是熔断器参数。
type BreakerConfig struct {
	// MaxRequests 半开状态允许通过的请求数
	MaxRequests uint32
	// Interval 闭合状态下清零计数的周期
	Interval time.Duration
	// Timeout 打开状态持续多久后进入半开
	Timeout time.Duration
	// FailureThreshold 连续失败多少次后打开
	FailureThreshold uint32
}

// Guard 为远程存储调用加上单次超时和熔断。
// 超时、熔断拒绝和后端错误统一转换为 core.ErrStoreUnavailable；NotFound 原样返回且不计入失败。
// 调用方 ctx 取消或到期导致的失败不计入熔断统计，返回的错误保留 ctx 的原因。
type Guard struct {
	name    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
}

// NewGuard 创建 Guard。timeout <= 0 表示不加单次超时。
func NewGuard(name string, timeout time.Duration, cfg BreakerConfig, logger zerolog.Logger) *Guard {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	logger = logger.With().Str("store", name).Logger()
	metrics.BreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsNotFound(err)
		},
		IsExcluded: func(err error) bool {
			var c *callerDone
			return errors.As(err, &c)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("store circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &Guard{name: name, timeout: timeout, cb: cb, logger: logger}
}

// Name 返回被保护存储的名称。
func (g *Guard) Name() string { return g.name }

// State 返回熔断器当前状态。
func (g *Guard) State() gobreaker.State { return g.cb.State() }

// callerDone 标记调用方 ctx 已结束时的失败，后端本身可能是健康的。
type callerDone struct{ err error }

func (e *callerDone) Error() string { return e.err.Error() }
func (e *callerDone) Unwrap() error { return e.err }

func guarded[T any](ctx context.Context, g *Guard, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		metrics.StoreCalls.WithLabelValues(g.name, op, "canceled").Inc()
		return zero, fmt.Errorf("%s %s: %w", g.name, op, err)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	v, err := g.cb.Execute(func() (any, error) {
		res, err := fn(callCtx)
		if err != nil && ctx.Err() != nil {
			return res, &callerDone{err: err}
		}
		return res, err
	})

	var done *callerDone
	switch {
	case err == nil:
		metrics.StoreCalls.WithLabelValues(g.name, op, "ok").Inc()
		res, _ := v.(T)
		return res, nil
	case core.IsNotFound(err):
		metrics.StoreCalls.WithLabelValues(g.name, op, "not_found").Inc()
		return zero, err
	case errors.As(err, &done):
		metrics.StoreCalls.WithLabelValues(g.name, op, "canceled").Inc()
		return zero, fmt.Errorf("%s %s: %w", g.name, op, ctx.Err())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.StoreCalls.WithLabelValues(g.name, op, "rejected").Inc()
	case errors.Is(err, context.DeadlineExceeded):
		metrics.StoreCalls.WithLabelValues(g.name, op, "timeout").Inc()
	default:
		metrics.StoreCalls.WithLabelValues(g.name, op, "error").Inc()
	}
	g.logger.Debug().Err(err).Str("op", op).Msg("guarded store call failed")
	return zero, core.Unavailable(core.ModuleStore, g.name+" "+op, err)
}

// GuardCatalog 给 CatalogStore 加上 Guard。
func GuardCatalog(s core.CatalogStore, g *Guard) core.CatalogStore {
	return &guardedCatalog{next: s, g: g}
}

type guardedCatalog struct {
	next core.CatalogStore
	g    *Guard
}

func (c *guardedCatalog) Name() string { return c.next.Name() }

func (c *guardedCatalog) GetMany(ctx context.Context, ids []string) ([]core.Item, error) {
	return guarded(ctx, c.g, "get_many", func(ctx context.Context) ([]core.Item, error) {
		return c.next.GetMany(ctx, ids)
	})
}

func (c *guardedCatalog) GetAll(ctx context.Context) ([]core.Item, error) {
	return guarded(ctx, c.g, "get_all", c.next.GetAll)
}

// GuardVectors 给 VectorStore 加上 Guard。
func GuardVectors(s core.VectorStore, g *Guard) core.VectorStore {
	return &guardedVectors{next: s, g: g}
}

type guardedVectors struct {
	next core.VectorStore
	g    *Guard
}

func (v *guardedVectors) Name() string { return v.next.Name() }

func (v *guardedVectors) Get(ctx context.Context, id string) (core.Embedding, error) {
	return guarded(ctx, v.g, "get_vector", func(ctx context.Context) (core.Embedding, error) {
		return v.next.Get(ctx, id)
	})
}

// GuardIndex 给 VectorIndex 加上 Guard。
func GuardIndex(s core.VectorIndex, g *Guard) core.VectorIndex {
	return &guardedIndex{guardedVectors: guardedVectors{next: s, g: g}, idx: s}
}

type guardedIndex struct {
	guardedVectors
	idx core.VectorIndex
}

func (v *guardedIndex) All(ctx context.Context) (map[string]core.Embedding, error) {
	return guarded(ctx, v.g, "all_vectors", v.idx.All)
}

func (v *guardedIndex) Dimension(ctx context.Context) int { return v.idx.Dimension(ctx) }

// GuardSignals 给 SignalStore 加上 Guard。
func GuardSignals(s core.SignalStore, g *Guard) core.SignalStore {
	return &guardedSignals{next: s, g: g}
}

type guardedSignals struct {
	next core.SignalStore
	g    *Guard
}

func (s *guardedSignals) Name() string { return s.next.Name() }

func (s *guardedSignals) List(ctx context.Context, key string) ([]string, error) {
	return guarded(ctx, s.g, "list", func(ctx context.Context) ([]string, error) {
		return s.next.List(ctx, key)
	})
}
