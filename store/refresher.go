package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/metrics"
)

// SnapshotLoader 构建一个完整的新 Snapshot。
type SnapshotLoader interface {
	Name() string
	Load(ctx context.Context) (*Snapshot, error)
}

// Refresher 周期性地通过 Loader 重建 Snapshot 并替换到 MemoryStore。
// 加载失败时保留旧 Snapshot，只记录日志与指标。
type Refresher struct {
	Store    *MemoryStore
	Loader   SnapshotLoader
	Interval time.Duration
	Logger   zerolog.Logger
}

// Refresh 立即加载一次。
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()
	snap, err := r.Loader.Load(ctx)
	if err != nil {
		metrics.SnapshotRefresh.WithLabelValues("error").Inc()
		r.Logger.Error().Err(err).Str("loader", r.Loader.Name()).Msg("snapshot refresh failed, keeping previous snapshot")
		return err
	}

	r.Store.Replace(snap)
	metrics.SnapshotRefresh.WithLabelValues("ok").Inc()
	metrics.SnapshotItems.Set(float64(snap.Len()))
	r.Logger.Info().
		Str("loader", r.Loader.Name()).
		Int("items", snap.Len()).
		Int("dimension", snap.Dimension()).
		Dur("took", time.Since(start)).
		Msg("snapshot refreshed")
	return nil
}

// Run 按 Interval 刷新直到 ctx 结束。Interval <= 0 时直接返回。
func (r *Refresher) Run(ctx context.Context) {
	if r.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.Refresh(ctx)
		}
	}
}
