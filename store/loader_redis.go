package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bagrec/core"
)

// RedisLoader 从 Redis 并发读取目录、向量和榜单，构建 Snapshot。
// 在 Redis 之前放一层内存 Snapshot，使请求路径不再依赖 Redis 的可用性。
type RedisLoader struct {
	Catalog     *RedisCatalog
	UserVectors *RedisVectorStore
	ItemVectors *RedisVectorStore
	Signals     core.SignalStore
	TrendingKey string
	PopularKey  string
	Dimension   int
}

func (l *RedisLoader) Name() string { return "redis" }

func (l *RedisLoader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		data     SnapshotData
		trending []string
		popular  []string
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		items, err := l.Catalog.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		data.Items = items
		return nil
	})
	eg.Go(func() error {
		vecs, err := l.UserVectors.All(ctx)
		if err != nil {
			return fmt.Errorf("user vectors: %w", err)
		}
		data.UserVectors = vecs
		return nil
	})
	eg.Go(func() error {
		vecs, err := l.ItemVectors.All(ctx)
		if err != nil {
			return fmt.Errorf("item vectors: %w", err)
		}
		data.ItemVectors = vecs
		return nil
	})
	eg.Go(func() error {
		ids, err := l.Signals.List(ctx, l.TrendingKey)
		if err != nil {
			return fmt.Errorf("trending: %w", err)
		}
		trending = ids
		return nil
	})
	eg.Go(func() error {
		ids, err := l.Signals.List(ctx, l.PopularKey)
		if err != nil {
			return fmt.Errorf("popular: %w", err)
		}
		popular = ids
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	data.Lists = map[string][]string{
		l.TrendingKey: trending,
		l.PopularKey:  popular,
	}
	return NewSnapshot(data, l.Dimension)
}

// Seed 把 Snapshot 写入 Redis（目录、向量与榜单），用于初始化与测试。
func Seed(ctx context.Context, kv core.KeyValueStore, keys RedisKeys, f *Fixtures) error {
	for _, it := range f.Items {
		raw, err := marshalJSON(it.Item)
		if err != nil {
			return err
		}
		if err := kv.HSet(ctx, keys.Catalog, it.ID, raw); err != nil {
			return err
		}
		if len(it.Embedding) > 0 {
			vec, err := marshalJSON(it.Embedding)
			if err != nil {
				return err
			}
			if err := kv.HSet(ctx, keys.ItemVectors, it.ID, vec); err != nil {
				return err
			}
		}
	}
	for id, e := range f.Users {
		vec, err := marshalJSON(e)
		if err != nil {
			return err
		}
		if err := kv.HSet(ctx, keys.UserVectors, id, vec); err != nil {
			return err
		}
	}
	for key, ids := range map[string][]string{keys.Trending: f.Trending, keys.Popular: f.Popular} {
		if err := kv.Delete(ctx, key); err != nil {
			return err
		}
		// 分数从高到低，保持列表顺序
		for i, id := range ids {
			if err := kv.ZAdd(ctx, key, float64(len(ids)-i), id); err != nil {
				return err
			}
		}
	}
	return nil
}

// RedisKeys 是 Redis 中各数据的 key。
type RedisKeys struct {
	Catalog     string
	UserVectors string
	ItemVectors string
	Trending    string
	Popular     string
}
