package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/bagrec/core"
)

// Aggregator 读取运营维护的趋势/热门列表（有序 ID），不做任何计算。
type Aggregator struct {
	Store       core.SignalStore
	TrendingKey string
	PopularKey  string
}

// Trending 返回趋势列表，顺序即列表顺序。
func (a *Aggregator) Trending(ctx context.Context) ([]string, error) {
	return a.list(ctx, a.TrendingKey)
}

// Popular 返回热门列表，顺序即列表顺序。
func (a *Aggregator) Popular(ctx context.Context) ([]string, error) {
	return a.list(ctx, a.PopularKey)
}

func (a *Aggregator) list(ctx context.Context, key string) ([]string, error) {
	ids, err := a.Store.List(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("signal %s: %w", key, err)
	}
	return ids, nil
}

// List 是列表召回源：按 Aggregator 的某个列表顺序返回目录记录，目录中不存在的 ID 被跳过。
type List struct {
	Strategy core.Strategy
	Fetch    func(ctx context.Context) ([]string, error)
	Catalog  core.CatalogStore
}

// TrendingSource 返回趋势列表召回源。
func TrendingSource(a *Aggregator, catalog core.CatalogStore) *List {
	return &List{Strategy: core.StrategyTrending, Fetch: a.Trending, Catalog: catalog}
}

// PopularSource 返回热门列表召回源。
func PopularSource(a *Aggregator, catalog core.CatalogStore) *List {
	return &List{Strategy: core.StrategyPopular, Fetch: a.Popular, Catalog: catalog}
}

func (r *List) Name() string { return "recall." + string(r.Strategy) }

func (r *List) Recall(ctx context.Context, _ *core.RecommendContext) ([]core.Item, error) {
	ids, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []core.Item{}, nil
	}
	items, err := r.Catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return items, nil
}
