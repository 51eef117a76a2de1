package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/filter"
)

// Nearby 是地理召回源：目录中距离 rctx.Point 不超过 rctx.RadiusKm 的物品，由近到远，
// 每个物品带上 distance 标注。非法坐标或非正半径返回空结果。
type Nearby struct {
	Catalog core.CatalogStore
}

func (r *Nearby) Name() string { return "recall.nearby" }

func (r *Nearby) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]core.Item, error) {
	if !(rctx.RadiusKm > 0) || !rctx.Point.Valid() {
		return []core.Item{}, nil
	}

	all, err := r.Catalog.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	within := filter.FilterByRadius(rctx.Point, all, rctx.RadiusKm)
	out := make([]core.Item, len(within))
	for i, n := range within {
		out[i] = n.Item.WithDistance(n.DistanceKm)
	}
	return out, nil
}
