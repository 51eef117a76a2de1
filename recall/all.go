package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/bagrec/core"
)

// All 是兜底召回源：按目录顺序返回全部物品，条数由后续的截断 Node 控制。
type All struct {
	Catalog core.CatalogStore
}

func (r *All) Name() string { return "recall.all" }

func (r *All) Recall(ctx context.Context, _ *core.RecommendContext) ([]core.Item, error) {
	items, err := r.Catalog.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return items, nil
}
