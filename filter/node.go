package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
type FilterNode struct {
	Filters []Filter
	Logger  zerolog.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []core.Item,
) ([]core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]core.Item, 0, len(items))
	filteredCount := 0

	for _, item := range items {
		shouldFilter := false

		// 依次检查每个过滤器
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				n.Logger.Debug().Err(err).Str("filter", f.Name()).Str("item_id", item.ID).Msg("filter error ignored")
				continue
			}
			if ok {
				shouldFilter = true
				break
			}
		}

		if shouldFilter {
			filteredCount++
			continue
		}

		out = append(out, item)
	}

	if filteredCount > 0 {
		n.Logger.Debug().Int("filtered", filteredCount).Int("kept", len(out)).Msg("items filtered")
	}
	return out, nil
}
