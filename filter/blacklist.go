package filter

import (
	"context"

	"github.com/rushteam/bagrec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉下架/售罄等不应再推荐的物品。
type BlacklistFilter struct {
	ids map[string]struct{}
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []string) *BlacklistFilter {
	ids := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = struct{}{}
	}
	return &BlacklistFilter{ids: ids}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item core.Item,
) (bool, error) {
	_, blocked := f.ids[item.ID]
	return blocked, nil
}
