// Package filter 提供候选物品的过滤能力：地理半径过滤、黑名单过滤与 CEL 规则过滤。
package filter

import (
	"context"

	"github.com/rushteam/bagrec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item core.Item) (bool, error)
}
