package pipeline

import (
	"context"

	"github.com/rushteam/bagrec/core"
)

// Truncate 保留前 N 个物品；N <= 0 时不截断。
type Truncate struct {
	N int
}

func (n *Truncate) Name() string { return "postprocess.truncate" }
func (n *Truncate) Kind() Kind   { return KindPostProcess }

func (n *Truncate) Process(_ context.Context, _ *core.RecommendContext, items []core.Item) ([]core.Item, error) {
	if n.N > 0 && len(items) > n.N {
		return items[:n.N], nil
	}
	return items, nil
}
