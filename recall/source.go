// Package recall 实现各推荐类型的候选生成：个性化（向量相似度）、附近（地理半径）、
// 趋势/热门（运营列表）以及兜底的全量目录。
package recall

import (
	"context"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/pipeline"
)

// Source 表示一个召回源。返回的物品是副本，调用方可以自由标注。
// 存储不可用时返回错误（core.IsUnavailable），空结果不是错误。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]core.Item, error)
}

// Node 把 Source 适配为 pipeline.Node，忽略输入，输出召回结果。
type Node struct {
	Source Source
}

func (n *Node) Name() string        { return n.Source.Name() }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []core.Item,
) ([]core.Item, error) {
	return n.Source.Recall(ctx, rctx)
}
