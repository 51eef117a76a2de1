// Package pipeline 把一次推荐拆成可组合的 Node 链：召回 -> 过滤。
package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/bagrec/core"
)

// Pipeline 按顺序执行 Nodes，上一个 Node 的输出是下一个 Node 的输入。
// 任一 Node 返回错误即中止，错误带上 Node 名称。
type Pipeline struct {
	Nodes []Node
}

// Append 返回追加了 nodes 的新 Pipeline，不修改 p。
func (p *Pipeline) Append(nodes ...Node) *Pipeline {
	merged := make([]Node, 0, len(p.Nodes)+len(nodes))
	merged = append(merged, p.Nodes...)
	for _, n := range nodes {
		if n != nil {
			merged = append(merged, n)
		}
	}
	return &Pipeline{Nodes: merged}
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []core.Item,
) ([]core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", node.Kind(), node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
