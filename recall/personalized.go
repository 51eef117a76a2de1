package recall

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/rank"
)

// Personalized 是 Embedding 向量召回源：用户向量与全部物品向量做余弦相似度，取 TopK。
//
// 用户向量不存在时使用中性默认向量（维度与物品索引一致），因此新用户也能得到稳定排序。
// 用户向量维度与物品索引不一致属于内部错误，由 Orchestrator 降级处理。
// 各存储是同一 MemoryStore 的视图时，调用方应先用 core.Pinner 固定 ctx，否则刷新可能让一次召回读到两个版本。
type Personalized struct {
	Users   core.VectorStore
	Items   core.VectorIndex
	Catalog core.CatalogStore

	// DefaultValue 是中性默认向量每一维的取值
	DefaultValue float64

	Logger zerolog.Logger
}

func (r *Personalized) Name() string { return "recall.personalized" }

func (r *Personalized) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]core.Item, error) {
	if rctx.Count <= 0 {
		return []core.Item{}, nil
	}

	dim := r.Items.Dimension(ctx)
	userVector, err := r.Users.Get(ctx, rctx.UserID)
	switch {
	case core.IsNotFound(err):
		userVector = core.NeutralEmbedding(dim, r.DefaultValue)
	case err != nil:
		return nil, fmt.Errorf("user vector %q: %w", rctx.UserID, err)
	}
	if len(userVector) != dim {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInternalError,
			fmt.Sprintf("vector: user %q has dimension %d, item index has %d", rctx.UserID, len(userVector), dim))
	}

	itemVectors, err := r.Items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("item vectors: %w", err)
	}

	scored := rank.RankScored(userVector, itemVectors, rctx.Count)
	ids := make([]string, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
	}
	if e := r.Logger.Debug(); e.Enabled() {
		e.Str("user_id", rctx.UserID).Interface("scores", scored).Msg("personalized ranking")
	}

	items, err := r.Catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return items, nil
}
