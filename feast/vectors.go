package feast

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/bagrec/core"
)

// VectorStore 从 Feast 在线存储读取用户向量。
// 特征值为 DOUBLE_LIST 或 FLOAT_LIST；特征缺失或为空时返回中性默认向量。
type VectorStore struct {
	Client  RowFetcher
	Project string
	// Feature 是特征引用，例如 "user_embeddings:embedding"
	Feature string
	// EntityKey 是实体列名，例如 "user_id"
	EntityKey    string
	Dim          int
	DefaultValue float64
}

func (s *VectorStore) Name() string { return "feast" }

func (s *VectorStore) Get(ctx context.Context, id string) (core.Embedding, error) {
	rows, err := s.Client.FetchRows(ctx, s.Project, []string{s.Feature}, []feastsdk.Row{
		{s.EntityKey: feastsdk.StrVal(id)},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return s.neutral(), nil
	}

	e, ok, err := embeddingFromValue(rows[0][s.Feature])
	if err != nil {
		return nil, fmt.Errorf("feast feature %s for %q: %w", s.Feature, id, err)
	}
	if !ok {
		return s.neutral(), nil
	}
	return e, nil
}

func (s *VectorStore) neutral() core.Embedding {
	return core.NeutralEmbedding(s.Dim, s.DefaultValue)
}

// embeddingFromValue 把 Feast Value 转换为向量；ok=false 表示值缺失。
func embeddingFromValue(v *types.Value) (core.Embedding, bool, error) {
	if v == nil || v.GetVal() == nil {
		return nil, false, nil
	}
	switch val := v.GetVal().(type) {
	case *types.Value_DoubleListVal:
		if len(val.DoubleListVal.GetVal()) == 0 {
			return nil, false, nil
		}
		return append(core.Embedding(nil), val.DoubleListVal.GetVal()...), true, nil
	case *types.Value_FloatListVal:
		fs := val.FloatListVal.GetVal()
		if len(fs) == 0 {
			return nil, false, nil
		}
		e := make(core.Embedding, len(fs))
		for i, f := range fs {
			e[i] = float64(f)
		}
		return e, true, nil
	default:
		return nil, false, fmt.Errorf("unsupported value type %T", val)
	}
}

var _ core.VectorStore = (*VectorStore)(nil)
