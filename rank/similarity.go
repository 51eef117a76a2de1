// Package rank 实现向量相似度排序：给定查询向量与候选向量集合，返回按相似度降序的 TopK ID。
package rank

import (
	"cmp"
	"math"
	"slices"

	"github.com/rushteam/bagrec/core"
)

// Scored 是带相似度分数的候选。
type Scored struct {
	ID    string
	Score float64
}

// Cosine 计算余弦相似度，范围 [-1, 1]。
// 任一向量模长为 0、维度不一致或为空时返回 0，而不是 NaN。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankScored 对全部候选打分，按分数降序排序（同分按 ID 升序，保证可复现），截取 TopK。
// topK <= 0 或候选为空时返回空切片。纯函数，不修改入参。
func RankScored(query core.Embedding, candidates map[string]core.Embedding, topK int) []Scored {
	if topK <= 0 || len(candidates) == 0 {
		return []Scored{}
	}

	scored := make([]Scored, 0, len(candidates))
	for id, vec := range candidates {
		scored = append(scored, Scored{ID: id, Score: Cosine(query, vec)})
	}

	slices.SortFunc(scored, func(a, b Scored) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// Rank 返回 TopK 候选 ID，顺序同 RankScored。
func Rank(query core.Embedding, candidates map[string]core.Embedding, topK int) []string {
	scored := RankScored(query, candidates, topK)
	ids := make([]string, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
	}
	return ids
}
