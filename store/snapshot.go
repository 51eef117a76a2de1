// Package store 提供 core 中存储接口的实现：
//
//   - MemoryStore：不可变 Snapshot + 原子替换，读路径无锁
//   - RedisStore 及其上的 RedisCatalog / RedisVectorStore / RedisSignals
//   - Guard：远程存储的超时与熔断
//   - Refresher：周期性重建 Snapshot（FileLoader / RedisLoader）
package store

import (
	"fmt"
	"time"

	"github.com/rushteam/bagrec/core"
)

// SnapshotData 是构建 Snapshot 的原始数据。
type SnapshotData struct {
	Items       []core.Item
	UserVectors map[string]core.Embedding
	ItemVectors map[string]core.Embedding
	// Lists 是有序榜单，key 与 recall.Aggregator 的 TrendingKey/PopularKey 对应
	Lists map[string][]string
}

// Snapshot 是某一时刻目录、向量与榜单的不可变视图。构建后不再修改，可被任意多个请求并发读取。
type Snapshot struct {
	items       []core.Item
	index       map[string]int
	userVectors map[string]core.Embedding
	itemVectors map[string]core.Embedding
	lists       map[string][]string
	dim         int
	loadedAt    time.Time
}

// NewSnapshot 校验并构建 Snapshot。
//
//   - 物品 ID 不能为空或重复
//   - 所有向量的维度必须等于 dim；dim <= 0 时取第一条物品向量的维度
//   - 输入的切片与 map 会被复制，调用方之后的修改不影响 Snapshot
func NewSnapshot(data SnapshotData, dim int) (*Snapshot, error) {
	s := &Snapshot{
		items:       make([]core.Item, 0, len(data.Items)),
		index:       make(map[string]int, len(data.Items)),
		userVectors: make(map[string]core.Embedding, len(data.UserVectors)),
		itemVectors: make(map[string]core.Embedding, len(data.ItemVectors)),
		lists:       make(map[string][]string, len(data.Lists)),
		dim:         dim,
		loadedAt:    time.Now(),
	}

	for _, it := range data.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item with empty id", core.ErrInvalidInput)
		}
		if _, dup := s.index[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %q", core.ErrInvalidInput, it.ID)
		}
		it.Tags = append([]string(nil), it.Tags...)
		it.Distance = nil
		s.index[it.ID] = len(s.items)
		s.items = append(s.items, it)
	}

	if s.dim <= 0 {
		for _, it := range s.items {
			if v, ok := data.ItemVectors[it.ID]; ok {
				s.dim = len(v)
				break
			}
		}
	}

	if err := copyVectors(s.itemVectors, data.ItemVectors, s.dim, "item"); err != nil {
		return nil, err
	}
	if err := copyVectors(s.userVectors, data.UserVectors, s.dim, "user"); err != nil {
		return nil, err
	}
	for k, ids := range data.Lists {
		s.lists[k] = append([]string(nil), ids...)
	}
	return s, nil
}

func copyVectors(dst, src map[string]core.Embedding, dim int, kind string) error {
	for id, v := range src {
		if len(v) != dim {
			return fmt.Errorf("%w: %s vector %q has dimension %d, want %d", core.ErrInvalidInput, kind, id, len(v), dim)
		}
		dst[id] = append(core.Embedding(nil), v...)
	}
	return nil
}

// Dimension 返回向量维度。
func (s *Snapshot) Dimension() int { return s.dim }

// Len 返回目录中的物品数。
func (s *Snapshot) Len() int { return len(s.items) }

// LoadedAt 返回 Snapshot 的构建时间。
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func (s *Snapshot) item(id string) (core.Item, bool) {
	i, ok := s.index[id]
	if !ok {
		return core.Item{}, false
	}
	return s.items[i], true
}
