package store

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/rushteam/bagrec/core"
)

// MemoryStore 是基于 Snapshot 的内存存储，同时提供目录、榜单和用户/物品向量。
// 读取只做一次原子加载，没有锁；Replace 原子替换整个 Snapshot。
// 一次请求内的多次读取要看到同一个 Snapshot 时，先用 Pin 固定。
type MemoryStore struct {
	snap         atomic.Pointer[Snapshot]
	defaultValue float64
}

// NewMemoryStore 创建内存存储。defaultValue 是未知用户/物品的中性向量取值。
func NewMemoryStore(snapshot *Snapshot, defaultValue float64) *MemoryStore {
	m := &MemoryStore{defaultValue: defaultValue}
	if snapshot == nil {
		snapshot, _ = NewSnapshot(SnapshotData{}, 0)
	}
	m.snap.Store(snapshot)
	return m
}

func (m *MemoryStore) Name() string { return "memory" }

// Replace 原子替换当前 Snapshot；nil 被忽略。
func (m *MemoryStore) Replace(s *Snapshot) {
	if s != nil {
		m.snap.Store(s)
	}
}

// Snapshot 返回当前 Snapshot。
func (m *MemoryStore) Snapshot() *Snapshot {
	return m.snap.Load()
}

type pinKey struct{ m *MemoryStore }

// Pin 把当前 Snapshot 固定到 ctx 上。用返回的 ctx 读取时，即使期间发生 Replace，
// 读到的仍是 Pin 时的 Snapshot。ctx 已固定过时原样返回。
func (m *MemoryStore) Pin(ctx context.Context) context.Context {
	if _, ok := ctx.Value(pinKey{m}).(*Snapshot); ok {
		return ctx
	}
	return context.WithValue(ctx, pinKey{m}, m.snap.Load())
}

// current 返回 ctx 上固定的 Snapshot，没有固定时返回当前 Snapshot。
func (m *MemoryStore) current(ctx context.Context) *Snapshot {
	if s, ok := ctx.Value(pinKey{m}).(*Snapshot); ok && s != nil {
		return s
	}
	return m.snap.Load()
}

// GetMany 按 ids 顺序返回物品，不存在的 ID 被跳过。
// 返回的物品（包括 Tags）是副本。
func (m *MemoryStore) GetMany(ctx context.Context, ids []string) ([]core.Item, error) {
	s := m.current(ctx)
	out := make([]core.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.item(id); ok {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

// GetAll 按目录顺序返回全部物品（副本）。
func (m *MemoryStore) GetAll(ctx context.Context) ([]core.Item, error) {
	s := m.current(ctx)
	out := make([]core.Item, len(s.items))
	for i, it := range s.items {
		out[i] = cloneItem(it)
	}
	return out, nil
}

func cloneItem(it core.Item) core.Item {
	it.Tags = slices.Clone(it.Tags)
	return it
}

// List 返回榜单副本；不存在的榜单返回空切片。
func (m *MemoryStore) List(ctx context.Context, key string) ([]string, error) {
	s := m.current(ctx)
	return append([]string{}, s.lists[key]...), nil
}

// UserVectors 返回用户向量视图。
func (m *MemoryStore) UserVectors() *MemoryVectors {
	return &MemoryVectors{m: m, users: true}
}

// ItemVectors 返回物品向量视图。
func (m *MemoryStore) ItemVectors() *MemoryVectors {
	return &MemoryVectors{m: m}
}

// MemoryVectors 是 MemoryStore 中某一类向量的只读视图。
type MemoryVectors struct {
	m     *MemoryStore
	users bool
}

func (v *MemoryVectors) Name() string {
	if v.users {
		return "memory.user_vectors"
	}
	return "memory.item_vectors"
}

func (v *MemoryVectors) vectors(s *Snapshot) map[string]core.Embedding {
	if v.users {
		return s.userVectors
	}
	return s.itemVectors
}

// Get 返回向量副本；未知 ID 返回中性默认向量。
func (v *MemoryVectors) Get(ctx context.Context, id string) (core.Embedding, error) {
	s := v.m.current(ctx)
	if e, ok := v.vectors(s)[id]; ok {
		return append(core.Embedding(nil), e...), nil
	}
	return core.NeutralEmbedding(s.dim, v.m.defaultValue), nil
}

// All 返回当前 Snapshot 中的全部向量。返回的 map 属于 Snapshot，调用方只能读。
func (v *MemoryVectors) All(ctx context.Context) (map[string]core.Embedding, error) {
	return v.vectors(v.m.current(ctx)), nil
}

func (v *MemoryVectors) Dimension(ctx context.Context) int {
	return v.m.current(ctx).dim
}

var (
	_ core.CatalogStore = (*MemoryStore)(nil)
	_ core.SignalStore  = (*MemoryStore)(nil)
	_ core.Pinner       = (*MemoryStore)(nil)
	_ core.VectorIndex  = (*MemoryVectors)(nil)
)
