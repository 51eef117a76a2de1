package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rushteam/bagrec/core"
)

// RedisCatalog 把目录存放在一个 Hash 中：field 为物品 ID，value 为物品 JSON。
type RedisCatalog struct {
	KV  core.KeyValueStore
	Key string
}

func (c *RedisCatalog) Name() string { return "redis.catalog" }

// GetMany 使用一次 HMGET，按 ids 顺序返回，不存在的 ID 被跳过。
func (c *RedisCatalog) GetMany(ctx context.Context, ids []string) ([]core.Item, error) {
	if len(ids) == 0 {
		return []core.Item{}, nil
	}
	vals, err := c.KV.HMGet(ctx, c.Key, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]core.Item, 0, len(ids))
	for i, raw := range vals {
		if raw == nil {
			continue
		}
		it, err := decodeItem(ids[i], raw)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

// GetAll 返回全部物品，按 ID 升序（Hash 本身无序）。
func (c *RedisCatalog) GetAll(ctx context.Context) ([]core.Item, error) {
	all, err := c.KV.HGetAll(ctx, c.Key)
	if err != nil {
		return nil, err
	}
	out := make([]core.Item, 0, len(all))
	for id, raw := range all {
		it, err := decodeItem(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b core.Item) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func decodeItem(id string, raw []byte) (core.Item, error) {
	var it core.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return core.Item{}, fmt.Errorf("decode item %q: %w", id, err)
	}
	if it.ID == "" {
		it.ID = id
	}
	it.Distance = nil
	return it, nil
}

// RedisVectorStore 把向量存放在一个 Hash 中：field 为 ID，value 为 JSON 浮点数组。
type RedisVectorStore struct {
	KV  core.KeyValueStore
	Key string
	// Dim 是向量维度，也是中性默认向量的维度
	Dim          int
	DefaultValue float64
}

func (v *RedisVectorStore) Name() string { return "redis.vectors:" + v.Key }

// Get 未知 ID 返回中性默认向量。
func (v *RedisVectorStore) Get(ctx context.Context, id string) (core.Embedding, error) {
	raw, err := v.KV.HGet(ctx, v.Key, id)
	if core.IsNotFound(err) {
		return core.NeutralEmbedding(v.Dim, v.DefaultValue), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeVector(id, raw)
}

func (v *RedisVectorStore) All(ctx context.Context) (map[string]core.Embedding, error) {
	all, err := v.KV.HGetAll(ctx, v.Key)
	if err != nil {
		return nil, err
	}
	out := make(map[string]core.Embedding, len(all))
	for id, raw := range all {
		e, err := decodeVector(id, raw)
		if err != nil {
			return nil, err
		}
		out[id] = e
	}
	return out, nil
}

func (v *RedisVectorStore) Dimension(context.Context) int { return v.Dim }

func decodeVector(id string, raw []byte) (core.Embedding, error) {
	var e core.Embedding
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode vector %q: %w", id, err)
	}
	return e, nil
}

// RedisSignals 把榜单存放在有序集合中，分数越高越靠前。
type RedisSignals struct {
	KV core.KeyValueStore
	// Limit 是读取的最大条数，<= 0 表示全部
	Limit int64
}

func (s *RedisSignals) Name() string { return "redis.signals" }

func (s *RedisSignals) List(ctx context.Context, key string) ([]string, error) {
	stop := int64(-1)
	if s.Limit > 0 {
		stop = s.Limit - 1
	}
	ids, err := s.KV.ZRange(ctx, key, 0, stop)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

var (
	_ core.CatalogStore = (*RedisCatalog)(nil)
	_ core.VectorIndex  = (*RedisVectorStore)(nil)
	_ core.SignalStore  = (*RedisSignals)(nil)
)

func marshalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return raw, nil
}
