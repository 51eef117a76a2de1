package core

import "context"

// Embedding 是实体（用户/物品）的定长特征向量，同一类实体共享维度 D。
type Embedding []float64

// NeutralEmbedding 返回维度为 dim、各分量均为 value 的默认向量。
// 未知实体使用它，使下游计算无需处理空值。
func NeutralEmbedding(dim int, value float64) Embedding {
	if dim <= 0 {
		return Embedding{}
	}
	v := make(Embedding, dim)
	for i := range v {
		v[i] = value
	}
	return v
}

// VectorStore 是向量存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store、feast）实现
//   - 对未知实体返回默认向量而不是错误
//   - 只有存储不可用（网络、超时、熔断）时才返回 error，触发降级链
//
// 实现：
//   - store.MemoryStore（快照，进程内）
//   - store.RedisVectorStore（Redis Hash）
//   - feast.VectorStore（Feast 在线特征，仅用户向量）
type VectorStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 获取实体向量；未知实体返回默认向量
	Get(ctx context.Context, id string) (Embedding, error)
}

// VectorIndex 是可全量扫描的向量存储，个性化召回用它遍历全部物品向量。
type VectorIndex interface {
	VectorStore

	// All 返回全部实体向量（调用方只读）
	All(ctx context.Context) (map[string]Embedding, error)

	// Dimension 返回向量维度 D
	Dimension(ctx context.Context) int
}

// Pinner 把一次请求固定到存储的某个版本上，之后用返回的 ctx 读取的数据都来自同一版本。
//
// 实现：
//   - store.MemoryStore（固定当前 Snapshot）
type Pinner interface {
	Pin(ctx context.Context) context.Context
}

// CatalogStore 是物品目录的领域接口。
type CatalogStore interface {
	Name() string

	// GetMany 按输入顺序返回物品，静默丢弃目录中不存在的 ID
	GetMany(ctx context.Context, ids []string) ([]Item, error)

	// GetAll 返回全部物品（仅用于兜底）
	GetAll(ctx context.Context) ([]Item, error)
}

// SignalStore 是外部维护的有序榜单（热门/趋势）的只读视图。
type SignalStore interface {
	Name() string

	// List 返回 key 对应的有序物品 ID；榜单不存在时返回空切片
	List(ctx context.Context, key string) ([]string, error)
}

// Store 是 KV 存储的领域接口，Redis 后端的 Catalog/Vector/Signal 都建立在它之上。
//
// 实现：
//   - store.RedisStore
type Store interface {
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}

// KeyValueStore 是 Store 的扩展接口，支持有序集合与哈希表。
//
//   - 有序集合（SortedSet）：热门/趋势榜单
//   - 哈希表（Hash）：物品元数据、向量
type KeyValueStore interface {
	Store

	// ZAdd 向有序集合添加成员
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序获取有序集合成员
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// HGet 读取 Hash 字段
	HGet(ctx context.Context, key, field string) ([]byte, error)

	// HMGet 批量读取 Hash 字段，结果与 fields 一一对应，不存在的字段为 nil
	HMGet(ctx context.Context, key string, fields ...string) ([][]byte, error)

	// HSet 写入 Hash 字段
	HSet(ctx context.Context, key, field string, value []byte) error

	// HGetAll 读取整个 Hash
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}
