// Package bagrec 是惊喜袋（surplus bag）推荐引擎。
//
// 设计要点：
//   - 四种推荐类型：个性化（用户向量余弦相似度）、附近（平面近似距离）、趋势、热门
//   - 降级链：PRIMARY -> FALLBACK_POPULAR -> FALLBACK_ALL，只有错误触发降级，空结果不触发
//   - 请求路径只读内存快照（store.MemoryStore），远程后端（Redis、Feast）由刷新器或熔断器隔离
//   - 每种策略是一条 pipeline：召回 Node -> 过滤 Node（黑名单、CEL 规则）-> 截断 Node
package bagrec

import (
	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/recommend"
)

// 轻量 facade：便于直接 import "bagrec" 使用核心类型。
type (
	Orchestrator = recommend.Orchestrator
	Result       = recommend.Result
	Item         = core.Item
	Strategy     = core.Strategy
)

const (
	StrategyPersonalized = core.StrategyPersonalized
	StrategyNearby       = core.StrategyNearby
	StrategyTrending     = core.StrategyTrending
	StrategyPopular      = core.StrategyPopular
	StrategyAll          = core.StrategyAll
)
