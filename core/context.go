package core

// Strategy 是推荐类型，也是结果中 recommendation_type 的取值。
type Strategy string

const (
	StrategyPersonalized Strategy = "personalized"
	StrategyNearby       Strategy = "nearby"
	StrategyTrending     Strategy = "trending"
	StrategyPopular      Strategy = "popular"
	StrategyAll          Strategy = "all"
)

// Valid 报告 s 是否为可请求的策略（all 只作为兜底结果出现）。
func (s Strategy) Valid() bool {
	switch s {
	case StrategyPersonalized, StrategyNearby, StrategyTrending, StrategyPopular:
		return true
	default:
		return false
	}
}

// RecommendContext 承载单次请求的用户/位置信息，贯穿召回链路透传。
// 请求之间不共享，任何组件都不应在请求外持有它。
type RecommendContext struct {
	RequestID string
	Strategy  Strategy

	// UserID 个性化推荐使用
	UserID string
	// Count 期望返回条数；0 表示使用默认值，负数得到空结果
	Count int

	// Point / RadiusKm 附近推荐使用
	Point    Coordinate
	RadiusKm float64

	// Params 请求级附加参数（偏好、设备等），规则表达式可通过 rctx.params 读取
	Params map[string]any
}

// Param 读取请求参数。
func (rctx *RecommendContext) Param(key string) (any, bool) {
	if rctx == nil || rctx.Params == nil {
		return nil, false
	}
	v, ok := rctx.Params[key]
	return v, ok
}

// SetParam 写入请求参数。
func (rctx *RecommendContext) SetParam(key string, v any) {
	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params[key] = v
}
