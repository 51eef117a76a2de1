package recommend

import (
	"fmt"

	"github.com/rushteam/bagrec/core"
)

// Result 是一次推荐的结果。Type 是实际使用的策略（降级后为 popular 或 all），
// RequestedType 是请求的策略，只用于日志与观测，不序列化。
type Result struct {
	Recommendations []core.Item   `json:"recommendations"`
	Type            core.Strategy `json:"recommendation_type"`
	Explanation     string        `json:"explanation"`
	RequestedType   core.Strategy `json:"-"`
}

// Degraded 报告结果是否来自降级链。
func (r *Result) Degraded() bool {
	return r.Type != r.RequestedType
}

// Explain 返回实际策略对应的说明文案。附近推荐的文案包含半径。
func Explain(served core.Strategy, radiusKm float64) string {
	switch served {
	case core.StrategyPersonalized:
		return "Based on your preferences and past orders"
	case core.StrategyNearby:
		return fmt.Sprintf("Bags within %gkm of your location", radiusKm)
	case core.StrategyTrending:
		return "Currently trending in your area"
	case core.StrategyPopular:
		return "Most popular bags across ChopNow"
	default:
		return "Explore these bags"
	}
}
