package filter

import (
	"cmp"
	"math"
	"slices"

	"github.com/rushteam/bagrec/core"
)

// KmPerDegree 是经纬度差到公里的近似换算系数（1 度约 111 公里）。
//
// 距离按平面近似计算：sqrt(dLat² + dLng²) * KmPerDegree。
// 在城市级半径内足够准确；高纬度地区与跨越 ±180° 经线时误差很大，这是已知限制。
// 半径语义依赖此常量，替换为球面距离会改变附近推荐的结果集。
const KmPerDegree = 111.0

// Nearby 是半径内的物品及其距离（公里，保留一位小数）。
type Nearby struct {
	Item       core.Item
	DistanceKm float64
}

// Distance 返回两点间的近似距离（公里，未取整）。
func Distance(a, b core.Coordinate) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * KmPerDegree
}

// FilterByRadius 返回距离 point 不超过 radiusKm 的物品，按距离升序（同距离按 ID 升序）。
//
//   - 是否入选使用未取整的距离比较，展示值四舍五入到一位小数
//   - radiusKm <= 0 或为 NaN 时返回空结果
//   - point 非法（越界或 NaN）时返回空结果
func FilterByRadius(point core.Coordinate, items []core.Item, radiusKm float64) []Nearby {
	if !(radiusKm > 0) || !point.Valid() {
		return []Nearby{}
	}

	type candidate struct {
		item core.Item
		dist float64
	}
	within := make([]candidate, 0, len(items))
	for _, it := range items {
		d := Distance(point, it.Location)
		if d <= radiusKm {
			within = append(within, candidate{item: it, dist: d})
		}
	}

	slices.SortFunc(within, func(a, b candidate) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.item.ID, b.item.ID)
	})

	out := make([]Nearby, len(within))
	for i, c := range within {
		out[i] = Nearby{Item: c.item, DistanceKm: roundTenth(c.dist)}
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
