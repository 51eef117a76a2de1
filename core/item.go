package core

// Coordinate 是十进制度数表示的经纬度。
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Valid 报告坐标是否落在 [-90,90] x [-180,180] 内（NaN 视为非法）。
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Item 是推荐的最小单元（一个惊喜袋）的元数据，由 CatalogStore 持有，对推荐链路只读。
// Distance 只在附近推荐结果中出现，由 Orchestrator 在副本上标注。
type Item struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Vendor        string     `json:"vendor" yaml:"vendor"`
	Price         float64    `json:"price" yaml:"price"`
	OriginalValue float64    `json:"originalValue" yaml:"original_value"`
	Image         string     `json:"image,omitempty" yaml:"image"`
	Category      string     `json:"category" yaml:"category"`
	Tags          []string   `json:"tags" yaml:"tags"`
	Location      Coordinate `json:"location" yaml:"location"`
	Distance      *float64   `json:"distance,omitempty" yaml:"-"`
}

// WithDistance 返回带距离标注的副本，不修改共享快照中的记录。
func (it Item) WithDistance(km float64) Item {
	d := km
	it.Distance = &d
	return it
}
