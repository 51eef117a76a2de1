// Package config 加载 bagrec 配置：结构体默认值 -> YAML 文件 -> BAGREC_ 前缀环境变量，后者覆盖前者。
//
// 环境变量用双下划线表示层级，例如 BAGREC_SERVER__ADDR=:9090 对应 server.addr，
// BAGREC_RECOMMEND__BLACKLIST=bag2,bag7 对应 recommend.blacklist。
package config

import (
	"time"
)

// Config 是 bagrec 的完整配置。
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Recommend RecommendConfig `koanf:"recommend"`
	Vectors   VectorsConfig   `koanf:"vectors"`
	Store     StoreConfig     `koanf:"store"`
	Redis     RedisConfig     `koanf:"redis"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Feast     FeastConfig     `koanf:"feast"`
}

type ServerConfig struct {
	Addr           string        `koanf:"addr" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	// CORSOrigins 允许跨域访问的来源，"*" 表示全部
	CORSOrigins []string `koanf:"cors_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type RecommendConfig struct {
	DefaultCount    int     `koanf:"default_count" validate:"gt=0"`
	MaxCount        int     `koanf:"max_count" validate:"gtefield=DefaultCount"`
	DefaultRadiusKm float64 `koanf:"default_radius_km" validate:"gt=0"`
	FallbackLimit   int     `koanf:"fallback_limit" validate:"gt=0"`
	// Rule 是可选的 CEL 物品规则，例如 `item.price <= 2000.0`
	Rule string `koanf:"rule"`
	// Blacklist 是不再推荐的物品 ID（下架、售罄）
	Blacklist []string `koanf:"blacklist"`
}

type VectorsConfig struct {
	Dimension    int     `koanf:"dimension" validate:"gt=0"`
	DefaultValue float64 `koanf:"default_value"`
}

type StoreConfig struct {
	// Backend: memory 从 YAML 夹具加载；redis 从 Redis 加载快照
	Backend         string        `koanf:"backend" validate:"oneof=memory redis"`
	FixturePath     string        `koanf:"fixture_path"`
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`
	// Timeout 是单次远程存储调用的超时
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

type RedisConfig struct {
	Addr           string `koanf:"addr"`
	Password       string `koanf:"password"`
	DB             int    `koanf:"db" validate:"gte=0"`
	CatalogKey     string `koanf:"catalog_key" validate:"required"`
	UserVectorsKey string `koanf:"user_vectors_key" validate:"required"`
	ItemVectorsKey string `koanf:"item_vectors_key" validate:"required"`
	TrendingKey    string `koanf:"trending_key" validate:"required"`
	PopularKey     string `koanf:"popular_key" validate:"required"`
}

type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"gt=0"`
}

type FeastConfig struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    int    `koanf:"port" validate:"gte=0,lte=65535"`
	Token   string `koanf:"token"`
	TLS     bool   `koanf:"tls"`
	Project string `koanf:"project"`
	// Feature 是用户向量的特征引用，例如 user_embeddings:embedding
	Feature   string `koanf:"feature"`
	EntityKey string `koanf:"entity_key"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8000",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			RequestTimeout: 2 * time.Second,
			CORSOrigins:    []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			DefaultCount:    5,
			MaxCount:        50,
			DefaultRadiusKm: 5.0,
			FallbackLimit:   5,
		},
		Vectors: VectorsConfig{
			Dimension:    5,
			DefaultValue: 0.5,
		},
		Store: StoreConfig{
			Backend:         "memory",
			FixturePath:     "configs/fixtures.yaml",
			RefreshInterval: time.Minute,
			Timeout:         200 * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:           "localhost:6379",
			CatalogKey:     "bagrec:catalog",
			UserVectorsKey: "bagrec:vectors:users",
			ItemVectorsKey: "bagrec:vectors:items",
			TrendingKey:    "bagrec:trending",
			PopularKey:     "bagrec:popular",
		},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Feast: FeastConfig{
			Port:      6565,
			Project:   "bagrec",
			Feature:   "user_embeddings:embedding",
			EntityKey: "user_id",
		},
	}
}
