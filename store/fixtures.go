package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/bagrec/core"
)

// Fixtures 是 YAML 夹具文件的结构：目录、向量和两个榜单。
//
//	dimension: 5
//	items:
//	  - id: bag1
//	    name: Evening Bread Mix
//	    ...
//	    embedding: [0.6, 0.7, 0.1, 0.2, 0.8]
//	users:
//	  user1: [0.5, 0.8, 0.2, 0.1, 0.9]
//	trending: [bag3, bag5, bag1]
//	popular: [bag1, bag2, bag4]
type Fixtures struct {
	Dimension int                       `yaml:"dimension"`
	Items     []FixtureItem             `yaml:"items"`
	Users     map[string]core.Embedding `yaml:"users"`
	Trending  []string                  `yaml:"trending"`
	Popular   []string                  `yaml:"popular"`
}

// FixtureItem 是带物品向量的目录记录。
type FixtureItem struct {
	core.Item `yaml:",inline"`
	Embedding core.Embedding `yaml:"embedding"`
}

// ParseFixtures 解析 YAML 夹具。
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFixtures 从文件读取 YAML 夹具。
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseFixtures(data)
}

// Snapshot 把夹具转换为 Snapshot；榜单按给定 key 存放。dim > 0 时覆盖文件中的 dimension。
func (f *Fixtures) Snapshot(dim int, trendingKey, popularKey string) (*Snapshot, error) {
	if dim <= 0 {
		dim = f.Dimension
	}
	data := SnapshotData{
		Items:       make([]core.Item, 0, len(f.Items)),
		UserVectors: f.Users,
		ItemVectors: make(map[string]core.Embedding, len(f.Items)),
		Lists: map[string][]string{
			trendingKey: f.Trending,
			popularKey:  f.Popular,
		},
	}
	for _, it := range f.Items {
		data.Items = append(data.Items, it.Item)
		if len(it.Embedding) > 0 {
			data.ItemVectors[it.ID] = it.Embedding
		}
	}
	return NewSnapshot(data, dim)
}

// FileLoader 从 YAML 夹具文件加载 Snapshot，每次 Load 都重新读取文件。
type FileLoader struct {
	Path        string
	Dimension   int
	TrendingKey string
	PopularKey  string
}

func (l *FileLoader) Name() string { return "file:" + l.Path }

func (l *FileLoader) Load(_ context.Context) (*Snapshot, error) {
	f, err := LoadFixtures(l.Path)
	if err != nil {
		return nil, err
	}
	return f.Snapshot(l.Dimension, l.TrendingKey, l.PopularKey)
}
