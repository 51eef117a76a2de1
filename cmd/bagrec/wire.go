package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rushteam/bagrec/config"
	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/feast"
	"github.com/rushteam/bagrec/filter"
	"github.com/rushteam/bagrec/pkg/logging"
	"github.com/rushteam/bagrec/recommend"
	"github.com/rushteam/bagrec/store"
)

// stores 是按配置组装好的存储与快照刷新器。
type stores struct {
	deps      recommend.Deps
	memory    *store.MemoryStore
	refresher *store.Refresher
	closers   []func() error
}

func (s *stores) ready(context.Context) error {
	if s.memory.Snapshot().Len() == 0 {
		return errors.New("catalog snapshot is empty")
	}
	return nil
}

func (s *stores) Close() {
	for _, c := range s.closers {
		_ = c()
	}
}

func breakerConfig(cfg *config.Config) store.BreakerConfig {
	return store.BreakerConfig{
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	}
}

func redisKeys(cfg *config.Config) store.RedisKeys {
	return store.RedisKeys{
		Catalog:     cfg.Redis.CatalogKey,
		UserVectors: cfg.Redis.UserVectorsKey,
		ItemVectors: cfg.Redis.ItemVectorsKey,
		Trending:    cfg.Redis.TrendingKey,
		Popular:     cfg.Redis.PopularKey,
	}
}

func connectRedis(ctx context.Context, cfg *config.Config) (*store.RedisStore, error) {
	rs, err := store.NewRedisStore(ctx, store.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	return rs, nil
}

// buildStores 加载首个快照；请求路径只读内存快照，远程后端只在刷新时访问。
// 启用 Feast 时，用户向量改为在线读取，并加上超时与熔断。
func buildStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	logger := logging.Component("store")
	s := &stores{memory: store.NewMemoryStore(nil, cfg.Vectors.DefaultValue)}

	var loader store.SnapshotLoader
	switch cfg.Store.Backend {
	case "redis":
		rs, err := connectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, rs.Close)
		loader = &store.RedisLoader{
			Catalog:     &store.RedisCatalog{KV: rs, Key: cfg.Redis.CatalogKey},
			UserVectors: &store.RedisVectorStore{KV: rs, Key: cfg.Redis.UserVectorsKey, Dim: cfg.Vectors.Dimension, DefaultValue: cfg.Vectors.DefaultValue},
			ItemVectors: &store.RedisVectorStore{KV: rs, Key: cfg.Redis.ItemVectorsKey, Dim: cfg.Vectors.Dimension, DefaultValue: cfg.Vectors.DefaultValue},
			Signals:     &store.RedisSignals{KV: rs},
			TrendingKey: cfg.Redis.TrendingKey,
			PopularKey:  cfg.Redis.PopularKey,
			Dimension:   cfg.Vectors.Dimension,
		}
	default:
		loader = &store.FileLoader{
			Path:        cfg.Store.FixturePath,
			Dimension:   cfg.Vectors.Dimension,
			TrendingKey: cfg.Redis.TrendingKey,
			PopularKey:  cfg.Redis.PopularKey,
		}
	}

	s.refresher = &store.Refresher{
		Store:    s.memory,
		Loader:   loader,
		Interval: cfg.Store.RefreshInterval,
		Logger:   logger,
	}
	if err := s.refresher.Refresh(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}

	var users core.VectorStore = s.memory.UserVectors()
	if cfg.Feast.Enabled {
		client, err := feast.NewGrpcClient(feast.ClientConfig{
			Host:  cfg.Feast.Host,
			Port:  cfg.Feast.Port,
			Token: cfg.Feast.Token,
			TLS:   cfg.Feast.TLS,
		})
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		guard := store.NewGuard("feast", cfg.Store.Timeout, breakerConfig(cfg), logger)
		users = store.GuardVectors(&feast.VectorStore{
			Client:       client,
			Project:      cfg.Feast.Project,
			Feature:      cfg.Feast.Feature,
			EntityKey:    cfg.Feast.EntityKey,
			Dim:          cfg.Vectors.Dimension,
			DefaultValue: cfg.Vectors.DefaultValue,
		}, guard)
		logger.Info().Str("endpoint", client.Endpoint()).Msg("user vectors served by feast")
	}

	s.deps = recommend.Deps{
		Users:              users,
		Items:              s.memory.ItemVectors(),
		Catalog:            s.memory,
		Signals:            s.memory,
		TrendingKey:        cfg.Redis.TrendingKey,
		PopularKey:         cfg.Redis.PopularKey,
		DefaultVectorValue: cfg.Vectors.DefaultValue,
		Pinner:             s.memory,
	}
	return s, nil
}

func buildFilters(cfg *config.Config) ([]filter.Filter, error) {
	var filters []filter.Filter
	if len(cfg.Recommend.Blacklist) > 0 {
		filters = append(filters, filter.NewBlacklistFilter(cfg.Recommend.Blacklist))
	}
	rule, err := filter.NewRule(cfg.Recommend.Rule, logging.Component("filter"))
	if err != nil {
		return nil, err
	}
	if rule != nil {
		filters = append(filters, rule)
	}
	return filters, nil
}

// seedRedis 把夹具文件写入 Redis，供 redis 后端使用。
func seedRedis(ctx context.Context, cfg *config.Config) error {
	f, err := store.LoadFixtures(cfg.Store.FixturePath)
	if err != nil {
		return err
	}
	rs, err := connectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer rs.Close()

	if err := store.Seed(ctx, rs, redisKeys(cfg), f); err != nil {
		return fmt.Errorf("seed redis: %w", err)
	}
	logger := logging.Component("main")
	logger.Info().Int("items", len(f.Items)).Str("addr", cfg.Redis.Addr).Msg("fixtures written to redis")
	return nil
}
