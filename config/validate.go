package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/filter"
	"github.com/rushteam/bagrec/pkg/logging"
	"github.com/rushteam/bagrec/pkg/validation"
)

// Validate 校验字段取值与字段之间的约束。
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	var errs []error
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
	}
	switch c.Store.Backend {
	case "memory":
		if c.Store.FixturePath == "" {
			errs = append(errs, errors.New("store.fixture_path is required for the memory backend"))
		}
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis backend"))
		}
	}
	if c.Feast.Enabled {
		if c.Feast.Host == "" {
			errs = append(errs, errors.New("feast.host is required when feast is enabled"))
		}
		if c.Feast.Feature == "" || c.Feast.EntityKey == "" {
			errs = append(errs, errors.New("feast.feature and feast.entity_key are required when feast is enabled"))
		}
	}
	if c.Recommend.Rule != "" {
		if _, err := filter.NewRule(c.Recommend.Rule, zerolog.Nop()); err != nil {
			errs = append(errs, fmt.Errorf("recommend.rule: %w", err))
		}
	}
	return errors.Join(errs...)
}
