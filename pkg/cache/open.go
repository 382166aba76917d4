package cache

import (
	"context"

	"github.com/matzehuels/storyforge/pkg/config"
	"github.com/matzehuels/storyforge/pkg/errors"
)

// Open returns the artifact cache selected by cfg.Backend. An empty backend
// means "none".
func Open(ctx context.Context, cfg config.Cache) (Cache, error) {
	switch cfg.Backend {
	case config.CacheNone, "":
		return NewNullCache(), nil
	case config.CacheFile:
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open file cache %s", cfg.Dir)
		}
		return c, nil
	case config.CacheRedis:
		c, err := NewRedisCache(ctx, cfg.RedisURL, "storyforge:")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "open redis cache")
		}
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}
