package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/storyforge/pkg/cache"
	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/story"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string

	// Prefix is prepended to storyline ids to form document keys.
	// Defaults to "storyline:".
	Prefix string

	// Timeout bounds the initial PING.
	Timeout time.Duration
}

// RedisStore keeps storyline documents as JSON strings at "<prefix><id>" and
// tracks ids in the sorted set "<prefix>_index", scored by last save time.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. Closing the store closes
// the client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "storyline:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }

func (r *RedisStore) indexKey() string { return r.prefix + "_index" }

func (r *RedisStore) Load(ctx context.Context, id string) (story.Storyline, error) {
	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = r.client.Get(ctx, r.key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return notFound(id)
		}
		return transient(err)
	})
	if err != nil {
		return story.Storyline{}, err
	}
	return document.Unmarshal(data)
}

func (r *RedisStore) Save(ctx context.Context, s story.Storyline) error {
	if err := checkID(s.ID); err != nil {
		return err
	}
	data, err := document.Marshal(s)
	if err != nil {
		return err
	}
	return cache.RetryWithBackoff(ctx, func() error {
		_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(s.ID), data, 0)
			pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(time.Now().Unix()), Member: s.ID})
			return nil
		})
		return transient(err)
	})
}

func (r *RedisStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := r.client.ZRangeWithScores(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if len(entries) == 0 {
		return []Summary{}, nil
	}

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = r.key(e.Member.(string))
	}
	docs, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read storylines: %w", err)
	}

	out := make([]Summary, 0, len(entries))
	for i, raw := range docs {
		str, ok := raw.(string)
		if !ok {
			// Indexed but deleted behind our back.
			continue
		}
		s, err := document.Unmarshal([]byte(str))
		if err != nil {
			continue
		}
		out = append(out, summarize(s, time.Unix(int64(entries[i].Score), 0)))
	}
	sortSummaries(out)
	return out, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.key(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// transient marks connection-level failures as retryable. Context errors
// are returned as-is.
func transient(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrUnavailable, err))
}

var _ Store = (*RedisStore)(nil)
