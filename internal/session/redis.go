package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxUpdateRetries bounds optimistic-lock retries in RedisStore.Update.
const maxUpdateRetries = 10

// RedisStore keeps sessions as JSON values in Redis. Every write refreshes
// the key TTL.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a RedisStore. A non-positive ttl keeps sessions
// until they are deleted.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "phonedex:session:"}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (State, error) {
	return r.get(ctx, r.rdb, id)
}

func (r *RedisStore) Save(ctx context.Context, id string, s State) error {
	data, err := json.Marshal(s.normalize())
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(id), data, r.expiration()).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Update reads, applies fn and writes inside a WATCH transaction, retrying
// when another writer touched the session in between.
func (r *RedisStore) Update(ctx context.Context, id string, fn func(State) State) (State, error) {
	key := r.key(id)
	var next State

	txf := func(tx *redis.Tx) error {
		current, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		next = fn(current).normalize()
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.expiration())
			return nil
		})
		return err
	}

	for range maxUpdateRetries {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return State{}, fmt.Errorf("update session: %w", err)
		}
	}
	return State{}, fmt.Errorf("update session %s: too many concurrent writers", id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// getter is the read half shared by *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) get(ctx context.Context, c getter, id string) (State, error) {
	data, err := c.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("get session: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	return s.normalize(), nil
}

// expiration maps the configured TTL to the go-redis convention where zero
// means no expiry.
func (r *RedisStore) expiration() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	return r.ttl
}
