package kvstore

import (
	"context"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as plain redis strings under a namespace prefix.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore wraps client. Every key is stored as "<namespace>/<key>".
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) redisKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + "/" + key
}

func (s *RedisStore) storeKey(redisKey string) string {
	if s.namespace == "" {
		return redisKey
	}
	return strings.TrimPrefix(redisKey, s.namespace+"/")
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Annotatef(err, "reading %q", key)
	}
	return value, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	err := s.client.Set(ctx, s.redisKey(key), value, 0).Err()
	return errors.Annotatef(err, "writing %q", key)
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := s.client.Del(ctx, s.redisKey(key)).Err()
	return errors.Annotatef(err, "deleting %q", key)
}

// Keys implements Store.
func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(s.redisKey(prefix))+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, s.storeKey(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Annotatef(err, "listing %q", prefix)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
