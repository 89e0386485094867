package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/landlord-engine/internal/game"
)

const (
	// Redis key 前缀（拼在配置的全局前缀之后）
	gameKeyPrefix = "game:"

	// 默认牌局过期时间
	defaultGameExpiration = 2 * time.Hour

	scanBatch = 100
)

// RedisStoreOptions RedisStore 的可选项
type RedisStoreOptions struct {
	KeyPrefix  string        // 全局 key 前缀，如 "landlord:"
	Expiration time.Duration // 0 使用默认值，负数表示不过期
	Codec      Codec         // nil 使用 JSON
}

// RedisStore Redis 存储
type RedisStore struct {
	client     *redis.Client
	prefix     string
	expiration time.Duration
	codec      Codec
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, opts RedisStoreOptions) *RedisStore {
	rs := &RedisStore{
		client:     client,
		prefix:     opts.KeyPrefix + gameKeyPrefix,
		expiration: opts.Expiration,
		codec:      opts.Codec,
	}
	switch {
	case rs.expiration == 0:
		rs.expiration = defaultGameExpiration
	case rs.expiration < 0:
		rs.expiration = 0 // go-redis 中 0 表示不过期
	}
	if rs.codec == nil {
		rs.codec = JSONCodec{}
	}
	return rs
}

func (rs *RedisStore) key(gameID string) string {
	return rs.prefix + gameID
}

// Save 保存快照并刷新过期时间
func (rs *RedisStore) Save(ctx context.Context, s *game.Snapshot) error {
	if s == nil {
		return nil
	}

	data, err := rs.codec.Marshal(s)
	if err != nil {
		return err
	}

	if err := rs.client.Set(ctx, rs.key(s.ID), data, rs.expiration).Err(); err != nil {
		return fmt.Errorf("保存牌局 %s 失败: %w", s.ID, err)
	}
	return nil
}

// Load 读取快照，不存在时返回 ErrNotFound
func (rs *RedisStore) Load(ctx context.Context, gameID string) (*game.Snapshot, error) {
	data, err := rs.client.Get(ctx, rs.key(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取牌局 %s 失败: %w", gameID, err)
	}
	return rs.codec.Unmarshal(data)
}

// Delete 删除快照
func (rs *RedisStore) Delete(ctx context.Context, gameID string) error {
	return rs.client.Del(ctx, rs.key(gameID)).Err()
}

// ListGameIDs 用 SCAN 遍历所有牌局 ID（已排序）
func (rs *RedisStore) ListGameIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), rs.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}
