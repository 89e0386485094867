package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/palemoky/landlord-engine/internal/game"
)

// ErrNotFound 牌局不存在或已过期
var ErrNotFound = errors.New("牌局不存在")

// Store 牌局快照的存取接口
type Store interface {
	Save(ctx context.Context, s *game.Snapshot) error
	Load(ctx context.Context, gameID string) (*game.Snapshot, error)
	Delete(ctx context.Context, gameID string) error
}

// Lister 可以列出所有牌局 ID 的存储
type Lister interface {
	ListGameIDs(ctx context.Context) ([]string, error)
}

var (
	_ Lister = (*MemoryStore)(nil)
	_ Lister = (*RedisStore)(nil)
)

// MemoryStore 进程内存储，保存编码后的字节，读取时总是得到新的副本
type MemoryStore struct {
	mu    sync.RWMutex
	codec Codec
	games map[string][]byte
}

// NewMemoryStore 创建内存存储，codec 为 nil 时使用 JSON
func NewMemoryStore(codec Codec) *MemoryStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &MemoryStore{
		codec: codec,
		games: make(map[string][]byte),
	}
}

func (ms *MemoryStore) Save(_ context.Context, s *game.Snapshot) error {
	if s == nil {
		return nil
	}

	data, err := ms.codec.Marshal(s)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	ms.games[s.ID] = data
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) Load(_ context.Context, gameID string) (*game.Snapshot, error) {
	ms.mu.RLock()
	data, ok := ms.games[gameID]
	ms.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return ms.codec.Unmarshal(data)
}

func (ms *MemoryStore) Delete(_ context.Context, gameID string) error {
	ms.mu.Lock()
	delete(ms.games, gameID)
	ms.mu.Unlock()
	return nil
}

// ListGameIDs 返回所有牌局 ID（已排序）
func (ms *MemoryStore) ListGameIDs(_ context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ids := make([]string, 0, len(ms.games))
	for id := range ms.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
