// Package store provides the persisted-progress slots used by the game
// core: a JSON file for the desktop build, a Redis key per player for the
// server, and an in-memory slot for tests and simulations.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tenfreethrows/freethrows/internal/game"
)

// KeyPrefix namespaces per-player state keys in Redis.
const KeyPrefix = "freethrows:state:"

const opTimeout = 2 * time.Second

// MemorySlot keeps the record in memory.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySlot(initial []byte) *MemorySlot {
	return &MemorySlot{data: clone(initial)}
}

func (s *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, game.ErrSlotEmpty
	}
	return clone(s.data), nil
}

func (s *MemorySlot) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = clone(data)
	return nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// FileSlot stores the record as a JSON file.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, game.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return nil, game.ErrSlotEmpty
	}
	return data, nil
}

// Save writes to a temporary file and renames it over the old record.
func (s *FileSlot) Save(ctx context.Context, data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (s *FileSlot) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// RedisSlot stores one player's record under KeyPrefix+player.
type RedisSlot struct {
	rdb *redis.Client
	key string
}

func NewRedisSlot(rdb *redis.Client, player string) *RedisSlot {
	return &RedisSlot{rdb: rdb, key: KeyPrefix + player}
}

func (s *RedisSlot) Key() string { return s.key }

func (s *RedisSlot) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, game.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	return data, nil
}

func (s *RedisSlot) Save(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", s.key, err)
	}
	return nil
}

var (
	_ game.Slot = (*MemorySlot)(nil)
	_ game.Slot = (*FileSlot)(nil)
	_ game.Slot = (*RedisSlot)(nil)
)
