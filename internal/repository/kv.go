// Package repository 本地持久化：键值后端（Postgres / Redis / 内存）与按集合划分的仓库
package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("key not found")

// Entry 批量写入的一项
type Entry struct {
	Key   string
	Value []byte
}

// KV 键值存储后端
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany 原子写入：全部成功或全部不生效
	SetMany(ctx context.Context, entries []Entry) error
	Close() error
}

// MemoryKV 内存后端，用于测试和临时运行
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory 创建内存后端
func NewMemory() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) SetMany(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.data[e.Key] = append([]byte(nil), e.Value...)
	}
	return nil
}

func (m *MemoryKV) Close() error { return nil }
