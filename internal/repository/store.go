package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// 集合名称，实际键为 prefix + 名称
const (
	KeyVehicles    = "vehicles"
	KeyDrivers     = "drivers"
	KeyTrips       = "trips"
	KeyMaintenance = "maintenance"
	KeySettings    = "settings"
)

// DefaultKeyPrefix 与旧版本地存储键保持一致
const DefaultKeyPrefix = "hypro_"

// Store 基于 KV 的 JSON 集合存储
type Store struct {
	kv     KV
	prefix string
	logger *zap.Logger
}

// NewStore 创建集合存储
func NewStore(kv KV, prefix string, logger *zap.Logger) *Store {
	return &Store{kv: kv, prefix: prefix, logger: logger}
}

// Key 集合对应的存储键
func (s *Store) Key(name string) string {
	return s.prefix + name
}

// raw 读取原始 JSON；键不存在返回 nil, nil
func (s *Store) raw(ctx context.Context, name string) ([]byte, error) {
	data, err := s.kv.Get(ctx, s.Key(name))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

// Load 读取集合，键不存在或内容损坏时返回 def。
// 后端不可用时返回错误，避免调用方用默认值覆盖已有数据。
func Load[T any](ctx context.Context, s *Store, name string, def T) (T, error) {
	data, err := s.raw(ctx, name)
	if err != nil {
		return def, err
	}
	if data == nil {
		return def, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("Corrupt stored value, using default",
			zap.String("key", s.Key(name)),
			zap.Error(err))
		return def, nil
	}
	return v, nil
}

// Encode 编码为批量写入项
func (s *Store) Encode(name string, value any) (Entry, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Entry{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return Entry{Key: s.Key(name), Value: data}, nil
}

// Save 写入单个集合
func (s *Store) Save(ctx context.Context, name string, value any) error {
	e, err := s.Encode(name, value)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, e.Key, e.Value); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// SaveBatch 原子写入多个集合
func (s *Store) SaveBatch(ctx context.Context, entries ...Entry) error {
	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	return nil
}
