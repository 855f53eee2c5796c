package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/models"
)

// SettingsRepository 设置仓库
type SettingsRepository struct {
	store *Store
}

// NewSettingsRepository 创建设置仓库
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get 读取设置。存储值逐字段覆盖在默认值之上，缺失的嵌套字段保留默认值。
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	data, err := r.store.raw(ctx, KeySettings)
	if err != nil {
		return models.DefaultSettings(), fmt.Errorf("get settings: %w", err)
	}
	return mergeSettings(data, r.store.logger), nil
}

func mergeSettings(data []byte, logger *zap.Logger) models.Settings {
	settings := models.DefaultSettings()
	if data == nil {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.Warn("Corrupt stored settings, using defaults", zap.Error(err))
		return models.DefaultSettings()
	}
	return settings
}

// Save 保存设置
func (r *SettingsRepository) Save(ctx context.Context, s models.Settings) error {
	return r.store.Save(ctx, KeySettings, s)
}
