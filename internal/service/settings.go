package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/models"
)

// SettingsService 设置服务。修改设置不会重算已保存的行程。
type SettingsService struct {
	logger *zap.Logger
	stores *Stores
}

// NewSettingsService 创建设置服务
func NewSettingsService(logger *zap.Logger, stores *Stores) *SettingsService {
	return &SettingsService{logger: logger, stores: stores}
}

// Get 读取设置（已合并默认值）
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	return s.stores.Settings.Get(ctx)
}

// Update 整体替换设置
func (s *SettingsService) Update(ctx context.Context, settings models.Settings) (models.Settings, error) {
	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	return s.save(ctx, settings)
}

// Patch 在写锁内读取当前设置、应用修改并保存
func (s *SettingsService) Patch(ctx context.Context, apply func(*models.Settings) error) (models.Settings, error) {
	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	current, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if err := apply(&current); err != nil {
		return models.Settings{}, err
	}
	return s.save(ctx, current)
}

// save 校验并保存，调用方持有写锁
func (s *SettingsService) save(ctx context.Context, settings models.Settings) (models.Settings, error) {
	settings.CurrencySymbol = strings.TrimSpace(settings.CurrencySymbol)
	if settings.CurrencySymbol == "" {
		return models.Settings{}, fmt.Errorf("%w: currency symbol is required", ErrInvalidInput)
	}
	if err := s.stores.Settings.Save(ctx, settings); err != nil {
		return models.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	s.logger.Info("Settings updated")
	return settings, nil
}

// Reset 恢复默认设置
func (s *SettingsService) Reset(ctx context.Context) (models.Settings, error) {
	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	def := models.DefaultSettings()
	if err := s.stores.Settings.Save(ctx, def); err != nil {
		return models.Settings{}, fmt.Errorf("reset settings: %w", err)
	}
	s.logger.Info("Settings reset to defaults")
	return def, nil
}
