package service

import (
	"sync"

	"github.com/langchou/fleetbook/internal/repository"
)

// Notifier 事件推送（WebSocket Hub）
type Notifier interface {
	BroadcastMessage(msgType string, data interface{})
}

// Stores 各集合仓库。写操作都是读-改-写整表，共用一把写锁。
type Stores struct {
	Store       *repository.Store
	Vehicles    *repository.VehicleRepository
	Drivers     *repository.DriverRepository
	Trips       *repository.TripRepository
	Maintenance *repository.MaintenanceRepository
	Settings    *repository.SettingsRepository

	mu sync.Mutex
}

// NewStores 基于集合存储创建全部仓库
func NewStores(store *repository.Store) *Stores {
	return &Stores{
		Store:       store,
		Vehicles:    repository.NewVehicleRepository(store),
		Drivers:     repository.NewDriverRepository(store),
		Trips:       repository.NewTripRepository(store),
		Maintenance: repository.NewMaintenanceRepository(store),
		Settings:    repository.NewSettingsRepository(store),
	}
}
