package repository

import (
	"context"

	"github.com/langchou/fleetbook/internal/models"
)

// collection 单键存储的整表集合
type collection[T any] struct {
	store *Store
	name  string
}

// List 读取全部记录，未保存过时返回空列表
func (c collection[T]) List(ctx context.Context) ([]T, error) {
	items, err := Load(ctx, c.store, c.name, []T{})
	if items == nil {
		items = []T{}
	}
	return items, err
}

// Entry 编码为批量写入项
func (c collection[T]) Entry(items []T) (Entry, error) {
	return c.store.Encode(c.name, items)
}

// SaveAll 整表覆盖写入
func (c collection[T]) SaveAll(ctx context.Context, items []T) error {
	return c.store.Save(ctx, c.name, items)
}

// VehicleRepository 车辆仓库
type VehicleRepository struct {
	collection[models.Vehicle]
}

// NewVehicleRepository 创建车辆仓库
func NewVehicleRepository(store *Store) *VehicleRepository {
	return &VehicleRepository{collection[models.Vehicle]{store: store, name: KeyVehicles}}
}

// DriverRepository 司机仓库
type DriverRepository struct {
	collection[models.Driver]
}

// NewDriverRepository 创建司机仓库
func NewDriverRepository(store *Store) *DriverRepository {
	return &DriverRepository{collection[models.Driver]{store: store, name: KeyDrivers}}
}

// MaintenanceRepository 保养记录仓库
type MaintenanceRepository struct {
	collection[models.MaintenanceRecord]
}

// NewMaintenanceRepository 创建保养记录仓库
func NewMaintenanceRepository(store *Store) *MaintenanceRepository {
	return &MaintenanceRepository{collection[models.MaintenanceRecord]{store: store, name: KeyMaintenance}}
}
