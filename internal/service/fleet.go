package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/analytics"
	"github.com/langchou/fleetbook/internal/models"
)

// FleetService 车辆、司机、保养记录与统计
type FleetService struct {
	logger   *zap.Logger
	stores   *Stores
	warnDays int
}

// NewFleetService 创建车队服务
func NewFleetService(logger *zap.Logger, stores *Stores, warnDays int) *FleetService {
	if warnDays <= 0 {
		warnDays = analytics.DefaultWarningDays
	}
	return &FleetService{logger: logger, stores: stores, warnDays: warnDays}
}

// ListVehicles 获取车辆列表
func (s *FleetService) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.stores.Vehicles.List(ctx)
}

// GetVehicle 获取车辆
func (s *FleetService) GetVehicle(ctx context.Context, id string) (models.Vehicle, error) {
	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return models.Vehicle{}, err
	}
	if i := indexOfVehicle(vehicles, id); i >= 0 {
		return vehicles[i], nil
	}
	return models.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
}

// AddVehicle 新增车辆
func (s *FleetService) AddVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.PlateNumber) == "" {
		return models.Vehicle{}, fmt.Errorf("%w: vehicle name and plate number are required", ErrInvalidInput)
	}
	if v.CurrentOdo < 0 {
		return models.Vehicle{}, fmt.Errorf("%w: odometer cannot be negative", ErrInvalidInput)
	}

	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return models.Vehicle{}, err
	}
	v.ID = uuid.NewString()
	vehicles = append(vehicles, v)
	if err := s.stores.Vehicles.SaveAll(ctx, vehicles); err != nil {
		return models.Vehicle{}, fmt.Errorf("add vehicle: %w", err)
	}
	s.logger.Info("Vehicle added", zap.String("vehicle_id", v.ID), zap.String("plate", v.PlateNumber))
	return v, nil
}

// UpdateVehicle 整条替换车辆信息
func (s *FleetService) UpdateVehicle(ctx context.Context, id string, v models.Vehicle) (models.Vehicle, error) {
	if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.PlateNumber) == "" {
		return models.Vehicle{}, fmt.Errorf("%w: vehicle name and plate number are required", ErrInvalidInput)
	}

	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return models.Vehicle{}, err
	}
	i := indexOfVehicle(vehicles, id)
	if i < 0 {
		return models.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	v.ID = id
	vehicles[i] = v
	if err := s.stores.Vehicles.SaveAll(ctx, vehicles); err != nil {
		return models.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	s.logger.Info("Vehicle updated", zap.String("vehicle_id", id))
	return v, nil
}

// ListDrivers 获取司机列表
func (s *FleetService) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	return s.stores.Drivers.List(ctx)
}

// AddDriver 新增司机
func (s *FleetService) AddDriver(ctx context.Context, d models.Driver) (models.Driver, error) {
	if strings.TrimSpace(d.Name) == "" {
		return models.Driver{}, fmt.Errorf("%w: driver name is required", ErrInvalidInput)
	}

	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	drivers, err := s.stores.Drivers.List(ctx)
	if err != nil {
		return models.Driver{}, err
	}
	d.ID = uuid.NewString()
	drivers = append(drivers, d)
	if err := s.stores.Drivers.SaveAll(ctx, drivers); err != nil {
		return models.Driver{}, fmt.Errorf("add driver: %w", err)
	}
	s.logger.Info("Driver added", zap.String("driver_id", d.ID))
	return d, nil
}

// DeleteDriver 删除司机，已保存行程中的司机 ID 保持不变
func (s *FleetService) DeleteDriver(ctx context.Context, id string) error {
	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	drivers, err := s.stores.Drivers.List(ctx)
	if err != nil {
		return err
	}
	kept := drivers[:0]
	for _, d := range drivers {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(drivers) {
		return fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	if err := s.stores.Drivers.SaveAll(ctx, kept); err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	s.logger.Info("Driver deleted", zap.String("driver_id", id))
	return nil
}

// MaintenanceFilter 保养记录筛选
type MaintenanceFilter struct {
	VehicleID string
	Type      models.MaintenanceType
}

// ListMaintenance 筛选保养记录，按日期倒序
func (s *FleetService) ListMaintenance(ctx context.Context, f MaintenanceFilter) ([]models.MaintenanceRecord, error) {
	records, err := s.stores.Maintenance.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.MaintenanceRecord, 0, len(records))
	for _, r := range records {
		if f.VehicleID != "" && r.VehicleID != f.VehicleID {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// AddMaintenance 新增保养记录
func (s *FleetService) AddMaintenance(ctx context.Context, r models.MaintenanceRecord) (models.MaintenanceRecord, error) {
	if !r.Type.Valid() {
		return models.MaintenanceRecord{}, fmt.Errorf("%w: unknown maintenance type %q", ErrInvalidInput, r.Type)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return models.MaintenanceRecord{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if r.Cost < 0 {
		return models.MaintenanceRecord{}, fmt.Errorf("%w: cost cannot be negative", ErrInvalidInput)
	}

	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	if indexOfVehicle(vehicles, r.VehicleID) < 0 {
		return models.MaintenanceRecord{}, fmt.Errorf("vehicle %s: %w", r.VehicleID, ErrNotFound)
	}

	records, err := s.stores.Maintenance.List(ctx)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	r.ID = uuid.NewString()
	records = append(records, r)
	if err := s.stores.Maintenance.SaveAll(ctx, records); err != nil {
		return models.MaintenanceRecord{}, fmt.Errorf("add maintenance: %w", err)
	}
	s.logger.Info("Maintenance recorded",
		zap.String("vehicle_id", r.VehicleID),
		zap.String("type", string(r.Type)),
		zap.Float64("cost", r.Cost))
	return r, nil
}

// Analytics 每辆车的收支统计
func (s *FleetService) Analytics(ctx context.Context) ([]analytics.Summary, error) {
	vehicles, trips, maintenance, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.FleetSummaries(vehicles, trips, maintenance), nil
}

// VehicleSummary 单车统计
func (s *FleetService) VehicleSummary(ctx context.Context, id string) (analytics.Summary, error) {
	vehicles, trips, maintenance, err := s.snapshot(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	i := indexOfVehicle(vehicles, id)
	if i < 0 {
		return analytics.Summary{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return analytics.VehicleSummary(vehicles[i], trips, maintenance), nil
}

// Dashboard 仪表盘
func (s *FleetService) Dashboard(ctx context.Context, now time.Time) (analytics.Overview, error) {
	vehicles, trips, _, err := s.snapshot(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	drivers, err := s.stores.Drivers.List(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	return analytics.Dashboard(vehicles, drivers, trips, now, s.warnDays), nil
}

func (s *FleetService) snapshot(ctx context.Context) ([]models.Vehicle, []models.Trip, []models.MaintenanceRecord, error) {
	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	trips, err := s.stores.Trips.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	maintenance, err := s.stores.Maintenance.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return vehicles, trips, maintenance, nil
}
