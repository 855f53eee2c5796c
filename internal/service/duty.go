package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/state"
	"github.com/langchou/fleetbook/pkg/ws"
)

// DutyStateChange 出车状态变化推送内容
type DutyStateChange struct {
	VehicleID string `json:"vehicleId"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// DutyService 出车管理。出车状态只保存在进程内，结束出车由保存行程触发。
type DutyService struct {
	logger   *zap.Logger
	stores   *Stores
	notifier Notifier
	manager  *state.Manager
}

// NewDutyService 创建出车服务
func NewDutyService(logger *zap.Logger, stores *Stores, notifier Notifier) *DutyService {
	svc := &DutyService{logger: logger, stores: stores, notifier: notifier}
	svc.manager = state.NewManager(svc.onStateChange)
	return svc
}

// Start 开始出车，起始里程取车辆当前里程表读数
func (s *DutyService) Start(ctx context.Context, vehicleID, driverID string) (state.Duty, error) {
	if driverID == "" {
		return state.Duty{}, fmt.Errorf("%w: driver is required", ErrInvalidInput)
	}

	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return state.Duty{}, err
	}
	vi := indexOfVehicle(vehicles, vehicleID)
	if vi < 0 {
		return state.Duty{}, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
	}

	machine := s.manager.GetOrCreate(vehicleID)
	if !machine.CanTransition(state.EventStartDuty) {
		return state.Duty{}, fmt.Errorf("vehicle %s: %w", vehicleID, ErrDutyConflict)
	}
	duty, err := machine.Start(driverID, vehicles[vi].CurrentOdo)
	if err != nil {
		return state.Duty{}, fmt.Errorf("vehicle %s: %w", vehicleID, ErrDutyConflict)
	}
	return duty, nil
}

// Current 车辆当前出车状态，未出过车的车辆为 idle
func (s *DutyService) Current(ctx context.Context, vehicleID string) (state.DutyState, error) {
	if machine, ok := s.manager.Get(vehicleID); ok {
		return machine.GetState(), nil
	}
	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return state.DutyState{}, err
	}
	if indexOfVehicle(vehicles, vehicleID) < 0 {
		return state.DutyState{}, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
	}
	return state.DutyState{VehicleID: vehicleID, CurrentState: state.StateIdle}, nil
}

// States 所有已知车辆的出车状态
func (s *DutyService) States() map[string]state.DutyState {
	return s.manager.GetAllStates()
}

// endIfActive 行程保存后结束该车的出车
func (s *DutyService) endIfActive(vehicleID string) {
	machine, ok := s.manager.Get(vehicleID)
	if !ok || !machine.CanTransition(state.EventEndDuty) {
		return
	}
	if _, err := machine.End(); err != nil {
		s.logger.Warn("Failed to end duty", zap.String("vehicle_id", vehicleID), zap.Error(err))
	}
}

// onStateChange 在状态机锁内调用，不能回调状态机
func (s *DutyService) onStateChange(vehicleID, from, to string) {
	s.logger.Info("Duty state changed", zap.String("vehicle_id", vehicleID), zap.String("from", from), zap.String("to", to))
	if s.notifier != nil {
		s.notifier.BroadcastMessage(ws.MsgTypeDutyState, DutyStateChange{VehicleID: vehicleID, From: from, To: to})
	}
}
