package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// 出车状态常量
const (
	StateIdle   = "idle"
	StateOnDuty = "on_duty"
)

// 事件常量
const (
	EventStartDuty = "start_duty"
	EventEndDuty   = "end_duty"
)

// Duty 一次出车
type Duty struct {
	VehicleID string    `json:"vehicleId"`
	DriverID  string    `json:"driverId"`
	StartKm   float64   `json:"startKm"`
	StartedAt time.Time `json:"startedAt"`
}

// DutyState 车辆出车状态快照
type DutyState struct {
	VehicleID    string    `json:"vehicleId"`
	CurrentState string    `json:"state"`
	Since        time.Time `json:"since"`
	Duty         *Duty     `json:"duty,omitempty"` // 仅 on_duty 时存在
}

// ChangeFunc 状态变化回调
type ChangeFunc func(vehicleID, from, to string)

// Machine 单车出车状态机
type Machine struct {
	mu        sync.RWMutex
	vehicleID string
	fsm       *fsm.FSM
	since     time.Time
	duty      *Duty
	onChange  ChangeFunc
}

// NewMachine 创建状态机，初始为 idle
func NewMachine(vehicleID string, onChange ChangeFunc) *Machine {
	m := &Machine{
		vehicleID: vehicleID,
		since:     time.Now(),
		onChange:  onChange,
	}

	m.fsm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventStartDuty, Src: []string{StateIdle}, Dst: StateOnDuty},
			{Name: EventEndDuty, Src: []string{StateOnDuty}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onChange != nil && e.Src != e.Dst {
					m.onChange(m.vehicleID, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// CurrentState 获取当前状态
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// GetState 获取状态快照
func (m *Machine) GetState() DutyState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := DutyState{VehicleID: m.vehicleID, CurrentState: m.fsm.Current(), Since: m.since}
	if m.duty != nil {
		d := *m.duty
		s.Duty = &d
	}
	return s
}

// Start 开始出车
func (m *Machine) Start(driverID string, startKm float64) (Duty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), EventStartDuty); err != nil {
		return Duty{}, fmt.Errorf("trigger event %s: %w", EventStartDuty, err)
	}

	m.since = time.Now()
	m.duty = &Duty{VehicleID: m.vehicleID, DriverID: driverID, StartKm: startKm, StartedAt: m.since}
	return *m.duty, nil
}

// End 结束出车，返回已结束的出车记录
func (m *Machine) End() (Duty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), EventEndDuty); err != nil {
		return Duty{}, fmt.Errorf("trigger event %s: %w", EventEndDuty, err)
	}

	ended := *m.duty
	m.duty = nil
	m.since = time.Now()
	return ended, nil
}

// CanTransition 检查是否可以转换
func (m *Machine) CanTransition(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// Manager 状态机管理器，按车辆 ID 索引
type Manager struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	onChange ChangeFunc
}

// NewManager 创建管理器
func NewManager(onChange ChangeFunc) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		onChange: onChange,
	}
}

// GetOrCreate 获取或创建状态机
func (m *Manager) GetOrCreate(vehicleID string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.machines[vehicleID]; ok {
		return machine
	}

	machine := NewMachine(vehicleID, m.onChange)
	m.machines[vehicleID] = machine
	return machine
}

// Get 获取状态机
func (m *Manager) Get(vehicleID string) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[vehicleID]
	return machine, ok
}

// GetAllStates 获取所有车辆状态
func (m *Manager) GetAllStates() map[string]DutyState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make(map[string]DutyState, len(m.machines))
	for id, machine := range m.machines {
		states[id] = machine.GetState()
	}
	return states
}
