package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/models"
	"github.com/langchou/fleetbook/internal/settlement"
	"github.com/langchou/fleetbook/pkg/ws"
)

// TripDraft 行程表单输入，结算结果由服务端计算
type TripDraft struct {
	VehicleID   string               `json:"vehicleId"`
	DriverID    string               `json:"driverId"`
	DutyStart   string               `json:"dutyStart"`
	DutyEnd     string               `json:"dutyEnd"`
	StartKm     float64              `json:"startKm"`
	EndKm       float64              `json:"endKm"`
	Segments    []models.TripSegment `json:"segments"`
	FuelEntries []models.FuelEntry   `json:"fuelEntries"`
	TollOther   float64              `json:"tollOther"`
}

// TotalKm 里程表距离
func (d TripDraft) TotalKm() float64 {
	return d.EndKm - d.StartKm
}

func (d TripDraft) settlementInput() settlement.Input {
	return settlement.Input{
		TotalKm:     d.TotalKm(),
		Segments:    d.Segments,
		FuelEntries: d.FuelEntries,
		TollOther:   d.TollOther,
	}
}

// validate 提交前校验
func (d TripDraft) validate() error {
	switch {
	case d.VehicleID == "" || d.DriverID == "":
		return fmt.Errorf("%w: vehicle and driver are required", ErrInvalidTrip)
	case d.EndKm <= d.StartKm:
		return fmt.Errorf("%w: end km must be greater than start km", ErrInvalidTrip)
	case strings.TrimSpace(d.DutyStart) == "" || strings.TrimSpace(d.DutyEnd) == "":
		return fmt.Errorf("%w: duty start and end times are required", ErrInvalidTrip)
	case len(d.Segments) == 0:
		return fmt.Errorf("%w: at least one revenue segment is required", ErrInvalidTrip)
	}
	return nil
}

// TripFilter 行程列表筛选与排序
type TripFilter struct {
	VehicleID string
	DriverID  string
	From      string // YYYY-MM-DD，含
	To        string // YYYY-MM-DD，含
	SortBy    string // date | revenue | profit
	Order     string // asc | desc
}

// TripService 行程服务
type TripService struct {
	logger   *zap.Logger
	stores   *Stores
	duties   *DutyService
	notifier Notifier
}

// NewTripService 创建行程服务
func NewTripService(logger *zap.Logger, stores *Stores, duties *DutyService, notifier Notifier) *TripService {
	return &TripService{logger: logger, stores: stores, duties: duties, notifier: notifier}
}

// Preview 按当前分成规则试算，不保存
func (s *TripService) Preview(ctx context.Context, draft TripDraft) (settlement.Result, error) {
	settings, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return settlement.Result{}, err
	}
	res := settlement.Settle(draft.settlementInput(), settings.Logic)
	if !finite(res.TotalRevenue, res.TotalFuelBill, res.TotalDriverPayout, res.TotalOwnerShare) {
		return settlement.Result{}, fmt.Errorf("%w: amounts out of range", ErrInvalidInput)
	}
	return res, nil
}

// Create 结算并保存新行程，同时把车辆里程表更新为结束里程
func (s *TripService) Create(ctx context.Context, draft TripDraft) (models.Trip, error) {
	if err := draft.validate(); err != nil {
		return models.Trip{}, err
	}

	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return models.Trip{}, err
	}
	vi := indexOfVehicle(vehicles, draft.VehicleID)
	if vi < 0 {
		return models.Trip{}, fmt.Errorf("vehicle %s: %w", draft.VehicleID, ErrNotFound)
	}
	if err := s.checkDriver(ctx, draft.DriverID); err != nil {
		return models.Trip{}, err
	}

	trips, err := s.stores.Trips.List(ctx)
	if err != nil {
		return models.Trip{}, err
	}
	trip, err := s.settle(ctx, uuid.NewString(), draft)
	if err != nil {
		return models.Trip{}, err
	}

	trips = append(trips, trip)
	vehicles[vi].CurrentOdo = trip.EndKm

	te, err := s.stores.Trips.Entry(trips)
	if err != nil {
		return models.Trip{}, err
	}
	ve, err := s.stores.Vehicles.Entry(vehicles)
	if err != nil {
		return models.Trip{}, err
	}
	if err := s.stores.Store.SaveBatch(ctx, te, ve); err != nil {
		return models.Trip{}, fmt.Errorf("create trip: %w", err)
	}

	s.logger.Info("Trip saved",
		zap.String("trip_id", trip.ID),
		zap.String("vehicle_id", trip.VehicleID),
		zap.Float64("total_km", trip.TotalKm),
		zap.Float64("profit", trip.Profit))

	if s.duties != nil {
		s.duties.endIfActive(trip.VehicleID)
	}
	s.notify(trip)
	return trip, nil
}

// Update 整条替换并重新结算，不改动车辆里程表
func (s *TripService) Update(ctx context.Context, id string, draft TripDraft) (models.Trip, error) {
	if err := draft.validate(); err != nil {
		return models.Trip{}, err
	}

	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	trips, err := s.stores.Trips.List(ctx)
	if err != nil {
		return models.Trip{}, err
	}
	ti := -1
	for i := range trips {
		if trips[i].ID == id {
			ti = i
			break
		}
	}
	if ti < 0 {
		return models.Trip{}, fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}

	vehicles, err := s.stores.Vehicles.List(ctx)
	if err != nil {
		return models.Trip{}, err
	}
	if indexOfVehicle(vehicles, draft.VehicleID) < 0 {
		return models.Trip{}, fmt.Errorf("vehicle %s: %w", draft.VehicleID, ErrNotFound)
	}
	// 已删除司机的历史行程仍可编辑
	if draft.DriverID != trips[ti].DriverID {
		if err := s.checkDriver(ctx, draft.DriverID); err != nil {
			return models.Trip{}, err
		}
	}

	trip, err := s.settle(ctx, id, draft)
	if err != nil {
		return models.Trip{}, err
	}
	trips[ti] = trip
	if err := s.stores.Trips.SaveAll(ctx, trips); err != nil {
		return models.Trip{}, fmt.Errorf("update trip: %w", err)
	}

	s.logger.Info("Trip updated", zap.String("trip_id", id))
	s.notify(trip)
	return trip, nil
}

// Get 获取单条行程
func (s *TripService) Get(ctx context.Context, id string) (models.Trip, error) {
	trips, err := s.stores.Trips.List(ctx)
	if err != nil {
		return models.Trip{}, err
	}
	for _, t := range trips {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Trip{}, fmt.Errorf("trip %s: %w", id, ErrNotFound)
}

// List 筛选并排序，默认按出车时间倒序
func (s *TripService) List(ctx context.Context, f TripFilter) ([]models.Trip, error) {
	trips, err := s.stores.Trips.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterTrips(trips, f)
}

// FilterTrips 行程筛选排序
func FilterTrips(trips []models.Trip, f TripFilter) ([]models.Trip, error) {
	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if f.VehicleID != "" && t.VehicleID != f.VehicleID {
			continue
		}
		if f.DriverID != "" && t.DriverID != f.DriverID {
			continue
		}
		if f.From != "" && t.Date < f.From {
			continue
		}
		if f.To != "" && t.Date > f.To {
			continue
		}
		out = append(out, t)
	}

	var less func(a, b *models.Trip) bool
	switch f.SortBy {
	case "", "date":
		less = func(a, b *models.Trip) bool { return a.StartedAt().Before(b.StartedAt()) }
	case "revenue":
		less = func(a, b *models.Trip) bool { return a.Revenue < b.Revenue }
	case "profit":
		less = func(a, b *models.Trip) bool { return a.Profit < b.Profit }
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, f.SortBy)
	}

	var desc bool
	switch f.Order {
	case "", "desc":
		desc = true
	case "asc":
	default:
		return nil, fmt.Errorf("%w: unknown order %q", ErrInvalidInput, f.Order)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out, nil
}

// settle 按当前设置结算草稿，生成完整行程记录
func (s *TripService) settle(ctx context.Context, id string, draft TripDraft) (models.Trip, error) {
	settings, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return models.Trip{}, err
	}

	segments := make([]models.TripSegment, len(draft.Segments))
	copy(segments, draft.Segments)
	for i := range segments {
		if segments[i].ID == "" {
			segments[i].ID = uuid.NewString()
		}
	}
	fuel := make([]models.FuelEntry, len(draft.FuelEntries))
	copy(fuel, draft.FuelEntries)
	for i := range fuel {
		if fuel[i].ID == "" {
			fuel[i].ID = uuid.NewString()
		}
		if fuel[i].Type == "" {
			fuel[i].Type = models.FuelCNG
		}
	}
	draft.Segments, draft.FuelEntries = segments, fuel

	res := settlement.Settle(draft.settlementInput(), settings.Logic)
	if !finite(draft.TotalKm(), draft.TollOther, res.TotalRevenue, res.TotalFuelBill, res.TotalDriverPayout, res.TotalOwnerShare) {
		return models.Trip{}, fmt.Errorf("%w: amounts out of range", ErrInvalidTrip)
	}
	saved := res.TripSegments()

	return models.Trip{
		ID:           id,
		VehicleID:    draft.VehicleID,
		DriverID:     draft.DriverID,
		DutyStart:    draft.DutyStart,
		DutyEnd:      draft.DutyEnd,
		Date:         models.DateOf(draft.DutyStart),
		StartKm:      draft.StartKm,
		EndKm:        draft.EndKm,
		TotalKm:      draft.TotalKm(),
		Segments:     saved,
		FuelEntries:  fuel,
		Revenue:      res.TotalRevenue,
		FuelCost:     res.TotalFuelBill,
		TollOther:    draft.TollOther,
		DriverPayout: res.TotalDriverPayout,
		Profit:       res.TotalOwnerShare,
		TripType:     saved[0].Category.String(),
	}, nil
}

func (s *TripService) checkDriver(ctx context.Context, id string) error {
	drivers, err := s.stores.Drivers.List(ctx)
	if err != nil {
		return err
	}
	for _, d := range drivers {
		if d.ID == id {
			return nil
		}
	}
	return fmt.Errorf("driver %s: %w", id, ErrNotFound)
}

func (s *TripService) notify(trip models.Trip) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastMessage(ws.MsgTypeTripSaved, trip)
}

func indexOfVehicle(vehicles []models.Vehicle, id string) int {
	for i := range vehicles {
		if vehicles[i].ID == id {
			return i
		}
	}
	return -1
}

// finite 金额可以编码为 JSON
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
