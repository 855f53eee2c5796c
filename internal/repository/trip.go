package repository

import (
	"context"
	"fmt"

	"github.com/langchou/fleetbook/internal/models"
)

// storedSegment 存储中的分段，类别为原始字符串
type storedSegment struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Km       float64 `json:"km"`
	Revenue  float64 `json:"revenue"`
}

// storedTrip 存储中的行程，旧版记录可能缺少分段、加油明细、利润和出车时间
type storedTrip struct {
	ID        string `json:"id"`
	VehicleID string `json:"vehicleId"`
	DriverID  string `json:"driverId"`
	DutyStart string `json:"dutyStart"`
	DutyEnd   string `json:"dutyEnd"`
	Date      string `json:"date"`

	StartKm float64  `json:"startKm"`
	EndKm   float64  `json:"endKm"`
	TotalKm *float64 `json:"totalKm"`

	Segments    []storedSegment    `json:"segments"`
	FuelEntries []models.FuelEntry `json:"fuelEntries"`

	Revenue      float64  `json:"revenue"`
	FuelCost     float64  `json:"fuelCost"`
	TollOther    float64  `json:"tollOther"`
	DriverPayout float64  `json:"driverPayout"`
	Profit       *float64 `json:"profit"`
	TripType     string   `json:"tripType"`
}

// legacyID 旧版记录转换出的分段与加油明细 ID
const legacyID = "legacy"

// normalize 转换为当前结构。旧版兜底逻辑只存在于这里。
func (s storedTrip) normalize() models.Trip {
	t := models.Trip{
		ID:           s.ID,
		VehicleID:    s.VehicleID,
		DriverID:     s.DriverID,
		DutyStart:    s.DutyStart,
		DutyEnd:      s.DutyEnd,
		Date:         s.Date,
		StartKm:      s.StartKm,
		EndKm:        s.EndKm,
		Revenue:      s.Revenue,
		FuelCost:     s.FuelCost,
		TollOther:    s.TollOther,
		DriverPayout: s.DriverPayout,
		TripType:     s.TripType,
	}

	if s.TotalKm != nil {
		t.TotalKm = *s.TotalKm
	} else {
		t.TotalKm = s.EndKm - s.StartKm
	}

	if t.Date == "" {
		t.Date = models.DateOf(t.DutyStart)
	}
	if t.DutyStart == "" && t.Date != "" {
		t.DutyStart = t.Date + "T09:00"
	}
	if t.DutyEnd == "" && t.Date != "" {
		t.DutyEnd = t.Date + "T21:00"
	}

	if len(s.Segments) > 0 {
		t.Segments = make([]models.TripSegment, len(s.Segments))
		for i, seg := range s.Segments {
			t.Segments[i] = models.TripSegment{
				ID:       seg.ID,
				Category: models.LegacyCategory(seg.Category),
				Km:       seg.Km,
				Revenue:  seg.Revenue,
			}
		}
	} else {
		t.Segments = []models.TripSegment{{
			ID:       legacyID,
			Category: models.LegacyCategory(s.TripType),
			Km:       t.TotalKm,
			Revenue:  s.Revenue,
		}}
	}

	switch {
	case len(s.FuelEntries) > 0:
		t.FuelEntries = s.FuelEntries
	case s.FuelCost > 0:
		t.FuelEntries = []models.FuelEntry{{ID: legacyID, Type: models.FuelCNG, Amount: s.FuelCost}}
	default:
		t.FuelEntries = []models.FuelEntry{}
	}

	if s.Profit != nil {
		t.Profit = *s.Profit
	} else {
		t.Profit = s.Revenue - s.FuelCost - s.TollOther
	}

	return t
}

// TripRepository 行程仓库
type TripRepository struct {
	store *Store
}

// NewTripRepository 创建行程仓库
func NewTripRepository(store *Store) *TripRepository {
	return &TripRepository{store: store}
}

// List 读取全部行程（按录入顺序），旧版记录在此统一转换
func (r *TripRepository) List(ctx context.Context) ([]models.Trip, error) {
	stored, err := Load(ctx, r.store, KeyTrips, []storedTrip{})
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	trips := make([]models.Trip, len(stored))
	for i, s := range stored {
		trips[i] = s.normalize()
	}
	return trips, nil
}

// Entry 编码为批量写入项
func (r *TripRepository) Entry(trips []models.Trip) (Entry, error) {
	return r.store.Encode(KeyTrips, trips)
}

// SaveAll 整表覆盖写入
func (r *TripRepository) SaveAll(ctx context.Context, trips []models.Trip) error {
	return r.store.Save(ctx, KeyTrips, trips)
}
