package models

import (
	"strings"
	"time"
)

// FuelType 燃料类型
type FuelType string

const (
	FuelCNG    FuelType = "cng"
	FuelPetrol FuelType = "petrol"
)

// TripSegment 行程收入分段
type TripSegment struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Km       float64  `json:"km"`
	Revenue  float64  `json:"revenue"`
}

// FuelEntry 加油记录
type FuelEntry struct {
	ID       string   `json:"id"`
	Type     FuelType `json:"type"`
	Quantity float64  `json:"quantity"`
	Amount   float64  `json:"amount"`
}

// Trip 行程（结算单元）
// Revenue/FuelCost/DriverPayout/Profit 由结算引擎计算后持久化
type Trip struct {
	ID        string `json:"id"`
	VehicleID string `json:"vehicleId"`
	DriverID  string `json:"driverId"`

	// 出车时间 (YYYY-MM-DDTHH:MM)
	DutyStart string `json:"dutyStart"`
	DutyEnd   string `json:"dutyEnd"`
	Date      string `json:"date"` // DutyStart 所在日期，用于筛选

	// 里程表
	StartKm float64 `json:"startKm"`
	EndKm   float64 `json:"endKm"`
	TotalKm float64 `json:"totalKm"`

	Segments    []TripSegment `json:"segments"`
	FuelEntries []FuelEntry   `json:"fuelEntries"`

	Revenue   float64 `json:"revenue"`
	FuelCost  float64 `json:"fuelCost"` // 实际现金油费
	TollOther float64 `json:"tollOther"`

	DriverPayout float64 `json:"driverPayout"`
	Profit       float64 `json:"profit"` // 车主分成

	// 旧版兼容字段，保存时写入首段类别
	TripType string `json:"tripType,omitempty"`
}

var dutyLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDutyTime 解析出车时间，兼容 datetime-local、RFC3339 与纯日期
func ParseDutyTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dutyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOf 取出车时间的日期部分
func DateOf(dutyStart string) string {
	if i := strings.IndexByte(dutyStart, 'T'); i >= 0 {
		return dutyStart[:i]
	}
	if len(dutyStart) >= 10 {
		return dutyStart[:10]
	}
	return dutyStart
}

// StartedAt 行程开始时间，DutyStart 缺失时退回 Date
func (t *Trip) StartedAt() time.Time {
	if ts, ok := ParseDutyTime(t.DutyStart); ok {
		return ts
	}
	ts, _ := ParseDutyTime(t.Date)
	return ts
}
