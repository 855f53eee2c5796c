// Package analytics 基于已持久化记录的车队统计，不重新结算行程
package analytics

import (
	"sort"
	"time"

	"github.com/langchou/fleetbook/internal/models"
)

// DefaultWarningDays 证件到期提醒窗口
const DefaultWarningDays = 15

// RecentTripCount 仪表盘展示的最近行程数
const RecentTripCount = 3

// Summary 单车统计
type Summary struct {
	VehicleID       string  `json:"vehicleId"`
	VehicleName     string  `json:"vehicleName"`
	PlateNumber     string  `json:"plateNumber"`
	TripCount       int     `json:"tripCount"`
	Revenue         float64 `json:"revenue"`
	FuelCost        float64 `json:"fuelCost"`
	TollOther       float64 `json:"tollOther"`
	Expenses        float64 `json:"expenses"` // 油费 + 杂费
	MaintenanceCost float64 `json:"maintenanceCost"`
	OwnerProfit     float64 `json:"ownerProfit"`
	NetOwnerProfit  float64 `json:"netOwnerProfit"` // 扣除保养费用
}

// VehicleSummary 汇总单车的行程与保养，只统计属于该车的记录
func VehicleSummary(v models.Vehicle, trips []models.Trip, maintenance []models.MaintenanceRecord) Summary {
	s := Summary{VehicleID: v.ID, VehicleName: v.Name, PlateNumber: v.PlateNumber}
	for _, t := range trips {
		if t.VehicleID != v.ID {
			continue
		}
		s.TripCount++
		s.Revenue += t.Revenue
		s.FuelCost += t.FuelCost
		s.TollOther += t.TollOther
		s.OwnerProfit += t.Profit
	}
	for _, m := range maintenance {
		if m.VehicleID == v.ID {
			s.MaintenanceCost += m.Cost
		}
	}
	s.Expenses = s.FuelCost + s.TollOther
	s.NetOwnerProfit = s.OwnerProfit - s.MaintenanceCost
	return s
}

// FleetSummaries 每辆车一条统计，顺序与 vehicles 一致
func FleetSummaries(vehicles []models.Vehicle, trips []models.Trip, maintenance []models.MaintenanceRecord) []Summary {
	out := make([]Summary, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, VehicleSummary(v, trips, maintenance))
	}
	return out
}

// Alert 证件到期提醒
type Alert struct {
	Owner    string `json:"owner"` // 车辆或司机名称
	OwnerID  string `json:"ownerId"`
	Kind     string `json:"kind"` // vehicle | driver
	Document string `json:"document"`
	Date     string `json:"date"`
	Expired  bool   `json:"expired"`
}

type document struct {
	label string
	date  string
}

// ExpiryAlerts 列出在 now+warnDays 当天或之前到期（含已过期）的证件，按到期日升序。
// 空日期或无法解析的日期忽略。
func ExpiryAlerts(vehicles []models.Vehicle, drivers []models.Driver, now time.Time, warnDays int) []Alert {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	limit := today.AddDate(0, 0, warnDays)

	alerts := []Alert{}
	check := func(kind, ownerID, owner string, docs []document) {
		for _, d := range docs {
			if d.date == "" {
				continue
			}
			due, err := time.ParseInLocation("2006-01-02", d.date, now.Location())
			if err != nil || due.After(limit) {
				continue
			}
			alerts = append(alerts, Alert{
				Owner:    owner,
				OwnerID:  ownerID,
				Kind:     kind,
				Document: d.label,
				Date:     d.date,
				Expired:  due.Before(today),
			})
		}
	}

	for _, v := range vehicles {
		check("vehicle", v.ID, v.Name, []document{
			{"Insurance", v.InsuranceExpiry},
			{"Tax", v.TaxExpiry},
			{"Permit", v.PermitExpiry},
			{"Pollution", v.PollutionExpiry},
			{"Fitness", v.FitnessExpiry},
		})
	}
	for _, d := range drivers {
		check("driver", d.ID, d.Name, []document{{"License", d.LicenseExpiry}})
	}

	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].Date < alerts[j].Date })
	return alerts
}

// Overview 仪表盘
type Overview struct {
	Revenue      float64       `json:"revenue"`
	Profit       float64       `json:"profit"`
	Expenses     float64       `json:"expenses"`
	VehicleCount int           `json:"vehicleCount"`
	DriverCount  int           `json:"driverCount"`
	Alerts       []Alert       `json:"alerts"`
	RecentTrips  []models.Trip `json:"recentTrips"` // 最新在前
}

// Dashboard 汇总全部行程；最近行程按录入顺序取最后几条
func Dashboard(vehicles []models.Vehicle, drivers []models.Driver, trips []models.Trip, now time.Time, warnDays int) Overview {
	o := Overview{
		VehicleCount: len(vehicles),
		DriverCount:  len(drivers),
		Alerts:       ExpiryAlerts(vehicles, drivers, now, warnDays),
	}
	for _, t := range trips {
		o.Revenue += t.Revenue
		o.Profit += t.Profit
		o.Expenses += t.FuelCost + t.TollOther
	}

	n := min(RecentTripCount, len(trips))
	o.RecentTrips = make([]models.Trip, 0, n)
	for i := len(trips) - 1; i >= len(trips)-n; i-- {
		o.RecentTrips = append(o.RecentTrips, trips[i])
	}
	return o
}
