// Package report 行程台账与车队汇总导出为 Excel
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/langchou/fleetbook/internal/analytics"
	"github.com/langchou/fleetbook/internal/models"
)

// 工作表名称
const (
	SheetTrips = "Trips"
	SheetFleet = "Fleet"
)

var tripHeaders = []string{
	"Date", "Vehicle", "Driver", "Duty Start", "Duty End",
	"Start KM", "End KM", "Total KM", "Categories",
	"Revenue", "Fuel Cost", "Toll/Other", "Driver Payout", "Owner Profit",
}

var fleetHeaders = []string{
	"Vehicle", "Plate", "Trips", "Revenue", "Fuel", "Toll/Other",
	"Maintenance", "Owner Profit", "Net Owner Profit",
}

// Names 车辆与司机 ID 到显示名称的映射
type Names struct {
	Vehicles map[string]string
	Drivers  map[string]string
}

// NamesFrom 从车辆与司机列表构建名称映射
func NamesFrom(vehicles []models.Vehicle, drivers []models.Driver) Names {
	n := Names{Vehicles: make(map[string]string, len(vehicles)), Drivers: make(map[string]string, len(drivers))}
	for _, v := range vehicles {
		n.Vehicles[v.ID] = v.Name
	}
	for _, d := range drivers {
		n.Drivers[d.ID] = d.Name
	}
	return n
}

func lookup(m map[string]string, id string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return id
}

// Workbook 生成台账工作簿：Trips 为行程明细，Fleet 为每车汇总
func Workbook(trips []models.Trip, summaries []analytics.Summary, names Names) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTrips); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeader(f, SheetTrips, tripHeaders); err != nil {
		return nil, err
	}
	for i, t := range trips {
		row := []interface{}{
			t.Date,
			lookup(names.Vehicles, t.VehicleID),
			lookup(names.Drivers, t.DriverID),
			t.DutyStart,
			t.DutyEnd,
			t.StartKm,
			t.EndKm,
			t.TotalKm,
			categories(t.Segments),
			t.Revenue,
			t.FuelCost,
			t.TollOther,
			t.DriverPayout,
			t.Profit,
		}
		if err := writeRow(f, SheetTrips, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(SheetFleet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeHeader(f, SheetFleet, fleetHeaders); err != nil {
		return nil, err
	}
	for i, s := range summaries {
		row := []interface{}{
			s.VehicleName,
			s.PlateNumber,
			s.TripCount,
			s.Revenue,
			s.FuelCost,
			s.TollOther,
			s.MaintenanceCost,
			s.OwnerProfit,
			s.NetOwnerProfit,
		}
		if err := writeRow(f, SheetFleet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func categories(segments []models.TripSegment) string {
	var out string
	for i, s := range segments {
		if i > 0 {
			out += ", "
		}
		out += s.Category.String()
	}
	return out
}
