package service

import (
	"context"

	"github.com/langchou/fleetbook/internal/analytics"
	"github.com/langchou/fleetbook/internal/report"
)

// ExportWorkbook 导出筛选后的行程台账与车队汇总
func (s *FleetService) ExportWorkbook(ctx context.Context, f TripFilter) ([]byte, error) {
	vehicles, trips, maintenance, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	drivers, err := s.stores.Drivers.List(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := FilterTrips(trips, f)
	if err != nil {
		return nil, err
	}
	summaries := analytics.FleetSummaries(vehicles, trips, maintenance)
	return report.Workbook(selected, summaries, report.NamesFrom(vehicles, drivers))
}
