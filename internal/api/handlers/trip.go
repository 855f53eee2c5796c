package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/fleetbook/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func tripFilter(c *gin.Context) service.TripFilter {
	return service.TripFilter{
		VehicleID: c.Query("vehicle_id"),
		DriverID:  c.Query("driver_id"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		SortBy:    c.Query("sort"),
		Order:     c.Query("order"),
	}
}

// ListTrips 获取行程列表
// GET /api/trips?vehicle_id=&driver_id=&from=&to=&sort=date|revenue|profit&order=asc|desc
func (h *Handler) ListTrips(c *gin.Context) {
	trips, err := h.trips.List(c.Request.Context(), tripFilter(c))
	if err != nil {
		h.fail(c, err, "Failed to list trips")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

// GetTrip 获取行程详情
func (h *Handler) GetTrip(c *gin.Context) {
	trip, err := h.trips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get trip")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trip})
}

// CreateTrip 保存行程，同时更新车辆里程表
func (h *Handler) CreateTrip(c *gin.Context) {
	var draft service.TripDraft
	if !bind(c, &draft) {
		return
	}
	trip, err := h.trips.Create(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, err, "Failed to save trip")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": trip})
}

// UpdateTrip 修改行程并重新结算
func (h *Handler) UpdateTrip(c *gin.Context) {
	var draft service.TripDraft
	if !bind(c, &draft) {
		return
	}
	trip, err := h.trips.Update(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		h.fail(c, err, "Failed to update trip")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trip})
}

// PreviewTrip 结算预览，不保存
func (h *Handler) PreviewTrip(c *gin.Context) {
	var draft service.TripDraft
	if !bind(c, &draft) {
		return
	}
	result, err := h.trips.Preview(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, err, "Failed to preview trip")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ExportTrips 导出行程台账
func (h *Handler) ExportTrips(c *gin.Context) {
	data, err := h.fleet.ExportWorkbook(c.Request.Context(), tripFilter(c))
	if err != nil {
		h.fail(c, err, "Failed to export trips")
		return
	}
	name := fmt.Sprintf("trips-%s.xlsx", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}
