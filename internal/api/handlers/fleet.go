package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/models"
	"github.com/langchou/fleetbook/internal/service"
)

// ListVehicles 获取车辆列表
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.fleet.ListVehicles(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list vehicles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

// GetVehicle 获取车辆详情
func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, err := h.fleet.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get vehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

// AddVehicle 新增车辆
func (h *Handler) AddVehicle(c *gin.Context) {
	var v models.Vehicle
	if !bind(c, &v) {
		return
	}
	created, err := h.fleet.AddVehicle(c.Request.Context(), v)
	if err != nil {
		h.fail(c, err, "Failed to add vehicle")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// UpdateVehicle 修改车辆资料
func (h *Handler) UpdateVehicle(c *gin.Context) {
	var v models.Vehicle
	if !bind(c, &v) {
		return
	}
	updated, err := h.fleet.UpdateVehicle(c.Request.Context(), c.Param("id"), v)
	if err != nil {
		h.fail(c, err, "Failed to update vehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// GetVehicleSummary 单车收支统计
func (h *Handler) GetVehicleSummary(c *gin.Context) {
	summary, err := h.fleet.VehicleSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to summarize vehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// StartDuty 开始出车
// POST /api/vehicles/:id/duty {"driverId": "..."}
func (h *Handler) StartDuty(c *gin.Context) {
	var req struct {
		DriverID string `json:"driverId"`
	}
	if !bind(c, &req) {
		return
	}
	id := c.Param("id")
	duty, err := h.duties.Start(c.Request.Context(), id, req.DriverID)
	if err != nil {
		h.fail(c, err, "Failed to start duty")
		return
	}
	h.logger.Info("Duty started via API", zap.String("vehicle_id", id), zap.String("driver_id", req.DriverID))
	c.JSON(http.StatusOK, gin.H{"data": duty})
}

// GetDuty 获取车辆出车状态
func (h *Handler) GetDuty(c *gin.Context) {
	st, err := h.duties.Current(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get duty state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": st})
}

// ListDrivers 获取司机列表
func (h *Handler) ListDrivers(c *gin.Context) {
	drivers, err := h.fleet.ListDrivers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list drivers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// AddDriver 新增司机
func (h *Handler) AddDriver(c *gin.Context) {
	var d models.Driver
	if !bind(c, &d) {
		return
	}
	created, err := h.fleet.AddDriver(c.Request.Context(), d)
	if err != nil {
		h.fail(c, err, "Failed to add driver")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// DeleteDriver 删除司机
func (h *Handler) DeleteDriver(c *gin.Context) {
	if err := h.fleet.DeleteDriver(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete driver")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMaintenance 保养记录列表
// GET /api/maintenance?vehicle_id=&type=
func (h *Handler) ListMaintenance(c *gin.Context) {
	records, err := h.fleet.ListMaintenance(c.Request.Context(), service.MaintenanceFilter{
		VehicleID: c.Query("vehicle_id"),
		Type:      models.MaintenanceType(c.Query("type")),
	})
	if err != nil {
		h.fail(c, err, "Failed to list maintenance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// AddMaintenance 新增保养记录
func (h *Handler) AddMaintenance(c *gin.Context) {
	var r models.MaintenanceRecord
	if !bind(c, &r) {
		return
	}
	created, err := h.fleet.AddMaintenance(c.Request.Context(), r)
	if err != nil {
		h.fail(c, err, "Failed to add maintenance")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// FleetAnalytics 车队统计
func (h *Handler) FleetAnalytics(c *gin.Context) {
	summaries, err := h.fleet.Analytics(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to compute analytics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// Dashboard 仪表盘
func (h *Handler) Dashboard(c *gin.Context) {
	overview, err := h.fleet.Dashboard(c.Request.Context(), h.now())
	if err != nil {
		h.fail(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": overview})
}
