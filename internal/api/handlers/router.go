package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// 车辆
		api.GET("/vehicles", h.ListVehicles)
		api.POST("/vehicles", h.AddVehicle)
		api.GET("/vehicles/:id", h.GetVehicle)
		api.PUT("/vehicles/:id", h.UpdateVehicle)
		api.GET("/vehicles/:id/summary", h.GetVehicleSummary)

		// 出车
		api.POST("/vehicles/:id/duty", h.StartDuty)
		api.GET("/vehicles/:id/duty", h.GetDuty)

		// 司机
		api.GET("/drivers", h.ListDrivers)
		api.POST("/drivers", h.AddDriver)
		api.DELETE("/drivers/:id", h.DeleteDriver)

		// 保养
		api.GET("/maintenance", h.ListMaintenance)
		api.POST("/maintenance", h.AddMaintenance)

		// 行程
		api.GET("/trips", h.ListTrips)
		api.POST("/trips", h.CreateTrip)
		api.POST("/trips/preview", h.PreviewTrip)
		api.GET("/trips/export", h.ExportTrips)
		api.GET("/trips/:id", h.GetTrip)
		api.PUT("/trips/:id", h.UpdateTrip)

		// 报价
		api.POST("/estimate", h.Estimate)
		api.POST("/estimate/qr", h.EstimateQR)
		api.POST("/estimate/pdf", h.EstimatePDF)

		// 设置
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)
		api.POST("/settings/reset", h.ResetSettings)

		// 统计
		api.GET("/analytics/fleet", h.FleetAnalytics)
		api.GET("/dashboard", h.Dashboard)

		api.GET("/ws", h.HandleWebSocket)
	}

	// 健康检查
	r.GET("/health", h.HealthCheck)
	r.GET("/api/health", h.HealthCheck)
}
