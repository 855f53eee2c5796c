package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/fleetbook/internal/models"
	"github.com/langchou/fleetbook/internal/quote"
	"github.com/langchou/fleetbook/internal/service"
)

// Estimate 车费估算
func (h *Handler) Estimate(c *gin.Context) {
	var req service.EstimateRequest
	if !bind(c, &req) {
		return
	}
	est, err := h.estimates.Estimate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to estimate fare")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": est})
}

// EstimateQR 报价分享链接二维码 (PNG)
func (h *Handler) EstimateQR(c *gin.Context) {
	h.renderShare(c, "image/png", quote.Share.QR)
}

// EstimatePDF 报价单 PDF
func (h *Handler) EstimatePDF(c *gin.Context) {
	h.renderShare(c, "application/pdf", quote.Share.PDF)
}

func (h *Handler) renderShare(c *gin.Context, contentType string, render func(quote.Share) ([]byte, error)) {
	var req service.EstimateRequest
	if !bind(c, &req) {
		return
	}
	share, err := h.estimates.Share(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to estimate fare")
		return
	}
	data, err := render(share)
	if err != nil {
		h.fail(c, err, "Failed to render estimate")
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// GetSettings 获取设置
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// UpdateSettings 修改设置，请求体中缺省的字段保留当前值
func (h *Handler) UpdateSettings(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	saved, err := h.settings.Patch(c.Request.Context(), func(s *models.Settings) error {
		if err := json.Unmarshal(raw, s); err != nil {
			return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
		}
		return nil
	})
	if err != nil {
		h.fail(c, err, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}

// ResetSettings 恢复默认设置
func (h *Handler) ResetSettings(c *gin.Context) {
	settings, err := h.settings.Reset(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to reset settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}
