package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/service"
	"github.com/langchou/fleetbook/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger    *zap.Logger
	trips     *service.TripService
	duties    *service.DutyService
	fleet     *service.FleetService
	estimates *service.EstimateService
	settings  *service.SettingsService
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	now       func() time.Time
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	trips *service.TripService,
	duties *service.DutyService,
	fleet *service.FleetService,
	estimates *service.EstimateService,
	settings *service.SettingsService,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:    logger,
		trips:     trips,
		duties:    duties,
		fleet:     fleet,
		estimates: estimates,
		settings:  settings,
		wsHub:     wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 仅监听本机
			},
		},
		now: time.Now,
	}
}

// fail 按错误类型返回状态码
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTrip), errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDutyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// bind 解析 JSON 请求体，失败时直接回复 400
func bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 连接存活期间请求上下文会被取消，预览请求不跟随它
	ctx := context.WithoutCancel(c.Request.Context())
	go client.ReadPump(ctx)
	go client.WritePump()
}

// HandleMessage 处理 WebSocket 预览请求，结果只回复给请求方
func (h *Handler) HandleMessage(ctx context.Context, req ws.Request) (string, interface{}, error) {
	switch req.Type {
	case ws.MsgTypePreviewTrip:
		var draft service.TripDraft
		if err := json.Unmarshal(req.Data, &draft); err != nil {
			return "", nil, fmt.Errorf("invalid trip draft: %w", err)
		}
		result, err := h.trips.Preview(ctx, draft)
		if err != nil {
			return "", nil, err
		}
		return ws.MsgTypePreviewResult, result, nil
	case ws.MsgTypePreviewEstimate:
		var er service.EstimateRequest
		if err := json.Unmarshal(req.Data, &er); err != nil {
			return "", nil, fmt.Errorf("invalid estimate request: %w", err)
		}
		est, err := h.estimates.Estimate(ctx, er)
		if err != nil {
			return "", nil, err
		}
		return ws.MsgTypePreviewResult, est, nil
	default:
		return "", nil, fmt.Errorf("unknown request type %q", req.Type)
	}
}

// InitData WebSocket 连接建立时推送的快照
func (h *Handler) InitData() interface{} {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data := gin.H{"duty": h.duties.States()}
	if vehicles, err := h.fleet.ListVehicles(ctx); err != nil {
		h.logger.Warn("Failed to load vehicles for init data", zap.Error(err))
	} else {
		data["vehicles"] = vehicles
	}
	if settings, err := h.settings.Get(ctx); err != nil {
		h.logger.Warn("Failed to load settings for init data", zap.Error(err))
	} else {
		data["settings"] = settings
	}
	return data
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
