package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageType WebSocket 消息类型
const (
	MsgTypeInit          = "init"           // 初始化数据（车辆、出车状态、设置）
	MsgTypeTripSaved     = "trip_saved"     // 行程已保存
	MsgTypeDutyState     = "duty_state"     // 出车状态变化
	MsgTypePreviewResult = "preview_result" // 预览结果，仅回复请求方
	MsgTypeError         = "error"          // 错误消息

	// 客户端请求
	MsgTypePreviewTrip     = "preview_trip"
	MsgTypePreviewEstimate = "preview_estimate"
)

// maxMessageSize 客户端单条消息上限
const maxMessageSize = 64 << 10

// Message WebSocket 消息结构
type Message struct {
	Type string      `json:"type"`
	ID   string      `json:"id,omitempty"` // 请求 ID，回复时原样带回
	Data interface{} `json:"data"`
}

// Request 客户端请求
type Request struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

// ErrorData 错误消息内容
type ErrorData struct {
	Message string `json:"message"`
}

// MessageHandler 处理客户端请求，返回回复类型与内容
type MessageHandler func(ctx context.Context, req Request) (string, interface{}, error)

// Client WebSocket 客户端
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub WebSocket 连接管理中心
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	// 初始数据提供者回调
	getInitData func() interface{}
	handler     MessageHandler
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetInitDataProvider 设置初始数据提供者
func (h *Hub) SetInitDataProvider(provider func() interface{}) {
	h.getInitData = provider
}

// SetMessageHandler 设置客户端请求处理函数
func (h *Hub) SetMessageHandler(handler MessageHandler) {
	h.handler = handler
}

// Run 运行 Hub，ctx 取消后关闭全部连接
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client connected", zap.Int("total_clients", total))

			// 发送初始数据
			h.sendInitData(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client disconnected", zap.Int("total_clients", total))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 慢消费者，关闭连接
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// sendInitData 发送初始数据给新连接的客户端
func (h *Hub) sendInitData(client *Client) {
	if h.getInitData == nil {
		h.logger.Warn("No init data provider set")
		return
	}

	initData := h.getInitData()
	if initData == nil {
		h.logger.Warn("Init data provider returned nil")
		return
	}

	h.sendTo(client, Message{Type: MsgTypeInit, Data: initData})
}

// sendTo 发送给单个客户端，客户端已注销或缓冲区满时丢弃
func (h *Hub) sendTo(client *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("Client buffer full, dropping message", zap.String("type", msg.Type))
	}
}

// Broadcast 广播消息给所有客户端，队列满时丢弃
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("Broadcast queue full, dropping message")
	}
}

// BroadcastMessage 广播结构化消息给所有客户端
func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	msg := Message{
		Type: msgType,
		Data: data,
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	h.Broadcast(jsonData)
}

// ClientCount 获取客户端数量
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handle 处理一条客户端消息并回复请求方
func (h *Hub) handle(ctx context.Context, client *Client, raw []byte) {
	var req Request
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic while handling websocket request",
				zap.String("type", req.Type),
				zap.Any("panic", r),
				zap.Stack("stack"))
			h.sendTo(client, Message{Type: MsgTypeError, ID: req.ID, Data: ErrorData{Message: "internal error"}})
		}
	}()

	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendTo(client, Message{Type: MsgTypeError, Data: ErrorData{Message: "invalid message"}})
		return
	}
	if h.handler == nil {
		h.sendTo(client, Message{Type: MsgTypeError, ID: req.ID, Data: ErrorData{Message: "requests not supported"}})
		return
	}

	respType, data, err := h.handler(ctx, req)
	if err != nil {
		h.logger.Debug("WebSocket request failed", zap.String("type", req.Type), zap.Error(err))
		h.sendTo(client, Message{Type: MsgTypeError, ID: req.ID, Data: ErrorData{Message: err.Error()}})
		return
	}
	h.sendTo(client, Message{Type: respType, ID: req.ID, Data: data})
}

// NewClient 创建客户端
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register 注册客户端；Hub 已停止时直接关闭发送队列
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		close(c.send)
	}
}

// Unregister 注销客户端
func (c *Client) Unregister() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump 读取客户端请求，连接断开时注销
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Unregister()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.hub.handle(ctx, c, message)
	}
}

// WritePump 发送消息
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
