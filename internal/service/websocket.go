package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"hotel_backend/internal/models"
)

// SessionOptions websocket 連線參數
type SessionOptions struct {
	ReadLimit int64         // 單則訊息大小上限
	PongWait  time.Duration // 等待 pong 的時間，超過視為斷線
	WriteWait time.Duration // 單次寫入逾時
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 8192
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	return o
}

// WebSocketService 管理每條 websocket 連線的收發
type WebSocketService struct {
	chat     *ChatService
	registry *Registry
	opts     SessionOptions
}

// NewWebSocketService 創建並初始化新的 WebSocket 服務
func NewWebSocketService(chat *ChatService, opts SessionOptions) *WebSocketService {
	return &WebSocketService{
		chat:     chat,
		registry: chat.Registry(),
		opts:     opts.withDefaults(),
	}
}

// HandleConnection 處理已通過驗證的 websocket 連線，直到任一方向結束
// 另一個方向會被取消，最後從 registry 移除
func (s *WebSocketService) HandleConnection(ctx context.Context, conn *websocket.Conn, userID string, role models.UserRole) {
	logger := slog.With("user_id", userID, "role", role)
	sub := s.registry.Connect(userID)
	logger.Info("websocket session started")

	// 確保連接關閉時清理資源
	defer func() {
		s.registry.Leave(sub)
		conn.Close()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.writePump(gctx, conn, sub) })
	g.Go(func() error { return s.readPump(gctx, conn, userID, role) })
	g.Go(func() error {
		// 讓卡在 ReadMessage 的讀取迴圈結束
		<-gctx.Done()
		conn.Close()
		return nil
	})

	err := g.Wait()
	if isExpectedClose(err) {
		logger.Info("websocket session closed")
	} else {
		logger.Warn("websocket session closed", "error", err)
	}
}

// readPump 持續監聽並處理從客戶端接收的消息
func (s *WebSocketService) readPump(ctx context.Context, conn *websocket.Conn, userID string, role models.UserRole) error {
	conn.SetReadLimit(s.opts.ReadLimit)
	conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		message, err := s.chat.HandleFrame(ctx, userID, role, frame)
		if err != nil {
			slog.WarnContext(ctx, "chat frame dropped", "user_id", userID, "error", err)
			continue
		}
		slog.InfoContext(ctx, "chat message processed",
			"user_id", userID,
			"receiver_id", message.ReceiverID,
			"message_id", message.ID,
			"persisted", !message.Unpersisted,
		)
	}
}

// writePump 把 registry 推給這個用戶的訊息寫到 websocket
func (s *WebSocketService) writePump(ctx context.Context, conn *websocket.Conn, sub *Subscription) error {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(s.opts.PongWait * 9 / 10)
	defer ticker.Stop()

	reported := 0
	for {
		if dropped := sub.Dropped(); dropped > reported {
			slog.WarnContext(ctx, "chat backlog overflow, oldest messages dropped",
				"user_id", sub.UserID(), "dropped", dropped-reported, "dropped_total", dropped)
			reported = dropped
		}
		for {
			payload, ok := sub.TryNext()
			if !ok {
				break
			}
			conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				return err
			}
		}

		select {
		case <-sub.Ready():
		case <-sub.Done():
			conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session ended"))
			return ErrSubscriptionClosed
		case <-ticker.C:
			// 發送心跳包
			conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func isExpectedClose(err error) bool {
	if err == nil || errors.Is(err, ErrSubscriptionClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
