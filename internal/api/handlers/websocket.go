package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"hotel_backend/internal/service"
)

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	authService *service.AuthService
	wsService   *service.WebSocketService
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler allowedOrigin 為空或 * 時不檢查 origin
func NewWebSocketHandler(authService *service.AuthService, wsService *service.WebSocketService, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{
		authService: authService,
		wsService:   wsService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigin),
		},
	}
}

func checkOrigin(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if allowed == "" || allowed == "*" || origin == "" {
			return true
		}
		return strings.EqualFold(origin, allowed)
	}
}

// HandleWebSocket token 以 query 參數帶入，驗證失敗時不會升級連線
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "token is required"})
		return
	}
	claims, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrStorage) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "Invalid or expired token"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接，失敗時 upgrader 已回應錯誤
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.wsService.HandleConnection(c.Request.Context(), conn, claims.UserID, claims.Role)
}
