package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel_backend/internal/api/handlers"
	"hotel_backend/internal/middleware"
	"hotel_backend/internal/models"
	"hotel_backend/internal/service"
)

// RouteOptions 路由層需要的設定
type RouteOptions struct {
	AllowedOrigin string
}

func SetupRoutes(r *gin.Engine, services *service.Services, opts RouteOptions) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.AuthService, services.UserService)
	chatHandler := handlers.NewChatHandler(services.ChatService, services.UploadService)
	inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
	wsHandler := handlers.NewWebSocketHandler(services.AuthService, services.WebSocketService, opts.AllowedOrigin)

	requireAuth := middleware.RequireAuth(services.AuthService)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "找不到該路徑"})
	})

	// 公開路由
	{
		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// 用戶認證相關
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/guest/login", authHandler.GuestLogin)

		auth.GET("/me", requireAuth, authHandler.Me)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.GET("/guest/me", requireAuth, middleware.RequireRoles(models.RoleGuest), authHandler.GuestMe)
		auth.POST("/users", requireAuth, adminOnly, authHandler.CreateUser)
		auth.POST("/users/:id/deactivate", requireAuth, adminOnly, authHandler.DeactivateUser)
	}

	chat := api.Group("/chat")
	{
		// WebSocket 連接，token 由 query 帶入
		chat.GET("/ws", wsHandler.HandleWebSocket)

		chat.GET("/contacts", requireAuth, chatHandler.Contacts)
		chat.GET("/history", requireAuth, chatHandler.History)
		chat.POST("/upload", requireAuth, chatHandler.Upload)
	}

	inventory := api.Group("/inventory", requireAuth)
	{
		inventory.GET("", inventoryHandler.List)
		inventory.POST("", adminOnly, inventoryHandler.Create)
		inventory.PATCH("/:id", inventoryHandler.Update)
		inventory.DELETE("/:id", adminOnly, inventoryHandler.Delete)
	}

	admin := api.Group("/admin", requireAuth, adminOnly)
	{
		admin.GET("/financial/inventory-value", inventoryHandler.TotalValue)
	}
}
