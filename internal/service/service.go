package service

import (
	"hotel_backend/internal/repository"
	"hotel_backend/internal/storage"
	"hotel_backend/internal/utils"
	"hotel_backend/pkg/config"
)

type Services struct {
	Registry         *Registry
	AuthService      *AuthService
	UserService      *UserService
	ChatService      *ChatService
	WebSocketService *WebSocketService
	InventoryService *InventoryService
	UploadService    *UploadService
}

// NewServices store 可為 nil，此時上傳會回傳 ErrStorage
func NewServices(repos *repository.Repositories, tokens *utils.TokenManager, store storage.ObjectStore, cfg config.ChatConfig) *Services {
	registry := NewRegistry(RegistryOptions{
		Backlog:               cfg.Backlog,
		RemoveOnAnyDisconnect: cfg.RemoveOnAnyDisconnect,
	})

	chatService := NewChatService(repos.User, repos.Message, registry)
	wsService := NewWebSocketService(chatService, SessionOptions{
		ReadLimit: cfg.ReadLimit,
		PongWait:  cfg.PongWait,
		WriteWait: cfg.WriteWait,
	})

	return &Services{
		Registry:         registry,
		AuthService:      NewAuthService(repos.User, tokens, registry),
		UserService:      NewUserService(repos.User, registry),
		ChatService:      chatService,
		WebSocketService: wsService,
		InventoryService: NewInventoryService(repos.Inventory),
		UploadService:    NewUploadService(store),
	}
}
