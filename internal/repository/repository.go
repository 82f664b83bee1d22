package repository

import (
	"hotel_backend/internal/models"
	"hotel_backend/internal/storage"
)

type Repositories struct {
	User      UserRepository
	Message   MessageRepository
	Inventory InventoryRepository
}

func NewRepositories(db *storage.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Message:   NewMessageRepository(db),
		Inventory: NewInventoryRepository(db),
	}
}

// Migrate 建立或更新所有資料表
func Migrate(db *storage.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Message{}, &models.InventoryItem{})
}
