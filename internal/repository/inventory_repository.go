package repository

import (
	"context"

	"hotel_backend/internal/models"
	"hotel_backend/internal/storage"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id string) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]models.InventoryItem, error) // 依名稱排序
}

type inventoryRepository struct {
	BaseRepository
	db *storage.DB
}

func NewInventoryRepository(db *storage.DB) InventoryRepository {
	return &inventoryRepository{BaseRepository: NewBaseRepository(db), db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.BaseRepository.Create(ctx, item)
}

func (r *inventoryRepository) FindByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.BaseRepository.FindByID(ctx, id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	return r.BaseRepository.Update(ctx, item)
}

func (r *inventoryRepository) Delete(ctx context.Context, id string) error {
	return r.BaseRepository.Delete(ctx, id, &models.InventoryItem{})
}

func (r *inventoryRepository) FindAll(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}
