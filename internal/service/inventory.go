package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel_backend/internal/models"
	"hotel_backend/internal/repository"
)

// InventoryService 庫存管理，價格只有管理員看得到
type InventoryService struct {
	repo repository.InventoryRepository
}

func NewInventoryService(repo repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

// CreateInventoryInput 新增庫存品項
type CreateInventoryInput struct {
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Quantity    int                    `json:"quantity"`
	Price       float64                `json:"price"`
	Status      models.InventoryStatus `json:"status"`
	Notes       *string                `json:"notes"`
}

var inventoryViewers = []models.UserRole{models.RoleAdmin, models.RoleCleaner, models.RoleReceptionist}

func canViewInventory(role models.UserRole) bool {
	for _, r := range inventoryViewers {
		if r == role {
			return true
		}
	}
	return false
}

// List 依名稱排序列出所有品項
func (s *InventoryService) List(ctx context.Context, role models.UserRole) ([]models.InventoryItemView, error) {
	if !canViewInventory(role) {
		return nil, fmt.Errorf("%w: role %s cannot view inventory", ErrForbidden, role)
	}
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list inventory: %v", ErrStorage, err)
	}
	showPrice := role == models.RoleAdmin
	views := make([]models.InventoryItemView, 0, len(items))
	for i := range items {
		views = append(views, items[i].View(showPrice))
	}
	return views, nil
}

func (s *InventoryService) Create(ctx context.Context, role models.UserRole, input CreateInventoryInput) (*models.InventoryItemView, error) {
	if role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admin can create inventory items", ErrForbidden)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, input.Status)
	}

	item := &models.InventoryItem{
		Name:        name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Status:      input.Status,
		Notes:       input.Notes,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: create inventory item: %v", ErrStorage, err)
	}
	view := item.View(true)
	return &view, nil
}

// Update 非管理員只能改狀態、備註與數量
func (s *InventoryService) Update(ctx context.Context, role models.UserRole, id string, update models.InventoryUpdate) (*models.InventoryItemView, error) {
	if !canViewInventory(role) {
		return nil, fmt.Errorf("%w: role %s cannot update inventory", ErrForbidden, role)
	}
	isAdmin := role == models.RoleAdmin
	if !isAdmin && (update.Name != nil || update.Price != nil || update.Description != nil) {
		return nil, fmt.Errorf("%w: only admin can change name, description or price", ErrForbidden)
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		item.Name = name
	}
	if update.Description != nil {
		item.Description = update.Description
	}
	if update.Price != nil {
		if *update.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		item.Price = *update.Price
	}
	if update.Quantity != nil {
		if *update.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
		}
		item.Quantity = *update.Quantity
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *update.Status)
		}
		item.Status = *update.Status
	}
	if update.Notes != nil {
		item.Notes = update.Notes
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: update inventory item: %v", ErrStorage, err)
	}
	view := item.View(isAdmin)
	return &view, nil
}

func (s *InventoryService) Delete(ctx context.Context, role models.UserRole, id string) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admin can delete inventory items", ErrForbidden)
	}
	if err := requireUUID("id", id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: inventory item not found", ErrNotFound)
		}
		return fmt.Errorf("%w: delete inventory item: %v", ErrStorage, err)
	}
	return nil
}

// InventoryValue 庫存總價值
type InventoryValue struct {
	TotalValue float64 `json:"total_value"`
	ItemCount  int     `json:"item_count"`
}

// TotalValue 數量乘以單價的總和
func (s *InventoryService) TotalValue(ctx context.Context, role models.UserRole) (*InventoryValue, error) {
	if role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admin can view financial reports", ErrForbidden)
	}
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list inventory: %v", ErrStorage, err)
	}
	value := &InventoryValue{ItemCount: len(items)}
	for _, item := range items {
		value.TotalValue += float64(item.Quantity) * item.Price
	}
	return value, nil
}

func (s *InventoryService) find(ctx context.Context, id string) (*models.InventoryItem, error) {
	if err := requireUUID("id", id); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: inventory item not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return item, nil
}
