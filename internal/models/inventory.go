package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryStatus 庫存品項狀態
type InventoryStatus string

const (
	InventoryNormal          InventoryStatus = "normal"
	InventoryLowStock        InventoryStatus = "low_stock"
	InventoryBroken          InventoryStatus = "broken"
	InventoryLost            InventoryStatus = "lost"
	InventoryNeedReplacement InventoryStatus = "need_replacement"
)

func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryNormal, InventoryLowStock, InventoryBroken, InventoryLost, InventoryNeedReplacement:
		return true
	}
	return false
}

// InventoryItem 飯店庫存品項
type InventoryItem struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description *string         `json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       float64         `gorm:"type:numeric(12,2);not null" json:"price"`
	Status      InventoryStatus `gorm:"type:varchar(32);not null;default:normal" json:"status"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = InventoryNormal
	}
	return nil
}

// InventoryItemView 清潔人員看不到價格
type InventoryItemView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       *float64        `json:"price,omitempty"`
	Status      InventoryStatus `json:"status"`
	Notes       *string         `json:"notes"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i *InventoryItem) View(showPrice bool) InventoryItemView {
	view := InventoryItemView{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Quantity:    i.Quantity,
		Status:      i.Status,
		Notes:       i.Notes,
		UpdatedAt:   i.UpdatedAt,
	}
	if showPrice {
		price := i.Price
		view.Price = &price
	}
	return view
}

// InventoryUpdate 部分更新，nil 欄位不變
type InventoryUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Quantity    *int             `json:"quantity"`
	Price       *float64         `json:"price"`
	Status      *InventoryStatus `json:"status"`
	Notes       *string          `json:"notes"`
}
