package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hotel_backend/internal/storage"
)

// ErrNotFound 查無資料
var ErrNotFound = errors.New("record not found")

// BaseRepository 通用的 CRUD 操作，model 需為指標
type BaseRepository interface {
	Create(ctx context.Context, model interface{}) error
	FindByID(ctx context.Context, id string, model interface{}) error
	Update(ctx context.Context, model interface{}) error
	Delete(ctx context.Context, id string, model interface{}) error
}

type baseRepository struct {
	db *storage.DB
}

func NewBaseRepository(db *storage.DB) BaseRepository {
	return &baseRepository{db: db}
}

func (r *baseRepository) Create(ctx context.Context, model interface{}) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *baseRepository) FindByID(ctx context.Context, id string, model interface{}) error {
	return notFound(r.db.WithContext(ctx).First(model, "id = ?", id).Error)
}

func (r *baseRepository) Update(ctx context.Context, model interface{}) error {
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *baseRepository) Delete(ctx context.Context, id string, model interface{}) error {
	res := r.db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// notFound 把 gorm 的 ErrRecordNotFound 轉成 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
