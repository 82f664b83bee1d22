package repository

import (
	"context"

	"hotel_backend/internal/models"
	"hotel_backend/internal/storage"
)

// MessageRepository 聊天訊息的持久化紀錄，訊息只新增與標記已讀，不刪除
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// History 兩人之間雙向的所有訊息，依建立時間遞增，同一時間再依 id
	History(ctx context.Context, userA, userB string) ([]models.Message, error)
	// MarkRead 將 sender 傳給 receiver 的未讀訊息標為已讀，回傳更新筆數
	MarkRead(ctx context.Context, senderID, receiverID string) (int64, error)
	CountUnread(ctx context.Context, senderID, receiverID string) (int64, error)
}

type messageRepository struct {
	db *storage.DB
}

func NewMessageRepository(db *storage.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	message.IsRead = false
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) History(ctx context.Context, userA, userB string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *messageRepository) CountUnread(ctx context.Context, senderID, receiverID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Count(&count).Error
	return count, err
}
