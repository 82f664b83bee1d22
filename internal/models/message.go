package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message 兩個用戶之間的一則聊天訊息
type Message struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   string    `gorm:"type:uuid;not null;index:idx_messages_pair" json:"sender_id"`
	ReceiverID string    `gorm:"type:uuid;not null;index:idx_messages_pair" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ImageURL   *string   `json:"image_url"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"-"`

	// Unpersisted 代表寫入資料庫失敗，只存在記憶體中
	Unpersisted bool `gorm:"-" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewMessageID()
	}
	return nil
}

// NewMessageID 產生依時間遞增的 UUIDv7，同一時間建立的訊息可用 id 排序
func NewMessageID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewUnpersistedMessage 資料庫寫入失敗時的替代訊息，仍可即時送達
func NewUnpersistedMessage(senderID, receiverID, content string, imageURL *string) *Message {
	now := time.Now().UTC()
	return &Message{
		ID:          NewMessageID(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
		Unpersisted: true,
	}
}

// MessageView 對外輸出的訊息格式，websocket 與歷史紀錄共用
type MessageView struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"image_url"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *Message) View() MessageView {
	return MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		ImageURL:   m.ImageURL,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

// IncomingMessage 客戶端透過 websocket 送來的訊息
type IncomingMessage struct {
	ReceiverID string  `json:"receiver_id"`
	Content    string  `json:"content"`
	ImageURL   *string `json:"image_url"`
}

// Contact 聊天聯絡人，由用戶資料推導而來，不存資料庫
type Contact struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        UserRole `json:"role"`
	UnreadCount int64    `json:"unread_count"`
}
