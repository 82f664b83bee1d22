package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"hotel_backend/internal/models"
	"hotel_backend/internal/repository"
)

// 收到的 websocket 訊息被略過的原因，只記錄不回傳給發送者
var (
	ErrMalformedFrame  = errors.New("malformed chat frame")
	ErrUnknownReceiver = errors.New("unknown receiver")
	ErrChatDenied      = errors.New("chat not allowed between roles")
)

// ChatService 聯絡人、歷史紀錄查詢以及即時訊息的處理
type ChatService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	registry    *Registry
}

func NewChatService(userRepo repository.UserRepository, messageRepo repository.MessageRepository, registry *Registry) *ChatService {
	return &ChatService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		registry:    registry,
	}
}

func (s *ChatService) Registry() *Registry {
	return s.registry
}

// ListContacts 依角色列出可以聊天的用戶，附上對方傳給自己的未讀數
// 單一聯絡人未讀數查詢失敗時以 0 計
func (s *ChatService) ListContacts(ctx context.Context, requesterID string, requesterRole models.UserRole) ([]models.Contact, error) {
	users, err := s.userRepo.FindActiveByRoles(ctx, ContactRoles(requesterRole))
	if err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", ErrStorage, err)
	}

	contacts := make([]models.Contact, 0, len(users))
	for i := range users {
		user := &users[i]
		if user.ID == requesterID {
			continue
		}
		unread, err := s.messageRepo.CountUnread(ctx, user.ID, requesterID)
		if err != nil {
			slog.WarnContext(ctx, "count unread failed", "user_id", requesterID, "contact_id", user.ID, "error", err)
			unread = 0
		}
		contacts = append(contacts, models.Contact{
			ID:          user.ID,
			Name:        user.DisplayName(),
			Role:        user.Role,
			UnreadCount: unread,
		})
	}
	return contacts, nil
}

// GetHistory 回傳兩人之間的完整對話，並把對方傳來的訊息標為已讀
// 先標記再查詢，回傳的已讀狀態是更新後的結果
func (s *ChatService) GetHistory(ctx context.Context, requesterID string, requesterRole models.UserRole, otherUserID string) ([]models.MessageView, error) {
	if err := requireUUID("other_user_id", otherUserID); err != nil {
		return nil, err
	}
	other, err := s.userRepo.FindByID(ctx, otherUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStorage, err)
	}
	if !CanChat(requesterRole, other.Role) {
		slog.WarnContext(ctx, "chat history denied", "user_id", requesterID, "role", requesterRole, "other_role", other.Role)
		return nil, fmt.Errorf("%w: cannot chat with this user", ErrForbidden)
	}

	updated, err := s.messageRepo.MarkRead(ctx, other.ID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: mark read: %v", ErrStorage, err)
	}
	messages, err := s.messageRepo.History(ctx, requesterID, other.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history: %v", ErrStorage, err)
	}
	slog.DebugContext(ctx, "chat history loaded", "user_id", requesterID, "other_user_id", other.ID, "messages", len(messages), "marked_read", updated)

	views := make([]models.MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, messages[i].View())
	}
	return views, nil
}

// HandleFrame 處理 websocket 收到的一則文字訊息
// 格式錯誤、收件者不存在或角色不允許時回傳錯誤，呼叫端只記錄
// 寫入資料庫失敗時仍以記憶體中的訊息即時送出
func (s *ChatService) HandleFrame(ctx context.Context, senderID string, senderRole models.UserRole, frame []byte) (*models.Message, error) {
	var incoming models.IncomingMessage
	if err := json.Unmarshal(frame, &incoming); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if _, err := uuid.Parse(incoming.ReceiverID); err != nil {
		return nil, fmt.Errorf("%w: receiver_id %q", ErrMalformedFrame, incoming.ReceiverID)
	}

	receiver, err := s.userRepo.FindByID(ctx, incoming.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownReceiver, incoming.ReceiverID, err)
	}
	if !CanChat(senderRole, receiver.Role) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrChatDenied, senderRole, receiver.Role)
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Content:    incoming.Content,
		ImageURL:   incoming.ImageURL,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		slog.ErrorContext(ctx, "save chat message failed, delivering unpersisted copy",
			"user_id", senderID, "receiver_id", receiver.ID, "error", err)
		message = models.NewUnpersistedMessage(senderID, receiver.ID, incoming.Content, incoming.ImageURL)
	}

	payload, err := json.Marshal(message.View())
	if err != nil {
		return message, fmt.Errorf("encode message: %w", err)
	}
	if s.registry.Deliver(receiver.ID, string(payload)) {
		slog.DebugContext(ctx, "chat message forwarded", "message_id", message.ID, "receiver_id", receiver.ID)
	} else {
		slog.DebugContext(ctx, "receiver offline, message kept for history", "message_id", message.ID, "receiver_id", receiver.ID)
	}
	return message, nil
}
