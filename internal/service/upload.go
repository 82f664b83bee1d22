package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hotel_backend/internal/storage"
)

const defaultImageExt = "jpg"

var imageContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// UploadService 聊天圖片上傳
type UploadService struct {
	store storage.ObjectStore
}

func NewUploadService(store storage.ObjectStore) *UploadService {
	return &UploadService{store: store}
}

// UploadChatImage 以 {user_id}_{uuid}.{ext} 為物件名稱上傳，回傳公開網址
func (s *UploadService) UploadChatImage(ctx context.Context, userID, filename string, r io.Reader, size int64) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("%w: object storage is not configured", ErrStorage)
	}
	ext := imageExt(filename)
	key := fmt.Sprintf("%s_%s.%s", userID, uuid.NewString(), ext)

	contentType, ok := imageContentTypes[ext]
	if !ok {
		contentType = "application/octet-stream"
	}

	url, err := s.store.Put(ctx, key, r, size, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: upload image: %v", ErrStorage, err)
	}
	slog.InfoContext(ctx, "chat image uploaded", "user_id", userID, "key", key, "size", size)
	return url, nil
}

func imageExt(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return defaultImageExt
	}
	return ext
}
