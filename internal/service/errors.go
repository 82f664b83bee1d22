package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// 服務層錯誤分類，handler 依此對應 HTTP 狀態碼
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage error")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
)

// requireUUID 路徑或查詢參數中的 id 必須是 uuid
func requireUUID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s must be a uuid", ErrValidation, field)
	}
	return nil
}
