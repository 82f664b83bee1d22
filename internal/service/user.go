package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hotel_backend/internal/models"
	"hotel_backend/internal/repository"
)

// UserService 員工帳號管理
type UserService struct {
	userRepo repository.UserRepository
	registry *Registry
}

func NewUserService(userRepo repository.UserRepository, registry *Registry) *UserService {
	return &UserService{userRepo: userRepo, registry: registry}
}

// CreateUser 由管理員建立員工帳號
func (s *UserService) CreateUser(ctx context.Context, username, password string, role models.UserRole) (*models.UserInfo, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be between 3 and 50 characters", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     &username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: create user: %v", ErrStorage, err)
	}

	info := user.Info()
	return &info, nil
}

// GetUser 依 id 取得用戶
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return user, nil
}

// GuestProfile 只允許住客帳號
func (s *UserService) GuestProfile(ctx context.Context, userID string) (*models.GuestInfo, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	info, ok := user.GuestInfo()
	if !ok {
		return nil, fmt.Errorf("%w: guest access only", ErrForbidden)
	}
	return &info, nil
}

// DeactivateUser 停用帳號並中斷該用戶的即時連線
func (s *UserService) DeactivateUser(ctx context.Context, userID string) error {
	if err := requireUUID("id", userID); err != nil {
		return err
	}
	if err := s.userRepo.Deactivate(ctx, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if s.registry != nil {
		closed := s.registry.Disconnect(userID)
		slog.InfoContext(ctx, "user deactivated", "user_id", userID, "closed_sessions", closed)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
