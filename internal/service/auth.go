package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"hotel_backend/internal/models"
	"hotel_backend/internal/repository"
	"hotel_backend/internal/utils"
)

// AuthClaims 驗證後的 token 內容
type AuthClaims struct {
	UserID    string
	Role      models.UserRole
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type LoginResult struct {
	Token string          `json:"token"`
	User  models.UserInfo `json:"user"`
}

type GuestAuthResult struct {
	Token string           `json:"token"`
	User  models.GuestInfo `json:"user"`
}

// AuthService 登入、住客註冊與 token 驗證
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	registry *Registry
}

func NewAuthService(userRepo repository.UserRepository, tokens *utils.TokenManager, registry *Registry) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, registry: registry}
}

// ValidateToken 驗證 token，並確認帳號仍然存在且未被停用
// 角色以資料庫為準
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*AuthClaims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, utils.ErrTokenRevoked) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !user.Active() {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", ErrUnauthorized)
	}
	return &AuthClaims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenID:   claims.Id,
		IssuedAt:  claims.IssuedAtTime(),
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// Login 員工以帳號密碼登入
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !user.Active() || !checkPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user.Info()}, nil
}

// RegisterGuest 住客自行註冊，email 不分大小寫
func (s *AuthService) RegisterGuest(ctx context.Context, email, password, fullName string) (*GuestAuthResult, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateGuestPassword(password); err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if len(fullName) > 100 {
		return nil, fmt.Errorf("%w: full name must be 100 characters or less", ErrValidation)
	}

	emailLower := strings.ToLower(strings.TrimSpace(email))
	if _, err := s.userRepo.FindByEmail(ctx, emailLower); err == nil {
		return nil, fmt.Errorf("%w: an account with this email already exists", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        &emailLower,
		FullName:     &fullName,
		PasswordHash: hash,
		Role:         models.RoleGuest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: create guest: %v", ErrStorage, err)
	}
	slog.InfoContext(ctx, "guest registered", "user_id", user.ID)

	return s.guestResult(user)
}

// LoginGuest 住客登入，員工帳號不能從這裡登入
func (s *AuthService) LoginGuest(ctx context.Context, email, password string) (*GuestAuthResult, error) {
	emailLower := strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, emailLower)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !user.Active() || !checkPassword(user.PasswordHash, password) || user.Role != models.RoleGuest {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return s.guestResult(user)
}

// Logout 撤銷 token 並中斷該用戶所有即時連線
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.RevokeToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, utils.ErrTokenRevoked) {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return fmt.Errorf("%w: revoke token: %v", ErrStorage, err)
	}
	if s.registry != nil {
		closed := s.registry.Disconnect(claims.UserID)
		slog.InfoContext(ctx, "user logged out", "user_id", claims.UserID, "closed_sessions", closed)
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (string, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	return token, nil
}

func (s *AuthService) guestResult(user *models.User) (*GuestAuthResult, error) {
	info, ok := user.GuestInfo()
	if !ok {
		return nil, errors.New("user is not a guest")
	}
	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &GuestAuthResult{Token: token, User: info}, nil
}

// ValidateEmail 基本的 email 格式檢查
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	domain := parts[1]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

// ValidateGuestPassword 至少 8 個字元，且包含字母與數字
func ValidateGuestPassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", ErrValidation)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one number", ErrValidation)
	}
	return nil
}
