package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token revoked")
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// IssuedAt 簽發時間
func (c *Claims) IssuedAtTime() time.Time {
	return time.Unix(c.IssuedAt, 0).UTC()
}

// ExpiresAtTime 到期時間
func (c *Claims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0).UTC()
}

// TokenManager 以 HS256 簽發與驗證 JWT，可搭配撤銷表使用
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	revoker TokenRevoker
}

func NewTokenManager(secret string, ttl time.Duration, revoker TokenRevoker) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, revoker: revoker}, nil
}

// GenerateToken 生成一個新的 JWT token
func (m *TokenManager) GenerateToken(userID, role string) (string, error) {
	nowTime := time.Now()
	expireTime := nowTime.Add(m.ttl)

	claims := Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(m.secret)
}

// ParseToken 解析和驗證 JWT token，已撤銷的 token 視為無效
func (m *TokenManager) ParseToken(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	tokenClaims, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || tokenClaims == nil || !tokenClaims.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tokenClaims.Claims.(*Claims)
	if !ok || claims.UserID == "" || claims.Id == "" {
		return nil, ErrInvalidToken
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(claims.Id)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// RevokeToken 撤銷 token 直到它原本的到期時間
func (m *TokenManager) RevokeToken(token string) (*Claims, error) {
	claims, err := m.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if m.revoker == nil {
		return claims, nil
	}
	ttl := time.Until(claims.ExpiresAtTime())
	if err := m.revoker.Revoke(claims.Id, ttl); err != nil {
		return nil, err
	}
	return claims, nil
}
