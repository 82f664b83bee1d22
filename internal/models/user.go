package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 表示系統中的員工或住客
type User struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username      *string    `gorm:"uniqueIndex" json:"username,omitempty"` // 員工必填，住客為空
	Email         *string    `gorm:"uniqueIndex" json:"email,omitempty"`    // 住客必填
	FullName      *string    `json:"full_name,omitempty"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	Role          UserRole   `gorm:"type:varchar(20);not null;index" json:"role"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BeforeCreate 建立前補上 uuid
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName 依序使用 username、full name，最後退回 "User {id}"
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return fmt.Sprintf("User %s", u.ID)
}

// Active 未被停用
func (u *User) Active() bool {
	return u.DeactivatedAt == nil
}

// UserRole 定義用戶角色的類型
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleReceptionist UserRole = "receptionist"
	RoleGuest        UserRole = "guest"
	RoleCleaner      UserRole = "cleaner"
)

// Roles 所有角色
var Roles = []UserRole{RoleAdmin, RoleReceptionist, RoleGuest, RoleCleaner}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleReceptionist, RoleGuest, RoleCleaner:
		return true
	}
	return false
}

// UserInfo 員工帳號的公開資訊
type UserInfo struct {
	ID       string   `json:"id"`
	Username *string  `json:"username"`
	Role     UserRole `json:"role"`
}

// GuestInfo 住客帳號的公開資訊
type GuestInfo struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Role: u.Role}
}

// GuestInfo 非住客或資料不完整時回傳 false
func (u *User) GuestInfo() (GuestInfo, bool) {
	if u.Role != RoleGuest || u.Email == nil || u.FullName == nil {
		return GuestInfo{}, false
	}
	return GuestInfo{ID: u.ID, Email: *u.Email, FullName: *u.FullName, Role: u.Role}, true
}
