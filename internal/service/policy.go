package service

import "hotel_backend/internal/models"

// rolePair 無序的角色組合，a <= b
type rolePair struct {
	a, b models.UserRole
}

func pairOf(x, y models.UserRole) rolePair {
	if x > y {
		x, y = y, x
	}
	return rolePair{a: x, b: y}
}

// chatPairs 可以互相聊天的角色組合，其餘一律拒絕（包含相同角色）
var chatPairs = map[rolePair]struct{}{
	pairOf(models.RoleGuest, models.RoleReceptionist): {},
	pairOf(models.RoleAdmin, models.RoleReceptionist): {},
	pairOf(models.RoleAdmin, models.RoleCleaner):      {},
}

// CanChat 判斷兩個角色能否互傳訊息
func CanChat(a, b models.UserRole) bool {
	_, ok := chatPairs[pairOf(a, b)]
	return ok
}

// ContactRoles 回傳 role 可以聊天的對象角色
func ContactRoles(role models.UserRole) []models.UserRole {
	var roles []models.UserRole
	for _, other := range models.Roles {
		if CanChat(role, other) {
			roles = append(roles, other)
		}
	}
	return roles
}
