package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"hotel_backend/internal/models"
	"hotel_backend/internal/repository"
	"hotel_backend/internal/storage"
	"hotel_backend/internal/utils"
)

// setupRepos 每個測試使用獨立的記憶體資料庫
func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	db, err := storage.NewSQLiteDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewRepositories(db)
}

func newTokenManager(t *testing.T) *utils.TokenManager {
	t.Helper()
	tokens, err := utils.NewTokenManager("test-secret", time.Hour, utils.NewMemoryTokenRevoker())
	require.NoError(t, err)
	return tokens
}

func seedUser(t *testing.T, repos *repository.Repositories, name string, role models.UserRole) *models.User {
	t.Helper()
	username := name
	user := &models.User{Username: &username, PasswordHash: "x", Role: role}
	require.NoError(t, repos.User.Create(context.Background(), user))
	// created_at 排序需要可區分的時間
	time.Sleep(2 * time.Millisecond)
	return user
}
