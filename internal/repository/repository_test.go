package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_backend/internal/models"
	"hotel_backend/internal/storage"
)

// setupTestDB 每個測試使用獨立的記憶體資料庫
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.NewSQLiteDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, repo UserRepository, name string, role models.UserRole) *models.User {
	t.Helper()
	username := name
	user := &models.User{Username: &username, PasswordHash: "x", Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestMessageRepository_CreateThenHistory(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	alice := createUser(t, repos.User, "alice", models.RoleAdmin)
	bob := createUser(t, repos.User, "bob", models.RoleCleaner)

	first := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Content: "first"}
	require.NoError(t, repos.Message.Create(ctx, first))
	reply := &models.Message{SenderID: bob.ID, ReceiverID: alice.ID, Content: "reply"}
	require.NoError(t, repos.Message.Create(ctx, reply))
	last := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Content: "last"}
	require.NoError(t, repos.Message.Create(ctx, last))

	assert.NotEmpty(t, last.ID)
	assert.False(t, last.CreatedAt.IsZero())

	history, err := repos.Message.History(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"first", "reply", "last"}, []string{history[0].Content, history[1].Content, history[2].Content})
	assert.Equal(t, last.ID, history[2].ID)
	assert.False(t, history[2].IsRead)

	reversed, err := repos.Message.History(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, reversed, 3)
}

func TestMessageRepository_HistorySameTimestampKeepsInsertOrder(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	alice := createUser(t, repos.User, "alice", models.RoleAdmin)
	bob := createUser(t, repos.User, "bob", models.RoleCleaner)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	want := []string{"m0", "m1", "m2", "m3", "m4", "m5"}
	for i, content := range want {
		sender, receiver := alice.ID, bob.ID
		if i%2 == 1 {
			sender, receiver = bob.ID, alice.ID
		}
		msg := &models.Message{SenderID: sender, ReceiverID: receiver, Content: content, CreatedAt: at}
		require.NoError(t, repos.Message.Create(ctx, msg))
	}

	history, err := repos.Message.History(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	got := make([]string, 0, len(history))
	for _, m := range history {
		assert.True(t, m.CreatedAt.Equal(at))
		got = append(got, m.Content)
	}
	assert.Equal(t, want, got)
}

func TestMessageRepository_HistoryExcludesOtherPairs(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	a := createUser(t, repos.User, "a", models.RoleAdmin)
	b := createUser(t, repos.User, "b", models.RoleReceptionist)
	c := createUser(t, repos.User, "c", models.RoleCleaner)

	require.NoError(t, repos.Message.Create(ctx, &models.Message{SenderID: a.ID, ReceiverID: b.ID, Content: "ab"}))
	require.NoError(t, repos.Message.Create(ctx, &models.Message{SenderID: a.ID, ReceiverID: c.ID, Content: "ac"}))

	history, err := repos.Message.History(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ab", history[0].Content)
}

func TestMessageRepository_MarkReadIsDirectional(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	a := createUser(t, repos.User, "a", models.RoleAdmin)
	b := createUser(t, repos.User, "b", models.RoleReceptionist)

	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Message.Create(ctx, &models.Message{SenderID: a.ID, ReceiverID: b.ID, Content: "to b"}))
	}
	require.NoError(t, repos.Message.Create(ctx, &models.Message{SenderID: b.ID, ReceiverID: a.ID, Content: "to a"}))

	unread, err := repos.Message.CountUnread(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	updated, err := repos.Message.MarkRead(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	history, err := repos.Message.History(ctx, a.ID, b.ID)
	require.NoError(t, err)
	for _, m := range history {
		if m.SenderID == a.ID {
			assert.True(t, m.IsRead, "a->b should be read")
		} else {
			assert.False(t, m.IsRead, "b->a should be untouched")
		}
	}

	unread, err = repos.Message.CountUnread(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	again, err := repos.Message.MarkRead(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestUserRepository_FindActiveByRoles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := createUser(t, repo, "recept-1", models.RoleReceptionist)
	createUser(t, repo, "guest-1", models.RoleGuest)
	gone := createUser(t, repo, "recept-gone", models.RoleReceptionist)
	cleaner := createUser(t, repo, "cleaner-1", models.RoleCleaner)

	require.NoError(t, repo.Deactivate(ctx, gone.ID, time.Now()))

	users, err := repo.FindActiveByRoles(ctx, []models.UserRole{models.RoleReceptionist, models.RoleCleaner})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)
	assert.Equal(t, cleaner.ID, users[1].ID)

	none, err := repo.FindActiveByRoles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Deactivate(ctx, uuid.NewString(), time.Now()), ErrNotFound)
}

func TestInventoryRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	towels := &models.InventoryItem{Name: "Towels", Quantity: 40, Price: 3.5}
	soap := &models.InventoryItem{Name: "Soap", Quantity: 100, Price: 0.75}
	require.NoError(t, repo.Create(ctx, towels))
	require.NoError(t, repo.Create(ctx, soap))
	assert.Equal(t, models.InventoryNormal, towels.Status)

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Soap", items[0].Name)

	towels.Quantity = 35
	require.NoError(t, repo.Update(ctx, towels))
	found, err := repo.FindByID(ctx, towels.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, found.Quantity)

	require.NoError(t, repo.Delete(ctx, soap.ID))
	assert.ErrorIs(t, repo.Delete(ctx, soap.ID), ErrNotFound)
	_, err = repo.FindByID(ctx, soap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
