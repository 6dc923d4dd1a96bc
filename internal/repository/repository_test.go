package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-service/internal/entity"
	"user-service/migrations"
)

// setupTestDB initializes an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	require.NoError(t, migrations.AutoMigrateUsers(db))

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

func ptr(s string) *string {
	return &s
}

func TestCreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, "alice@example.com", created.Email)
	require.NotNil(t, created.CreatedAt, "created_at default should be populated")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created, found)
}

func TestFindByIDAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	found, err := repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindByEmailIsExactMatch(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Alice", found.Name)

	// No case normalization anywhere in the lookup path.
	missing, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, entity.NewUser{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	users, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, entity.NewUser{Name: "Impostor", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, entity.UserPatch{Name: ptr("Alicia")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateEmptyPatchIsRead(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, entity.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, created, updated)
}

func TestUpdateAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	updated, err := repo.Update(ctx, 42, entity.UserPatch{Name: ptr("Nobody")})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUpdateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := repo.Create(ctx, entity.NewUser{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, bob.ID, entity.UserPatch{Email: ptr("alice@example.com")})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	first, err := repo.Create(ctx, entity.NewUser{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)

	second, err := repo.Create(ctx, entity.NewUser{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}
