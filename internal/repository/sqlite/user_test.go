package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/account-api/internal/apperror"
	"github.com/sakif/account-api/internal/model"
	"github.com/sakif/account-api/internal/repository"
)

// newTestDB returns a DB backed by an in-memory SQLite database.
// Each test gets a fresh schema; the DB is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err, "opening in-memory database")
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with sane defaults and fails the test on error.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Jacques Cousteau",
		About:        "Explorer",
		Avatar:       "https://example.com/avatar.png",
		Email:        email,
		PasswordHash: "$2a$10$notarealhashbutstoredverbatim......",
	}
	require.NoError(t, db.Create(context.Background(), user), "creating test user")
	return user
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "diver@example.com")

	assert.NotEmpty(t, user.ID, "Create() should assign an ID")
	assert.False(t, user.CreatedAt.IsZero(), "Create() should set CreatedAt")
	assert.False(t, user.UpdatedAt.IsZero(), "Create() should set UpdatedAt")
}

func TestCreate_DuplicateEmailIsConflict(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "taken@example.com")

	duplicate := &model.User{
		Name:         "Someone Else",
		About:        "Impostor",
		Avatar:       "https://example.com/other.png",
		Email:        "taken@example.com",
		PasswordHash: "$2a$10$anotherfakehash...................",
	}
	err := db.Create(context.Background(), duplicate)

	require.Error(t, err, "second insert with the same email must fail")
	assert.ErrorIs(t, err, apperror.ErrConflict,
		"duplicate email must classify as Conflict, not a generic failure")
}

func TestGetByID_ExcludesHash(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "diver@example.com")

	found, err := db.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "diver@example.com", found.Email)
	assert.Empty(t, found.PasswordHash, "public read must not populate the hash")
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent-id")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetByEmailWithHash(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "diver@example.com")

	found, err := db.GetByEmailWithHash(context.Background(), "diver@example.com")
	require.NoError(t, err)

	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.PasswordHash, found.PasswordHash,
		"credential read must return the stored digest verbatim")
}

func TestGetByEmailWithHash_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByEmailWithHash(context.Background(), "nobody@example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestList_ReturnsAllWithoutHashes(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "first@example.com")
	createTestUser(t, db, "second@example.com")

	users, err := db.List(context.Background())
	require.NoError(t, err)

	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash, "List() must not populate hashes")
	}
}

func TestList_EmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	users, err := db.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users, "List() should return an empty slice, not nil")
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "diver@example.com")

	updated, err := db.UpdateProfile(context.Background(), created.ID, repository.ProfileUpdate{
		Name:  "New Name",
		About: "New About",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "New About", updated.About)
	// Untouched fields survive the update
	assert.Equal(t, "diver@example.com", updated.Email)
	assert.Equal(t, created.Avatar, updated.Avatar)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpdateProfile(context.Background(), "nonexistent-id", repository.ProfileUpdate{
		Name:  "New Name",
		About: "New About",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "diver@example.com")

	updated, err := db.UpdateAvatar(context.Background(), created.ID, "https://example.com/new.png")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/new.png", updated.Avatar)
	assert.Equal(t, created.Name, updated.Name, "avatar update must not touch the name")
}

func TestUpdateAvatar_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpdateAvatar(context.Background(), "nonexistent-id", "https://example.com/new.png")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
