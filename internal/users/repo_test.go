package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/userhubapp/userhub-backend/pkg/db"
	"github.com/userhubapp/userhub-backend/pkg/db/models"
	"github.com/userhubapp/userhub-backend/pkg/enums"
	"github.com/userhubapp/userhub-backend/pkg/pagination"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	phone := "+15550001111"
	created, err := repo.Create(ctx, CreateUserDTO{
		Name:         "Ada",
		Email:        "ada@example.com",
		Phone:        &phone,
		PasswordHash: "hash",
		Role:         enums.UserRoleAdmin,
	})
	require.NoError(t, err)
	// sqlite has no server-side uuid default, the model hook must fill it
	require.NotEqual(t, uuid.Nil, created.ID)

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, byEmail.Role)

	byPhone, err := repo.FindByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDuplicateEmail(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestUser(t, conn, func(u *models.User) { u.Email = "taken@example.com" })

	_, err := repo.Create(ctx, CreateUserDTO{
		Name:         "Copycat",
		Email:        "taken@example.com",
		PasswordHash: "hash",
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""), "expected unique violation, got %v", err)
}

func TestRepositoryUpdateColumns(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, nil)

	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	require.NoError(t, repo.UpdateRole(ctx, user.ID, enums.UserRoleAdmin))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at), "last_login_at not persisted: %v", reloaded.LastLoginAt)
	assert.Equal(t, enums.UserRoleAdmin, reloaded.Role)
}

func TestRepositoryDelete(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := mustCreateTestUser(t, conn, nil)

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, repo.Delete(ctx, user.ID), "second delete must be a no-op")
}

func TestRepositoryListPagination(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		idx := i
		mustCreateTestUser(t, conn, func(u *models.User) {
			u.Name = fmt.Sprintf("User %02d", idx)
			u.CreatedAt = time.Date(2026, 1, 1, 0, 0, idx, 0, time.UTC)
			u.UpdatedAt = u.CreatedAt
		})
	}

	page1, total, err := repo.List(ctx, ListFilters{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, page1, 10)

	page3, _, err := repo.List(ctx, ListFilters{}, pagination.Params{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page3, 5)

	beyond, total, err := repo.List(ctx, ListFilters{}, pagination.Params{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.EqualValues(t, 25, total, "total must not change for out-of-range pages")
}

func TestRepositoryListFilters(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	phone := "+15559876543"
	mustCreateTestUser(t, conn, func(u *models.User) {
		u.Name = "Grace Hopper"
		u.Email = "grace@example.com"
		u.Phone = &phone
	})
	mustCreateTestUser(t, conn, func(u *models.User) {
		u.Name = "Alan Turing"
		u.Email = "alan@example.com"
		u.Role = enums.UserRoleAdmin
	})

	bySearch, total, err := repo.List(ctx, ListFilters{Search: "grace"}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "grace@example.com", bySearch[0].Email)

	byPhone, _, err := repo.List(ctx, ListFilters{Search: "9876"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	require.NotNil(t, byPhone[0].Phone)
	assert.Equal(t, phone, *byPhone[0].Phone)

	admin := enums.UserRoleAdmin
	byRole, total, err := repo.List(ctx, ListFilters{Role: &admin}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byRole, 1)
	assert.Equal(t, enums.UserRoleAdmin, byRole[0].Role)
}
