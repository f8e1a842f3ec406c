package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/usecase"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/memory"
)

func newUser(t *testing.T, uc *usecase.UserUseCase, username string) *dto.UserResponse {
	t.Helper()
	u, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Username: username, Email: username + "@example.com", Password: "secreto", Name: username,
	})
	require.NoError(t, err)
	return u
}

func TestUserUseCase_Create(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewUserUseCase(store.Users())
	u := newUser(t, uc, "ana")

	assert.Equal(t, entity.RoleUser, u.Role)
	assert.True(t, u.Active)

	stored, err := store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto")))

	_, err = uc.Create(context.Background(), dto.CreateUserRequest{Username: "ana", Email: "otra@example.com", Password: "x12345"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(context.Background(), dto.CreateUserRequest{Username: "otra", Email: "ana@example.com", Password: "x12345"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserUseCase_Update(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewUserUseCase(store.Users())
	ctx := context.Background()
	ana := newUser(t, uc, "ana")
	newUser(t, uc, "luis")

	updated, err := uc.Update(ctx, ana.ID, dto.UpdateUserRequest{Name: ptr("Ana María"), Role: ptr(entity.RoleAdmin), Password: "nuevo123"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)
	assert.Equal(t, entity.RoleAdmin, updated.Role)
	stored, err := store.Users().GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nuevo123")))

	_, err = uc.Update(ctx, ana.ID, dto.UpdateUserRequest{Username: ptr("luis")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, "missing", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserUseCase_DeleteAndToggle(t *testing.T) {
	uc := usecase.NewUserUseCase(memory.NewStore().Users())
	ctx := context.Background()
	admin := newUser(t, uc, "admin")
	other := newUser(t, uc, "luis")
	actor := entity.Actor{UserID: admin.ID, Role: entity.RoleAdmin}

	assert.ErrorIs(t, uc.Delete(ctx, actor, admin.ID), domain.ErrConflict)
	_, err := uc.ToggleStatus(ctx, actor, admin.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	toggled, err := uc.ToggleStatus(ctx, actor, other.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
	toggled, err = uc.ToggleStatus(ctx, actor, other.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Active)

	require.NoError(t, uc.Delete(ctx, actor, other.ID))
	assert.ErrorIs(t, uc.Delete(ctx, actor, other.ID), domain.ErrUserNotFound)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "admin", list[0].Username)
}

func TestUserUseCase_IsActive(t *testing.T) {
	uc := usecase.NewUserUseCase(memory.NewStore().Users())
	ctx := context.Background()
	admin := newUser(t, uc, "admin")
	other := newUser(t, uc, "luis")

	ok, err := uc.IsActive(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = uc.ToggleStatus(ctx, entity.Actor{UserID: admin.ID}, other.ID)
	require.NoError(t, err)
	ok, err = uc.IsActive(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = uc.IsActive(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
