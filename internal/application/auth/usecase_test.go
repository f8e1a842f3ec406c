package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/auth"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/usecase"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/memory"
	"github.com/jhoicas/wms-api/pkg/jwt"
)

const secret = "test-secret"

var seed = []auth.SeedAccount{
	{Username: "admin", Email: "admin@wms.local", Name: "Administrador", Role: entity.RoleAdmin, Password: "admin123"},
	{Username: "user", Email: "user@wms.local", Name: "Operador", Role: entity.RoleUser, Password: "user123"},
}

func newAuth(t *testing.T) (*memory.Store, *auth.AuthUseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "wms-api"})
	n, err := uc.SeedDefaultUsers(context.Background(), seed)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return store, uc
}

func TestSeedDefaultUsers_OnlyWhenEmpty(t *testing.T) {
	_, uc := newAuth(t)

	n, err := uc.SeedDefaultUsers(context.Background(), seed)

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLogin(t *testing.T) {
	_, uc := newAuth(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin123"})

	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Username)
	userID, role, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_Rejections(t *testing.T) {
	store, uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := store.Users().GetByUsername(ctx, "user")
	require.NoError(t, err)
	admin, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	_, err = usecase.NewUserUseCase(store.Users()).ToggleStatus(ctx, entity.Actor{UserID: admin.ID, Role: entity.RoleAdmin}, u.ID)
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "user", Password: "user123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
