package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/usecase"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
	"github.com/jhoicas/wms-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Credenciales incorrectas -> ErrUnauthorized; usuario desactivado -> ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.ToUserResponse(user),
	}, nil
}

// SeedAccount credenciales de una cuenta inicial.
type SeedAccount struct {
	Username string
	Email    string
	Name     string
	Role     string
	Password string
}

// SeedDefaultUsers crea las cuentas dadas solo si no existe ningún usuario.
// Devuelve cuántas cuentas creó.
func (uc *AuthUseCase) SeedDefaultUsers(ctx context.Context, accounts []SeedAccount) (int, error) {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, a := range accounts {
		hash, err := usecase.HashPassword(a.Password)
		if err != nil {
			return 0, err
		}
		u := &entity.User{
			ID:           uuid.New().String(),
			Username:     a.Username,
			Email:        a.Email,
			PasswordHash: hash,
			Name:         a.Name,
			Role:         a.Role,
			Active:       true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := uc.userRepo.Create(ctx, u); err != nil {
			return 0, err
		}
	}
	return len(accounts), nil
}

// DefaultAccounts cuentas iniciales: un admin y un operador.
func DefaultAccounts(adminPassword, userPassword string) []SeedAccount {
	return []SeedAccount{
		{Username: "admin", Email: "admin@wms.local", Name: "Administrador", Role: entity.RoleAdmin, Password: adminPassword},
		{Username: "user", Email: "user@wms.local", Name: "Operador", Role: entity.RoleUser, Password: userPassword},
	}
}
