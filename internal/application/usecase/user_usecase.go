package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin; el router aplica RequireRole).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario activo. Username y email deben ser únicos.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := uc.ensureUnique(ctx, "", in.Username, in.Email); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("usuario creado")
	return ToUserResponse(user), nil
}

// Update edita datos del usuario; un password no vacío se rehashea.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	username, email := user.Username, user.Email
	if in.Username != nil {
		username = *in.Username
	}
	if in.Email != nil {
		email = *in.Email
	}
	if err := uc.ensureUnique(ctx, user.ID, username, email); err != nil {
		return nil, err
	}
	user.Username, user.Email = username, email
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Delete elimina un usuario. Un admin no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if actor.UserID == id {
		return domain.ErrConflict
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("usuario eliminado")
	return nil
}

// ToggleStatus activa o desactiva un usuario y devuelve el nuevo estado.
func (uc *UserUseCase) ToggleStatus(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	if actor.UserID == id {
		return nil, domain.ErrConflict
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Active = !user.Active
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List devuelve todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// IsActive indica si el usuario existe y está activo.
func (uc *UserUseCase) IsActive(ctx context.Context, userID string) (bool, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.Active, nil
}

func (uc *UserUseCase) ensureUnique(ctx context.Context, selfID, username, email string) error {
	byName, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if byName != nil && byName.ID != selfID {
		return domain.ErrDuplicate
	}
	byEmail, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if byEmail != nil && byEmail.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

// HashPassword genera el hash bcrypt de un password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ToUserResponse convierte la entidad a DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
