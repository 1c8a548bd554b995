package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bug-tracker/internal/auth"
	"github.com/spec-kit/bug-tracker/internal/authz"
	"github.com/spec-kit/bug-tracker/internal/domain"
	"github.com/spec-kit/bug-tracker/internal/repository"
	apperrors "github.com/spec-kit/bug-tracker/pkg/util"
)

// UserService coordinates account administration and self-service profiles.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// UserCreateInput describes admin-side account creation.
type UserCreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
	Picture   *domain.ImageBlob
}

// UserUpdateInput carries a partial update; nil fields keep prior values.
// Blank values for required fields are ignored rather than erroring.
type UserUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *domain.Role
	Picture   *domain.ImageBlob
}

// ProfileUpdateInput carries the self-service subset of a user update.
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Picture   *domain.ImageBlob
}

// CreateUser creates an account on behalf of an admin or manager.
func (s *UserService) CreateUser(ctx context.Context, actor *domain.User, input UserCreateInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if err := authz.CanCreateUser(actor, input.Role); err != nil {
		return nil, err
	}
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("firstname, lastname, email and password are required", nil)
	}
	if err := ValidateImage(input.Picture); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Picture:      input.Picture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns accounts visible to the actor. QA is implicitly limited
// to developers; a manager asking for an explicit role must be allowed to
// manage it.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User, requestedRole *domain.Role, limit, offset int) ([]domain.User, error) {
	if requestedRole != nil && !requestedRole.Valid() {
		return nil, apperrors.NewValidationError("unknown role filter", map[string]any{"role": *requestedRole})
	}
	roleFilter, err := authz.UserListRoleFilter(actor, requestedRole)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, repository.UserFilter{Role: roleFilter, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetUser fetches a single account within the actor's visibility.
func (s *UserService) GetUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	user, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanReadUser(actor, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies an administrative partial update.
func (s *UserService) UpdateUser(ctx context.Context, actor *domain.User, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
	}
	if err := authz.CanUpdateUser(actor, user, input.Role); err != nil {
		return nil, err
	}
	if err := ValidateImage(input.Picture); err != nil {
		return nil, err
	}

	if input.FirstName != nil && *input.FirstName != "" {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil && *input.LastName != "" {
		user.LastName = *input.LastName
	}
	if input.Email != nil && *input.Email != "" {
		user.Email = *input.Email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Picture != nil {
		user.Picture = input.Picture
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile applies a self-service update to the actor's own account.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.fetch(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := ValidateImage(input.Picture); err != nil {
		return nil, err
	}
	if input.FirstName != nil && *input.FirstName != "" {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil && *input.LastName != "" {
		user.LastName = *input.LastName
	}
	if input.Picture != nil {
		user.Picture = input.Picture
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes an account. Self-deletion is rejected regardless of
// role-management permissions.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, id string) error {
	if actor.ID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	user, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanDeleteUser(actor, user); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *UserService) fetch(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
