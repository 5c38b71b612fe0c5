package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/userhubapp/userhub-backend/pkg/config"
	"github.com/userhubapp/userhub-backend/pkg/db"
	"github.com/userhubapp/userhub-backend/pkg/db/models"
	"github.com/userhubapp/userhub-backend/pkg/enums"
	pkgerrors "github.com/userhubapp/userhub-backend/pkg/errors"
	"github.com/userhubapp/userhub-backend/pkg/pagination"
	"github.com/userhubapp/userhub-backend/pkg/security"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.User, int64, error)
}

type sessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

// ListUsersInput captures the query knobs for the admin listing endpoint.
type ListUsersInput struct {
	Search     string
	Role       string
	Pagination pagination.Params
}

// Service exposes profile and admin user management operations.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, input ListUsersInput) ([]UserDTO, pagination.Meta, error)
	Delete(ctx context.Context, actorID, targetID uuid.UUID) error
	UpdateRole(ctx context.Context, targetID uuid.UUID, role string) (*UserDTO, error)
}

type service struct {
	repo        userRepository
	sessions    sessionRevoker
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo           userRepository
	Sessions       sessionRevoker
	PasswordConfig config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session revoker is required")
	}
	return &service{
		repo:        params.Repo,
		sessions:    params.Sessions,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.GetByID(ctx, userID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			user.Phone = nil
		} else {
			if err := s.ensurePhoneAvailable(ctx, phone, userID); err != nil {
				return nil, err
			}
			user.Phone = &phone
		}
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if input.ProfileImageURL != nil {
		user.ProfileImageURL = normalizeOptional(input.ProfileImageURL)
	}
	if input.Address != nil {
		user.Address = normalizeOptional(input.Address)
	}
	if input.City != nil {
		user.City = normalizeOptional(input.City)
	}
	if input.State != nil {
		user.State = normalizeOptional(input.State)
	}
	if input.Country != nil {
		user.Country = normalizeOptional(input.Country)
	}
	if input.Pincode != nil {
		user.Pincode = normalizeOptional(input.Pincode)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save user")
	}

	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, input ListUsersInput) ([]UserDTO, pagination.Meta, error) {
	filters := ListFilters{Search: input.Search}
	if role := strings.TrimSpace(input.Role); role != "" {
		parsed, err := enums.ParseUserRole(role)
		if err != nil {
			return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
		}
		filters.Role = &parsed
	}

	rows, total, err := s.repo.List(ctx, filters, input.Pagination)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}

	return dtos, pagination.NewMeta(input.Pagination, total), nil
}

func (s *service) Delete(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}

	// Outstanding tokens stop working the moment their sessions go.
	if err := s.sessions.RevokeAllForUser(ctx, targetID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke sessions")
	}

	return nil
}

func (s *service) UpdateRole(ctx context.Context, targetID uuid.UUID, role string) (*UserDTO, error) {
	parsed, err := enums.ParseUserRole(role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if user.Role != parsed {
		if err := s.repo.UpdateRole(ctx, targetID, parsed); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
		}
		user.Role = parsed
	}

	return FromModel(user), nil
}

func (s *service) ensurePhoneAvailable(ctx context.Context, phone string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check phone")
	}
	if existing.ID != selfID {
		return pkgerrors.New(pkgerrors.CodeConflict, "phone already in use")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
