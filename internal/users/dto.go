package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/userhubapp/userhub-backend/pkg/db/models"
	"github.com/userhubapp/userhub-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           *string        `json:"phone,omitempty"`
	Role            enums.UserRole `json:"role"`
	ProfileImageURL *string        `json:"profile_image_url,omitempty"`
	Address         *string        `json:"address,omitempty"`
	City            *string        `json:"city,omitempty"`
	State           *string        `json:"state,omitempty"`
	Country         *string        `json:"country,omitempty"`
	Pincode         *string        `json:"pincode,omitempty"`
	LastLoginAt     *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	Phone        *string
	PasswordHash string
	Role         enums.UserRole
}

// UpdateProfileInput captures the profile fields a user may change about
// themselves. Nil pointers leave the stored value untouched.
type UpdateProfileInput struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Password        *string `json:"password,omitempty" validate:"omitempty,min=8"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" validate:"omitempty,url"`
	Address         *string `json:"address,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	Country         *string `json:"country,omitempty"`
	Pincode         *string `json:"pincode,omitempty"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            u.Role,
		ProfileImageURL: u.ProfileImageURL,
		Address:         u.Address,
		City:            u.City,
		State:           u.State,
		Country:         u.Country,
		Pincode:         u.Pincode,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}

	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		PasswordHash: c.PasswordHash,
		Role:         role,
	}
}
