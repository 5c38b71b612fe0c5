package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/userhubapp/userhub-backend/pkg/enums"
)

// User represents the canonical identity entity. The password hash never
// leaves this package except through the users DTO layer, which omits it.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string         `gorm:"column:name;not null"`
	Email           string         `gorm:"type:text;not null;uniqueIndex"`
	Phone           *string        `gorm:"column:phone;uniqueIndex"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	Role            enums.UserRole `gorm:"column:role;type:user_role;not null;default:user"`
	ProfileImageURL *string        `gorm:"column:profile_image_url"`
	Address         *string        `gorm:"column:address"`
	City            *string        `gorm:"column:city"`
	State           *string        `gorm:"column:state"`
	Country         *string        `gorm:"column:country"`
	Pincode         *string        `gorm:"column:pincode"`
	LastLoginAt     *time.Time     `gorm:"column:last_login_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID client-side so inserts also work on databases
// without gen_random_uuid.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
