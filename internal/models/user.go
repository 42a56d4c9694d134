package models

import (
	"time"

	"gorm.io/gorm"
)

// Account roles. Only catalog managers may change products.
const (
	RoleCatalogManager = "catalog_manager"
	RoleViewer         = "viewer"
)

// IsValidRole reports whether role is a known account role.
func IsValidRole(role string) bool {
	return role == RoleCatalogManager || role == RoleViewer
}

// User is an account that signs in to the catalog.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string         `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string         `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role      string         `json:"role" gorm:"type:varchar(32);not null;default:viewer"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
