package repositories

import "katalog/internal/models"

// UserRepository stores catalog accounts and their roles.
type UserRepository interface {
	Create(user *models.User) error
	// Count returns how many accounts exist; the first account becomes the catalog manager.
	Count() (int64, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// UpdateRole changes the role of the account with the given ID.
	UpdateRole(id, role string) error
}
