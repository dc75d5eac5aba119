package repositories

import "quickbite/internal/models"

// UserRepository defines the interface for customer account data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
