package repositories

import "quickbite/internal/models"

// SellerRepository defines the interface for seller data access.
type SellerRepository interface {
	Create(seller *models.Seller) error
	GetByEmail(email string) (*models.Seller, error)
	GetByID(id string) (*models.Seller, error)
}
