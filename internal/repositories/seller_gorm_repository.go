package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
)

// GORMSellerRepository is a GORM implementation of SellerRepository.
type GORMSellerRepository struct {
	db *gorm.DB
}

// NewGORMSellerRepository creates a new instance of GORMSellerRepository.
func NewGORMSellerRepository(db *gorm.DB) *GORMSellerRepository {
	return &GORMSellerRepository{db: db}
}

// Create inserts a new seller account.
func (r *GORMSellerRepository) Create(seller *models.Seller) error {
	if seller.ID == "" {
		seller.ID = uuid.New().String()
	}
	if err := r.db.Create(seller).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflictf("seller with email %s already exists", seller.Email)
		}
		return fmt.Errorf("failed to create seller: %w", err)
	}
	return nil
}

// GetByEmail retrieves a seller by email.
func (r *GORMSellerRepository) GetByEmail(email string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.First(&seller, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("seller with email %s", email)
		}
		return nil, fmt.Errorf("failed to get seller by email %s: %w", email, err)
	}
	return &seller, nil
}

// GetByID retrieves a seller by id.
func (r *GORMSellerRepository) GetByID(id string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("seller %s", id)
		}
		return nil, fmt.Errorf("failed to get seller %s: %w", id, err)
	}
	return &seller, nil
}
