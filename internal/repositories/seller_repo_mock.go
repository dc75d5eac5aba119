package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
)

// MockSellerRepository is an in-memory implementation of SellerRepository.
type MockSellerRepository struct {
	sellers map[string]models.Seller
	mu      sync.RWMutex
}

// NewMockSellerRepository creates a new instance of MockSellerRepository.
func NewMockSellerRepository() *MockSellerRepository {
	return &MockSellerRepository{sellers: make(map[string]models.Seller)}
}

// Create adds a new seller.
func (r *MockSellerRepository) Create(seller *models.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seller.ID == "" {
		seller.ID = uuid.New().String()
	}
	for _, s := range r.sellers {
		if s.Email == seller.Email {
			return apperrors.Conflictf("seller with email %s already exists", seller.Email)
		}
	}
	seller.CreatedAt = time.Now()
	seller.UpdatedAt = seller.CreatedAt
	r.sellers[seller.ID] = *seller
	return nil
}

// GetByEmail returns a seller by email.
func (r *MockSellerRepository) GetByEmail(email string) (*models.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sellers {
		if s.Email == email {
			out := s
			return &out, nil
		}
	}
	return nil, apperrors.NotFoundf("seller with email %s", email)
}

// GetByID returns a seller by id.
func (r *MockSellerRepository) GetByID(id string) (*models.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seller, ok := r.sellers[id]
	if !ok {
		return nil, apperrors.NotFoundf("seller %s", id)
	}
	return &seller, nil
}

// credit increments the seller's completed-order counters. Called by the
// mock order repository as part of pickup completion.
func (r *MockSellerRepository) credit(sellerID string, revenue float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seller, ok := r.sellers[sellerID]
	if !ok {
		return apperrors.NotFoundf("seller %s", sellerID)
	}
	seller.TotalOrders++
	seller.TotalRevenue += revenue
	seller.UpdatedAt = time.Now()
	r.sellers[sellerID] = seller
	return nil
}
