package services

import (
	"quickbite/internal/apperrors"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
)

// CatalogService handles college and menu listings plus seller menu writes.
type CatalogService struct {
	repo       repositories.CatalogRepository
	sellerRepo repositories.SellerRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, sellerRepo repositories.SellerRepository) *CatalogService {
	return &CatalogService{repo: repo, sellerRepo: sellerRepo}
}

// ListColleges retrieves all colleges.
func (s *CatalogService) ListColleges() ([]models.College, error) {
	return s.repo.ListColleges()
}

// GetCollege retrieves a single college by its ID.
func (s *CatalogService) GetCollege(id string) (*models.College, error) {
	return s.repo.GetCollege(id)
}

// ListMenuItems retrieves menu items matching the filter.
func (s *CatalogService) ListMenuItems(filter repositories.MenuFilter) ([]models.MenuItem, error) {
	return s.repo.ListMenuItems(filter)
}

// GetMenuItem retrieves a single menu item by its ID.
func (s *CatalogService) GetMenuItem(id string) (*models.MenuItem, error) {
	return s.repo.GetMenuItem(id)
}

// CreateMenuItem creates a menu item on behalf of a seller. The item is
// stamped with the seller's cafeteria and college binding.
func (s *CatalogService) CreateMenuItem(sellerID string, item *models.MenuItem) error {
	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return err
	}
	if item.Name == "" || item.Price <= 0 {
		return apperrors.Validationf("item name and a positive price are required")
	}
	item.CafeteriaID = seller.CollegeID
	item.CollegeID = seller.CollegeID
	return s.repo.CreateMenuItem(item)
}

// UpdateMenuItem updates a menu item; the seller must own it.
func (s *CatalogService) UpdateMenuItem(sellerID string, item *models.MenuItem) error {
	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return err
	}
	existing, err := s.repo.GetMenuItem(item.ID)
	if err != nil {
		return err
	}
	if !seller.BoundTo(existing.CafeteriaID) {
		return apperrors.Forbiddenf("menu item does not belong to your cafeteria")
	}
	item.CafeteriaID = existing.CafeteriaID
	item.CollegeID = existing.CollegeID
	return s.repo.UpdateMenuItem(item)
}

// DeleteMenuItem removes a menu item; the seller must own it.
func (s *CatalogService) DeleteMenuItem(sellerID, id string) error {
	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return err
	}
	existing, err := s.repo.GetMenuItem(id)
	if err != nil {
		return err
	}
	if !seller.BoundTo(existing.CafeteriaID) {
		return apperrors.Forbiddenf("menu item does not belong to your cafeteria")
	}
	return s.repo.DeleteMenuItem(id)
}
