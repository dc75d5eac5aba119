package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{db: db}
}

// ListColleges returns every college.
func (r *GORMCatalogRepository) ListColleges() ([]models.College, error) {
	var colleges []models.College
	if err := r.db.Find(&colleges).Error; err != nil {
		return nil, fmt.Errorf("failed to list colleges: %w", err)
	}
	return colleges, nil
}

// GetCollege retrieves a college by id.
func (r *GORMCatalogRepository) GetCollege(id string) (*models.College, error) {
	var college models.College
	if err := r.db.First(&college, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("college %s", id)
		}
		return nil, fmt.Errorf("failed to get college %s: %w", id, err)
	}
	return &college, nil
}

// ListMenuItems returns menu items matching the filter.
func (r *GORMCatalogRepository) ListMenuItems(filter MenuFilter) ([]models.MenuItem, error) {
	q := r.db.Model(&models.MenuItem{})
	if filter.CafeteriaID != "" {
		q = q.Where("cafeteria_id = ?", filter.CafeteriaID)
	}
	if filter.CollegeID != "" {
		q = q.Where("college_id = ?", filter.CollegeID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.VegOnly {
		q = q.Where("is_veg = ?", true)
	}

	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// GetMenuItem retrieves a menu item by id.
func (r *GORMCatalogRepository) GetMenuItem(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("menu item %s", id)
		}
		return nil, fmt.Errorf("failed to get menu item %s: %w", id, err)
	}
	return &item, nil
}

// CreateMenuItem inserts a new menu item.
func (r *GORMCatalogRepository) CreateMenuItem(item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// UpdateMenuItem saves all fields of an existing menu item.
func (r *GORMCatalogRepository) UpdateMenuItem(item *models.MenuItem) error {
	res := r.db.Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update menu item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("menu item %s", item.ID)
	}
	return nil
}

// DeleteMenuItem removes a menu item by id.
func (r *GORMCatalogRepository) DeleteMenuItem(id string) error {
	res := r.db.Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("menu item %s", id)
	}
	return nil
}
