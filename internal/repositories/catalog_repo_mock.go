package repositories

import (
	"sync"

	"github.com/google/uuid"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
)

// MockCatalogRepository is an in-memory implementation of CatalogRepository.
type MockCatalogRepository struct {
	colleges map[string]models.College
	items    map[string]models.MenuItem
	mu       sync.RWMutex
}

// NewMockCatalogRepository creates a new instance of MockCatalogRepository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		colleges: make(map[string]models.College),
		items:    make(map[string]models.MenuItem),
	}
}

// AddCollege seeds a college into the mock store.
func (r *MockCatalogRepository) AddCollege(college models.College) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if college.ID == "" {
		college.ID = uuid.New().String()
	}
	r.colleges[college.ID] = college
}

// ListColleges returns every college.
func (r *MockCatalogRepository) ListColleges() ([]models.College, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	colleges := make([]models.College, 0, len(r.colleges))
	for _, c := range r.colleges {
		colleges = append(colleges, c)
	}
	return colleges, nil
}

// GetCollege returns a college by id.
func (r *MockCatalogRepository) GetCollege(id string) (*models.College, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	college, ok := r.colleges[id]
	if !ok {
		return nil, apperrors.NotFoundf("college %s", id)
	}
	return &college, nil
}

// ListMenuItems returns menu items matching the filter.
func (r *MockCatalogRepository) ListMenuItems(filter MenuFilter) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.MenuItem, 0)
	for _, item := range r.items {
		if filter.CafeteriaID != "" && item.CafeteriaID != filter.CafeteriaID {
			continue
		}
		if filter.CollegeID != "" && item.CollegeID != filter.CollegeID {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.VegOnly && !item.IsVeg {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetMenuItem returns a menu item by id.
func (r *MockCatalogRepository) GetMenuItem(id string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFoundf("menu item %s", id)
	}
	return &item, nil
}

// CreateMenuItem adds a new menu item.
func (r *MockCatalogRepository) CreateMenuItem(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

// UpdateMenuItem modifies an existing menu item.
func (r *MockCatalogRepository) UpdateMenuItem(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return apperrors.NotFoundf("menu item %s", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// DeleteMenuItem removes a menu item by id.
func (r *MockCatalogRepository) DeleteMenuItem(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return apperrors.NotFoundf("menu item %s", id)
	}
	delete(r.items, id)
	return nil
}
