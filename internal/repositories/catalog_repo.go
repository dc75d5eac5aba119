package repositories

import "quickbite/internal/models"

// MenuFilter narrows menu item listings.
type MenuFilter struct {
	CafeteriaID string
	CollegeID   string
	Category    string
	VegOnly     bool
}

// CatalogRepository defines read access to colleges and menu items, plus the
// seller-side menu writes. The order core consumes only the reads.
type CatalogRepository interface {
	ListColleges() ([]models.College, error)
	GetCollege(id string) (*models.College, error)
	ListMenuItems(filter MenuFilter) ([]models.MenuItem, error)
	GetMenuItem(id string) (*models.MenuItem, error)
	CreateMenuItem(item *models.MenuItem) error
	UpdateMenuItem(item *models.MenuItem) error
	DeleteMenuItem(id string) error
}
