package models

import "time"

// Seller is a cafeteria operator account. CollegeID is the cafeteria binding:
// an order belongs to this seller only when the order's cafeteria id matches
// it, and every seller-facing read/write enforces that match.
type Seller struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name              string    `json:"name" validate:"required,min=2,max=100"`
	Email             string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password          string    `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Phone             string    `json:"phone" gorm:"type:varchar(20)" validate:"required"`
	CollegeID         string    `json:"college_id" gorm:"index;type:varchar(36)" validate:"required"`
	CafeteriaName     string    `json:"cafeteria_name" validate:"required"`
	CafeteriaLocation string    `json:"cafeteria_location"`
	Description       string    `json:"description"`
	Role              string    `json:"role" gorm:"type:varchar(16)"`
	Status            string    `json:"status" gorm:"type:varchar(16)"`
	Verified          bool      `json:"verified"`
	Rating            float64   `json:"rating"`
	TotalOrders       int64     `json:"total_orders"`
	TotalRevenue      float64   `json:"total_revenue"`
	OpeningTime       string    `json:"opening_time" gorm:"type:varchar(8)"`
	ClosingTime       string    `json:"closing_time" gorm:"type:varchar(8)"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BoundTo reports whether an order for cafeteriaID may be managed by s.
func (s *Seller) BoundTo(cafeteriaID string) bool {
	return s.CollegeID == cafeteriaID
}
