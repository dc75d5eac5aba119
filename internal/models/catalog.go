package models

import "gorm.io/gorm"

// College groups cafeterias on a single campus.
type College struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string `json:"name" validate:"required"`
	City       string `json:"city"`
	State      string `json:"state"`
	gorm.Model `json:"-"`
}

// MenuItem is a purchasable catalog entry. The order core reads only Price,
// Name and Available; everything else is listing metadata.
type MenuItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CafeteriaID string  `json:"cafeteria_id" gorm:"index;type:varchar(36)" validate:"required"`
	CollegeID   string  `json:"college_id" gorm:"index;type:varchar(36)"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category"`
	IsVeg       bool    `json:"is_veg"`
	Image       string  `json:"image"`
	Available   bool    `json:"available"`
	gorm.Model  `json:"-"`
}
