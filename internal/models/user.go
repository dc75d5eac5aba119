package models

import "gorm.io/gorm"

// User is a customer account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Phone      string `json:"phone" gorm:"type:varchar(20)"`
	CollegeID  string `json:"college_id" gorm:"type:varchar(36)"`
	Role       string `json:"role" gorm:"type:varchar(16)"`
	gorm.Model `json:"-"`
}
