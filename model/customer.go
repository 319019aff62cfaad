package model

import "time"

// Customer is a person orders are taken for. Email is unique across all customers.
type Customer struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	FirstName string `form:"firstName" gorm:"size:255;not null"  validate:"required,max=255"`
	LastName  string `form:"lastName"  gorm:"size:255;not null"  validate:"required,max=255"`
	Email     string `form:"email"     gorm:"size:255;not null"  validate:"required,email,max=255"`
	Address   string `form:"address"   gorm:"size:1000;not null" validate:"required,max=1000"`

	ID uint `gorm:"primaryKey"`
}

// FullName joins first and last name for display.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Validate checks the customer's fields and returns nil when all of them are acceptable.
func (c Customer) Validate() FieldErrors {
	return validateStruct(c)
}
