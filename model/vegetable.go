package model

import "golang.org/x/text/cases"

// Vegetable is a catalog entry that can be ordered. Names are unique ignoring case.
type Vegetable struct {
	Name string `form:"name" gorm:"size:100;not null" validate:"required,max=100"`
	// NameKey is the case-folded Name; the unique index is on this column.
	NameKey string `form:"-" gorm:"column:name_key;not null"`
	ID      uint   `gorm:"primaryKey"`
}

// Validate checks the vegetable's fields and returns nil when all of them are acceptable.
func (v Vegetable) Validate() FieldErrors {
	return validateStruct(v)
}

// FoldName returns the key two names share when they differ only in case,
// using full Unicode case folding ("JALAPEÑO" and "jalapeño" fold alike).
func FoldName(name string) string {
	return cases.Fold().String(name)
}
