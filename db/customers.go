package db

import (
	"context"
	"fmt"

	"github.com/dattatraygorde/Order-Taking-System/model"
	"gorm.io/gorm"
)

// CustomerStore persists customers.
type CustomerStore struct {
	gdb *gorm.DB
}

// NewCustomerStore returns a store over gdb.
func NewCustomerStore(gdb *gorm.DB) *CustomerStore {
	return &CustomerStore{gdb: gdb}
}

// List returns every customer ordered by id.
func (s *CustomerStore) List(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	if err := s.gdb.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

// Get loads a customer by id.
func (s *CustomerStore) Get(ctx context.Context, id uint) (model.Customer, error) {
	var c model.Customer
	if err := s.gdb.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Customer{}, fmt.Errorf("get customer %d: %w", id, translate(err))
	}
	return c, nil
}

// EmailExists reports whether a customer with exactly this email is stored.
func (s *CustomerStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.gdb.WithContext(ctx).Model(&model.Customer{}).Where("email = ?", email).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check customer email: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of stored customers.
func (s *CustomerStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.gdb.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// Create inserts c and sets its ID and CreatedAt. A taken email yields ErrDuplicate.
func (s *CustomerStore) Create(ctx context.Context, c *model.Customer) error {
	c.ID = 0
	if err := s.gdb.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create customer: %w", translate(err))
	}
	return nil
}

// Update overwrites the editable fields of customer c.ID. CreatedAt is never changed.
func (s *CustomerStore) Update(ctx context.Context, c *model.Customer) error {
	res := s.gdb.WithContext(ctx).
		Model(&model.Customer{ID: c.ID}).
		Select("FirstName", "LastName", "Email", "Address").
		Updates(c)
	if res.Error != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update customer %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

// Delete removes customer id. Deleting a missing id is not an error;
// a customer that still has orders yields ErrInUse.
func (s *CustomerStore) Delete(ctx context.Context, id uint) error {
	if err := s.gdb.WithContext(ctx).Delete(&model.Customer{}, id).Error; err != nil {
		return fmt.Errorf("delete customer %d: %w", id, translate(err))
	}
	return nil
}
