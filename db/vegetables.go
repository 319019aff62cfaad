package db

import (
	"context"
	"fmt"

	"github.com/dattatraygorde/Order-Taking-System/model"
	"gorm.io/gorm"
)

// VegetableStore persists the vegetable catalog.
type VegetableStore struct {
	gdb *gorm.DB
}

// NewVegetableStore returns a store over gdb.
func NewVegetableStore(gdb *gorm.DB) *VegetableStore {
	return &VegetableStore{gdb: gdb}
}

// List returns the whole catalog ordered by id.
func (s *VegetableStore) List(ctx context.Context) ([]model.Vegetable, error) {
	var out []model.Vegetable
	if err := s.gdb.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list vegetables: %w", err)
	}
	return out, nil
}

// Get loads a vegetable by id.
func (s *VegetableStore) Get(ctx context.Context, id uint) (model.Vegetable, error) {
	var v model.Vegetable
	if err := s.gdb.WithContext(ctx).First(&v, id).Error; err != nil {
		return model.Vegetable{}, fmt.Errorf("get vegetable %d: %w", id, translate(err))
	}
	return v, nil
}

// NameExists reports whether a vegetable with this name, ignoring case, is stored.
func (s *VegetableStore) NameExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := s.gdb.WithContext(ctx).Model(&model.Vegetable{}).
		Where("name_key = ?", model.FoldName(name)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check vegetable name: %w", err)
	}
	return n > 0, nil
}

// Count returns the catalog size.
func (s *VegetableStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.gdb.WithContext(ctx).Model(&model.Vegetable{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count vegetables: %w", err)
	}
	return n, nil
}

// Create inserts v and sets its ID. A taken name yields ErrDuplicate.
func (s *VegetableStore) Create(ctx context.Context, v *model.Vegetable) error {
	v.ID = 0
	v.NameKey = model.FoldName(v.Name)
	if err := s.gdb.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create vegetable: %w", translate(err))
	}
	return nil
}

// Update renames vegetable v.ID.
func (s *VegetableStore) Update(ctx context.Context, v *model.Vegetable) error {
	v.NameKey = model.FoldName(v.Name)
	res := s.gdb.WithContext(ctx).Model(&model.Vegetable{ID: v.ID}).
		Updates(map[string]any{"name": v.Name, "name_key": v.NameKey})
	if res.Error != nil {
		return fmt.Errorf("update vegetable %d: %w", v.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update vegetable %d: %w", v.ID, ErrNotFound)
	}
	return nil
}

// Delete removes vegetable id. Deleting a missing id is not an error;
// a vegetable on existing order items yields ErrInUse.
func (s *VegetableStore) Delete(ctx context.Context, id uint) error {
	if err := s.gdb.WithContext(ctx).Delete(&model.Vegetable{}, id).Error; err != nil {
		return fmt.Errorf("delete vegetable %d: %w", id, translate(err))
	}
	return nil
}
