package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/dattatraygorde/Order-Taking-System/model"
	"github.com/dattatraygorde/Order-Taking-System/tracker"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrEmptyOrder is returned when an order without items is about to be stored.
var ErrEmptyOrder = errors.New("order has no items")

// OrderStore persists orders together with their items.
type OrderStore struct {
	gdb    *gorm.DB
	logger *zap.Logger
}

// NewOrderStore returns a store over gdb.
func NewOrderStore(gdb *gorm.DB, logger *zap.Logger) *OrderStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderStore{gdb: gdb, logger: logger}
}

// Create inserts o and all of its items in one transaction and sets their IDs.
// Only CustomerID and each item's VegetableID are written; the embedded
// Customer and Vegetable values are not saved.
func (s *OrderStore) Create(ctx context.Context, o *model.Order) error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("create order: quantity %d for vegetable %d: must be positive", item.Quantity, item.VegetableID)
		}
	}

	o.ID = 0
	o.Customer = model.Customer{}
	for i := range o.Items {
		o.Items[i].ID = 0
		o.Items[i].OrderID = 0
		o.Items[i].Vegetable = model.Vegetable{}
	}

	uow := tracker.New(s.gdb)
	uow.Add(o)
	uow.AfterCommit(func() {
		s.logger.Info("order created",
			zap.Uint("order_id", o.ID),
			zap.Uint("customer_id", o.CustomerID),
			zap.Stringer("order_date", o.OrderDate),
			zap.Int("items", len(o.Items)),
		)
	})
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("create order: %w", translate(err))
	}
	return nil
}

// Get loads an order with its customer and items (each with its vegetable).
func (s *OrderStore) Get(ctx context.Context, id uint) (model.Order, error) {
	var o model.Order
	err := s.preloaded(ctx).First(&o, id).Error
	if err != nil {
		return model.Order{}, fmt.Errorf("get order %d: %w", id, translate(err))
	}
	return o, nil
}

// ListByDate returns the orders placed on day, oldest first, fully loaded.
func (s *OrderStore) ListByDate(ctx context.Context, day model.Date) ([]model.Order, error) {
	var out []model.Order
	err := s.preloaded(ctx).Where("order_date = ?", day).Order("id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", day, err)
	}
	return out, nil
}

// SummarizeByDate sums item quantities per vegetable name across every order
// placed on day, sorted ascending by vegetable name.
func (s *OrderStore) SummarizeByDate(ctx context.Context, day model.Date) ([]model.VegetableSummary, error) {
	var out []model.VegetableSummary
	err := s.gdb.WithContext(ctx).
		Table("order_items AS oi").
		Select("v.name AS vegetable_name, SUM(oi.quantity) AS total_quantity").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN vegetables v ON v.id = oi.vegetable_id").
		Where("o.order_date = ?", day).
		Group("v.name").
		Order("v.name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("summarize orders for %s: %w", day, err)
	}
	return out, nil
}

// Delete removes order id and its items in one transaction.
func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	var o model.Order
	if err := s.gdb.WithContext(ctx).Select("id").First(&o, id).Error; err != nil {
		return fmt.Errorf("delete order %d: %w", id, translate(err))
	}

	uow := tracker.New(s.gdb)
	uow.Do(func(tx tracker.Tx) error {
		_, err := tx.Delete(&model.OrderItem{}, "order_id = ?", o.ID)
		return err
	})
	uow.RegisterDelete(&o)
	uow.AfterCommit(func() {
		s.logger.Info("order deleted", zap.Uint("order_id", id))
	})
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("delete order %d: %w", id, translate(err))
	}
	return nil
}

func (s *OrderStore) preloaded(ctx context.Context) *gorm.DB {
	return s.gdb.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Vegetable")
}
